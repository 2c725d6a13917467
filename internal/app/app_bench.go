package app

// ─────────────────────────────────────────────────────────────
// Bench Handlers — thin delegates to the session and BenchService
// ─────────────────────────────────────────────────────────────

import (
	"benchboard/internal/domain"
	"benchboard/internal/sandbox"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// ── Benches ────────────────────────────────────────────────

func (a *App) ListBenches() ([]domain.Bench, error) {
	return a.rt.Benches.ListBenches()
}

func (a *App) CreateBench(name string) (*domain.Bench, error) {
	b, err := a.rt.Benches.Create(a.ctx, name)
	if err != nil {
		return nil, err
	}
	return a.OpenBench(b.ID)
}

// OpenBench saves the current bench and opens id in its place.
func (a *App) OpenBench(id string) (*domain.Bench, error) {
	if err := a.rt.Benches.Save(a.ctx); err != nil {
		wailsRuntime.LogWarningf(a.ctx, "[OpenBench] save before switch: %v", err)
	}
	wailsRuntime.LogInfof(a.ctx, "[OpenBench] loading bench: %s", id)
	return a.rt.Benches.Open(a.ctx, id)
}

func (a *App) SaveBench() error {
	return a.rt.Benches.Save(a.ctx)
}

func (a *App) ResetBench() error {
	return a.rt.Benches.ResetToTemplate(a.ctx)
}

func (a *App) GetBenchState() sandbox.State {
	return a.rt.Session.State()
}

// ── Surface ────────────────────────────────────────────────

// ResizeSurface reports where the surface container sits in the window.
func (a *App) ResizeSurface(x, y, width, height float64) {
	a.rt.Session.Resize(domain.Point{X: x, Y: y}, width, height)
}

func (a *App) PointerDown(x, y float64, button int) {
	a.rt.Session.PointerDown(domain.Point{X: x, Y: y}, sandbox.Button(button))
}

func (a *App) PointerMove(x, y float64) {
	a.rt.Session.PointerMove(domain.Point{X: x, Y: y})
}

func (a *App) PointerUp(x, y float64) {
	a.rt.Session.PointerUp(domain.Point{X: x, Y: y})
}

func (a *App) OpenMenu(x, y float64) *sandbox.Menu {
	return a.rt.Session.OpenMenu(domain.Point{X: x, Y: y})
}

func (a *App) CloseMenu() {
	a.rt.Session.CloseMenu()
}

// ── Blocks ─────────────────────────────────────────────────

func (a *App) InsertBlock(kind string) (domain.Block, error) {
	return a.rt.Session.Insert(domain.Kind(kind))
}

func (a *App) DeleteBlock(blockID string) error {
	return a.rt.Session.Delete(blockID)
}

func (a *App) GetPins(blockID string) ([]domain.Pin, error) {
	return a.rt.Session.Pins(blockID)
}

func (a *App) ToggleSwitch(blockID string, index int) error {
	return a.rt.Session.Toggle(blockID, index)
}

func (a *App) PressButton(blockID string, index int, down bool) error {
	return a.rt.Session.Press(blockID, index, down)
}

// ── Wiring ─────────────────────────────────────────────────

func (a *App) ClickPin(pinID string) {
	a.rt.Session.ClickPin(pinID)
}

func (a *App) GetLinks() []sandbox.Link {
	return a.rt.Session.Links()
}

// SetBoardOutput relays a level reported by the attached board.
func (a *App) SetBoardOutput(pin int, value string) error {
	var v domain.Signal
	if err := v.UnmarshalText([]byte(value)); err != nil {
		return err
	}
	return a.rt.Session.SetBoardOutput(pin, v)
}
