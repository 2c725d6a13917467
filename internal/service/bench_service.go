package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"benchboard/internal/domain"
	"benchboard/internal/sandbox"
	"benchboard/internal/storage"
	"benchboard/internal/templates"
)

// Events emitted by BenchService.
const (
	EventOpened   = "bench:opened"
	EventSaved    = "bench:saved"
	EventTemplate = "bench:template"
)

// ErrSaveInProgress is returned when a save of the same bench is running.
var ErrSaveInProgress = errors.New("save already in progress")

// ─────────────────────────────────────────────────────────────
// Bench Service — persistence around a sandbox session
// ─────────────────────────────────────────────────────────────

// BenchService opens benches into a session and saves them back. Only the
// block list is stored; wires live as long as the session.
type BenchService struct {
	benches domain.BenchStore
	blocks  domain.BlockStore
	session *sandbox.Session
	emitter EventEmitter
	logger  *log.Logger

	mu        sync.Mutex
	template  []domain.Block
	cronSched *cron.Cron
	watcher   *templates.Watcher
	saving    map[string]bool // bench ids with a save in flight

	inflight sync.WaitGroup
}

// NewBenchService creates a BenchService seeding new benches with the
// default layout.
func NewBenchService(benches domain.BenchStore, blocks domain.BlockStore, session *sandbox.Session, emitter EventEmitter, logger *log.Logger) *BenchService {
	if logger == nil {
		logger = log.Default()
	}
	if emitter == nil {
		emitter = EmitterFunc(func(context.Context, string, any) {})
	}
	return &BenchService{
		benches:  benches,
		blocks:   blocks,
		session:  session,
		emitter:  emitter,
		logger:   logger,
		template: sandbox.DefaultTemplate(session.Grid()),
	}
}

// Session is the surface benches are opened into.
func (s *BenchService) Session() *sandbox.Session { return s.session }

// SetTemplate replaces the block list new benches start with.
func (s *BenchService) SetTemplate(blocks []domain.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = append([]domain.Block(nil), blocks...)
}

// Template returns a copy of the seed block list without ids.
func (s *BenchService) Template() []domain.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Block, len(s.template))
	for i, b := range s.template {
		b.ID = ""
		out[i] = b
	}
	return out
}

func (s *BenchService) ListBenches() ([]domain.Bench, error) {
	return s.benches.ListBenches()
}

// Create stores a new bench seeded from the template.
func (s *BenchService) Create(ctx context.Context, name string) (*domain.Bench, error) {
	b := &domain.Bench{Name: name}
	if err := s.benches.CreateBench(b); err != nil {
		return nil, err
	}
	if err := s.blocks.ReplaceBenchBlocks(b.ID, s.seed(b.ID)); err != nil {
		return nil, fmt.Errorf("seed bench: %w", err)
	}
	s.logger.Info("bench created", "bench", b.ID, "name", name)
	return b, nil
}

// Open loads a bench into the session. An empty id opens the most recently
// used bench, creating one when none exists. A stored bench without blocks
// is seeded from the template.
func (s *BenchService) Open(ctx context.Context, benchID string) (*domain.Bench, error) {
	bench, err := s.resolve(ctx, benchID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blocks.ListBlocks(bench.ID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	if len(blocks) == 0 {
		blocks = s.seed(bench.ID)
	}
	if err := s.session.Load(bench.ID, blocks); err != nil {
		return nil, err
	}
	s.logger.Info("bench opened", "bench", bench.ID, "blocks", len(blocks))
	s.emitter.Emit(ctx, EventOpened, bench)
	return bench, nil
}

func (s *BenchService) resolve(ctx context.Context, benchID string) (*domain.Bench, error) {
	if benchID != "" {
		return s.benches.GetBench(benchID)
	}
	list, err := s.benches.ListBenches()
	if err != nil {
		return nil, fmt.Errorf("list benches: %w", err)
	}
	if len(list) > 0 {
		return &list[0], nil
	}
	return s.Create(ctx, "Bench")
}

func (s *BenchService) seed(benchID string) []domain.Block {
	blocks := s.Template()
	for i := range blocks {
		blocks[i].ID = uuid.New().String()
		blocks[i].BenchID = benchID
	}
	return blocks
}

// Save writes the session's block list to the open bench.
func (s *BenchService) Save(ctx context.Context) error {
	benchID := s.session.BenchID()
	if benchID == "" {
		return errors.New("no bench open")
	}
	if s.session.Closed() {
		return sandbox.ErrClosed
	}
	if !s.beginSave(benchID) {
		return ErrSaveInProgress
	}
	defer s.endSave(benchID)

	blocks := s.session.Blocks()
	if err := s.blocks.ReplaceBenchBlocks(benchID, blocks); err != nil {
		return fmt.Errorf("save blocks: %w", err)
	}
	if err := s.benches.TouchBench(benchID); err != nil {
		return err
	}
	s.logger.Debug("bench saved", "bench", benchID, "blocks", len(blocks))
	s.emitter.Emit(ctx, EventSaved, benchID)
	return nil
}

// beginSave claims benchID so an autosave tick and a manual save never write
// the same bench at once.
func (s *BenchService) beginSave(benchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving[benchID] {
		return false
	}
	if s.saving == nil {
		s.saving = make(map[string]bool)
	}
	s.saving[benchID] = true
	s.inflight.Add(1)
	return true
}

func (s *BenchService) endSave(benchID string) {
	s.mu.Lock()
	delete(s.saving, benchID)
	s.mu.Unlock()
	s.inflight.Done()
}

// waitSaves blocks until saves in flight finish or ctx is done.
func (s *BenchService) waitSaves(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// ResetToTemplate replaces the open bench's blocks with the template. Wires
// are dropped with the old blocks.
func (s *BenchService) ResetToTemplate(ctx context.Context) error {
	benchID := s.session.BenchID()
	if err := s.session.Load(benchID, s.seed(benchID)); err != nil {
		return err
	}
	return s.Save(ctx)
}

// ── Autosave ──

// StartAutosave saves the open bench on a cron schedule. An empty schedule
// does nothing.
func (s *BenchService) StartAutosave(ctx context.Context, schedule string) error {
	if schedule == "" {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		err := s.Save(ctx)
		switch {
		case errors.Is(err, ErrSaveInProgress):
			s.logger.Debug("autosave skipped, save in progress")
		case err != nil:
			s.logger.Error("autosave failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("autosave schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	if s.cronSched != nil {
		s.cronSched.Stop()
	}
	s.cronSched = c
	s.mu.Unlock()

	c.Start()
	s.logger.Info("autosave scheduled", "schedule", schedule)
	return nil
}

// ── Template hot reload ──

// WatchTemplate loads the template at path and follows later edits. Benches
// created afterwards use the latest valid version.
func (s *BenchService) WatchTemplate(ctx context.Context, path string, watch bool) error {
	f, err := templates.LoadFile(path)
	if err != nil {
		return err
	}
	s.SetTemplate(f.Blocks)
	if !watch {
		return nil
	}

	w, err := templates.Watch(path, func(f templates.File) {
		s.SetTemplate(f.Blocks)
		s.emitter.Emit(ctx, EventTemplate, f.Name)
	}, s.logger)
	if err != nil {
		return err
	}
	s.mu.Lock()
	old := s.watcher
	s.watcher = w
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Close stops autosave and the template watcher, then saves one last time.
func (s *BenchService) Close(ctx context.Context) error {
	s.mu.Lock()
	c, w := s.cronSched, s.watcher
	s.cronSched, s.watcher = nil, nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	if w != nil {
		w.Close()
	}
	s.waitSaves(ctx)

	if s.session.BenchID() == "" {
		return nil
	}
	err := s.Save(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}
