package service_test

import (
	"context"
	"testing"

	"benchboard/internal/service"
	"benchboard/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// emitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_Named(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()
	m.Emit(ctx, "bench:saved", "a")
	m.Emit(ctx, "bench:wires", nil)
	m.Emit(ctx, "bench:saved", "b")

	got := m.Named("bench:saved")
	if len(got) != 2 || got[0].Data != "a" || got[1].Data != "b" {
		t.Errorf("Named = %+v", got)
	}
	if len(m.Events) != 3 {
		t.Errorf("expected 3 events, got %d", len(m.Events))
	}
}

func TestFanout(t *testing.T) {
	a, b := &service.MockEmitter{}, &service.MockEmitter{}
	service.Fanout{a, nil, b}.Emit(context.Background(), "x", 1)
	if len(a.Events) != 1 || len(b.Events) != 1 {
		t.Errorf("a=%d b=%d", len(a.Events), len(b.Events))
	}
}

// ─────────────────────────────────────────────────────────────
// window settings tests
// ─────────────────────────────────────────────────────────────

func TestWindowSettings_RoundTrip(t *testing.T) {
	db, err := storage.Open(storage.DriverSQLite, "", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	fallback := service.WindowSize{Width: 1280, Height: 800}
	svc := service.NewWindowSettingsService(storage.NewSettingsStore(db), fallback)
	if got := svc.LoadWindowSize(); got != fallback {
		t.Errorf("fresh load = %+v", got)
	}

	if err := svc.SaveWindowSize(1600, 1000); err != nil {
		t.Fatal(err)
	}
	if got := svc.LoadWindowSize(); got != (service.WindowSize{Width: 1600, Height: 1000}) {
		t.Errorf("after save = %+v", got)
	}

	// too small to be usable
	if err := svc.SaveWindowSize(200, 100); err != nil {
		t.Fatal(err)
	}
	if got := svc.LoadWindowSize(); got != fallback {
		t.Errorf("tiny size should fall back, got %+v", got)
	}
}
