package storage_test

import (
	"errors"
	"testing"

	"benchboard/internal/domain"
	"benchboard/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, "", t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := storage.Open("oracle", "", t.TempDir())
	if !errors.Is(err, storage.ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestOpen_MigratesTwice(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		db, err := storage.Open(storage.DriverSQLite, "", dir)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestBenchStore_CreateGetTouch(t *testing.T) {
	benches := storage.NewBenchStore(openTestDB(t))

	b := &domain.Bench{Name: "lab 1"}
	if err := benches.CreateBench(b); err != nil {
		t.Fatal(err)
	}
	if b.ID == "" {
		t.Fatal("expected generated id")
	}
	got, err := benches.GetBench(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "lab 1" {
		t.Errorf("name = %q", got.Name)
	}
	if err := benches.TouchBench(b.ID); err != nil {
		t.Errorf("touch: %v", err)
	}

	list, err := benches.ListBenches()
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}
}

func TestBenchStore_NotFound(t *testing.T) {
	benches := storage.NewBenchStore(openTestDB(t))
	if _, err := benches.GetBench("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get: %v", err)
	}
	if err := benches.TouchBench("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("touch: %v", err)
	}
}

func TestBlockStore_ReplaceKeepsOrder(t *testing.T) {
	db := openTestDB(t)
	bench := &domain.Bench{Name: "order"}
	if err := storage.NewBenchStore(db).CreateBench(bench); err != nil {
		t.Fatal(err)
	}
	blocks := storage.NewBlockStore(db)

	first := []domain.Block{
		{ID: "a", Kind: domain.KindFPGA, Persistent: true},
		{ID: "b", Kind: domain.KindSwitch4, X: 0, Y: 175},
	}
	if err := blocks.ReplaceBenchBlocks(bench.ID, first); err != nil {
		t.Fatal(err)
	}
	second := []domain.Block{
		{ID: "c", Kind: domain.KindClock, X: 175, Y: 175},
		{ID: "a", Kind: domain.KindFPGA, Persistent: true},
	}
	if err := blocks.ReplaceBenchBlocks(bench.ID, second); err != nil {
		t.Fatal(err)
	}

	got, err := blocks.ListBlocks(bench.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Fatalf("blocks = %+v", got)
	}
	if got[0].Kind != domain.KindClock || got[0].X != 175 || got[0].Y != 175 || got[0].BenchID != bench.ID {
		t.Errorf("clock block = %+v", got[0])
	}
	if !got[1].Persistent {
		t.Error("FPGA lost persistent flag")
	}

	if err := blocks.DeleteBlocksByBench(bench.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := blocks.ListBlocks(bench.ID); len(got) != 0 {
		t.Errorf("blocks after delete = %+v", got)
	}
}
