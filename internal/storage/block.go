package storage

import (
	"fmt"
	"time"

	"benchboard/internal/domain"
)

// BlockStore implements domain.BlockStore. Wires are never stored; only the
// placed blocks survive a save.
type BlockStore struct {
	db *DB
}

func NewBlockStore(db *DB) *BlockStore {
	return &BlockStore{db: db}
}

// ListBlocks returns the blocks of a bench in surface order.
func (s *BlockStore) ListBlocks(benchID string) ([]domain.Block, error) {
	rows, err := s.db.conn.Query(
		s.db.rebind(`SELECT id, bench_id, kind, x, y, persistent, created_at, updated_at FROM blocks WHERE bench_id = ? ORDER BY sort_order ASC`),
		benchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []domain.Block
	for rows.Next() {
		var b domain.Block
		if err := rows.Scan(&b.ID, &b.BenchID, &b.Kind, &b.X, &b.Y, &b.Persistent, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// ReplaceBenchBlocks atomically replaces all blocks of a bench.
func (s *BlockStore) ReplaceBenchBlocks(benchID string, blocks []domain.Block) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.db.rebind(`DELETE FROM blocks WHERE bench_id = ?`), benchID); err != nil {
		return fmt.Errorf("delete blocks: %w", err)
	}

	now := time.Now().UTC()
	insert := s.db.rebind(`INSERT INTO blocks (id, bench_id, kind, x, y, persistent, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, b := range blocks {
		created := b.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := tx.Exec(insert, b.ID, benchID, string(b.Kind), b.X, b.Y, b.Persistent, i, created.UTC(), now); err != nil {
			return fmt.Errorf("insert block %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

func (s *BlockStore) DeleteBlocksByBench(benchID string) error {
	_, err := s.db.conn.Exec(s.db.rebind(`DELETE FROM blocks WHERE bench_id = ?`), benchID)
	return err
}
