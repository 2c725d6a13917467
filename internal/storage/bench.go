package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"benchboard/internal/domain"
)

// BenchStore implements domain.BenchStore.
type BenchStore struct {
	db *DB
}

func NewBenchStore(db *DB) *BenchStore {
	return &BenchStore{db: db}
}

func (s *BenchStore) CreateBench(b *domain.Bench) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := s.db.conn.Exec(
		s.db.rebind(`INSERT INTO benches (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`),
		b.ID, b.Name, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create bench: %w", err)
	}
	return nil
}

func (s *BenchStore) GetBench(id string) (*domain.Bench, error) {
	b := &domain.Bench{}
	err := s.db.conn.QueryRow(
		s.db.rebind(`SELECT id, name, created_at, updated_at FROM benches WHERE id = ?`), id,
	).Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get bench %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bench: %w", err)
	}
	return b, nil
}

// ListBenches returns benches, most recently updated first.
func (s *BenchStore) ListBenches() ([]domain.Bench, error) {
	rows, err := s.db.conn.Query(`SELECT id, name, created_at, updated_at FROM benches ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var benches []domain.Bench
	for rows.Next() {
		var b domain.Bench
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		benches = append(benches, b)
	}
	return benches, rows.Err()
}

func (s *BenchStore) TouchBench(id string) error {
	res, err := s.db.conn.Exec(s.db.rebind(`UPDATE benches SET updated_at = ? WHERE id = ?`), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch bench: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("touch bench %s: %w", id, ErrNotFound)
	}
	return nil
}
