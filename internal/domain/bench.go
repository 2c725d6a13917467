package domain

import "time"

// Bench is a saved sandbox surface.
type Bench struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BenchStore interface {
	CreateBench(b *Bench) error
	GetBench(id string) (*Bench, error)
	ListBenches() ([]Bench, error)
	TouchBench(id string) error
}
