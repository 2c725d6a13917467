// Package templates reads and writes bench templates: TOML files listing the
// blocks a new bench starts with.
//
//	name = "lab"
//
//	[[block]]
//	kind = "FPGA"
//	x = 0
//	y = 0
//	persistent = true
package templates

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"benchboard/internal/catalog"
	"benchboard/internal/domain"
)

type File struct {
	Name   string         `toml:"name"`
	Blocks []domain.Block `toml:"block"`
}

// Parse decodes a template and checks every kind against the catalog.
func Parse(data []byte) (File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("decode template: %w", err)
	}
	for i, b := range f.Blocks {
		if !b.Kind.Valid() {
			return File{}, fmt.Errorf("template block %d: %w: %q", i, catalog.ErrUnknownKind, b.Kind)
		}
	}
	return f, nil
}

func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read template: %w", err)
	}
	return Parse(data)
}

// Encode writes blocks as a template. Ids are dropped so every bench seeded
// from it gets fresh ones.
func Encode(w io.Writer, name string, blocks []domain.Block) error {
	f := File{Name: name, Blocks: make([]domain.Block, len(blocks))}
	for i, b := range blocks {
		f.Blocks[i] = domain.Block{Kind: b.Kind, X: b.X, Y: b.Y, Persistent: b.Persistent}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
