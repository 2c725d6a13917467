package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"benchboard/internal/domain"
)

const (
	stateURI   = "bench://state"
	catalogURI = "bench://catalog"
)

func (s *Server) registerResources() {
	// ── bench://state ──────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		stateURI,
		"Bench State",
		mcp.WithResourceDescription("Blocks, wire routes, pending pin and board clock of the open bench"),
		mcp.WithMIMEType("application/json"),
	), s.handleStateResource)

	// ── bench://catalog ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		catalogURI,
		"Block Catalog",
		mcp.WithResourceDescription("Pin layout of every block kind"),
		mcp.WithMIMEType("application/json"),
	), s.handleCatalogResource)
}

func (s *Server) handleStateResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.session.State(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      stateURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

type kindSummary struct {
	Kind       domain.Kind      `json:"kind"`
	Insertable bool             `json:"insertable"`
	Pins       []domain.PinSpec `json:"pins"`
}

func (s *Server) handleCatalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	insertable := make(map[domain.Kind]bool)
	for _, k := range domain.Insertable() {
		insertable[k] = true
	}
	var kinds []kindSummary
	for _, k := range domain.Kinds() {
		pins, err := s.session.PinLayout(k)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kindSummary{Kind: k, Insertable: insertable[k], Pins: pins})
	}

	data, _ := json.MarshalIndent(kinds, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
