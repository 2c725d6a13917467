package sandbox

import (
	"benchboard/internal/domain"
	"benchboard/internal/layout"
)

// DefaultTemplate is the layout every new bench starts with: the persistent
// FPGA in the corner and one of each peripheral around it.
func DefaultTemplate(grid int) []domain.Block {
	if grid <= 0 {
		grid = layout.DefaultGrid
	}
	return []domain.Block{
		{Kind: domain.KindFPGA, X: 0, Y: 0, Persistent: true},
		{Kind: domain.KindSwitch4, X: 0, Y: grid},
		{Kind: domain.KindDigit4, X: grid, Y: 0},
		{Kind: domain.KindDigit7, X: 2 * grid, Y: 0},
		{Kind: domain.KindClock, X: grid, Y: grid},
	}
}
