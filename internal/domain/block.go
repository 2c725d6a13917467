package domain

import "time"

// Kind selects a block's pin layout and face from the static catalog.
type Kind string

const (
	KindFPGA    Kind = "FPGA"
	KindSwitch4 Kind = "Switch4"
	KindDigit4  Kind = "Digit4"
	KindDigit7  Kind = "Digit7"
	KindClock   Kind = "Clock"
)

// Kinds lists every catalog kind.
func Kinds() []Kind {
	return []Kind{KindFPGA, KindSwitch4, KindDigit4, KindDigit7, KindClock}
}

// Insertable lists the kinds offered by the surface context menu.
func Insertable() []Kind {
	return []Kind{KindSwitch4, KindDigit4, KindDigit7, KindClock}
}

func (k Kind) Valid() bool {
	for _, v := range Kinds() {
		if k == v {
			return true
		}
	}
	return false
}

// Block is a placed component instance.
type Block struct {
	ID         string    `json:"id" toml:"id,omitempty"`
	BenchID    string    `json:"benchId" toml:"-"`
	Kind       Kind      `json:"kind" toml:"kind"`
	X          int       `json:"x" toml:"x"`
	Y          int       `json:"y" toml:"y"`
	Persistent bool      `json:"persistent" toml:"persistent"`
	CreatedAt  time.Time `json:"createdAt" toml:"-"`
	UpdatedAt  time.Time `json:"updatedAt" toml:"-"`
}

func (b Block) Pos() Pos { return Pos{b.X, b.Y} }

type BlockStore interface {
	ListBlocks(benchID string) ([]Block, error)
	ReplaceBenchBlocks(benchID string, blocks []Block) error
	DeleteBlocksByBench(benchID string) error
}
