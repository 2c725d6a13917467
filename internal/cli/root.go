// Package cli implements the benchboard command-line interface.
//
// The desktop command opens the Wails window; mcp serves the open bench to
// agents over stdio; tui and show drive or print the bench in a terminal;
// bench manages stored benches. Every command reads the same TOML config
// (see internal/config) and logs through charmbracelet/log on stderr.
package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"benchboard/internal/config"
)

var (
	version = "dev" // semantic version (e.g., "v1.2.3")
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	date = d
}

// globals holds state shared by every command after flag parsing.
type globals struct {
	configPath string
	benchID    string
	verbose    bool

	cfg config.Config
}

// Execute runs the benchboard CLI. assets is the built frontend served by
// the desktop command.
func Execute(ctx context.Context, assets fs.FS) error {
	return newRootCmd(&globals{}, assets).ExecuteContext(ctx)
}

func newRootCmd(g *globals, assets fs.FS) *cobra.Command {
	root := &cobra.Command{
		Use:          "benchboard",
		Short:        "Benchboard wires virtual test benches for FPGA boards",
		Long:         `Benchboard is a wiring and layout surface for circuit test benches: place switches, clocks and displays around an FPGA board and wire their pins together.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			g.cfg = cfg
			level := cfg.LogLevel()
			if g.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("benchboard %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVarP(&g.benchID, "bench", "b", "", "bench id to open (default: most recent)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newDesktopCmd(g, assets))
	root.AddCommand(newMCPCmd(g))
	root.AddCommand(newShowCmd(g))
	root.AddCommand(newTUICmd(g))
	root.AddCommand(newBenchCmd(g))

	return root
}
