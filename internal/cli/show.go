package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	benchApp "benchboard/internal/app"
	"benchboard/internal/domain"
	"benchboard/internal/render"
)

func newShowCmd(g *globals) *cobra.Command {
	var pins string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the bench layout",
		Long: `Prints the blocks of a bench on their grid cells. With --pins, also prints
the pin table of one block, chosen by id or by kind (first match).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := benchApp.Boot(ctx, g.cfg, g.benchID, nil, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			out := cmd.OutOrStdout()
			st := rt.Session.State()
			printSection(out, "Bench "+styleDim.Render(st.BenchID),
				render.Board(st.Layout.Blocks, render.Options{Grid: rt.Session.Grid()}))
			printSection(out, "Wires", render.Wires(rt.Session.Links()))

			if pins != "" {
				id, ok := findBlock(rt.Session.Blocks(), pins)
				if !ok {
					return fmt.Errorf("no block %q on bench", pins)
				}
				list, err := rt.Session.Pins(id)
				if err != nil {
					return err
				}
				printSection(out, "Pins "+styleDim.Render(id), render.Pins(list, -1))
			}
			fmt.Fprintln(out, render.Status(st.Clock, st.Pending != ""))
			return nil
		},
	}
	cmd.Flags().StringVar(&pins, "pins", "", "print the pins of a block (id or kind)")
	return cmd
}

// findBlock matches ref against block ids first, then kinds.
func findBlock(blocks []domain.Block, ref string) (string, bool) {
	for _, b := range blocks {
		if b.ID == ref {
			return b.ID, true
		}
	}
	for _, b := range blocks {
		if strings.EqualFold(string(b.Kind), ref) {
			return b.ID, true
		}
	}
	return "", false
}
