package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	benchApp "benchboard/internal/app"
	"benchboard/internal/templates"
)

func newBenchCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Manage stored benches",
	}
	cmd.AddCommand(newBenchListCmd(g))
	cmd.AddCommand(newBenchNewCmd(g))
	cmd.AddCommand(newBenchResetCmd(g))
	cmd.AddCommand(newBenchExportCmd(g))
	return cmd
}

func newBenchListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List benches, most recently used first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := benchApp.Boot(ctx, g.cfg, g.benchID, nil, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			list, err := rt.Benches.ListBenches()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, b := range list {
				rows = append(rows, []string{b.ID, b.Name, b.UpdatedAt.Local().Format(time.DateTime)})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(styleDim).
				Headers("ID", "Name", "Updated").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return styleHeader
					}
					if col == 1 {
						return styleValue
					}
					return lipgloss.NewStyle()
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newBenchNewCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Create a bench seeded from the template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := benchApp.Boot(ctx, g.cfg, g.benchID, nil, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			b, err := rt.Benches.Create(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Created bench %s %s", styleValue.Render(b.Name), styleDim.Render(b.ID))
			return nil
		},
	}
}

func newBenchResetCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the bench's blocks with the template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := benchApp.Boot(ctx, g.cfg, g.benchID, nil, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if err := rt.Benches.ResetToTemplate(ctx); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Reset bench %s", styleDim.Render(rt.Session.BenchID()))
			return nil
		},
	}
}

func newBenchExportCmd(g *globals) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the bench layout as a TOML template",
		Long: `Prints the blocks of a bench as a template file. Point template.path in the
config at the result to seed new benches with this layout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := benchApp.Boot(ctx, g.cfg, g.benchID, nil, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer rt.Close(ctx)
			return templates.Encode(cmd.OutOrStdout(), name, rt.Session.Blocks())
		},
	}
	cmd.Flags().StringVar(&name, "name", "bench", "template name")
	return cmd
}
