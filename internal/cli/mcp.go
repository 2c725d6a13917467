package cli

import (
	"github.com/spf13/cobra"

	benchApp "benchboard/internal/app"
)

func newMCPCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the bench to AI agents over MCP on stdin/stdout",
		Long: `Runs a Model Context Protocol server on stdin/stdout so an agent can list,
place and wire blocks on the bench. Logs go to stderr; stdout carries only
protocol messages. The bench is saved when the server exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchApp.ServeMCP(cmd.Context(), g.cfg, g.benchID, version, loggerFromContext(cmd.Context()))
		},
	}
}
