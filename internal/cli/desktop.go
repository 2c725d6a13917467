package cli

import (
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	benchApp "benchboard/internal/app"
)

func newDesktopCmd(g *globals, assets fs.FS) *cobra.Command {
	return &cobra.Command{
		Use:   "desktop",
		Short: "Open the bench in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cmd, g, assets)
		},
	}
}

func runDesktop(cmd *cobra.Command, g *globals, assets fs.FS) error {
	logger := loggerFromContext(cmd.Context())
	app := benchApp.New(g.cfg, g.benchID, logger)

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	logger.Debug("starting desktop", "grid", g.cfg.Surface.Grid, "driver", g.cfg.Storage.Driver)
	return wails.Run(&options.App{
		Title:     "Benchboard",
		Width:     g.cfg.Surface.Width,
		Height:    g.cfg.Surface.Height,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 15, G: 15, B: 20, A: 1},
		Menu:             appMenu,
		OnStartup:        app.Startup,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				FullSizeContent:            true,
			},
			About: &mac.AboutInfo{
				Title:   "Benchboard",
				Message: "Wiring surface for FPGA test benches",
			},
		},
	})
}
