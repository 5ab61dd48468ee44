package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"

	"snapsolve/internal/bootstrap"
	"snapsolve/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	env, err := bootstrap.Open(bootstrap.Options{LogFile: true, Keyring: true})
	if err != nil {
		fmt.Println("Error starting snapsolve:", err)
		os.Exit(1)
	}

	app := NewApp(env)

	// Create application with options
	err = wails.Run(&options.App{
		Title:       "Snapsolve",
		Width:       800,
		Height:      600,
		AlwaysOnTop: true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "Snapsolve",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 255},
		Logger:           logging.NewWailsLogger(env.Log),
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		env.Log.Errorw("wails run failed", "error", err)
		_ = env.Close()
		os.Exit(1)
	}
}
