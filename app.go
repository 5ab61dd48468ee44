package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"snapsolve/internal/bootstrap"
	"snapsolve/internal/config"
	"snapsolve/internal/models"
	"snapsolve/internal/services"
)

// App struct
type App struct {
	ctx context.Context
	env *bootstrap.Env
	svc *services.Services
}

// NewApp creates a new App application struct
func NewApp(env *bootstrap.Env) *App {
	return &App{env: env, svc: env.Services}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if err := a.svc.Startup(ctx); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to start services: %v", err))
	}
	a.applyOpacity(a.svc.Config.Get().Opacity)
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if err := a.env.Close(); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to close resources: %v", err))
	} else {
		runtime.LogInfo(ctx, "database closed")
	}
}

// GetConfig returns the configuration with the API key redacted.
func (a *App) GetConfig() config.Config {
	return a.svc.Config.Get().Redacted()
}

// UpdateConfig saves cfg. A blank API key keeps the stored key.
func (a *App) UpdateConfig(cfg config.Config) (config.Config, error) {
	updated, err := a.svc.Config.Update(cfg)
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to update config: %v", err))
		return config.Config{}, err
	}
	a.applyOpacity(updated.Opacity)
	return updated.Redacted(), nil
}

func (a *App) IsConfigured() bool {
	return a.svc.Config.IsConfigured()
}

func (a *App) SetLanguage(language string) (config.Config, error) {
	cfg, err := a.svc.Config.SetLanguage(language)
	if err != nil {
		return config.Config{}, err
	}
	return cfg.Redacted(), nil
}

// SetOpacity clamps, persists and applies the window opacity.
func (a *App) SetOpacity(opacity float64) (float64, error) {
	v, err := a.svc.Config.SetOpacity(opacity)
	if err != nil {
		return 0, err
	}
	a.applyOpacity(v)
	return v, nil
}

// applyOpacity maps opacity onto the window background alpha. Full
// transparency is platform dependent and not attempted here.
func (a *App) applyOpacity(opacity float64) {
	if a.ctx == nil {
		return
	}
	alpha := uint8(config.ClampOpacity(opacity) * 255)
	runtime.WindowSetBackgroundColour(a.ctx, 27, 38, 54, alpha)
}

// StoreApiKey saves key for provider in the OS keyring and makes it the
// active key when provider is the configured one.
func (a *App) StoreApiKey(provider, key string) error {
	if a.svc.Keyring == nil {
		return fmt.Errorf("keyring not available")
	}
	if err := a.svc.Keyring.StoreApiKey(provider, []byte(key)); err != nil {
		return err
	}
	_, err := a.svc.Config.RefreshSecret(provider)
	return err
}

func (a *App) GetScreenshots(queue string) ([]models.Screenshot, error) {
	return a.svc.Screenshots.List(models.QueueKind(queue))
}

// SaveScreenshot queues a capture taken by the frontend as a data URI.
func (a *App) SaveScreenshot(queue, dataURL string) (models.Screenshot, error) {
	shot, err := a.svc.Screenshots.SaveScreenshot(models.QueueKind(queue), dataURL)
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to save screenshot: %v", err))
	}
	return shot, err
}

// AddScreenshotFiles lets the user pick images from disk into queue.
func (a *App) AddScreenshotFiles(queue string) ([]models.Screenshot, error) {
	paths, err := runtime.OpenMultipleFilesDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select Screenshots",
		Filters: []runtime.FileFilter{
			{DisplayName: "Images (*.png;*.jpg;*.jpeg;*.webp)", Pattern: "*.png;*.jpg;*.jpeg;*.webp"},
		},
	})
	if err != nil {
		return nil, err
	}
	added := make([]models.Screenshot, 0, len(paths))
	for _, p := range paths {
		shot, err := a.svc.Screenshots.AddFile(models.QueueKind(queue), p)
		if err != nil {
			runtime.LogWarning(a.ctx, fmt.Sprintf("skipping %s: %v", p, err))
			continue
		}
		added = append(added, shot)
	}
	return added, nil
}

func (a *App) DeleteScreenshot(queue, path string) error {
	return a.svc.Screenshots.Delete(models.QueueKind(queue), path)
}

func (a *App) ClearScreenshots(queue string) error {
	return a.svc.Screenshots.Clear(models.QueueKind(queue))
}

// ProcessScreenshots starts the initial solve in the background. Progress
// and results arrive as events.
func (a *App) ProcessScreenshots() {
	go func() {
		_ = a.svc.Processing.ProcessPrimary(a.ctx)
	}()
}

// ProcessExtraScreenshots starts a debug run in the background.
func (a *App) ProcessExtraScreenshots() {
	go func() {
		_ = a.svc.Processing.ProcessAuxiliary(a.ctx)
	}()
}

// CancelRequests aborts in-flight requests and returns to the queue view.
func (a *App) CancelRequests() {
	a.svc.Processing.Cancel()
}

// Reset cancels everything and empties both screenshot queues.
func (a *App) Reset() error {
	a.svc.Processing.Cancel()
	return a.svc.Screenshots.ClearAll()
}

func (a *App) GetView() string {
	return string(a.svc.Views.Current())
}

func (a *App) SetView(view string) error {
	return a.svc.Views.Select(view)
}

func (a *App) ToggleView() string {
	return string(a.svc.Views.Toggle())
}

func (a *App) LoadPages() models.PagesResult {
	return a.svc.Pages.LoadAll()
}

func (a *App) ReloadPages() models.PagesResult {
	return a.svc.Pages.Reload()
}

// SelectDirectory opens a native directory picker and makes the choice the
// pages directory.
func (a *App) SelectDirectory() (models.PagesResult, error) {
	dir, err := runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select Pages Directory",
	})
	if err != nil {
		return models.PagesResult{}, err
	}
	if dir == "" {
		return a.svc.Pages.LoadAll(), nil
	}
	cfg := a.svc.Config.Get()
	cfg.PagesDir = dir
	if _, err := a.svc.Config.Update(cfg); err != nil {
		return models.PagesResult{}, err
	}
	return a.svc.Pages.Reload(), nil
}
