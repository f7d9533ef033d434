// glbview opens a window and draws binary glTF models as they load.
//
// Usage:
//
//	glbview [flags] <model.glb>...
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/glbkit/internal/assets"
	"github.com/Faultbox/glbkit/internal/config"
	"github.com/Faultbox/glbkit/internal/engine/geometry"
	"github.com/Faultbox/glbkit/internal/engine/renderer"
	"github.com/Faultbox/glbkit/internal/engine/shader"
	"github.com/Faultbox/glbkit/internal/engine/texture"
	"github.com/Faultbox/glbkit/internal/engine/window"
	"github.com/Faultbox/glbkit/internal/logger"
	"github.com/Faultbox/glbkit/internal/models"
)

const windowTitle = "glbview"

func init() {
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, config.Args()); err != nil {
		logger.Error("glbview failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, ids []string) error {
	log := logger.Log

	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: glbview [flags] <model.glb>...")
		return fmt.Errorf("no models given")
	}

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    4,
	}, log)
	if err != nil {
		return err
	}
	defer win.Close()

	w, h := win.DrawableSize()
	rend, err := renderer.New(renderer.Config{
		Width:       w,
		Height:      h,
		Background:  cfg.Viewer.Background,
		Multisample: true,
	}, log)
	if err != nil {
		return err
	}

	program, err := shader.NewProgram()
	if err != nil {
		return err
	}
	defer program.Delete()

	fetcher, err := newFetcher(cfg.Assets, log)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	textures := texture.NewLoader(texture.Options{Fetcher: fetcher, Logger: log})
	defer textures.Close()
	program.SetFallbackTexture(textures.White())

	cache, err := models.New(models.Options{
		Fetcher:   fetcher,
		Geometry:  geometry.NewBackend(),
		Textures:  textures,
		Shading:   program,
		Logger:    log,
		Semantics: cfg.Assets.SemanticTable(),
		Skip:      cfg.Assets.SkipSet(),
	})
	if err != nil {
		return err
	}
	defer cache.Close()

	ids, err = localIDs(fetcher, ids)
	if err != nil {
		return err
	}

	v := newViewer(cfg, win, rend, program, cache, textures, log)
	v.load(ids)
	v.loop()

	fetches, failures := fetcher.Stats()
	log.Info("shutting down",
		zap.Int64("fetches", fetches),
		zap.Int64("failed_fetches", failures),
	)
	return nil
}

// newFetcher builds the asset manager from the configured sources.
func newFetcher(cfg config.AssetsConfig, log *zap.Logger) (*assets.Manager, error) {
	m := assets.NewManager(assets.Options{
		MaxConcurrent: int64(cfg.MaxConcurrentFetches),
		Timeout:       cfg.FetchTimeout,
		Logger:        log,
	})
	for _, root := range cfg.Roots {
		if err := m.AddRoot(root); err != nil {
			return nil, err
		}
	}
	m.SetRemote(cfg.Remote)
	return m, nil
}

// localIDs turns absolute file arguments into ids under a root added for
// their directory. Relative arguments resolve against the configured roots.
func localIDs(m *assets.Manager, args []string) ([]string, error) {
	ids := make([]string, len(args))
	for i, arg := range args {
		if !filepath.IsAbs(arg) {
			ids[i] = filepath.ToSlash(arg)
			continue
		}
		if err := m.AddRoot(filepath.Dir(arg)); err != nil {
			return nil, err
		}
		ids[i] = filepath.Base(arg)
	}
	return ids, nil
}
