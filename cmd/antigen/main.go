package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/antigen-go/antigen/internal/config"
	"github.com/antigen-go/antigen/internal/core/exchange"
	"github.com/antigen-go/antigen/internal/fs"
	"github.com/antigen-go/antigen/internal/scripting"
	"github.com/antigen-go/antigen/internal/worlds"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := config.Path()
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Sandbox.Name)

	// 3. Profiling
	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
		printReady(fmt.Sprintf("profiling %s into %s", cfg.Profile.Mode, cfg.Profile.Path))
	}

	// 4. Exchange and world channels
	printSection("Exchange")
	x := exchange.NewWorldExchange(log)
	channels := make(map[exchange.Identity]*exchange.WorldChannel, len(worlds.All()))
	for _, id := range worlds.All() {
		if cfg.Exchange.Bounded {
			channels[id] = x.CreateBoundedChannel(id, cfg.Exchange.Capacity)
		} else {
			channels[id] = x.CreateChannel(id)
		}
		printReady(fmt.Sprintf("channel %s", id))
	}
	if cfg.Exchange.Bounded {
		printStat("capacity", cfg.Exchange.Capacity)
	}

	// 5. Scripts for the render world
	printSection("Scripting")
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	printReady(fmt.Sprintf("scripts from %s", cfg.Scripting.Dir))

	// 6. Worlds
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Sandbox.RunDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Sandbox.RunDuration)
		defer cancel()
	}

	game := newGameWorld(channels[worlds.Game], log)
	if cfg.Filesystem.Scene != "" {
		scene := filepath.Join(cfg.Filesystem.Root, cfg.Filesystem.Scene)
		game.request(fs.LoadScene(scene, worlds.Render))
		printReady(fmt.Sprintf("scene %s", scene))
	}
	render := newRenderWorld(channels[worlds.Render], engine, log)
	files := newFilesystemWorld(channels[worlds.Filesystem], log)

	g, gctx := errgroup.WithContext(ctx)
	x.Spawn(gctx)
	g.Go(func() error { return files.run() })
	g.Go(func() error { return game.run(gctx, cfg.Sandbox.TickRate) })
	g.Go(func() error { return render.run(gctx, cfg.Sandbox.RenderRate) })

	printSection("Running")
	printReady(fmt.Sprintf("game tick %s, render frame %s", cfg.Sandbox.TickRate, cfg.Sandbox.RenderRate))
	if cfg.Sandbox.RunDuration > 0 {
		printReady(fmt.Sprintf("stopping after %s", cfg.Sandbox.RunDuration))
	}
	fmt.Println()

	err = g.Wait()
	if routerErr := x.Wait(); routerErr != nil {
		log.Error("exchange stopped", zap.Error(routerErr))
	}
	log.Info("sandbox stopped",
		zap.Int("game_ticks", game.ticks),
		zap.Int("render_frames", render.frames),
		zap.Int("resources_ready", render.ready),
	)
	return err
}

func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil
	}
	p := profile.Start(mode, profile.ProfilePath(cfg.Path), profile.NoShutdownHook, profile.Quiet)
	return p.Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
