// Command quizgen builds a static quiz site from JSON data files.
//
// Usage:
//
//	quizgen [build]   build the site once (default)
//	quizgen serve     build, then serve with live reload and rebuild on changes
//
// Categories that cannot be loaded are skipped and logged; the build still
// exits 0. quizgen exits 1 when the config is invalid, the index file is
// missing or not a JSON list, or the index page cannot be written.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/p-n-ai/quizgen/internal/build"
	"github.com/p-n-ai/quizgen/internal/platform/config"
	"github.com/p-n-ai/quizgen/internal/server"
)

func main() {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	err = run(ctx, cfg, os.Args[1:])
	stop()
	if err != nil {
		slog.Error("quizgen failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	cmd := "build"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "build":
		return runBuild(ctx, cfg)
	case "serve":
		return runServe(ctx, cfg)
	default:
		return fmt.Errorf("unknown command %q, want build or serve", cmd)
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func buildConfig(cfg *config.Config, liveReload bool) build.Config {
	return build.Config{
		Fs:             afero.NewOsFs(),
		DataDir:        cfg.Build.DataDir,
		IndexFile:      cfg.Build.IndexFile,
		OutputDir:      cfg.Build.OutputDir,
		Concurrency:    cfg.Build.Concurrency,
		ExportWorkbook: cfg.Build.ExportWorkbook,
		LiveReload:     liveReload,
	}
}

func runBuild(ctx context.Context, cfg *config.Config) error {
	report, err := build.New(buildConfig(cfg, false)).Run(ctx)
	if err != nil {
		return err
	}
	logReport(report)
	return nil
}

func logReport(report *build.Report) {
	for _, s := range report.Skipped {
		slog.Warn("category skipped",
			"build_id", report.BuildID,
			"position", s.Position,
			"title", s.Title,
			"file", s.File,
			"reason", s.Reason,
		)
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	bcfg := buildConfig(cfg, true)
	builder := build.New(bcfg)
	site := server.New(bcfg.Fs, cfg.Build.OutputDir)

	rebuild := func(ctx context.Context) error {
		report, err := builder.Run(ctx)
		if err != nil {
			return err
		}
		logReport(report)
		site.SetReady()
		site.Reload()
		return nil
	}

	// The server keeps running after a failed build so the data can be fixed.
	if err := rebuild(ctx); err != nil {
		slog.Error("initial build failed", "error", err)
	}

	go func() {
		w := server.NewWatcher(cfg.Build.DataDir, cfg.Watch.Debounce(), rebuild)
		if err := w.Run(ctx); err != nil {
			slog.Error("watcher stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           site.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
