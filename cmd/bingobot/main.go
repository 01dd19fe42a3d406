package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/bingobot/config"
	"github.com/alejandrodnm/bingobot/internal/adapters/coflnet"
	"github.com/alejandrodnm/bingobot/internal/adapters/discord"
	"github.com/alejandrodnm/bingobot/internal/adapters/httpapi"
	"github.com/alejandrodnm/bingobot/internal/adapters/metrics"
	"github.com/alejandrodnm/bingobot/internal/adapters/notify"
	"github.com/alejandrodnm/bingobot/internal/adapters/storage"
	"github.com/alejandrodnm/bingobot/internal/bingo"
	"github.com/alejandrodnm/bingobot/internal/domain"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "fetch prices once, print the ranking and exit (no chat bot)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full table on each refresh (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if !*once {
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid config", "err", err)
			os.Exit(1)
		}
	}

	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		slog.Error("failed to load catalog", "err", err, "path", cfg.CatalogFile)
		os.Exit(1)
	}

	slog.Info("bingobot starting",
		"config", *configPath,
		"interval", cfg.RefreshInterval(),
		"items", catalog.Len(),
		"once", *once,
	)

	recorder := metrics.NewRecorder()

	client := coflnet.NewClient(cfg.API.BaseURL,
		coflnet.WithTimeout(cfg.APITimeout()),
		coflnet.WithRateLimit(cfg.API.RequestsPerSecond, len(catalog.TrackedItems())),
		coflnet.WithMaxRetries(*cfg.API.MaxRetries),
		coflnet.WithMetrics(recorder),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table || *once)

	svcCfg := bingo.DefaultConfig()
	svcCfg.RefreshInterval = cfg.RefreshInterval()
	svcCfg.SessionTTL = cfg.SessionTTL()
	svcCfg.Once = *once

	svc := bingo.New(svcCfg, catalog, client, store, notifier, recorder)
	if err := svc.WarmStart(context.Background()); err != nil {
		slog.Warn("warm start failed", "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		if err := svc.Run(ctx); err != nil {
			slog.Error("refresh failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, cfg, svc, recorder); err != nil {
		slog.Error("bingobot exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("bingobot stopped cleanly")
}

// serve arranca el loop de refresco, el bot y la API de estado, y espera a que
// ctx se cancele o alguno falle.
func serve(ctx context.Context, cfg *config.Config, svc *bingo.Service, recorder *metrics.Recorder) error {
	bot, err := discord.New(discord.Config{
		Token:      cfg.Discord.Token,
		GuildID:    cfg.Discord.GuildID,
		Prefix:     cfg.Discord.Prefix,
		SessionTTL: cfg.SessionTTL(),
	}, svc)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svc.Run(ctx)
	})

	g.Go(func() error {
		if err := bot.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return bot.Close()
	})

	if cfg.HTTP.Addr != "" {
		srv := httpapi.NewServer(cfg.HTTP.Addr, svc, recorder.Handler())
		g.Go(func() error {
			return srv.Run(ctx)
		})
	}

	return g.Wait()
}

func loadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}
	return domain.LoadCatalogFile(path)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
