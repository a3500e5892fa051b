package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/clients/srd"
	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/advancement"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/ruleset"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	rulesetrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/settings"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/retry"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/sqlite"
)

// app holds the wired services for one command invocation
type app struct {
	characters  character.Service
	advancement advancement.Service
	rulesets    ruleset.Service
	closer      io.Closer
}

var sheet *app

type repos struct {
	characters characterrepo.Repository
	rulesets   rulesetrepo.Repository
	settings   settings.Repository
	closer     io.Closer
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := loadEnv(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	sheet = a
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if sheet == nil || sheet.closer == nil {
		return nil
	}
	if err := sheet.closer.Close(); err != nil {
		slog.Warn("failed to close store", "error", err.Error())
	}
	return nil
}

// loadEnv reads an explicit --env-file, or .env when one exists
func loadEnv() error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return errors.InvalidArgumentf("failed to load env file %s: %v", envFile, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return errors.InvalidArgumentf("failed to load .env: %v", err)
		}
	}
	return nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	clk := clock.New()

	r, err := openRepos(ctx, cfg, clk)
	if err != nil {
		return nil, err
	}

	a, err := wireServices(cfg, clk, r)
	if err != nil {
		_ = r.closer.Close()
		return nil, err
	}
	return a, nil
}

func wireServices(cfg *config.Config, clk clock.Clock, r *repos) (*app, error) {
	eng, err := engine.New(&engine.Config{
		Clock:       clk,
		IDGenerator: idgen.NewUUID("feature"),
	})
	if err != nil {
		return nil, err
	}

	policy := retry.Policy{Attempts: cfg.WriteAttempts, Backoff: cfg.WriteBackoff}

	bus := events.NewBus()
	subscribeLevelLog(bus)

	adv, err := advancement.NewOrchestrator(&advancement.Config{
		CharacterRepo: r.characters,
		RulesetRepo:   r.rulesets,
		Engine:        eng,
		EventBus:      bus,
		Clock:         clk,
		Retry:         policy,
	})
	if err != nil {
		return nil, err
	}

	chars, err := character.NewOrchestrator(&character.Config{
		CharacterRepo: r.characters,
		RulesetRepo:   r.rulesets,
		SettingsRepo:  r.settings,
		Engine:        eng,
		IDGenerator:   idgen.NewUUID("char"),
		Clock:         clk,
		Retry:         policy,
	})
	if err != nil {
		return nil, err
	}

	srdClient, err := srd.New(&srd.Config{
		BaseURL:     cfg.SRDBaseURL,
		HTTPTimeout: cfg.SRDTimeout,
	})
	if err != nil {
		return nil, err
	}

	rulesets, err := ruleset.NewOrchestrator(&ruleset.Config{
		RulesetRepo:  r.rulesets,
		SettingsRepo: r.settings,
		SRDClient:    srdClient,
		Clock:        clk,
		Retry:        policy,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		characters:  chars,
		advancement: adv,
		rulesets:    rulesets,
		closer:      r.closer,
	}, nil
}

func openRepos(ctx context.Context, cfg *config.Config, clk clock.Clock) (*repos, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := redisclient.Connect(ctx, cfg.RedisAddrs, &redisclient.Options{PoolSize: cfg.RedisPoolSize})
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to connect to redis")
		}
		r := &repos{closer: client}
		if r.characters, err = characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client}); err != nil {
			return nil, err
		}
		if r.rulesets, err = rulesetrepo.NewRedis(&rulesetrepo.RedisConfig{Client: client}); err != nil {
			return nil, err
		}
		if r.settings, err = settings.NewRedis(&settings.RedisConfig{Client: client}); err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "using redis store", "addrs", cfg.RedisAddrs)
		return r, nil

	default:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open sqlite store")
		}
		r := &repos{closer: db}
		if r.characters, err = characterrepo.NewSQLite(&characterrepo.SQLiteConfig{DB: db, Clock: clk}); err != nil {
			return nil, err
		}
		if r.rulesets, err = rulesetrepo.NewSQLite(&rulesetrepo.SQLiteConfig{DB: db, Clock: clk}); err != nil {
			return nil, err
		}
		if r.settings, err = settings.NewSQLite(&settings.SQLiteConfig{DB: db, Clock: clk}); err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "using sqlite store", "path", cfg.SQLitePath)
		return r, nil
	}
}

// subscribeLevelLog logs every level event at debug
func subscribeLevelLog(bus events.EventBus) {
	handler := func(ctx context.Context, event events.Event) error {
		level, _ := rpgtoolkit.GetIntContext(event, rpgtoolkit.ContextLevel)
		classID, _ := rpgtoolkit.GetStringContext(event, rpgtoolkit.ContextClassID)
		attrs := []any{"event", event.Type(), "level", level, "class_id", classID}
		if char, ok := rpgtoolkit.ExtractCharacter(event.Source()); ok {
			attrs = append(attrs, "character_id", char.ID)
		}
		slog.DebugContext(ctx, "level event", attrs...)
		return nil
	}
	bus.SubscribeFunc(rpgtoolkit.EventLevelApplied, 0, handler)
	bus.SubscribeFunc(rpgtoolkit.EventLevelReverted, 0, handler)
}
