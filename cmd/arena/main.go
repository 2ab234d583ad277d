package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/db"
	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/game/hero"
	"github.com/udisondev/arena/internal/physics"
	"github.com/udisondev/arena/internal/spawn"
	"github.com/udisondev/arena/internal/world"
)

const ConfigPath = "config/arena.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadArena(cfgPath)
	if err != nil {
		return fmt.Errorf("loading arena config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("arena starting", "log_level", cfg.LogLevel, "config", cfgPath)

	catalog, err := config.LoadCatalog(cfg.ArchetypesFile)
	if err != nil {
		return fmt.Errorf("loading archetypes: %w", err)
	}
	archetypes := config.NewStore(catalog)
	if _, ok := archetypes.Archetype(cfg.EnemyArchetype); !ok {
		return fmt.Errorf("enemy archetype %q not in %s (have %v)", cfg.EnemyArchetype, cfg.ArchetypesFile, catalog.Names())
	}
	slog.Info("archetypes loaded", "names", catalog.Names())

	// Scores
	var scores db.ScoreStore = db.NewBoard()
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")
		scores = db.NewScoreRepository(database.Pool())
	}
	writer := db.NewWriter(scores, 4)
	writer.OnSaved = func(s db.Score, high bool) {
		if high {
			slog.Info("new high score", "remaining", s.Remaining)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	slog.Info("simulation seed", "seed", seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	// Simulation
	space := physics.NewSpace(cfg.Damping)
	arena := world.New()
	ticks := ai.NewTickManager(cfg.FrameInterval)
	ticks.AddStepper(space)

	resolver := combat.NewResolver()
	if ai.IsDebugEnabled() {
		resolver.SetHitObserver(func(r combat.HitResult) {
			slog.Debug("hit",
				"attacker", r.AttackerID,
				"target", r.TargetID,
				"damage", r.Damage,
				"parried", r.Parried,
				"healthDiff", r.HealthDiff)
		})
	}

	feedback := spawn.LogFeedback{}
	spawner := spawn.NewManager(arena, space, ticks, archetypes, resolver, feedback, rng)

	player, err := spawner.SpawnPlayer(cfg.Player, nil)
	if err != nil {
		return fmt.Errorf("spawning player: %w", err)
	}

	round, err := spawn.NewRound(cfg.Rounds, cfg.EnemyArchetype, spawner, ticks, feedback.Audio(spawn.RoundControllerID))
	if err != nil {
		return fmt.Errorf("creating round controller: %w", err)
	}

	var result spawn.Result
	player.OnDie(func(*hero.Player) { round.GameOver() })
	round.OnEnemyDie(func(left int) {
		slog.Info("enemy down", "round", round.Round(), "left", left)
	})
	round.OnFinish(func(res spawn.Result) {
		result = res
		if res.Won {
			writer.Submit(db.Score{Remaining: res.Score, Rounds: res.Rounds})
		}
		ticks.Stop()
	})
	ticks.Register(spawn.RoundControllerID, round)

	var watcher *config.Watcher
	if cfg.WatchArchetypes {
		watcher, err = config.NewWatcher(cfg.ArchetypesFile, archetypes)
		if err != nil {
			return fmt.Errorf("creating archetype watcher: %w", err)
		}
		watcher.OnReload = func(c config.Catalog) {
			slog.Info("archetypes reloaded", "names", c.Names())
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	g.Go(func() error {
		defer stopWatch()
		defer writer.Close()

		slog.Info("starting tick manager", "interval", cfg.FrameInterval)
		if err := ticks.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tick manager: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := writer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("score writer: %w", err)
		}
		return nil
	})

	if watcher != nil {
		g.Go(func() error {
			slog.Info("watching archetypes", "file", cfg.ArchetypesFile)
			return watcher.Run(watchCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("arena error: %w", err)
	}

	spawner.DespawnAll()
	slog.Info("arena finished",
		"won", result.Won,
		"rounds", result.Rounds,
		"score", result.Score)

	reportHighScores(scores)
	return nil
}

// reportHighScores logs the top of the score table.
func reportHighScores(scores db.ScoreStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	best, err := scores.Best(ctx, 5)
	if err != nil {
		slog.Warn("loading high scores", "err", err)
		return
	}
	for i, s := range best {
		slog.Info("high score", "rank", i+1, "remaining", s.Remaining, "rounds", s.Rounds)
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
