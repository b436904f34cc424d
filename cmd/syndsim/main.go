// Command syndsim runs the AI-player simulation against local state.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hardknock/syndicate/internal/agents"
	"github.com/hardknock/syndicate/internal/config"
	"github.com/hardknock/syndicate/internal/decision"
	"github.com/hardknock/syndicate/internal/economy"
	"github.com/hardknock/syndicate/internal/engine"
	"github.com/hardknock/syndicate/internal/persistence"
	"github.com/hardknock/syndicate/internal/rnd"
)

// slogSink logs generated offers; a real host replaces this with its
// message-delivery layer.
type slogSink struct{}

func (slogSink) GenerateOffer(a *agents.Agent) error {
	slog.Info("agent contacting player",
		"name", a.Name,
		"archetype", a.Archetype,
		"relation", a.PlayerRelation,
		"trust", fmt.Sprintf("%.0f", a.PlayerTrust),
	)
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfgPath := flag.String("config", "", "path to tuning YAML (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load tuning", "path", *cfgPath, "error", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	store, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	rng := rnd.New(cfg.Seed)
	gen := agents.NewGenerator(rng, cfg.Population)
	registry := agents.NewRegistry(store, gen, rng, &cfg)

	if err := registry.Initialize(); err != nil {
		slog.Error("failed to initialize population", "error", err)
		os.Exit(1)
	}
	slog.Info("population ready", "agents", registry.Count())

	ledger := economy.NewLedger(cfg.Market)
	decider := decision.NewEngine(&cfg, rng)
	sched := engine.NewScheduler(registry, decider, ledger, slogSink{}, nil, rng, &cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Syndicate is alive: %d players on the street. (Ctrl+C to stop)\n", registry.Count())
	sched.Run(ctx)

	slog.Info("final save")
	if err := registry.Save(); err != nil {
		slog.Error("final save failed", "error", err)
	}
}
