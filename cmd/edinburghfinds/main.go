// Command edinburghfinds runs one lens-driven, multi-source entity
// harmonization pass against its configured connectors.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/larjgit/edinburgh-finds/pkg/config"
	"github.com/larjgit/edinburgh-finds/pkg/connector"
	"github.com/larjgit/edinburgh-finds/pkg/database"
	"github.com/larjgit/edinburgh-finds/pkg/execctx"
	"github.com/larjgit/edinburgh-finds/pkg/extract"
	"github.com/larjgit/edinburgh-finds/pkg/model"
	"github.com/larjgit/edinburgh-finds/pkg/orchestrator"
	"github.com/larjgit/edinburgh-finds/pkg/persistence"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "path to configuration directory")
	lensFlag := flag.String("lens", "", "lens id to run (overrides env var and app config default)")
	modeFlag := flag.String("mode", "discover_many", "run mode: discover_many | resolve_one")
	persistFlag := flag.Bool("persist", false, "persist accepted entities to the database")
	budgetFlag := flag.Float64("budget-usd", 0, "maximum connector spend for this run, 0 = unlimited")
	targetCountFlag := flag.Int("target-count", 1, "number of entities to accept before stopping (discover_many)")
	minConfidenceFlag := flag.Float64("min-confidence", 0.7, "minimum confidence to accept in resolve_one")
	allowDefaultLensFlag := flag.Bool("allow-default-lens", false, "allow falling back to the dev lens when no other source resolves one")
	flag.Parse()

	query := ""
	if flag.NArg() > 0 {
		query = flag.Arg(0)
	}

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Warn("could not load .env file, continuing with existing environment", "path", envPath, "err", err)
	}

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		logger.Error("failed to initialize configuration", "err", err)
		return 1
	}

	if *allowDefaultLensFlag {
		cfg.Lens.AllowDefaultLens = true
	}

	registry := connector.NewRegistry()
	// Concrete connector adapters are wired here in a production deployment;
	// this engine ships the contract and registry, not live sources (spec §1).

	execCtxResolved, err := execctx.Resolve(execctx.Options{
		CLILensID: *lensFlag,
		AppConfig: cfg.Lens,
		Registry:  registry,
	})
	if err != nil {
		logger.Error("failed to resolve lens", "err", err)
		return 1
	}
	logger.Info("lens resolved", "lens_id", execCtxResolved.LensID, "content_hash", execCtxResolved.LensHash)

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load database config", "err", err)
		return 1
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		return 1
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logger.Error("error closing database client", "err", err)
		}
	}()

	store := persistence.NewStore(dbClient.DB())

	o := &orchestrator.Orchestrator{
		Connectors: registry,
		Extractors: extract.NewRegistry(),
		Config:     cfg.Orchestrator,
		Logger:     logger,
	}

	req := model.IngestRequest{
		Mode:              model.Mode(*modeFlag),
		Query:             query,
		TargetEntityCount: *targetCountFlag,
		MinConfidence:     *minConfidenceFlag,
		BudgetUSD:         *budgetFlag,
		Persist:           *persistFlag,
		LensID:            execCtxResolved.LensID,
	}

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	state, _, err := o.Run(runCtx, req, execCtxResolved)
	if err != nil {
		logger.Error("run failed before producing any entities", "err", err)
		return 2
	}

	logger.Info("run complete",
		"accepted", len(state.AcceptedEntities),
		"merge_conflicts", len(state.MergeConflicts),
		"errors", len(state.Errors),
		"budget_spent_usd", state.BudgetSpentUSD,
	)

	if req.Persist {
		for _, e := range state.AcceptedEntities {
			if err := store.UpsertEntity(ctx, e); err != nil {
				logger.Error("failed to persist entity", "slug", e.Slug, "err", err)
				state.Quarantined = append(state.Quarantined, model.FailedExtraction{
					EntitySnapshot: map[string]any{"slug": e.Slug, "entity_name": e.EntityName},
					Error:          err.Error(),
				})
				continue
			}
		}
		for _, c := range state.MergeConflicts {
			if err := store.InsertMergeConflict(ctx, c); err != nil {
				logger.Error("failed to persist merge conflict", "a", c.EntityASlug, "b", c.EntityBSlug, "err", err)
			}
		}
		for _, q := range state.Quarantined {
			if err := store.Quarantine(ctx, q); err != nil {
				logger.Error("failed to persist quarantine record", "err", err)
			}
		}
	}

	if len(state.AcceptedEntities) == 0 && len(state.Errors) > 0 {
		logger.Error("no entities accepted and errors occurred")
		return 2
	}

	return 0
}
