package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ironsheep/object-convertor-mcp/internal/config"
	"github.com/ironsheep/object-convertor-mcp/internal/cost"
	"github.com/ironsheep/object-convertor-mcp/internal/library"
	"github.com/ironsheep/object-convertor-mcp/internal/logging"
	"github.com/ironsheep/object-convertor-mcp/internal/objectdb"
	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("object-convertor-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr (stdout is for MCP protocol)
	logger, err := logging.NewStderr(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func printHelp() {
	fmt.Println("object-convertor-mcp - MCP server for rectangle conversion search and matching")
	fmt.Println()
	fmt.Println("Usage: object-convertor-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  " + config.EnvMaxSteps + "=1000        Search step budget")
	fmt.Println("  " + config.EnvMaxCoord + "=10000       Largest coordinate a search may visit")
	fmt.Println("  " + config.EnvMatchWorkers + "=N       Concurrent searches while matching")
	fmt.Println("  " + config.EnvSearchTimeout + "=2m    Time limit per convert or match call")
	fmt.Println("  " + config.EnvFormulaFile + "=path     Cost formula library (.json or .yaml)")
	fmt.Println("  " + config.EnvPresetFile + "=path      Extra operator parameters to search")
	fmt.Println("  " + config.EnvDatabaseFile + "=path    Stored object sets")
	fmt.Println("  " + config.EnvLogLevel + "=info        Log level (debug, info, warn, error)")
	fmt.Println("  " + config.EnvLogFormat + "=json       Log format (json or console)")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting object convertor MCP server")

	registry := operator.NewDefaultRegistry()

	evaluator := cost.NewEvaluator()
	formulas, err := loadFormulas(cfg.FormulaFile)
	if err != nil {
		return err
	}
	if err := library.Seed(evaluator, formulas); err != nil {
		return err
	}

	candidates, err := loadCandidates(cfg.PresetFile, registry)
	if err != nil {
		return err
	}

	store := objectdb.NewStore()
	if cfg.DatabaseFile != "" {
		if err := store.Load(cfg.DatabaseFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading object sets: %w", err)
		}
	}

	logger.Info().
		Int("operators", registry.Len()).
		Int("cost_functions", evaluator.Len()).
		Int("object_sets", store.Len()).
		Int("max_steps", cfg.MaxSteps).
		Int("match_workers", cfg.MatchWorkers).
		Msg("ready")

	srv := server.New(server.Options{
		Registry:      registry,
		Evaluator:     evaluator,
		Store:         store,
		Candidates:    candidates,
		MaxSteps:      cfg.MaxSteps,
		MaxCoord:      cfg.MaxCoord,
		MatchWorkers:  cfg.MatchWorkers,
		SearchTimeout: cfg.SearchTimeout,
		FormulaFile:   cfg.FormulaFile,
		DatabaseFile:  cfg.DatabaseFile,
		Logger:        &logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// loadFormulas reads the formula library, falling back to the built-in
// formulas when no file is configured or it does not exist yet.
func loadFormulas(path string) ([]cost.Formula, error) {
	if path == "" {
		return library.DefaultFormulas(), nil
	}
	formulas, err := library.LoadFormulas(path)
	if errors.Is(err, fs.ErrNotExist) {
		return library.DefaultFormulas(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading formulas: %w", err)
	}
	return formulas, nil
}

func loadCandidates(path string, registry *operator.Registry) (operator.CandidateSource, error) {
	if path == "" {
		return operator.DefaultCandidates, nil
	}
	presets, err := library.LoadPresets(path)
	if err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}
	extra, err := library.Candidates(registry, presets)
	if err != nil {
		return nil, err
	}
	return operator.MultiCandidates{operator.DefaultCandidates, extra}, nil
}
