// Command lsdb runs an lsdb REPL or TCP server over a configurable medium.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/leengari/lsdb/internal/config"
	"github.com/leengari/lsdb/internal/engine"
	"github.com/leengari/lsdb/internal/executor"
	"github.com/leengari/lsdb/internal/logging"
	"github.com/leengari/lsdb/internal/network"
	"github.com/leengari/lsdb/internal/repl"
	"github.com/leengari/lsdb/internal/storage/manager"
	"github.com/leengari/lsdb/internal/storage/medium"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "lsdb: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("lsdb", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	dbName := fs.String("db", "", "Database selected at start")
	kind := fs.String("medium", "", "Medium kind: memory, file, moss or sqlite")
	path := fs.String("path", "", "Medium directory or sqlite file")
	serverMode := fs.Bool("server", false, "Run in server mode")
	port := fs.Int("port", 0, "Port to listen on")
	verbose := fs.Bool("v", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: lsdb [flags] [schema]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch fs.Arg(0) {
	case "":
	case "schema":
		text, err := executor.SchemaText()
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown subcommand %q", fs.Arg(0))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	// Flags override the file
	if *dbName != "" {
		cfg.Database = *dbName
	}
	if *kind != "" {
		cfg.Medium.Kind = *kind
	}
	if *path != "" {
		cfg.Medium.Path = *path
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger, closeFn := logging.SetupLogger(logging.Options{Level: level, SeqURL: cfg.Log.SeqURL})
	defer closeFn()

	m, err := medium.Open(medium.Kind(cfg.Medium.Kind), cfg.Medium.Path, cfg.Medium.QuotaBytes)
	if err != nil {
		return fmt.Errorf("failed to open %s medium: %w", cfg.Medium.Kind, err)
	}
	defer func() {
		if err := medium.Close(m); err != nil {
			logger.Error("failed to close medium", "error", err)
		}
	}()

	if err := ensureDatabaseSeeded(m, "main"); err != nil {
		logger.Error("Failed to seed main database", "error", err)
	}

	registry := manager.NewRegistry(m, logger, engine.NewLoggingObserver(logger))

	// Commit all loaded databases on shutdown
	defer func() {
		logger.Info("Shutting down - committing databases...")
		if failed := registry.CommitAll(); len(failed) > 0 {
			logger.Error("commit failed on shutdown", "databases", failed)
		}
	}()

	logger.Info("Application ready!",
		slog.String("medium", cfg.Medium.Kind),
		slog.String("path", cfg.Medium.Path),
		slog.String("database", cfg.Database),
	)

	if *serverMode {
		logger.Info("Starting Server mode...")
		return network.NewServer(registry, logger, cfg.Database).Start(cfg.Server.Port)
	}

	logger.Info("Starting REPL mode...")
	session, err := executor.NewSession(registry, cfg.Database)
	if err != nil {
		return err
	}
	repl.Start(session, os.Stdin, os.Stdout)
	return nil
}
