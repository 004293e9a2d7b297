package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"
	"github.com/jessevdk/go-flags"

	"github.com/dtroode/gophkeeper-vault/internal/cli"
	"github.com/dtroode/gophkeeper-vault/internal/config"
	"github.com/dtroode/gophkeeper-vault/internal/crypto"
	"github.com/dtroode/gophkeeper-vault/internal/logger"
	"github.com/dtroode/gophkeeper-vault/internal/model"
	"github.com/dtroode/gophkeeper-vault/internal/repository/bolt"
	"github.com/dtroode/gophkeeper-vault/internal/repository/postgres"
	"github.com/dtroode/gophkeeper-vault/internal/vault"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	memguard.CatchInterrupt()
	os.Exit(run())
}

func run() int {
	defer memguard.Purge()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Printf("failed to parse config: %v", err)
		return 1
	}
	logger := logger.New(cfg.LogLevel)

	var store model.Store
	defer func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	newEngine := func(ctx context.Context) (*vault.Engine, error) {
		s, err := openStore(ctx, cfg)
		if err != nil {
			logger.Error("failed to initialize storage", "error", err, "driver", cfg.Storage.Driver)
			return nil, err
		}
		store = s
		return newVaultEngine(s, logger, logger.Fatal)
	}

	app := cli.New(ctx, newEngine, cli.TerminalPrompter(os.Stdin, os.Stderr), os.Stdout, logger)

	var opts cli.Options
	parser := cli.NewParser(app, &opts)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}

	if opts.Version {
		printAppVersion()
		return 0
	}
	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		return 1
	}

	return 0
}

func openStore(ctx context.Context, cfg *config.Config) (model.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(conn), nil
	default:
		s, err := bolt.Open(cfg.Storage.Path, cfg.Storage.Timeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// newVaultEngine builds the engine over store. Invalid key derivation
// parameters are a configuration error and end the process through fatal.
func newVaultEngine(store model.Store, logger *logger.Logger, fatal func(msg string, args ...any), opts ...vault.Option) (*vault.Engine, error) {
	engine, err := vault.NewEngine(store, logger, opts...)
	if errors.Is(err, crypto.ErrInvalidKDFParams) {
		_ = store.Close()
		fatal("invalid key derivation parameters", "error", err)
	}
	return engine, err
}

func printAppVersion() {
	tmpl := `Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
