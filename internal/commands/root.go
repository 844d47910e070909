// Package commands is the myrent command line: the HTTP server plus operator tasks.
package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hongminglow/myrent-be/internal/config"
	"github.com/hongminglow/myrent-be/internal/media"
	"github.com/hongminglow/myrent-be/internal/storage"
	"github.com/hongminglow/myrent-be/internal/storage/postgres"
	"github.com/hongminglow/myrent-be/internal/storage/sqlite"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	serve := ServeCmd()
	root := &cobra.Command{
		Use:           "myrent",
		Short:         "Rental marketplace backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadLocalEnv()
		},
		RunE: serve.RunE,
	}
	root.AddCommand(
		serve,
		MigrateCmd(),
		AdminCmd(),
		UsersCmd(),
		SeedCmd(),
	)
	return root
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}

// openStore connects the configured database driver and applies the schema.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.DatabaseDriver == config.DriverSQLite {
		s, err := sqlite.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// openMedia returns the configured image store and a release func.
func openMedia(ctx context.Context, cfg config.Config) (media.Store, func(), error) {
	if cfg.MediaBackend != config.MediaGridFS {
		s, err := media.NewLocalStore(cfg.MediaDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
	client, err := media.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}
	s, err := media.NewGridFSStore(client, cfg.MongoDatabase)
	if err != nil {
		release()
		return nil, nil, err
	}
	return s, release, nil
}

func loadStore(ctx context.Context) (storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return store, nil
}
