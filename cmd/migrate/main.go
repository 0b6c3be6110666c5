package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Temutjin2k/running-app/config"
	repo "github.com/Temutjin2k/running-app/internal/adapter/postgres"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/postgres"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	timeout    = flag.Duration("timeout", 30*time.Second, "Timeout for applying all migrations")
)

func main() {
	flag.Parse()

	ctx := wrap.WithAction(context.Background(), "migrate")
	log := logger.InitLogger("migrate", logger.LevelInfo)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure migrations", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "migration failed", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	client, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer client.Close()

	migrations, err := repo.Migrations()
	if err != nil {
		return err
	}

	applied, err := postgres.Migrate(ctx, client.Pool, migrations)
	if err != nil {
		return err
	}

	log.Info(ctx, "migrations applied", "applied", applied, "known", len(migrations))
	return nil
}
