package main

import (
	"context"
	"errors"
	"os"

	appRepos "github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/bootstrap"
	"github.com/yigit/ais/internal/db"
	"github.com/yigit/ais/internal/pkg/logger"
)

func main() {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		os.Exit(1)
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		os.Exit(1)
	}
	defer database.Close()

	cli := commandLine{
		users: appRepos.NewUserRepository(database),
		migrate: func(ctx context.Context) error {
			return bootstrap.RunMigrations(ctx, cfg, database, logger.Component("admin-cli"))
		},
		out: os.Stdout,
	}
	if err := cli.run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			lgr.Error().Err(err).Msg("Command failed")
		}
		database.Close()
		os.Exit(1)
	}
}
