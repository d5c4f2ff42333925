package cmd

import (
	"zroom/db"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func logDatabase(ctx *cli.Context) {
	log.WithFields(log.Fields{
		"host": ctx.String("db-host"),
		"port": ctx.Int("db-port"),
		"name": ctx.String("db-name"),
	}).Info("Database configured")
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run database migrations",
		Description: `Applies every pending migration to the configured database.`,
		Flags:       dbFlags(),
		Action: func(ctx *cli.Context) error {
			logDatabase(ctx)
			return db.Migrate(
				ctx.String("db-host"),
				ctx.Int("db-port"),
				ctx.String("db-user"),
				ctx.String("db-password"),
				ctx.String("db-name"),
			)
		},
	}
}

func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:        "rollback",
		Usage:       "Rollback database migration",
		Description: `Rolls back the last database migration`,
		Flags:       dbFlags(),
		Action: func(ctx *cli.Context) error {
			logDatabase(ctx)
			return db.Rollback(
				ctx.String("db-host"),
				ctx.Int("db-port"),
				ctx.String("db-user"),
				ctx.String("db-password"),
				ctx.String("db-name"),
			)
		},
	}
}
