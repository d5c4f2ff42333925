package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"zroom/config"
	"zroom/db"
	"zroom/feeds"
	"zroom/ranking"
	"zroom/server"
	"zroom/session"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	_ feeds.Store       = (*db.DB)(nil)
	_ ranking.SaveStore = (*db.DB)(nil)

	_ server.RankingService = (*ranking.Service)(nil)
	_ server.FeedService    = (*feeds.Service)(nil)
)

func serveCmd() *cli.Command {
	flags := append(dbFlags(),
		&cli.StringFlag{
			Name:    "hostname",
			Usage:   "Interface to listen on",
			EnvVars: []string{"ZROOM_HOSTNAME"},
			Value:   "",
		},
		&cli.IntFlag{
			Name:    "port",
			Usage:   "Port to listen on",
			EnvVars: []string{"ZROOM_PORT"},
			Value:   3000,
		},
		&cli.StringFlag{
			Name:     "jwt-secret",
			Usage:    "Secret used to verify session tokens",
			EnvVars:  []string{"ZROOM_JWT_SECRET", "JWT_SECRET"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the TOML config file",
			EnvVars: []string{"ZROOM_CONFIG"},
			Value:   "zroom.toml",
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the zroom API",
		Description: `Starts the zroom HTTP server.

Connects to PostgreSQL, then serves the room feed, the game ranking, a health
check and Prometheus metrics until interrupted.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			signalCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return err
			}

			window, err := feeds.ParseWindow(cfg.Feed.Window)
			if err != nil {
				return err
			}

			sessions, err := session.NewManager(ctx.String("jwt-secret"), session.DefaultTTL)
			if err != nil {
				return err
			}

			logDatabase(ctx)
			database, err := db.NewDB(signalCtx,
				ctx.String("db-host"),
				ctx.Int("db-port"),
				ctx.String("db-user"),
				ctx.String("db-password"),
				ctx.String("db-name"),
			)
			if err != nil {
				return err
			}
			defer database.Close()

			app := server.Server(&server.ServerConfig{
				Feeds:    feeds.NewService(database, window),
				Ranking:  ranking.NewService(database, cfg.Ranking.Size, cfg.Ranking.TTL.Duration),
				Database: database,
				Sessions: sessions,
				Config:   cfg,
			})

			errs := make(chan error, 1)
			go func() {
				addr := fmt.Sprintf("%s:%d", ctx.String("hostname"), ctx.Int("port"))
				log.WithFields(log.Fields{
					"addr":   addr,
					"window": window,
				}).Info("Starting server")
				errs <- app.Listen(addr)
			}()

			select {
			case err := <-errs:
				return err
			case <-signalCtx.Done():
			}

			log.Info("Gracefully shutting down...")
			if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
				return err
			}
			if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("Done!")
			return nil
		},
	}
}
