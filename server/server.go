package server

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"zroom/config"
	"zroom/feeds"
	"zroom/models"
	"zroom/ranking"
	"zroom/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

type FeedService interface {
	Feed(ctx context.Context, req feeds.Request) (*models.FeedResponse, error)
}

type RankingService interface {
	Top(ctx context.Context) ([]ranking.Entry, error)
	Refresh(ctx context.Context) ([]ranking.Entry, error)
	Invalidate()
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type ServerConfig struct {
	Feeds    FeedService
	Ranking  RankingService
	Database Pinger
	Sessions *session.Manager
	Config   *config.Config
}

// Returns a fiber.App instance serving the zroom API
func Server(cfg *ServerConfig) *fiber.App {
	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		route := c.Route().Path
		requestDuration.WithLabelValues(c.Method(), route).Observe(latency.Seconds())

		log.WithFields(log.Fields{
			"method":    c.Method(),
			"route":     route,
			"latency":   latency,
			"requestId": c.Locals(requestid.ConfigDefault.ContextKey),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return uuid.New().String()
		},
	}))
	app.Use(compress.New())

	origins := cfg.Config.Server.CorsOrigins
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: origins != "*",
	}))

	app.Use(apiSwitch(cfg.Config.Server.APIEnabled))
	app.Use(cfg.Sessions.Middleware())
	app.Use(session.Guard(cfg.Config.Auth.ProtectedRoutes, cfg.Config.Auth.PublicRoutes))

	app.Get("/api/rooms/feed", feedHandler(cfg))
	app.Get("/api/superpet/ranking", rankingHandler(cfg))
	app.Post("/api/superpet/ranking/refresh", refreshHandler(cfg))

	app.Get("/api/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if err := cfg.Database.Ping(ctx); err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Warn("Health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false, "db": "down"})
		}
		return c.JSON(fiber.Map{"ok": true, "db": "up"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}

// apiSwitch answers every /api path with 503 while the API is disabled
func apiSwitch(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if enabled || !strings.HasPrefix(c.Path(), "/api") {
			return c.Next()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "API is currently disabled"})
	}
}

// parseLimit falls back to the default for missing, unparsable or out of range
// limits
func parseLimit(raw string, feed config.FeedConfig) int {
	limit, err := strconv.ParseInt(raw, 0, 32)
	if err != nil || limit < 1 || limit > int64(feed.MaxLimit) {
		return feed.DefaultLimit
	}
	return int(limit)
}

func feedHandler(cfg *ServerConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keyFeed, _ := strconv.ParseBool(c.Query("keyFeed"))
		req := feeds.Request{
			Category: c.Query("category"),
			Cursor:   c.Query("cursor"),
			Limit:    parseLimit(c.Query("limit"), cfg.Config.Feed),
			KeyFeed:  keyFeed,
		}
		if claims := session.FromContext(c); claims != nil {
			req.Identity = &feeds.Identity{Uid: claims.Uid}
		}

		resp, err := cfg.Feeds.Feed(c.UserContext(), req)
		if err != nil {
			return feedError(c, req, err)
		}
		return c.JSON(resp)
	}
}

func feedError(c *fiber.Ctx, req feeds.Request, err error) error {
	switch {
	case errors.Is(err, feeds.ErrBadRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	case errors.Is(err, feeds.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	case errors.Is(err, feeds.ErrMemberNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}

	log.WithFields(log.Fields{
		"category": req.Category,
		"cursor":   req.Cursor,
		"keyFeed":  req.KeyFeed,
		"error":    err,
	}).Error("Error building feed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load feed"})
}

func rankingHandler(cfg *ServerConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := cfg.Ranking.Top(c.UserContext())
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error loading ranking")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load ranking"})
		}
		return c.JSON(fiber.Map{"data": entries})
	}
}

func refreshHandler(cfg *ServerConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := session.FromContext(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		entries, err := cfg.Ranking.Refresh(c.UserContext())
		if err != nil {
			// A failed forced refresh drops the old ranking so the next read reloads
			cfg.Ranking.Invalidate()
			log.WithFields(log.Fields{
				"uid":   claims.Uid,
				"error": err,
			}).Error("Error refreshing ranking")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to refresh ranking"})
		}

		log.WithFields(log.Fields{
			"uid":     claims.Uid,
			"entries": len(entries),
		}).Info("Refreshed ranking")
		return c.JSON(fiber.Map{"data": entries})
	}
}
