package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/alerts"
	"github.com/jualabs/juajobs/internal/applications"
	"github.com/jualabs/juajobs/internal/auth"
	"github.com/jualabs/juajobs/internal/batch"
	"github.com/jualabs/juajobs/internal/cache"
	"github.com/jualabs/juajobs/internal/config"
	"github.com/jualabs/juajobs/internal/db"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/jobs"
	mware "github.com/jualabs/juajobs/internal/middleware"
	"github.com/jualabs/juajobs/internal/payments"
	"github.com/jualabs/juajobs/internal/reviews"
	"github.com/jualabs/juajobs/internal/store/postgres"
	userhttp "github.com/jualabs/juajobs/internal/user"
	"github.com/jualabs/juajobs/internal/validation"
	"github.com/jualabs/juajobs/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	defer pool.Close()

	st := postgres.New(pool)
	contacts := validation.New()

	var invalidator workflow.CacheInvalidator
	var notifier workflow.Notifier
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, log)
		defer redisCache.Close()
		invalidator = redisCache

		alerts.ConfigureMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		alerts.Init(cfg.RedisAddr, log)
		defer alerts.Close()
		notifier = alerts.Notifier{}
	} else {
		invalidator = cache.Noop{}
		log.Warn().Msg("REDIS_ADDR not set; cache and notifications disabled")
	}

	engine := workflow.New(st, invalidator, notifier, contacts, log)
	executor := batch.NewExecutor(engine, st, log)

	authH := auth.NewHandler(st, notifier, contacts, []byte(cfg.JWTSecret), log)
	userH := userhttp.NewHandler(engine, st, contacts, log)
	jobsH := jobs.NewHandler(engine, executor, log)
	appsH := applications.NewHandler(engine, log)
	reviewsH := reviews.NewHandler(engine, log)
	paymentsH := payments.NewHandler(engine, log)
	batchH := batch.NewHandler(executor, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok", "service": "juajobs"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(503, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(200, echo.Map{"status": "ready"})
	})

	// Public routes
	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", authH.Signup)
	authGroup.POST("/login", authH.Login)

	e.GET("/users/:id/profile", userH.GetPublicProfile)
	e.GET("/users/:id/reviews", reviewsH.ListFor)
	e.GET("/jobs", jobsH.List)
	e.GET("/jobs/:id", jobsH.Get)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWT([]byte(cfg.JWTSecret)))

	api.GET("/auth/me", authH.Me)
	api.PATCH("/users/profile", userH.UpdateProfile)

	api.POST("/jobs", jobsH.Create, mware.RequireRoles(user.RoleClient))
	api.POST("/jobs/bulk", jobsH.BulkUpload, mware.RequireRoles(user.RoleClient))
	api.PATCH("/jobs/:id", jobsH.Update, mware.RequireRoles(user.RoleClient))
	api.POST("/jobs/:id/status", jobsH.Transition, mware.RequireRoles(user.RoleClient))
	api.DELETE("/jobs/:id", jobsH.Delete, mware.RequireRoles(user.RoleClient))

	api.POST("/applications", appsH.Create, mware.RequireRoles(user.RoleWorker))
	api.GET("/applications", appsH.List)
	api.GET("/applications/:id", appsH.Get)
	api.POST("/applications/:id/accept", appsH.Accept, mware.RequireRoles(user.RoleClient))
	api.POST("/applications/:id/reject", appsH.Reject, mware.RequireRoles(user.RoleClient))
	api.POST("/applications/:id/withdraw", appsH.Withdraw, mware.RequireRoles(user.RoleWorker))

	api.POST("/reviews", reviewsH.Create)
	api.PATCH("/reviews/:id", reviewsH.Update)
	api.DELETE("/reviews/:id", reviewsH.Delete)

	api.POST("/payments", paymentsH.Create)
	api.GET("/payments", paymentsH.List)
	api.GET("/payments/:id", paymentsH.Get)
	api.POST("/payments/:id/status", paymentsH.Transition)

	api.POST("/batch", batchH.Run)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
