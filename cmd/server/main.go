package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ward-calendar-api/config"
	"ward-calendar-api/internal/admin"
	"ward-calendar-api/internal/auth"
	"ward-calendar-api/internal/database"
	"ward-calendar-api/internal/frontend"
	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/ward"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	logger := config.ConfigureLogger(cfg.Debug)

	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	logService := &logs.LogService{DB: db}
	wardService := &ward.WardService{DB: db}

	if cfg.SeedOnStart {
		seed(wardService, logService, logger)
	}

	r := newRouter(cfg, db, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func seed(wardService *ward.WardService, logService *logs.LogService, logger *zerolog.Logger) {
	res, err := wardService.LoadWards(io.Discard)
	if err != nil {
		logger.Error().Err(err).Msg("seeding wards failed")
		return
	}
	logger.Info().Int("created", len(res.Created)).Int("skipped", len(res.Skipped)).Msg("wards seeded")

	if len(res.Created) > 0 {
		if err := logService.Log(res.AuditEntry(), nil); err != nil {
			logger.Warn().Err(err).Msg("failed to insert seed log")
		}
	}
}

func newRouter(cfg config.Config, db *gorm.DB, logger *zerolog.Logger) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}

	wardService := &ward.WardService{DB: db}
	ward.RegisterRoutes(r, wardService, logService)

	adminGroup := r.Group("/admin")
	authService := &auth.AuthService{DB: db}
	auth.RegisterRoutes(adminGroup, authService, logService, cfg.JWTSecret, cfg.SecureCookies)

	adminService := &admin.AdminService{DB: db}
	admin.RegisterRoutes(adminGroup, adminService, wardService, logService, cfg.JWTSecret)

	root := frontend.Resolve(cfg.StaticRoot, frontend.DefaultCandidates)
	logger.Info().Str("root", root).Str("prefix", cfg.StaticPrefix()).Msg("serving frontend")
	frontend.RegisterRoutes(r, frontend.NewHandler(frontend.Options{
		Root:          root,
		StaticPrefix:  cfg.StaticPrefix(),
		RewriteAssets: cfg.RewriteAssets,
		Logger:        *logger,
	}))

	return r
}

func requestLogger(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client", c.ClientIP()).
			Msg("request")
	}
}
