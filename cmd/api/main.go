package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pickme/intel-api/internal/config"
	"github.com/pickme/intel-api/internal/domain/admin"
	"github.com/pickme/intel-api/internal/domain/credit"
	"github.com/pickme/intel-api/internal/domain/dashboard"
	"github.com/pickme/intel-api/internal/domain/officer"
	"github.com/pickme/intel-api/internal/domain/query"
	"github.com/pickme/intel-api/internal/middleware"
	"github.com/pickme/intel-api/internal/pkg/database"
	"github.com/pickme/intel-api/internal/pkg/jwt"
	"github.com/pickme/intel-api/internal/pkg/ratelimit"
	pkgresponse "github.com/pickme/intel-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting PickMe Intel API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	adminJWT := jwt.NewService(cfg.JWTSecret, jwt.SubjectAdmin, cfg.JWTAdminTTL)
	officerJWT := jwt.NewService(cfg.JWTSecret, jwt.SubjectOfficer, cfg.JWTOfficerTTL)

	// ---------- Repositories ----------
	creditRepo := credit.NewRepository(db)
	officerRepo := officer.NewRepository(db)
	adminRepo := admin.NewRepository(db)
	queryRepo := query.NewRepository(db, creditRepo)

	// ---------- Live feed ----------
	liveFeed := query.NewFeed()
	go liveFeed.Run()
	defer liveFeed.Shutdown()

	// ---------- Services ----------
	creditService := credit.NewService(creditRepo)
	officerService := officer.NewService(officerRepo, officerJWT, cfg.DefaultRateLimitPerHour)
	adminService := admin.NewService(adminRepo, adminJWT)
	limiter := ratelimit.NewLimiter(redis, cfg.DefaultRateLimitPerHour)
	queryService := query.NewService(queryRepo, limiter, liveFeed)
	dashboardService := dashboard.NewService(db)

	// ---------- Handlers ----------
	creditHandler := credit.NewHandler(creditService)
	officerHandler := officer.NewHandler(officerService)
	adminHandler := admin.NewHandler(adminService)
	adminCreditHandler := admin.NewCreditHandler(creditService)
	queryHandler := query.NewHandler(queryService, liveFeed, admin.GetAdminID)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	adminAuth := admin.AuthMiddleware(adminJWT, adminService)
	officerAuth := middleware.OfficerAuth(officerJWT, officerService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", adminHandler.AuthRoutes(adminAuth))
		r.Post("/auth/officer/login", officerHandler.Login)

		r.Mount("/officers", officerHandler.Routes(adminAuth))
		r.Mount("/admins", adminHandler.AdminRoutes(adminAuth))
		r.Mount("/credits", adminCreditHandler.Routes(adminAuth))
		r.Mount("/me/credits", creditHandler.Routes(officerAuth))
		r.Mount("/queries", queryHandler.Routes(officerAuth, adminAuth))
		r.Mount("/dashboard", dashboardHandler.Routes(adminAuth))

		// WebSocket live feed; browsers can't set headers on upgrade, so
		// the token rides in the query string.
		r.Get("/live", func(w http.ResponseWriter, req *http.Request) {
			if token := req.URL.Query().Get("token"); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			adminAuth(http.HandlerFunc(queryHandler.Live)).ServeHTTP(w, req)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
