package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/cache"
	"github.com/stemsi/ejurnal-backend/internal/config"
	"github.com/stemsi/ejurnal-backend/internal/database"
	"github.com/stemsi/ejurnal-backend/internal/handler"
	"github.com/stemsi/ejurnal-backend/internal/logger"
	"github.com/stemsi/ejurnal-backend/internal/repository"
	"github.com/stemsi/ejurnal-backend/internal/router"
	"github.com/stemsi/ejurnal-backend/internal/service"
	"github.com/stemsi/ejurnal-backend/internal/validator"
	"github.com/stemsi/ejurnal-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("timezone", cfg.AppTimezone).
		Msg("Starting E-Jurnal Backend")

	if cfg.UsesDefaultSecret() {
		if cfg.GinMode == "release" {
			log.Fatal().Msg("JWT_SECRET must be set in release mode")
		}
		log.Warn().Msg("Using the development JWT secret; set JWT_SECRET before deploying")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	majorRepo := repository.NewMajorRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	journalRepo := repository.NewJournalRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// ─── Redis-backed helpers ──────────────────────────────────────────
	statsCache := cache.NewStatsCache(rdb)
	blocklist := cache.NewTokenBlocklist(rdb)
	feed := cache.NewJournalFeed(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, staffRepo, adminRepo, blocklist)
	reportService := service.NewReportService(reportRepo, journalRepo, studentRepo, statsCache, cfg.StatsCacheTTL, cfg.Location(), log)
	staffService := service.NewStaffService(staffRepo, adminRepo, majorRepo, authService, reportService, log)
	majorService := service.NewMajorService(majorRepo)
	subjectService := service.NewSubjectService(subjectRepo, log)
	classService := service.NewClassService(classRepo, majorRepo, staffRepo, studentRepo, reportService)
	studentService := service.NewStudentService(studentRepo, classRepo, reportService, log)
	scheduleService := service.NewScheduleService(scheduleRepo, staffRepo, classRepo, subjectRepo)
	journalService := service.NewJournalService(journalRepo, scheduleRepo, studentRepo, statsCache, feed, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Major:     handler.NewMajorHandler(majorService),
		Class:     handler.NewClassHandler(classService),
		Subject:   handler.NewSubjectHandler(subjectService),
		Student:   handler.NewStudentHandler(studentService),
		Staff:     handler.NewStaffHandler(staffService),
		Schedule:  handler.NewScheduleHandler(scheduleService),
		Teacher:   handler.NewTeacherHandler(scheduleService, classService, journalService),
		Principal: handler.NewPrincipalHandler(reportService),
		Feed:      handler.NewFeedHandler(feed, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	statsWorker := worker.NewStatsWorker(feed, reportService, log)
	go statsWorker.Start(ctx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// Stops the stats worker. Hijacked feed sockets close when the process exits.
	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
