package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/ejurnal-backend/internal/config"
	"github.com/stemsi/ejurnal-backend/internal/database"
	"github.com/stemsi/ejurnal-backend/internal/logger"
	"github.com/stemsi/ejurnal-backend/internal/repository"
	"github.com/stemsi/ejurnal-backend/internal/service"
)

// distribute-students deals every student into a class, one class at a time in
// enrollment order, and saves all moves in one transaction.
func main() {
	confirm := flag.Bool("yes", false, "apply the new class assignments")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if !*confirm {
		fmt.Println("This moves every student into a new class. Re-run with -yes to continue.")
		return
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	studentService := service.NewStudentService(
		repository.NewStudentRepository(pool),
		repository.NewClassRepository(pool),
		nil,
		log,
	)

	assignments, err := studentService.Redistribute(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to distribute students")
	}

	perClass := make(map[int]int)
	for _, a := range assignments {
		perClass[a.ClassID]++
	}
	fmt.Printf("Distributed %d students over %d classes.\n", len(assignments), len(perClass))
}
