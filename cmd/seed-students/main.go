package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/database"
	"github.com/examhall/examhall-backend/internal/logger"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var count int
	var password string
	flag.IntVar(&count, "count", 50, "Number of student accounts to create")
	flag.StringVar(&password, "password", "student123", "Initial password for every seeded account")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	studentRepo := repository.NewStudentRepository(pool)

	fmt.Printf("=== Seeding %d Students ===\n", count)

	// One hash shared across all seeded accounts keeps the loop fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	created := 0
	for i := 1; i <= count; i++ {
		student := &model.Student{
			Username:     fmt.Sprintf("student%03d", i),
			Name:         fmt.Sprintf("Student %03d", i),
			PasswordHash: string(hash),
		}
		if err := studentRepo.Create(ctx, student); err != nil {
			if errors.Is(err, repository.ErrDuplicateUsername) {
				fmt.Printf("Skipping %s: already exists\n", student.Username)
				continue
			}
			log.Fatal().Err(err).Str("username", student.Username).Msg("Failed to create student")
		}
		created++
	}

	fmt.Printf("Done. Created %d of %d students.\n", created, count)
}
