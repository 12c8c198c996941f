package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"finsight/internal/models"
	"finsight/internal/repository"
	"finsight/pkg/auth"
	"finsight/pkg/config"
	"finsight/pkg/logger"
	"finsight/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Applies the schema and optionally creates a demo account for local
// development.
func main() {
	schemaPath := flag.String("schema", "migrations/schema.sql", "path to the schema file")
	demoUser := flag.Bool("demo-user", false, "create a demo user (demo@finsight.local / demo-password)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		appLogger.Fatal("Failed to read schema file", zap.String("path", *schemaPath), zap.Error(err))
	}

	if _, err := db.Exec(ctx, string(schema)); err != nil {
		appLogger.Fatal("Failed to apply schema", zap.Error(err))
	}
	appLogger.Info("Schema applied", zap.String("path", *schemaPath))

	if *demoUser {
		if err := seedDemoUser(ctx, repository.NewUserRepository(db, appLogger), appLogger); err != nil {
			appLogger.Fatal("Failed to seed demo user", zap.Error(err))
		}
	}

	appLogger.Info("Database seeding completed")
}

func seedDemoUser(ctx context.Context, users *repository.UserRepository, appLogger *zap.Logger) error {
	const email = "demo@finsight.local"

	existing, err := users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if existing != nil {
		appLogger.Info("Demo user already exists", zap.String("email", email))
		return nil
	}

	hashed, err := auth.HashPassword("demo-password")
	if err != nil {
		return err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Username:  "demo",
		Email:     email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}

	appLogger.Info("Demo user created", zap.String("email", email), zap.String("id", user.ID.String()))
	return nil
}
