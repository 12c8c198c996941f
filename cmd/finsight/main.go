package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finsight/internal/api"
	"finsight/internal/api/handlers"
	"finsight/internal/repository"
	"finsight/internal/service"
	"finsight/pkg/auth"
	"finsight/pkg/config"
	"finsight/pkg/logger"
	"finsight/pkg/postgres"

	"go.uber.org/zap"
)

// @title Finsight API
// @version 1.0
// @description Small-business financial insights: AI-driven bank statement analysis, transactions and spending insights

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting finsight service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	stmtRepo := repository.NewStatementRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	insightRepo := repository.NewInsightRepository(db, appLogger)

	// JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	categorizer := service.NewOpenAIClient(&cfg.OpenAI, appLogger)
	stmtService := service.NewStatementService(stmtRepo, txRepo, insightRepo, categorizer, appLogger)
	txService := service.NewTransactionService(txRepo, appLogger)
	insightService := service.NewInsightService(insightRepo, appLogger)
	deliveryNotifier := service.NewLogDeliveryNotifier(appLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	stmtHandler := handlers.NewStatementHandler(stmtService, appLogger)
	txHandler := handlers.NewTransactionHandler(txService, appLogger)
	insightHandler := handlers.NewInsightHandler(insightService, appLogger)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryNotifier, appLogger)

	app := api.SetupRouter(authHandler, stmtHandler, txHandler, insightHandler, deliveryHandler, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
