package api

import (
	"finsight/docs"
	"finsight/internal/api/handlers"
	"finsight/pkg/auth"
	"finsight/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	stmtHandler *handlers.StatementHandler,
	txHandler *handlers.TransactionHandler,
	insightHandler *handlers.InsightHandler,
	deliveryHandler *handlers.DeliveryHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024, // uploads are capped at 10 MiB plus multipart overhead
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Swagger - importing docs registers the spec via init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	statements := protected.Group("/statements")
	statements.Post("/analyze", stmtHandler.AnalyzeStatement)
	statements.Get("", stmtHandler.ListStatements)
	statements.Get("/:id", stmtHandler.GetStatement)

	transactions := protected.Group("/transactions")
	transactions.Get("", txHandler.ListTransactions)
	transactions.Get("/summary", txHandler.GetSummary)

	insights := protected.Group("/insights")
	insights.Get("", insightHandler.ListInsights)
	insights.Patch("/:id/status", insightHandler.UpdateInsightStatus)

	delivery := protected.Group("/delivery")
	delivery.Post("/notify", deliveryHandler.NotifyDelivery)

	return app
}
