package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoicing-backend/config"
	"invoicing-backend/controllers"
	"invoicing-backend/database"
	"invoicing-backend/logger"
	"invoicing-backend/middlewares"
	"invoicing-backend/reports"
)

// Deps are the long-lived handles every route shares. main owns them.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger
	Tokens *middlewares.TokenIssuer
}

// NewApp builds the Fiber app with its global middleware and all routes.
func NewApp(deps Deps) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: middlewares.NewErrorHandler(deps.Logger),
		BodyLimit:    cfg.HTTP.BodyLimitBytes,
	})

	app.Use(logger.FiberMiddleware(deps.Logger))

	// Cookies need credentialed CORS, which cannot be combined with "*".
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowCredentials: cfg.HTTP.AllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Request-ID",
	}))

	// Default KeyGenerator = client IP; default 429 handler is fine.
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.HTTP.RateLimitMax,
		Expiration: cfg.HTTP.RateLimitWindow,
	}))

	Register(app, deps)
	return app
}

// Register wires all HTTP routes.
func Register(app *fiber.App, deps Deps) {
	log := deps.Logger

	users := database.NewUserRepository(deps.DB)
	accounts := database.NewAccountRepository(deps.DB)
	categories := database.NewCategoryRepository(deps.DB)
	products := database.NewProductRepository(deps.DB)
	invoices := database.NewInvoiceRepository(deps.DB)
	reportStore := database.NewReportRepository(deps.DB)

	authController := controllers.NewAuthController(users, deps.Tokens, deps.Config.Cookie.Secure, log)
	accountController := controllers.NewAccountController(accounts, log)
	productController := controllers.NewProductController(categories, products, log)
	invoiceController := controllers.NewInvoiceController(invoices, accounts, log)
	userController := controllers.NewUserController(users, log)
	reportController := controllers.NewReportController(
		reports.NewService(invoices, reportStore, accounts, log),
		!deps.Config.IsProduction(),
		log,
	)

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public auth endpoints
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)
	api.Post("/auth/logout", authController.Logout)

	// Protected endpoints (JWT from cookie or Bearer header)
	requireAuth := deps.Tokens.RequireAuth()
	idempotency := middlewares.Idempotency(deps.DB, log)

	api.Get("/auth/me", requireAuth, authController.Me)
	api.Put("/auth/me", requireAuth, authController.UpdateMe)

	// Accounts
	acc := api.Group("/accounts", requireAuth, middlewares.RequirePermission(middlewares.ModuleAccounts))
	acc.Get("/", accountController.GetAccounts)
	acc.Post("/", idempotency, accountController.CreateAccount)
	acc.Get("/:id", accountController.GetAccount)
	acc.Put("/:id", accountController.UpdateAccount)
	acc.Delete("/:id", accountController.DeleteAccount)

	// Categories and products share the products module
	cat := api.Group("/categories", requireAuth, middlewares.RequirePermission(middlewares.ModuleProducts))
	cat.Get("/", productController.GetCategories)
	cat.Post("/", productController.CreateCategory)

	prod := api.Group("/products", requireAuth, middlewares.RequirePermission(middlewares.ModuleProducts))
	prod.Get("/", productController.GetProducts)
	prod.Post("/", productController.CreateProduct)
	prod.Get("/:id", productController.GetProduct)
	prod.Put("/:id", productController.UpdateProduct)
	prod.Delete("/:id", productController.DeleteProduct)

	// Invoices
	inv := api.Group("/invoices", requireAuth, middlewares.RequirePermission(middlewares.ModuleInvoices))
	inv.Get("/", invoiceController.GetInvoices)
	inv.Post("/", idempotency, invoiceController.CreateInvoice)
	inv.Get("/:id", invoiceController.GetInvoice)
	inv.Patch("/:id/status", invoiceController.UpdateInvoiceStatus)
	inv.Delete("/:id", invoiceController.DeleteInvoice)

	// Reports: every POST generates a new document, so no idempotency guard
	rep := api.Group("/reports", requireAuth, middlewares.RequirePermission(middlewares.ModuleReports))
	rep.Get("/", reportController.GetReports)
	rep.Post("/", reportController.GenerateReport)
	rep.Get("/:id", reportController.GetReport)

	// Users
	usr := api.Group("/users", requireAuth, middlewares.RequirePermission(middlewares.ModuleUsers))
	usr.Get("/", userController.GetUsers)
	usr.Get("/:id", userController.GetUser)
	usr.Put("/:id", userController.UpdateUser)
	usr.Delete("/:id", userController.DeleteUser)
}
