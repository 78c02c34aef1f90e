package routes

import (
	"time"

	"bookstore-api/internal/adapters/http/handlers"
	"bookstore-api/internal/adapters/http/middleware"
	"bookstore-api/internal/adapters/persistence/repositories"
	"bookstore-api/internal/config"
	"bookstore-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	jsoniter "github.com/json-iterator/go"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewApp builds the fiber app with middleware and every route wired
func NewApp(db *gorm.DB, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Bookstore API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	middleware.Setup(app, cfg)
	Setup(app, db, cfg)

	return app
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	store := repositories.NewStore(db)
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Initialize services
	lendingService := services.NewLendingService(store)
	bookService := services.NewBookService(store)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg.JWT)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService)
	lendingHandler := handlers.NewLendingHandler(lendingService)

	// Health check, metrics & docs
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", middleware.MetricsHandler())
	app.Get("/swagger/*", swagger.HandlerDefault)

	setupAuthRoutes(app, authHandler, cfg)
	setupUserRoutes(app, userHandler, cfg)
	setupBookRoutes(app, bookHandler, cfg)
	setupLendingRoutes(app, lendingHandler, cfg)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(app *fiber.App, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	app.Post("/login", middleware.AuthRateLimiter(), middleware.NoCacheHeaders(), handler.Login)

	auth := app.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/refresh", handler.RefreshToken)
	auth.Post("/logout", handler.Logout)

	// Protected routes
	auth.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures registration and user administration
func setupUserRoutes(app *fiber.App, handler *handlers.UserHandler, cfg *config.Config) {
	app.Post("/createUser/", middleware.AuthRateLimiter(), handler.CreateUser)

	authRequired := middleware.AuthMiddleware(cfg)

	app.Get("/users/", authRequired, middleware.AdminOnly(), handler.ListUsers)
	app.Get("/users/email/:email", authRequired, middleware.LibrarianOrAdmin(), handler.GetUserByEmail)
	app.Get("/users/:id", authRequired, middleware.SelfOrStaff("id"), handler.GetUser)
	app.Put("/users/:id/role", authRequired, middleware.AdminOnly(), handler.UpdateRole)
	app.Delete("/users/delete/:id", authRequired, middleware.AdminOnly(), handler.DeleteUser)
}

// setupBookRoutes configures catalog routes; writes need a staff role
func setupBookRoutes(app *fiber.App, handler *handlers.BookHandler, cfg *config.Config) {
	authRequired := middleware.AuthMiddleware(cfg)

	app.Post("/addBook/", authRequired, middleware.LibrarianOrAdmin(), handler.CreateBook)

	app.Get("/books/", authRequired, middleware.CacheControl(30*time.Second), handler.ListBooks)
	app.Get("/books/:id", authRequired, handler.GetBook)
	app.Put("/books/:id", authRequired, middleware.LibrarianOrAdmin(), handler.UpdateBook)
	app.Delete("/books/:id", authRequired, middleware.LibrarianOrAdmin(), handler.DeleteBook)
}

// setupLendingRoutes configures borrow, list and return routes
func setupLendingRoutes(app *fiber.App, handler *handlers.LendingHandler, cfg *config.Config) {
	authRequired := middleware.AuthMiddleware(cfg)
	selfOrStaff := middleware.SelfOrStaff("user_id")

	// Ownership is checked in the handler since ids may come from the body
	app.Post("/borrowBook/", authRequired, handler.BorrowBookByQuery)

	noCache := middleware.NoCacheHeaders()

	app.Post("/users/:user_id/borrowBook/:book_id", authRequired, selfOrStaff, noCache, handler.BorrowBook)
	app.Post("/users/:user_id/addBook", authRequired, selfOrStaff, noCache, handler.AddBookToUser)
	app.Get("/users/:user_id/borrowed_books", authRequired, selfOrStaff, noCache, handler.ListBorrowedBooks)
	app.Delete("/users/:user_id/delete/borrowed_books/:book_id", authRequired, selfOrStaff, noCache, handler.ReturnBook)
}
