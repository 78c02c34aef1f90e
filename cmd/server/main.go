package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bookstore-api/internal/adapters/http/routes"
	"bookstore-api/internal/adapters/persistence/models"
	"bookstore-api/internal/adapters/persistence/repositories"
	"bookstore-api/internal/config"
	"bookstore-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gorm.io/gorm"

	_ "bookstore-api/docs" // Swagger docs
)

// @title Bookstore API
// @version 1.0
// @description Book catalog and lending API

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:          "server",
		Short:        "Bookstore lending API",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newSeedAdminCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)

			// Purge expired refresh tokens on a schedule
			cronService := services.NewCronService(repositories.NewRefreshTokenRepository(db))
			if err := cronService.Start(cfg.Cron.TokenCleanup); err != nil {
				return err
			}
			defer cronService.Stop()

			app := routes.NewApp(db, cfg)

			// Graceful shutdown
			go gracefulShutdown(app)

			log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
			if err := app.Listen(":" + cfg.Port); err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			return config.CloseDatabase(db)
		},
	}
}

func newSeedAdminCmd() *cobra.Command {
	var email, plain string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain == "" {
				plain = os.Getenv("ADMIN_PASSWORD")
			}
			if plain == "" {
				p, err := readPassword("Admin password: ")
				if err != nil {
					return err
				}
				plain = p
			}

			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)

			_, err = config.NewSeeder(db).SeedAdmin(cmd.Context(), email, plain)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&plain, "password", "", "admin password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// bootstrap loads config, connects and migrates
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		config.CloseDatabase(db)
		return nil, nil, fmt.Errorf("failed to auto migrate: %w", err)
	}
	log.Println("✅ Database migration completed")

	return cfg, db, nil
}

// readPassword reads a password without echo
func readPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no terminal to prompt for a password; use --password or ADMIN_PASSWORD")
	}

	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
