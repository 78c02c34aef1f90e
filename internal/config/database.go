package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens the database configured in cfg and verifies the connection.
// The returned handle is owned by the caller and must be closed with CloseDatabase.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := HealthCheck(db); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	switch cfg.Database.Driver {
	case DriverSQLite:
		log.Printf("✅ Database connected successfully [sqlite:%s]", cfg.Database.Path)
	default:
		log.Printf("✅ Database connected successfully [%s:%s/%s]",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.DBName,
		)
	}

	return db, nil
}

// OpenDatabase opens a gorm handle for the given database config
func OpenDatabase(d DatabaseConfig) (*gorm.DB, error) {
	// Configure GORM logger based on mode
	gormLogger := logger.Default.LogMode(logger.Error)
	if d.LogSQL {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch d.Driver {
	case DriverPostgres:
		dialector = postgres.Open(buildPostgresDSN(d))
	case DriverSQLite:
		dialector = sqlite.Open(buildSQLiteDSN(d))
	default:
		dialector = mysql.Open(buildMySQLDSN(d))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true, // Better performance
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if d.Driver == DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// buildMySQLDSN returns the mysql connection string
func buildMySQLDSN(d DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
	)
}

// buildPostgresDSN returns the postgres connection string
func buildPostgresDSN(d DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.DBName,
	)
}

// buildSQLiteDSN returns the sqlite path with foreign key enforcement switched on
func buildSQLiteDSN(d DatabaseConfig) string {
	if strings.Contains(d.Path, "_foreign_keys=") || strings.Contains(d.Path, "_fk=") {
		return d.Path
	}
	if strings.Contains(d.Path, "?") {
		return d.Path + "&_foreign_keys=1"
	}
	return d.Path + "?_foreign_keys=1"
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// HealthCheck checks if database is healthy
func HealthCheck(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
