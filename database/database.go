package database

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"registro/config"
	"registro/models"
)

// DB is the shared directory database holding users and app settings.
// Company stores are opened per request via OpenCompanyStore.
var DB *gorm.DB

// InitDB creates the data directory if needed, opens the directory database
// according to config.Settings, applies connection pool settings and optional
// SQLite PRAGMAs, runs automigrations for models.User and models.AppSetting,
// and assigns the resulting *gorm.DB to the package DB.
func InitDB() error {
	if err := os.MkdirAll(config.Settings.DataDir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(config.Settings.DataDir, config.Settings.UsersDBName)
	db, err := openSQLite(path)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&models.User{}, &models.AppSetting{}); err != nil {
		return err
	}

	DB = db
	log.Println("Directory database initialized successfully")
	return nil
}

// CloseDB closes the directory database connection and releases resources
func CloseDB() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	log.Println("Closing directory database connection...")
	return sqlDB.Close()
}

// openSQLite opens a SQLite file with the configured GORM logger, PRAGMAs
// and pool limits. It is shared by the directory database and the
// per-company stores.
func openSQLite(path string) (*gorm.DB, error) {
	logLevel := logger.Silent
	if config.Settings.LogLevel == "DEBUG" {
		logLevel = logger.Info
	}

	logWriter := log.Writer()

	dsn := buildSQLiteDSN(path, config.Settings)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: sqliteMetricsLogger{inner: logger.New(
			log.New(logWriter, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel: logLevel,
			},
		)},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	pool := currentSQLitePoolConfig(config.Settings)
	sqlDB.SetMaxIdleConns(pool.maxIdleConns)
	sqlDB.SetMaxOpenConns(pool.maxOpenConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(pool.maxIdleSec) * time.Second)
	sqlDB.SetConnMaxLifetime(time.Duration(pool.maxLifeSec) * time.Second)

	// Apply PRAGMAs again as a best-effort startup initialization (useful for
	// existing DB files). Connection URL parameters ensure PRAGMAs are applied
	// for new connections too.
	if config.Settings.SQLitePragmasEnabled {
		if config.Settings.SQLiteBusyTimeoutMS > 0 {
			db.Exec("PRAGMA busy_timeout = ?", config.Settings.SQLiteBusyTimeoutMS)
		}
		if journalMode := normalizeSQLiteJournalMode(config.Settings.SQLiteJournalMode); journalMode != "" {
			db.Exec("PRAGMA journal_mode = " + journalMode)
		}
		if synchronous := normalizeSQLiteSynchronous(config.Settings.SQLiteSynchronous); synchronous != "" {
			db.Exec("PRAGMA synchronous = " + synchronous)
		}
		if config.Settings.SQLiteForeignKeys {
			db.Exec("PRAGMA foreign_keys = ON")
		} else {
			db.Exec("PRAGMA foreign_keys = OFF")
		}
	}

	return db, nil
}
