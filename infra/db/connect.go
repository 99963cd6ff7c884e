// Package db opens the gorm connection used by the ledger engine.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres
	_ "github.com/jinzhu/gorm/dialects/sqlite"   //sqlite3
	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/config"
	"github.com/radhian/ledger-engine/infra/db/model"
)

// Open connects to the configured database. SQLite is limited to a single
// connection so that a unit of work never waits on a second writer.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		conn *gorm.DB
		err  error
	)

	switch cfg.Driver {
	case "sqlite3":
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		conn, err = gorm.Open("sqlite3", cfg.Path+"?_busy_timeout=5000")
		if err == nil {
			conn.DB().SetMaxOpenConns(1)
		}
	default:
		uri := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s password=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.SSLMode, cfg.Password)
		conn, err = gorm.Open("postgres", uri)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database %s: %w", cfg.Name, err)
	}

	conn.LogMode(cfg.Debug)
	log.Infof("[DB] connected (driver=%s)", cfg.Driver)
	return conn, nil
}

// Migrate creates or updates the ledger tables.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&model.Account{},
		&model.Transaction{},
		&model.AccountHistory{},
		&model.Investment{},
		&model.AccountType{},
	).Error
	if err != nil {
		return fmt.Errorf("failed to migrate ledger tables: %w", err)
	}
	return nil
}
