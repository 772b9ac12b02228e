package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foodapp/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// UserStore persists backend accounts.
type UserStore interface {
	CreateUser(ctx context.Context, account *models.Account) error
	GetUserByEmail(ctx context.Context, email string) (*models.Account, error)
	GetUserByID(ctx context.Context, id string) (*models.Account, error)
	// UpdateUser overwrites name, email and updated_at of an existing account.
	UpdateUser(ctx context.Context, account *models.Account) error
}

// MenuStore persists sellers' food items.
type MenuStore interface {
	CreateFoodItem(ctx context.Context, item *models.FoodItem) error
	ListFoodItems(ctx context.Context, sellerID string) ([]models.FoodItem, error)
}

type Store interface {
	UserStore
	MenuStore
}

func InitDB(dbURL string, logger zerolog.Logger) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parsing DB_URL: %w", err)
	}
	// DATETIME columns scan into time.Time.
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}

	logger.Info().Msg("Connected to database")
	return db, nil
}

func RunMigrations(db *sql.DB, logger zerolog.Logger) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS food_items (
			id CHAR(36) PRIMARY KEY,
			seller_id CHAR(36) NOT NULL,
			name VARCHAR(200) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			category VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			pick_up BOOLEAN NOT NULL DEFAULT FALSE,
			delivery BOOLEAN NOT NULL DEFAULT FALSE,
			ingredients TEXT,
			image_name VARCHAR(255),
			image_type VARCHAR(100),
			image_size BIGINT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_seller_id (seller_id),
			FOREIGN KEY (seller_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	logger.Info().Msg("Migrations complete")
	return nil
}
