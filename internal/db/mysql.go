package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"foodapp/internal/models"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) CreateUser(ctx context.Context, a *models.Account) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.Name, a.Email, a.PasswordHash, string(a.Role), a.CreatedAt, a.UpdatedAt,
	)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetUserByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getUser(ctx, "email", email)
}

func (s *MySQLStore) GetUserByID(ctx context.Context, id string) (*models.Account, error) {
	return s.getUser(ctx, "id", id)
}

func (s *MySQLStore) getUser(ctx context.Context, column, value string) (*models.Account, error) {
	var a models.Account
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, role, created_at, updated_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	a.Role = models.UserRole(role)
	return &a, nil
}

func (s *MySQLStore) UpdateUser(ctx context.Context, a *models.Account) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?",
		a.Name, a.Email, a.UpdatedAt, a.ID,
	)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (s *MySQLStore) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO food_items (id, seller_id, name, price, category, description, pick_up, delivery, ingredients, image_name, image_type, image_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.SellerID, item.Name, item.Price, item.Category, item.Description,
		item.PickUp, item.Delivery, strings.Join(item.SelectedIngredients, ","),
		item.ImageName, item.ImageType, item.ImageSize, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting food item: %w", err)
	}
	return nil
}

func (s *MySQLStore) ListFoodItems(ctx context.Context, sellerID string) ([]models.FoodItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seller_id, name, price, category, description, pick_up, delivery, ingredients, image_name, image_type, image_size, created_at
		FROM food_items WHERE seller_id = ? ORDER BY created_at DESC`,
		sellerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying food items: %w", err)
	}
	defer rows.Close()

	items := []models.FoodItem{}
	for rows.Next() {
		var item models.FoodItem
		var ingredients sql.NullString
		var imageName, imageType sql.NullString
		var imageSize sql.NullInt64
		if err := rows.Scan(
			&item.ID, &item.SellerID, &item.Name, &item.Price, &item.Category, &item.Description,
			&item.PickUp, &item.Delivery, &ingredients, &imageName, &imageType, &imageSize, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning food item: %w", err)
		}
		item.SelectedIngredients = []string{}
		if ingredients.String != "" {
			item.SelectedIngredients = strings.Split(ingredients.String, ",")
		}
		item.ImageName = imageName.String
		item.ImageType = imageType.String
		item.ImageSize = imageSize.Int64
		items = append(items, item)
	}
	return items, rows.Err()
}
