package services

import (
	"context"
	"fmt"
	"time"

	"foodapp/internal/db"
	"foodapp/internal/models"
	"foodapp/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ImageMeta describes an uploaded dish photo. The bytes are not kept.
type ImageMeta struct {
	Name        string
	ContentType string
	Size        int64
}

type MenuService struct {
	store  db.MenuStore
	logger zerolog.Logger
}

func NewMenuService(store db.MenuStore, logger zerolog.Logger) *MenuService {
	return &MenuService{
		store:  store,
		logger: logger,
	}
}

func (s *MenuService) AddItem(ctx context.Context, sellerID string, form models.FoodItemForm, image *ImageMeta) (*models.FoodItem, error) {
	price, err := validation.ValidateFoodItem(form)
	if err != nil {
		return nil, err
	}

	ingredients := form.SelectedIngredients
	if ingredients == nil {
		ingredients = []string{}
	}
	item := &models.FoodItem{
		ID:                  uuid.NewString(),
		SellerID:            sellerID,
		Name:                form.Name,
		Price:               price,
		Category:            form.Category,
		Description:         form.Description,
		PickUp:              form.PickUp,
		Delivery:            form.Delivery,
		SelectedIngredients: ingredients,
		CreatedAt:           time.Now().UTC(),
	}
	if image != nil {
		item.ImageName = image.Name
		item.ImageType = image.ContentType
		item.ImageSize = image.Size
	}

	if err := s.store.CreateFoodItem(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("seller_id", sellerID).Msg("Error creating food item")
		return nil, fmt.Errorf("failed to create food item: %w", err)
	}

	s.logger.Info().Str("item_id", item.ID).Str("seller_id", sellerID).Msg("Food item added")
	return item, nil
}

func (s *MenuService) ListItems(ctx context.Context, sellerID string) ([]models.FoodItem, error) {
	items, err := s.store.ListFoodItems(ctx, sellerID)
	if err != nil {
		s.logger.Error().Err(err).Str("seller_id", sellerID).Msg("Error listing food items")
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}
	return items, nil
}
