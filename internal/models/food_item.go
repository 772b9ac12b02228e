package models

import "time"

// Categories a seller can file a dish under.
var FoodCategories = []string{"Breakfast", "Lunch", "Dinner", "Snacks", "Dessert"}

// FoodItemForm is the add-menu-item form as a seller fills it in.
type FoodItemForm struct {
	Name                string
	Price               string
	Category            string
	Description         string
	PickUp              bool
	Delivery            bool
	SelectedIngredients []string
	// Image is the local path or URI of the dish photo.
	Image string
}

type FoodItem struct {
	ID                  string    `json:"id"`
	SellerID            string    `json:"sellerId"`
	Name                string    `json:"name"`
	Price               float64   `json:"price"`
	Category            string    `json:"category"`
	Description         string    `json:"description"`
	PickUp              bool      `json:"pickUp"`
	Delivery            bool      `json:"delivery"`
	SelectedIngredients []string  `json:"selectedIngredients"`
	ImageName           string    `json:"imageName,omitempty"`
	ImageType           string    `json:"imageType,omitempty"`
	ImageSize           int64     `json:"imageSize,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}
