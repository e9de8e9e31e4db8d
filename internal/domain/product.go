package domain

import (
	"fmt"
	"time"
)

// Product categories seeded with the schema.
const (
	CategoryFood    = "Food"
	CategoryDessert = "Dessert"
	CategoryDrink   = "Drink"
)

var validCategories = map[string]bool{
	CategoryFood:    true,
	CategoryDessert: true,
	CategoryDrink:   true,
}

func IsValidCategory(name string) bool {
	return validCategories[name]
}

type Product struct {
	ID          int64     `json:"id"`
	BusinessID  int64     `json:"business_id"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListProductsRequest struct {
	BusinessID int64  `json:"business_id"`
	Category   string `json:"category,omitempty"`
}

func (r *ListProductsRequest) Validate() error {
	if r.BusinessID <= 0 {
		return fmt.Errorf("business_id is required")
	}
	if r.Category != "" && !IsValidCategory(r.Category) {
		return fmt.Errorf("invalid category")
	}
	return nil
}
