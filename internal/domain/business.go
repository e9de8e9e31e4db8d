package domain

import (
	"fmt"
	"time"
)

type Business struct {
	ID                  int64     `json:"id"`
	AccountID           int64     `json:"account_id"`
	Name                string    `json:"name"`
	Image               string    `json:"image"`
	MinimumBasketAmount float64   `json:"minimum_basket_amount"`
	Address             string    `json:"address"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// BusinessDetail is a business together with its menu.
type BusinessDetail struct {
	Business
	Products []Product `json:"products"`
}

// ListRestaurantsRequest filters the restaurant listing. The basket-amount
// range is only applied when ascending is set, matching the established
// client behavior.
type ListRestaurantsRequest struct {
	MinimumBasketAmountRange []float64 `json:"minimum_basket_amount_range,omitempty"`
	Ascending                bool      `json:"ascending"`
}

// RestaurantDetailRequest fetches one restaurant with its menu, optionally
// narrowed to a single category.
type RestaurantDetailRequest struct {
	ID       int64  `json:"id"`
	Category string `json:"category,omitempty"`
}

func (r *RestaurantDetailRequest) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("id is required")
	}
	if r.Category != "" && !IsValidCategory(r.Category) {
		return fmt.Errorf("invalid category")
	}
	return nil
}
