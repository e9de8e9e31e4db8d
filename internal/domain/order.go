package domain

import (
	"fmt"
	"time"
)

// Order is a single product ordered by an account, delivered to one of its
// addresses. is_active flips to true once the business accepts the order.
type Order struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	ProductID int64     `json:"product_id"`
	AddressID int64     `json:"address_id"`
	IsActive  bool      `json:"is_active"`
	OrderNote string    `json:"order_note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderDetail carries the joined product and business names used in listings.
type OrderDetail struct {
	Order
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	BusinessName string  `json:"business_name"`
}

type CreateOrderRequest struct {
	ProductIDs []int64 `json:"products_id"`
	OrderNote  string  `json:"order_note,omitempty"`
}

func (r *CreateOrderRequest) Validate() error {
	if len(r.ProductIDs) == 0 {
		return fmt.Errorf("at least one product is required")
	}
	for _, id := range r.ProductIDs {
		if id <= 0 {
			return fmt.Errorf("invalid product id")
		}
	}
	return nil
}

type CancelOrderRequest struct {
	ID int64 `json:"id"`
}

type OrderResultRequest struct {
	ID     int64 `json:"id"`
	Result bool  `json:"result"`
}

type ListBusinessOrdersRequest struct {
	IsActive *bool `json:"is_active,omitempty"`
}

type OrderDetailRequest struct {
	ID int64 `json:"id"`
}
