package domain

import (
	"fmt"
	"strings"
	"time"
)

// Address belongs to exactly one account. Only the owning account may create,
// change, or delete it.
type Address struct {
	ID             int64     `json:"id"`
	AccountID      int64     `json:"-"`
	Neighborhood   string    `json:"neighborhood"`
	Street         string    `json:"street"`
	BuildingNumber string    `json:"building_number"`
	ZipCode        string    `json:"zip_code"`
	District       string    `json:"district"`
	City           string    `json:"city"`
	AddressDetail  string    `json:"address_detail"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type AddressInput struct {
	Neighborhood   string `json:"neighborhood"`
	Street         string `json:"street"`
	BuildingNumber string `json:"building_number"`
	ZipCode        string `json:"zip_code"`
	District       string `json:"district"`
	City           string `json:"city"`
	AddressDetail  string `json:"address_detail"`
	IsDefault      bool   `json:"is_default"`
}

func (r *AddressInput) Normalize() {
	r.Neighborhood = strings.TrimSpace(r.Neighborhood)
	r.Street = strings.TrimSpace(r.Street)
	r.BuildingNumber = strings.TrimSpace(r.BuildingNumber)
	r.ZipCode = strings.TrimSpace(r.ZipCode)
	r.District = strings.TrimSpace(r.District)
	r.City = strings.TrimSpace(r.City)
	r.AddressDetail = strings.TrimSpace(r.AddressDetail)
}

func (r *AddressInput) Validate() error {
	if r.Street == "" {
		return fmt.Errorf("street is required")
	}
	if r.City == "" {
		return fmt.Errorf("city is required")
	}
	return nil
}
