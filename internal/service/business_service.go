package service

import (
	"context"

	"github.com/softalya/foodcourt/internal/apperr"
	"github.com/softalya/foodcourt/internal/domain"
	"github.com/softalya/foodcourt/internal/repo/postgres"
)

type BusinessService interface {
	ListRestaurants(ctx context.Context, req *domain.ListRestaurantsRequest) ([]domain.Business, error)
	RestaurantDetail(ctx context.Context, req *domain.RestaurantDetailRequest) (*domain.BusinessDetail, error)
	ListProducts(ctx context.Context, req *domain.ListProductsRequest) ([]domain.Product, error)
}

type businessService struct {
	businesses postgres.BusinessRepository
	products   postgres.ProductRepository
}

func NewBusinessService(businesses postgres.BusinessRepository, products postgres.ProductRepository) BusinessService {
	return &businessService{businesses: businesses, products: products}
}

func (s *businessService) ListRestaurants(ctx context.Context, req *domain.ListRestaurantsRequest) ([]domain.Business, error) {
	var minBasket, maxBasket *float64

	// The range filter only takes effect in ascending listings; the default
	// descending listing always shows everything.
	if req.Ascending && len(req.MinimumBasketAmountRange) == 2 {
		minBasket = &req.MinimumBasketAmountRange[0]
		maxBasket = &req.MinimumBasketAmountRange[1]
	}

	restaurants, err := s.businesses.List(ctx, req.Ascending, minBasket, maxBasket)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	return restaurants, nil
}

func (s *businessService) RestaurantDetail(ctx context.Context, req *domain.RestaurantDetailRequest) (*domain.BusinessDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	business, err := s.businesses.FindByID(ctx, req.ID)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	if business == nil {
		return nil, apperr.NotFound("restaurant not found")
	}

	products, err := s.products.ListByBusiness(ctx, business.ID, req.Category)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}

	return &domain.BusinessDetail{Business: *business, Products: products}, nil
}

func (s *businessService) ListProducts(ctx context.Context, req *domain.ListProductsRequest) ([]domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	products, err := s.products.ListByBusiness(ctx, req.BusinessID, req.Category)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	return products, nil
}
