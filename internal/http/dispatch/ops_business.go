package dispatch

import (
	"context"
	"encoding/json"

	"github.com/softalya/foodcourt/internal/domain"
)

func (d *Dispatcher) registerBusinessOps() {
	customer := []Gate{Authenticated(), HasRole(domain.AccountTypeCustomer)}

	d.register(Operation{
		Name:   "list_restaurants",
		Gates:  customer,
		Handle: d.handleListRestaurants,
	})
	d.register(Operation{
		Name:   "restaurant_detail",
		Gates:  customer,
		Handle: d.handleRestaurantDetail,
	})
	d.register(Operation{
		Name:   "list_products",
		Gates:  customer,
		Handle: d.handleListProducts,
	})
}

func (d *Dispatcher) handleListRestaurants(ctx context.Context, _ *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.ListRestaurantsRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return d.businessSvc.ListRestaurants(ctx, &req)
}

func (d *Dispatcher) handleRestaurantDetail(ctx context.Context, _ *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.RestaurantDetailRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return d.businessSvc.RestaurantDetail(ctx, &req)
}

func (d *Dispatcher) handleListProducts(ctx context.Context, _ *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.ListProductsRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return d.businessSvc.ListProducts(ctx, &req)
}
