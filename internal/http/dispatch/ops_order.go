package dispatch

import (
	"context"
	"encoding/json"

	"github.com/softalya/foodcourt/internal/domain"
)

func (d *Dispatcher) registerOrderOps() {
	customer := []Gate{Authenticated(), HasRole(domain.AccountTypeCustomer)}
	business := []Gate{Authenticated(), HasRole(domain.AccountTypeBusiness)}

	d.register(Operation{
		Name:   "create_order",
		Gates:  customer,
		Handle: d.handleCreateOrder,
	})
	d.register(Operation{
		Name:   "cancel_order",
		Gates:  customer,
		Handle: d.handleCancelOrder,
	})
	d.register(Operation{
		Name:   "list_orders_for_customer",
		Gates:  customer,
		Handle: d.handleListOrdersForCustomer,
	})
	d.register(Operation{
		Name:   "list_orders_for_business",
		Gates:  business,
		Handle: d.handleListOrdersForBusiness,
	})
	d.register(Operation{
		Name:   "order_detail",
		Gates:  business,
		Handle: d.handleOrderDetail,
	})
	d.register(Operation{
		Name:   "order_result",
		Gates:  business,
		Handle: d.handleOrderResult,
	})
}

func (d *Dispatcher) handleCreateOrder(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.CreateOrderRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	orders, err := d.orderSvc.CreateOrder(ctx, ac.AccountID(), &req)
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "orders": orders}, nil
}

func (d *Dispatcher) handleCancelOrder(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.CancelOrderRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	if err := d.orderSvc.CancelOrder(ctx, ac.AccountID(), req.ID); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}

func (d *Dispatcher) handleListOrdersForCustomer(ctx context.Context, ac *AuthContext, _ json.RawMessage) (any, error) {
	return d.orderSvc.ListForCustomer(ctx, ac.AccountID())
}

func (d *Dispatcher) handleListOrdersForBusiness(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.ListBusinessOrdersRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return d.orderSvc.ListForBusiness(ctx, ac.AccountID(), req.IsActive)
}

func (d *Dispatcher) handleOrderDetail(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.OrderDetailRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return d.orderSvc.OrderDetail(ctx, ac.AccountID(), req.ID)
}

func (d *Dispatcher) handleOrderResult(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.OrderResultRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	if err := d.orderSvc.OrderResult(ctx, ac.AccountID(), &req); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}
