package service

import (
	"context"
	"time"

	"github.com/softalya/foodcourt/internal/apperr"
	"github.com/softalya/foodcourt/internal/domain"
	"github.com/softalya/foodcourt/internal/repo/postgres"
	"github.com/softalya/foodcourt/pkg/events"
	"github.com/softalya/foodcourt/pkg/logger"
)

type OrderService interface {
	CreateOrder(ctx context.Context, accountID int64, req *domain.CreateOrderRequest) ([]domain.Order, error)
	CancelOrder(ctx context.Context, accountID, orderID int64) error
	OrderResult(ctx context.Context, businessAccountID int64, req *domain.OrderResultRequest) error
	ListForCustomer(ctx context.Context, accountID int64) ([]domain.OrderDetail, error)
	ListForBusiness(ctx context.Context, businessAccountID int64, isActive *bool) ([]domain.OrderDetail, error)
	OrderDetail(ctx context.Context, businessAccountID, orderID int64) (*domain.OrderDetail, error)
}

type orderService struct {
	orders    postgres.OrderRepository
	products  postgres.ProductRepository
	addresses postgres.AddressRepository
	bus       events.Publisher
}

func NewOrderService(
	orders postgres.OrderRepository,
	products postgres.ProductRepository,
	addresses postgres.AddressRepository,
	bus events.Publisher,
) OrderService {
	return &orderService{
		orders:    orders,
		products:  products,
		addresses: addresses,
		bus:       bus,
	}
}

// CreateOrder places one order row per requested product, delivered to the
// account's default address.
func (s *orderService) CreateOrder(ctx context.Context, accountID int64, req *domain.CreateOrderRequest) ([]domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	address, err := s.addresses.FindDefaultByAccount(ctx, accountID)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	if address == nil {
		return nil, apperr.Validation("no delivery address on file")
	}

	products, err := s.products.FindByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	if len(products) != len(uniqueIDs(req.ProductIDs)) {
		return nil, apperr.NotFound("one or more products not found")
	}

	var created []domain.Order
	for _, product := range products {
		order, err := s.orders.Create(ctx, accountID, product.ID, address.ID, req.OrderNote)
		if err != nil {
			return nil, apperr.Dependency("an error occurred, please try again later", err)
		}
		created = append(created, *order)

		s.publish(ctx, events.OrderCreated, events.OrderCreatedEvent{
			OrderID:   order.ID,
			AccountID: accountID,
			ProductID: product.ID,
			AddressID: address.ID,
			CreatedAt: order.CreatedAt,
		})
	}

	return created, nil
}

func (s *orderService) CancelOrder(ctx context.Context, accountID, orderID int64) error {
	if err := s.orders.DeleteOwned(ctx, orderID, accountID); err != nil {
		return apperr.NotFound("order not found")
	}

	s.publish(ctx, events.OrderCanceled, events.OrderCanceledEvent{
		OrderID:    orderID,
		AccountID:  accountID,
		CanceledAt: time.Now(),
	})
	return nil
}

// OrderResult accepts or rejects an order. Only the business account that
// owns the ordered product may resolve it.
func (s *orderService) OrderResult(ctx context.Context, businessAccountID int64, req *domain.OrderResultRequest) error {
	var err error
	if req.Result {
		err = s.orders.Accept(ctx, req.ID, businessAccountID)
	} else {
		err = s.orders.Reject(ctx, req.ID, businessAccountID)
	}
	if err != nil {
		return apperr.NotFound("order not found")
	}

	s.publish(ctx, events.OrderResolved, events.OrderResolvedEvent{
		OrderID:    req.ID,
		Accepted:   req.Result,
		ResolvedAt: time.Now(),
	})
	return nil
}

func (s *orderService) ListForCustomer(ctx context.Context, accountID int64) ([]domain.OrderDetail, error) {
	orders, err := s.orders.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	return orders, nil
}

func (s *orderService) ListForBusiness(ctx context.Context, businessAccountID int64, isActive *bool) ([]domain.OrderDetail, error) {
	orders, err := s.orders.ListByBusinessAccount(ctx, businessAccountID, isActive)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	return orders, nil
}

func (s *orderService) OrderDetail(ctx context.Context, businessAccountID, orderID int64) (*domain.OrderDetail, error) {
	order, err := s.orders.FindForBusinessAccount(ctx, orderID, businessAccountID)
	if err != nil {
		return nil, apperr.Dependency("an error occurred, please try again later", err)
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}

func (s *orderService) publish(ctx context.Context, subject string, payload any) {
	if s.bus == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.bus.Publish(publishCtx, subject, payload); err != nil {
		logger.WarnContext(ctx, "failed to publish event", "subject", subject, "error", err)
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
