package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softalya/foodcourt/internal/apperr"
	"github.com/softalya/foodcourt/internal/domain"
)

// ---------- Mocks ----------

type mockOrderRepo struct {
	nextID int64
	orders map[int64]*domain.Order

	// businessAccountID per product, consulted by Accept/Reject.
	productOwner map[int64]int64
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		nextID:       1,
		orders:       make(map[int64]*domain.Order),
		productOwner: make(map[int64]int64),
	}
}

func (m *mockOrderRepo) Create(_ context.Context, accountID, productID, addressID int64, note string) (*domain.Order, error) {
	o := &domain.Order{
		ID:        m.nextID,
		AccountID: accountID,
		ProductID: productID,
		AddressID: addressID,
		OrderNote: note,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.nextID++
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderRepo) DeleteOwned(_ context.Context, id, accountID int64) error {
	o, ok := m.orders[id]
	if !ok || o.AccountID != accountID {
		return pgx.ErrNoRows
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) ListByAccount(_ context.Context, accountID int64) ([]domain.OrderDetail, error) {
	var out []domain.OrderDetail
	for _, o := range m.orders {
		if o.AccountID == accountID {
			out = append(out, domain.OrderDetail{Order: *o})
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListByBusinessAccount(_ context.Context, businessAccountID int64, isActive *bool) ([]domain.OrderDetail, error) {
	var out []domain.OrderDetail
	for _, o := range m.orders {
		if m.productOwner[o.ProductID] != businessAccountID {
			continue
		}
		if isActive != nil && o.IsActive != *isActive {
			continue
		}
		out = append(out, domain.OrderDetail{Order: *o})
	}
	return out, nil
}

func (m *mockOrderRepo) FindForBusinessAccount(_ context.Context, id, businessAccountID int64) (*domain.OrderDetail, error) {
	o, ok := m.orders[id]
	if !ok || m.productOwner[o.ProductID] != businessAccountID {
		return nil, nil
	}
	return &domain.OrderDetail{Order: *o}, nil
}

func (m *mockOrderRepo) Accept(_ context.Context, id, businessAccountID int64) error {
	o, ok := m.orders[id]
	if !ok || m.productOwner[o.ProductID] != businessAccountID {
		return pgx.ErrNoRows
	}
	o.IsActive = true
	return nil
}

func (m *mockOrderRepo) Reject(_ context.Context, id, businessAccountID int64) error {
	o, ok := m.orders[id]
	if !ok || m.productOwner[o.ProductID] != businessAccountID {
		return pgx.ErrNoRows
	}
	delete(m.orders, id)
	return nil
}

type mockProductRepo struct {
	products map[int64]domain.Product
}

func newMockProductRepo(products ...domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[int64]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) ListByBusiness(_ context.Context, businessID int64, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if p.BusinessID != businessID {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepo) FindByIDs(_ context.Context, ids []int64) ([]domain.Product, error) {
	seen := make(map[int64]bool)
	var out []domain.Product
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type capturePublisher struct {
	subjects []string
}

func (c *capturePublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	c.subjects = append(c.subjects, subject)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

// ---------- Helpers ----------

type orderFixture struct {
	svc       OrderService
	orders    *mockOrderRepo
	addresses *mockAddressRepo
	bus       *capturePublisher
}

// newOrderFixture seeds two products owned by business account 100 and a
// default address for customer account 1.
func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	products := newMockProductRepo(
		domain.Product{ID: 10, BusinessID: 5, Name: "Lahmacun", Price: 12.5},
		domain.Product{ID: 11, BusinessID: 5, Name: "Ayran", Price: 3},
	)

	orders := newMockOrderRepo()
	orders.productOwner[10] = 100
	orders.productOwner[11] = 100

	addresses := newMockAddressRepo()
	_, err := addresses.Create(context.Background(), 1, &domain.AddressInput{Street: "Main St", City: "Antalya", IsDefault: true})
	require.NoError(t, err)

	bus := &capturePublisher{}
	return &orderFixture{
		svc:       NewOrderService(orders, products, addresses, bus),
		orders:    orders,
		addresses: addresses,
		bus:       bus,
	}
}

// ---------- Tests ----------

func TestCreateOrderOnePerProduct(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{
		ProductIDs: []int64{10, 11},
		OrderNote:  "no onions",
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, o := range created {
		assert.Equal(t, int64(1), o.AccountID)
		assert.Equal(t, "no onions", o.OrderNote)
		assert.False(t, o.IsActive, "new orders start unaccepted")
	}
	assert.Equal(t, []string{"order.created", "order.created"}, f.bus.subjects)
}

func TestCreateOrderRequiresAddress(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), 2, &domain.CreateOrderRequest{ProductIDs: []int64{10}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, f.bus.subjects)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{ProductIDs: []int64{10, 999}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateOrderEmptyRequest(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCancelOrder(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{ProductIDs: []int64{10}})
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelOrder(context.Background(), 1, created[0].ID))
	assert.Contains(t, f.bus.subjects, "order.canceled")

	listed, err := f.svc.ListForCustomer(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCancelOrderNotOwned(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{ProductIDs: []int64{10}})
	require.NoError(t, err)

	err = f.svc.CancelOrder(context.Background(), 2, created[0].ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestOrderResultAccept(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{ProductIDs: []int64{10}})
	require.NoError(t, err)

	err = f.svc.OrderResult(context.Background(), 100, &domain.OrderResultRequest{ID: created[0].ID, Result: true})
	require.NoError(t, err)
	assert.Contains(t, f.bus.subjects, "order.resolved")

	detail, err := f.svc.OrderDetail(context.Background(), 100, created[0].ID)
	require.NoError(t, err)
	assert.True(t, detail.IsActive)
}

func TestOrderResultReject(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{ProductIDs: []int64{10}})
	require.NoError(t, err)

	err = f.svc.OrderResult(context.Background(), 100, &domain.OrderResultRequest{ID: created[0].ID, Result: false})
	require.NoError(t, err)

	_, err = f.svc.OrderDetail(context.Background(), 100, created[0].ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestOrderResultWrongBusiness(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{ProductIDs: []int64{10}})
	require.NoError(t, err)

	err = f.svc.OrderResult(context.Background(), 200, &domain.OrderResultRequest{ID: created[0].ID, Result: true})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// The order is untouched.
	detail, err := f.svc.OrderDetail(context.Background(), 100, created[0].ID)
	require.NoError(t, err)
	assert.False(t, detail.IsActive)
}

func TestListForBusinessFiltersByActive(t *testing.T) {
	f := newOrderFixture(t)

	created, err := f.svc.CreateOrder(context.Background(), 1, &domain.CreateOrderRequest{ProductIDs: []int64{10, 11}})
	require.NoError(t, err)

	require.NoError(t, f.svc.OrderResult(context.Background(), 100, &domain.OrderResultRequest{ID: created[0].ID, Result: true}))

	active := true
	listed, err := f.svc.ListForBusiness(context.Background(), 100, &active)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created[0].ID, listed[0].ID)

	all, err := f.svc.ListForBusiness(context.Background(), 100, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
