package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/softalya/foodcourt/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, accountID, productID, addressID int64, note string) (*domain.Order, error)
	DeleteOwned(ctx context.Context, id, accountID int64) error
	ListByAccount(ctx context.Context, accountID int64) ([]domain.OrderDetail, error)
	ListByBusinessAccount(ctx context.Context, businessAccountID int64, isActive *bool) ([]domain.OrderDetail, error)
	FindForBusinessAccount(ctx context.Context, id, businessAccountID int64) (*domain.OrderDetail, error)
	Accept(ctx context.Context, id, businessAccountID int64) error
	Reject(ctx context.Context, id, businessAccountID int64) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderCols = `o.id, o.account_id, o.product_id, o.address_id, o.is_active, o.order_note, o.created_at, o.updated_at`

const orderDetailCols = orderCols + `, p.name, p.price, b.name`

const orderDetailFrom = `
	FROM orders o
	JOIN products p ON p.id = o.product_id
	JOIN businesses b ON b.id = p.business_id`

// businessOwnsOrder scopes an order mutation to the business account the
// ordered product belongs to.
const businessOwnsOrder = `
	EXISTS (
		SELECT 1 FROM products p
		JOIN businesses b ON b.id = p.business_id
		WHERE p.id = orders.product_id AND b.account_id = $2
	)`

func (r *orderRepository) Create(ctx context.Context, accountID, productID, addressID int64, note string) (*domain.Order, error) {
	const q = `
		INSERT INTO orders (account_id, product_id, address_id, order_note, is_active)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, account_id, product_id, address_id, is_active, order_note, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var o domain.Order
	err := r.pool.QueryRow(ctx, q, accountID, productID, addressID, note).Scan(
		&o.ID, &o.AccountID, &o.ProductID, &o.AddressID, &o.IsActive, &o.OrderNote, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) DeleteOwned(ctx context.Context, id, accountID int64) error {
	const q = `DELETE FROM orders WHERE id = $1 AND account_id = $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, accountID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.OrderDetail, error) {
	q := `SELECT ` + orderDetailCols + orderDetailFrom + `
		WHERE o.account_id = $1
		ORDER BY o.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrderDetails(rows)
}

func (r *orderRepository) ListByBusinessAccount(ctx context.Context, businessAccountID int64, isActive *bool) ([]domain.OrderDetail, error) {
	q := `SELECT ` + orderDetailCols + orderDetailFrom + `
		WHERE b.account_id = $1`
	args := []any{businessAccountID}

	if isActive != nil {
		q += ` AND o.is_active = $2`
		args = append(args, *isActive)
	}
	q += ` ORDER BY o.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrderDetails(rows)
}

func (r *orderRepository) FindForBusinessAccount(ctx context.Context, id, businessAccountID int64) (*domain.OrderDetail, error) {
	q := `SELECT ` + orderDetailCols + orderDetailFrom + `
		WHERE o.id = $1 AND b.account_id = $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var d domain.OrderDetail
	err := r.pool.QueryRow(ctx, q, id, businessAccountID).Scan(
		&d.ID, &d.AccountID, &d.ProductID, &d.AddressID, &d.IsActive, &d.OrderNote, &d.CreatedAt, &d.UpdatedAt,
		&d.ProductName, &d.ProductPrice, &d.BusinessName,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *orderRepository) Accept(ctx context.Context, id, businessAccountID int64) error {
	q := `UPDATE orders SET is_active = true, updated_at = now() WHERE id = $1 AND ` + businessOwnsOrder
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, businessAccountID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) Reject(ctx context.Context, id, businessAccountID int64) error {
	q := `DELETE FROM orders WHERE id = $1 AND ` + businessOwnsOrder
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, businessAccountID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectOrderDetails(rows pgx.Rows) ([]domain.OrderDetail, error) {
	var orders []domain.OrderDetail
	for rows.Next() {
		var d domain.OrderDetail
		if err := rows.Scan(
			&d.ID, &d.AccountID, &d.ProductID, &d.AddressID, &d.IsActive, &d.OrderNote, &d.CreatedAt, &d.UpdatedAt,
			&d.ProductName, &d.ProductPrice, &d.BusinessName,
		); err != nil {
			return nil, err
		}
		orders = append(orders, d)
	}
	return orders, rows.Err()
}
