package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/softalya/foodcourt/internal/domain"
)

type ProductRepository interface {
	ListByBusiness(ctx context.Context, businessID int64, category string) ([]domain.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productCols = `p.id, p.business_id, c.name, p.name, p.image, p.price, p.description, p.created_at, p.updated_at`

func (r *productRepository) ListByBusiness(ctx context.Context, businessID int64, category string) ([]domain.Product, error) {
	q := `
		SELECT ` + productCols + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.business_id = $1`
	args := []any{businessID}

	if category != "" {
		q += ` AND c.name = $2`
		args = append(args, category)
	}
	q += ` ORDER BY p.name`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.BusinessID, &p.Category, &p.Name, &p.Image, &p.Price, &p.Description, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	const q = `
		SELECT ` + productCols + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.BusinessID, &p.Category, &p.Name, &p.Image, &p.Price, &p.Description, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
