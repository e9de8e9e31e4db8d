package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/softalya/foodcourt/internal/domain"
)

type BusinessRepository interface {
	List(ctx context.Context, ascending bool, minBasket, maxBasket *float64) ([]domain.Business, error)
	FindByID(ctx context.Context, id int64) (*domain.Business, error)
}

type businessRepository struct {
	pool *pgxpool.Pool
}

func NewBusinessRepository(pool *pgxpool.Pool) BusinessRepository {
	return &businessRepository{pool: pool}
}

const businessCols = `id, account_id, name, image, minimum_basket_amount, address, created_at, updated_at`

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var b domain.Business
	err := row.Scan(
		&b.ID, &b.AccountID, &b.Name, &b.Image, &b.MinimumBasketAmount, &b.Address, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *businessRepository) List(ctx context.Context, ascending bool, minBasket, maxBasket *float64) ([]domain.Business, error) {
	q := `SELECT ` + businessCols + ` FROM businesses`
	args := []any{}

	if minBasket != nil && maxBasket != nil {
		q += ` WHERE minimum_basket_amount >= $1 AND minimum_basket_amount <= $2`
		args = append(args, *minBasket, *maxBasket)
	}

	if ascending {
		q += ` ORDER BY minimum_basket_amount ASC`
	} else {
		q += ` ORDER BY minimum_basket_amount DESC`
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []domain.Business
	for rows.Next() {
		var b domain.Business
		if err := rows.Scan(
			&b.ID, &b.AccountID, &b.Name, &b.Image, &b.MinimumBasketAmount, &b.Address, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}

	return businesses, rows.Err()
}

func (r *businessRepository) FindByID(ctx context.Context, id int64) (*domain.Business, error) {
	const q = `SELECT ` + businessCols + ` FROM businesses WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBusiness(r.pool.QueryRow(ctx, q, id))
}
