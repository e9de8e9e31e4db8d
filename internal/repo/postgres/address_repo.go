package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/softalya/foodcourt/internal/domain"
)

type AddressRepository interface {
	Create(ctx context.Context, accountID int64, in *domain.AddressInput) (*domain.Address, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Address, error)
	FindDefaultByAccount(ctx context.Context, accountID int64) (*domain.Address, error)
	Update(ctx context.Context, id, accountID int64, in *domain.AddressInput) (*domain.Address, error)
	Delete(ctx context.Context, id, accountID int64) error
}

type addressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &addressRepository{pool: pool}
}

const addressCols = `id, account_id, neighborhood, street, building_number, zip_code, district, city, address_detail, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(
		&a.ID, &a.AccountID, &a.Neighborhood, &a.Street, &a.BuildingNumber, &a.ZipCode,
		&a.District, &a.City, &a.AddressDetail, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *addressRepository) Create(ctx context.Context, accountID int64, in *domain.AddressInput) (*domain.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Only one default address per account.
	if in.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE account_id = $1`, accountID); err != nil {
			return nil, err
		}
	}

	const q = `
		INSERT INTO addresses (account_id, neighborhood, street, building_number, zip_code, district, city, address_detail, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + addressCols

	addr, err := scanAddress(tx.QueryRow(ctx, q,
		accountID, in.Neighborhood, in.Street, in.BuildingNumber, in.ZipCode,
		in.District, in.City, in.AddressDetail, in.IsDefault,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *addressRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Address, error) {
	const q = `SELECT ` + addressCols + ` FROM addresses WHERE account_id = $1 ORDER BY is_default DESC, created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID, &a.AccountID, &a.Neighborhood, &a.Street, &a.BuildingNumber, &a.ZipCode,
			&a.District, &a.City, &a.AddressDetail, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}

	return addresses, rows.Err()
}

// FindDefaultByAccount returns the default address, falling back to the most
// recently added one.
func (r *addressRepository) FindDefaultByAccount(ctx context.Context, accountID int64) (*domain.Address, error) {
	const q = `
		SELECT ` + addressCols + `
		FROM addresses
		WHERE account_id = $1
		ORDER BY is_default DESC, created_at DESC
		LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanAddress(r.pool.QueryRow(ctx, q, accountID))
}

func (r *addressRepository) Update(ctx context.Context, id, accountID int64, in *domain.AddressInput) (*domain.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if in.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE account_id = $1 AND id <> $2`, accountID, id); err != nil {
			return nil, err
		}
	}

	const q = `
		UPDATE addresses
		SET neighborhood = $3, street = $4, building_number = $5, zip_code = $6,
		    district = $7, city = $8, address_detail = $9, is_default = $10, updated_at = now()
		WHERE id = $1 AND account_id = $2
		RETURNING ` + addressCols

	addr, err := scanAddress(tx.QueryRow(ctx, q,
		id, accountID, in.Neighborhood, in.Street, in.BuildingNumber, in.ZipCode,
		in.District, in.City, in.AddressDetail, in.IsDefault,
	))
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *addressRepository) Delete(ctx context.Context, id, accountID int64) error {
	const q = `DELETE FROM addresses WHERE id = $1 AND account_id = $2`
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
