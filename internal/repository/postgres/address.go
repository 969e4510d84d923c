package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/0xsarwagya/thahrav-new/internal/domain"
	"github.com/0xsarwagya/thahrav-new/pkg/database"
	apperrors "github.com/0xsarwagya/thahrav-new/pkg/errors"
)

const addressColumns = "id, user_id, line1, line2, state, zip, country, is_default, is_shipping, is_billing, created_at, updated_at"

// AddressRepository implements repository.AddressRepository using PostgreSQL.
type AddressRepository struct {
	pool database.DBTX
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool database.DBTX) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// Create inserts a new address into the database.
func (r *AddressRepository) Create(ctx context.Context, a *domain.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, line1, line2, state, zip, country, is_default, is_shipping, is_billing, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.Line1,
		a.Line2,
		a.State,
		a.Zip,
		a.Country,
		a.IsDefault,
		a.IsShipping,
		a.IsBilling,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}

	return nil
}

// ListByUserID returns all addresses for the given user, newest first.
func (r *AddressRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, fmt.Errorf("scan address row: %w", err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address rows: %w", err)
	}

	if addresses == nil {
		addresses = []domain.Address{}
	}

	return addresses, nil
}

// UpdateOwned applies a sparse update to the address identified by id, scoped
// to userID. The WHERE clause carries both predicates so a foreign address is
// indistinguishable from a missing one: either way no row matches and
// ErrNotFound is returned.
func (r *AddressRepository) UpdateOwned(ctx context.Context, id, userID string, upd domain.AddressUpdate) (*domain.Address, error) {
	sets := make([]string, 0, 9)
	args := make([]any, 0, 11)

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Line1 != nil {
		appendSet("line1", *upd.Line1)
	}
	if upd.Line2 != nil {
		appendSet("line2", *upd.Line2)
	}
	if upd.State != nil {
		appendSet("state", *upd.State)
	}
	if upd.Zip != nil {
		appendSet("zip", *upd.Zip)
	}
	if upd.Country != nil {
		appendSet("country", *upd.Country)
	}
	if upd.IsDefault != nil {
		appendSet("is_default", *upd.IsDefault)
	}
	if upd.IsShipping != nil {
		appendSet("is_shipping", *upd.IsShipping)
	}
	if upd.IsBilling != nil {
		appendSet("is_billing", *upd.IsBilling)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("update address: %w", apperrors.ErrInvalidInput)
	}

	appendSet("updated_at", time.Now().UTC())

	args = append(args, id, userID)
	query := fmt.Sprintf(
		"UPDATE addresses SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), addressColumns,
	)

	var a domain.Address
	err := scanAddress(r.pool.QueryRow(ctx, query, args...), &a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("update address: %w", err)
	}

	return &a, nil
}

// scanAddress scans one address row from either a pgx.Row or pgx.Rows.
func scanAddress(row pgx.Row, a *domain.Address) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.Line1,
		&a.Line2,
		&a.State,
		&a.Zip,
		&a.Country,
		&a.IsDefault,
		&a.IsShipping,
		&a.IsBilling,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}
