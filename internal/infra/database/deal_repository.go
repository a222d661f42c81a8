package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/flowtada/crm/internal/entity"
)

type DealRepository struct {
	DB *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{DB: db}
}

const dealColumns = `id, customer_id, title, value_cents, stage, probability,
	expected_close_date, assigned_to, created_at, updated_at`

func scanDeal(row interface{ Scan(...any) error }) (*entity.Deal, error) {
	var d entity.Deal
	err := row.Scan(
		&d.ID, &d.CustomerID, &d.Title, &d.ValueCents, &d.Stage, &d.Probability,
		&d.ExpectedCloseDate, &d.AssignedTo, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DealRepository) FindByID(ctx context.Context, id string) (*entity.Deal, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)

	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrDealNotFound
	}
	return d, err
}

// ListByCustomer returns the customer's deals newest first. limit 0 means all.
func (r *DealRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE customer_id = $1 ORDER BY created_at DESC`
	args := []any{customerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []*entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO deals (id, customer_id, title, value_cents, stage, probability,
			expected_close_date, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		d.ID, d.CustomerID, d.Title, d.ValueCents, d.Stage, d.Probability,
		d.ExpectedCloseDate, d.AssignedTo, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *DealRepository) Update(ctx context.Context, d *entity.Deal) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE deals SET title = $2, value_cents = $3, stage = $4, probability = $5,
			expected_close_date = $6, assigned_to = $7, updated_at = NOW()
		WHERE id = $1
	`, d.ID, d.Title, d.ValueCents, d.Stage, d.Probability, d.ExpectedCloseDate, d.AssignedTo)
	return err
}

func (r *DealRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, id)
	return err
}
