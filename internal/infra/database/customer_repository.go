package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flowtada/crm/internal/entity"
)

const uniqueViolation = "23505"

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, first_name, last_name, email, phone, company_id, position,
	lead_status, lead_source, assigned_to, created_at, updated_at, last_contacted`

func scanCustomer(row interface{ Scan(...any) error }) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CompanyID,
		&c.Position, &c.LeadStatus, &c.LeadSource, &c.AssignedTo,
		&c.CreatedAt, &c.UpdatedAt, &c.LastContacted,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCustomerNotFound
	}
	return c, err
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCustomerNotFound
	}
	return c, err
}

// GetOrCreate inserts the customer keyed by email. When the row already
// exists, including when a concurrent request wins the insert race, the
// existing record is returned untouched and created is false. A later
// submission never overwrites an earlier customer's fields.
func (r *CustomerRepository) GetOrCreate(ctx context.Context, c *entity.Customer) (*entity.Customer, bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO customers (id, first_name, last_name, email, phone, company_id,
			position, lead_status, lead_source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (email) DO NOTHING
	`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.CompanyID,
		c.Position, c.LeadStatus, c.LeadSource, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		// A concurrent insert can still surface 23505 through other unique
		// indexes; treat it the same as losing the conflict.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			existing, ferr := r.FindByEmail(ctx, c.Email)
			return existing, false, ferr
		}
		return nil, false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if rows == 0 {
		existing, err := r.FindByEmail(ctx, c.Email)
		return existing, false, err
	}
	return c, true, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO customers (id, first_name, last_name, email, phone, company_id,
			position, lead_status, lead_source, assigned_to, created_at, updated_at, last_contacted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.CompanyID, c.Position,
		c.LeadStatus, c.LeadSource, c.AssignedTo, c.CreatedAt, c.UpdatedAt, c.LastContacted,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entity.ErrEmailAlreadyExists
	}
	return err
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE customers SET first_name = $2, last_name = $3, phone = $4,
			company_id = $5, position = $6, lead_status = $7, lead_source = $8,
			assigned_to = $9, last_contacted = $10, updated_at = NOW()
		WHERE id = $1
	`,
		c.ID, c.FirstName, c.LastName, c.Phone, c.CompanyID, c.Position,
		c.LeadStatus, c.LeadSource, c.AssignedTo, c.LastContacted,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}

func (r *CustomerRepository) List(ctx context.Context) ([]*entity.Customer, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
