package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flowtada/crm/internal/entity"
)

type CompanyRepository struct {
	DB *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

const companyColumns = `id, name, website, industry, size, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.Size, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) FindByName(ctx context.Context, name string) (*entity.Company, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE name = $1`, name)

	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCompanyNotFound
	}
	return c, err
}

func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*entity.Company, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)

	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCompanyNotFound
	}
	return c, err
}

// GetOrCreate resolves a company by exact name, creating it when absent.
// The name carries a unique constraint, so two concurrent identical
// submissions cannot leave duplicate rows: the loser of the insert race
// reads the winner's row.
func (r *CompanyRepository) GetOrCreate(ctx context.Context, c *entity.Company) (*entity.Company, bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO companies (id, name, website, industry, size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO NOTHING
	`, c.ID, c.Name, c.Website, c.Industry, c.Size, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			existing, ferr := r.FindByName(ctx, c.Name)
			return existing, false, ferr
		}
		return nil, false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if rows == 0 {
		existing, err := r.FindByName(ctx, c.Name)
		return existing, false, err
	}
	return c, true, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c *entity.Company) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE companies SET name = $2, website = $3, industry = $4, size = $5, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Website, c.Industry, c.Size)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrCompanyNotFound
	}
	return nil
}

// Delete removes the company; customers referencing it fall back to NULL
// through the ON DELETE SET NULL rule, they are not cascaded.
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	return err
}

func (r *CompanyRepository) List(ctx context.Context) ([]*entity.Company, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
