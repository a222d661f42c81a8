package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flowtada/crm/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, first_name, last_name, active, password_set, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Active, &u.PasswordSet, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	return u, err
}

// GetOrCreate inserts the user keyed by username. Like the customer upsert,
// losing an insert race resolves to the existing row.
func (r *UserRepository) GetOrCreate(ctx context.Context, u *entity.User) (*entity.User, bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, active, password_set, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (username) DO NOTHING
	`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Active, u.PasswordSet, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			existing, ferr := r.FindByUsername(ctx, u.Username)
			return existing, false, ferr
		}
		return nil, false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if rows == 0 {
		existing, err := r.FindByUsername(ctx, u.Username)
		return existing, false, err
	}
	return u, true, nil
}

// RotatePassword replaces the stored hash without marking the account as
// having a user-chosen password. Used to burn a consumed one-time token.
func (r *UserRepository) RotatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	return err
}

// SetPassword stores a user-chosen password.
func (r *UserRepository) SetPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, password_set = TRUE WHERE id = $1`, userID, passwordHash)
	return err
}
