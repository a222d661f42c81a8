package database

import (
	"context"
	"database/sql"

	"github.com/flowtada/crm/internal/entity"
)

type InteractionRepository struct {
	DB *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

const interactionColumns = `id, customer_id, type, subject, notes, user_id, created_at`

func scanInteraction(row interface{ Scan(...any) error }) (*entity.Interaction, error) {
	var in entity.Interaction
	var userID sql.NullString
	err := row.Scan(&in.ID, &in.CustomerID, &in.Type, &in.Subject, &in.Notes, &userID, &in.CreatedAt)
	if err != nil {
		return nil, err
	}
	in.UserID = userID.String
	return &in, nil
}

// ListByCustomer returns interactions newest first. limit 0 means all.
func (r *InteractionRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE customer_id = $1 ORDER BY created_at DESC`
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

	var interactions []*entity.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

func (r *InteractionRepository) Create(ctx context.Context, in *entity.Interaction) error {
	var userID *string
	if in.UserID != "" {
		userID = &in.UserID
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO interactions (id, customer_id, type, subject, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, in.ID, in.CustomerID, in.Type, in.Subject, in.Notes, userID, in.CreatedAt)
	return err
}

func (r *InteractionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM interactions WHERE id = $1`, id)
	return err
}
