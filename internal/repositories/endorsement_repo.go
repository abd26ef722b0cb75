package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhersel/vitae/internal/database"
	"github.com/mhersel/vitae/internal/models"
)

// EndorsementRepository handles endorsement data access
type EndorsementRepository struct {
	pool *pgxpool.Pool
}

// NewEndorsementRepository creates a new EndorsementRepository
func NewEndorsementRepository(db *database.DB) *EndorsementRepository {
	return &EndorsementRepository{pool: db.Pool}
}

const endorsementColumns = `id, author_name, author_role, company, message, email, status, created_at, updated_at`

func scanEndorsementRow(row rowScanner) (*models.Endorsement, error) {
	var e models.Endorsement
	var email sql.NullString

	err := row.Scan(
		&e.ID, &e.AuthorName, &e.AuthorRole, &e.Company, &e.Message,
		&email, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	e.Email = email.String
	return &e, nil
}

func scanEndorsementRows(rows pgx.Rows) ([]*models.Endorsement, error) {
	defer rows.Close()

	endorsements := make([]*models.Endorsement, 0)

	for rows.Next() {
		e, err := scanEndorsementRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan endorsement: %w", err)
		}
		endorsements = append(endorsements, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating endorsement rows: %w", err)
	}

	return endorsements, nil
}

// Create persists a new endorsement in pending state
func (r *EndorsementRepository) Create(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error) {
	query := `
		INSERT INTO endorsements (author_name, author_role, company, message, email)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING ` + endorsementColumns

	created, err := scanEndorsementRow(r.pool.QueryRow(ctx, query,
		e.AuthorName, e.AuthorRole, e.Company, e.Message, e.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to create endorsement: %w", err)
	}

	return created, nil
}

// GetByID retrieves an endorsement by id
func (r *EndorsementRepository) GetByID(ctx context.Context, id string) (*models.Endorsement, error) {
	query := `
		SELECT ` + endorsementColumns + `
		FROM endorsements
		WHERE id = $1
	`

	return scanEndorsementRow(r.pool.QueryRow(ctx, query, id))
}

// ListByStatus retrieves endorsements in a given moderation state, newest first
func (r *EndorsementRepository) ListByStatus(ctx context.Context, status string) ([]*models.Endorsement, error) {
	query := `
		SELECT ` + endorsementColumns + `
		FROM endorsements
		WHERE status = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list endorsements: %w", err)
	}

	return scanEndorsementRows(rows)
}

// UpdateContent replaces the submitter-editable fields and resets the
// moderation status to pending
func (r *EndorsementRepository) UpdateContent(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error) {
	query := `
		UPDATE endorsements
		SET author_name = $2, author_role = $3, company = $4, message = $5,
		    status = 'pending', updated_at = NOW()
		WHERE id = $1
		RETURNING ` + endorsementColumns

	updated, err := scanEndorsementRow(r.pool.QueryRow(ctx, query,
		id, update.AuthorName, update.AuthorRole, update.Company, update.Message))
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SetStatus transitions an endorsement's moderation state
func (r *EndorsementRepository) SetStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE endorsements
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to set endorsement status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes an endorsement (and, via FK cascade, its challenges)
func (r *EndorsementRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM endorsements WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete endorsement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
