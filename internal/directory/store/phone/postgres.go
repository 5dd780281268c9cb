package phone

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rolodex/internal/directory/models"
	"rolodex/internal/directory/store"
	"rolodex/pkg/platform/sentinel"
)

// PostgresStore persists telephone numbers in PostgreSQL.
// The store is pure I/O; lifecycle rules live in the models and services.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed telephone number store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const phoneColumns = `id, customer_id, category, number, created_at, modified_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhone(row rowScanner) (*models.TelephoneNumber, error) {
	var p models.TelephoneNumber
	var deletedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.CustomerID, &p.Category, &p.Number,
		&p.CreatedAt, &p.ModifiedAt, &deletedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	return &p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.TelephoneNumber) error {
	query := `
		INSERT INTO telephone_numbers (id, customer_id, category, number, created_at, modified_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query, p.ID, p.CustomerID, p.Category, p.Number,
		p.CreatedAt, p.ModifiedAt, p.DeletedAt)
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert telephone number: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID, vis store.Visibility) (*models.TelephoneNumber, error) {
	query := `
		SELECT ` + phoneColumns + `
		FROM telephone_numbers
		WHERE id = $1 AND ($2 OR deleted_at IS NULL)
	`
	p, err := scanPhone(s.db.QueryRowContext(ctx, query, id, vis == store.IncludeDeleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find telephone number: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, vis store.Visibility, filter store.PhoneFilter, page store.Page) ([]*models.TelephoneNumber, int, error) {
	includeDeleted := vis == store.IncludeDeleted
	owner := uuid.NullUUID{UUID: filter.CustomerID, Valid: filter.CustomerID != uuid.Nil}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM telephone_numbers
		WHERE ($1 OR deleted_at IS NULL) AND ($2::uuid IS NULL OR customer_id = $2)
	`
	if err := s.db.QueryRowContext(ctx, countQuery, includeDeleted, owner).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count telephone numbers: %w", err)
	}

	query := `
		SELECT ` + phoneColumns + `
		FROM telephone_numbers
		WHERE ($1 OR deleted_at IS NULL) AND ($2::uuid IS NULL OR customer_id = $2)
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`
	rows, err := s.db.QueryContext(ctx, query, includeDeleted, owner, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list telephone numbers: %w", err)
	}
	defer rows.Close()

	var out []*models.TelephoneNumber
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan telephone number: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list telephone numbers: %w", err)
	}
	return out, total, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.TelephoneNumber) error {
	query := `
		UPDATE telephone_numbers
		SET customer_id = $2, category = $3, number = $4, modified_at = $5, deleted_at = $6
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, p.ID, p.CustomerID, p.Category, p.Number,
		p.ModifiedAt, p.DeletedAt)
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("update telephone number: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update telephone number rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Execute runs validate-then-mutate inside a transaction with the row locked
// (SELECT ... FOR UPDATE). The lookup always includes soft-deleted records.
func (s *PostgresStore) Execute(ctx context.Context, id uuid.UUID, validate func(*models.TelephoneNumber) error, mutate func(*models.TelephoneNumber)) (*models.TelephoneNumber, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin telephone number tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		SELECT ` + phoneColumns + `
		FROM telephone_numbers
		WHERE id = $1
		FOR UPDATE
	`
	p, err := scanPhone(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock telephone number: %w", err)
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	mutate(p)

	update := `
		UPDATE telephone_numbers
		SET customer_id = $2, category = $3, number = $4, modified_at = $5, deleted_at = $6
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update, p.ID, p.CustomerID, p.Category, p.Number,
		p.ModifiedAt, p.DeletedAt); err != nil {
		return nil, fmt.Errorf("update telephone number: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit telephone number tx: %w", err)
	}
	return p, nil
}
