package customer

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

// PostgresStore persists customers in PostgreSQL.
// The store is pure I/O; lifecycle rules live in the models and services.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed customer store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const customerColumns = `id, name, email, created_at, modified_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	var deletedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.ModifiedAt, &deletedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		c.DeletedAt = &t
	}
	return &c, nil
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, created_at, modified_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.CreatedAt, c.ModifiedAt, c.DeletedAt)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID, vis store.Visibility) (*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1 AND ($2 OR deleted_at IS NULL)
	`
	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, id, vis == store.IncludeDeleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context, vis store.Visibility, filter store.CustomerFilter, page store.Page) ([]*models.Customer, int, error) {
	includeDeleted := vis == store.IncludeDeleted

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM customers
		WHERE ($1 OR deleted_at IS NULL) AND ($2 = '' OR name ILIKE '%' || $2 || '%')
	`
	if err := s.db.QueryRowContext(ctx, countQuery, includeDeleted, filter.Name).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE ($1 OR deleted_at IS NULL) AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`
	rows, err := s.db.QueryContext(ctx, query, includeDeleted, filter.Name, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return out, total, nil
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, modified_at = $4, deleted_at = $5
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.ModifiedAt, c.DeletedAt)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update customer rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Execute runs validate-then-mutate inside a transaction with the row locked
// (SELECT ... FOR UPDATE), so concurrent lifecycle transitions serialize at
// the database. The lookup always includes soft-deleted records.
func (s *PostgresStore) Execute(ctx context.Context, id uuid.UUID, validate func(*models.Customer) error, mutate func(*models.Customer)) (*models.Customer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin customer tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1
		FOR UPDATE
	`
	c, err := scanCustomer(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock customer: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, err
	}
	mutate(c)

	update := `
		UPDATE customers
		SET name = $2, email = $3, modified_at = $4, deleted_at = $5
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update, c.ID, c.Name, c.Email, c.ModifiedAt, c.DeletedAt); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit customer tx: %w", err)
	}
	return c, nil
}
