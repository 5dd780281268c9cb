package invoice

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

// PostgresStore persists invoices in PostgreSQL.
// The store is pure I/O; lifecycle rules live in the models and services.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed invoice store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const invoiceColumns = `id, customer_id, number, amount_cents, date, created_at, modified_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	var inv models.Invoice
	var deletedAt sql.NullTime
	if err := row.Scan(&inv.ID, &inv.CustomerID, &inv.Number, &inv.Amount, &inv.Date,
		&inv.CreatedAt, &inv.ModifiedAt, &deletedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		inv.DeletedAt = &t
	}
	return &inv, nil
}

func (s *PostgresStore) Create(ctx context.Context, inv *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, customer_id, number, amount_cents, date, created_at, modified_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query, inv.ID, inv.CustomerID, inv.Number, inv.Amount, inv.Date,
		inv.CreatedAt, inv.ModifiedAt, inv.DeletedAt)
	if err != nil {
		switch {
		case store.IsUniqueViolation(err):
			return sentinel.ErrAlreadyUsed
		case store.IsForeignKeyViolation(err):
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID, vis store.Visibility) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1 AND ($2 OR deleted_at IS NULL)
	`
	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id, vis == store.IncludeDeleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) List(ctx context.Context, vis store.Visibility, filter store.InvoiceFilter, page store.Page) ([]*models.Invoice, int, error) {
	includeDeleted := vis == store.IncludeDeleted
	owner := uuid.NullUUID{UUID: filter.CustomerID, Valid: filter.CustomerID != uuid.Nil}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM invoices
		WHERE ($1 OR deleted_at IS NULL) AND ($2::uuid IS NULL OR customer_id = $2)
	`
	if err := s.db.QueryRowContext(ctx, countQuery, includeDeleted, owner).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1 OR deleted_at IS NULL) AND ($2::uuid IS NULL OR customer_id = $2)
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`
	rows, err := s.db.QueryContext(ctx, query, includeDeleted, owner, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return out, total, nil
}

func (s *PostgresStore) Update(ctx context.Context, inv *models.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $2, number = $3, amount_cents = $4, date = $5, modified_at = $6, deleted_at = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, inv.ID, inv.CustomerID, inv.Number, inv.Amount, inv.Date,
		inv.ModifiedAt, inv.DeletedAt)
	if err != nil {
		switch {
		case store.IsUniqueViolation(err):
			return sentinel.ErrAlreadyUsed
		case store.IsForeignKeyViolation(err):
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invoice rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Execute runs validate-then-mutate inside a transaction with the row locked
// (SELECT ... FOR UPDATE). The lookup always includes soft-deleted records.
func (s *PostgresStore) Execute(ctx context.Context, id uuid.UUID, validate func(*models.Invoice) error, mutate func(*models.Invoice)) (*models.Invoice, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin invoice tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1
		FOR UPDATE
	`
	inv, err := scanInvoice(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock invoice: %w", err)
	}

	if err := validate(inv); err != nil {
		return nil, err
	}
	mutate(inv)

	update := `
		UPDATE invoices
		SET customer_id = $2, number = $3, amount_cents = $4, date = $5, modified_at = $6, deleted_at = $7
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update, inv.ID, inv.CustomerID, inv.Number, inv.Amount, inv.Date,
		inv.ModifiedAt, inv.DeletedAt); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invoice tx: %w", err)
	}
	return inv, nil
}

// SumActiveByCustomer computes the customer balance with a single aggregate
// query over non-deleted invoices.
func (s *PostgresStore) SumActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM invoices
		WHERE customer_id = $1 AND deleted_at IS NULL
	`
	var sum int64
	if err := s.db.QueryRowContext(ctx, query, customerID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum invoices: %w", err)
	}
	return sum, nil
}
