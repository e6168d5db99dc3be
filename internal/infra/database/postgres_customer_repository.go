package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"customer_outreach_bot/internal/domain/customer"

	"github.com/lib/pq"
)

// Custom errors
var (
	ErrDuplicateEmail   = fmt.Errorf("customer with this email already exists")
	ErrStoreUnavailable = fmt.Errorf("customer store unavailable")
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type PostgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

// Exists reports whether a record with this email is already stored. A query
// failure is surfaced as ErrStoreUnavailable so the caller aborts the current
// ingestion pass rather than re-inserting records it cannot verify.
func (r *PostgresCustomerRepository) Exists(ctx context.Context, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM user_data_excluded WHERE Email = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking email existence: %v", ErrStoreUnavailable, err)
	}
	return count > 0, nil
}

// Insert stores one new customer record with email_sent reset to 0 and fills
// in the store-assigned ID. A unique violation on the email column maps to
// ErrDuplicateEmail, which callers treat as the normal "already exists"
// outcome should a concurrent writer slip past the existence check.
func (r *PostgresCustomerRepository) Insert(ctx context.Context, c *customer.Customer) error {
	query := `INSERT INTO user_data_excluded
               (Name, Email, Account_Timestamp, No_Of_Downloads, Download_URLs, Visited_URLs, Free_or_Paid, email_sent)
               VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
               RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Email, c.AccountTimestamp, c.NoOfDownloads,
		c.DownloadURLs, c.VisitedURLs, c.FreeOrPaid).Scan(&c.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error inserting customer %s: %w", c.Email, err)
	}
	return nil
}

// ListUnsent returns every record not yet contacted (email_sent 0 or NULL),
// ordered by ID ascending, read in a single pass.
func (r *PostgresCustomerRepository) ListUnsent(ctx context.Context) ([]*customer.Customer, error) {
	query := `SELECT id, Name, Email, Account_Timestamp, No_Of_Downloads, Download_URLs, Visited_URLs, Free_or_Paid, email_sent
               FROM user_data_excluded
               WHERE email_sent = 0 OR email_sent IS NULL
               ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing unsent customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		c := &customer.Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.AccountTimestamp, &c.NoOfDownloads,
			&c.DownloadURLs, &c.VisitedURLs, &c.FreeOrPaid, &c.EmailSent); err != nil {
			return nil, fmt.Errorf("error scanning unsent customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unsent customers: %w", err)
	}
	return customers, nil
}

// MarkSent flags the record as contacted. Marking an already-sent record is a
// no-op; an unknown ID is also not an error, so a retried mark after a
// concurrent update stays idempotent from the caller's perspective.
func (r *PostgresCustomerRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE user_data_excluded SET email_sent = 1 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error marking customer %d sent: %w", id, err)
	}
	return nil
}
