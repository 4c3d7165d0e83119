package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rental-booking/internal/db"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Store groups the repositories over one connection pool or one transaction.
type Store struct {
	db      *sqlx.DB
	dialect db.Dialect

	Users      *UserRepository
	Properties *PropertyRepository
	Bookings   *BookingRepository
	Inquiries  *InquiryRepository
}

func NewStore(conn *sqlx.DB, dialect db.Dialect) *Store {
	s := newStore(conn, dialect)
	s.db = conn
	return s
}

func newStore(q Querier, dialect db.Dialect) *Store {
	return &Store{
		dialect:    dialect,
		Users:      &UserRepository{q: q},
		Properties: &PropertyRepository{q: q, dialect: dialect},
		Bookings:   &BookingRepository{q: q},
		Inquiries:  &InquiryRepository{q: q},
	}
}

// InTx runs fn with a Store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return errors.New("nested transactions are not supported")
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newStore(tx, s.dialect)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation recognises a unique constraint failure from any of the
// supported drivers.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}
