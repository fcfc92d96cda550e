/**
 * @description
 * Data access for the exchange service. Postgres repositories sit on a pgx
 * pool; Redis-backed stores keep ephemeral per-user state and cached market
 * data.
 */
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles Postgres operations for wallets, users and in-app
// notifications.
type Repository struct {
	db DBTX
}

// NewRepository creates a new repository.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}
