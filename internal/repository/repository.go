package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mpetrovskiy/reward-service/pkg/database"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run against either, so the same code serves plain reads and
// transactional read-modify-write cycles.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories holds all repository interfaces
type Repositories struct {
	User        UserRepository
	Activity    ActivityRepository
	Card        CardRepository
	DeviceToken DeviceTokenRepository

	db *database.Postgres
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db.DB),
		Activity:    NewActivityRepository(db.DB),
		Card:        NewCardRepository(db.DB),
		DeviceToken: NewDeviceTokenRepository(db.DB),
		db:          db,
	}
}

// Transact runs fn inside a single database transaction. The *Repositories
// handed to fn is bound to that transaction, so every read and write in fn
// commits or rolls back as one unit. This is the transactional boundary for
// reward events: user fields and ledger entries either all land or none do.
func (r *Repositories) Transact(ctx context.Context, fn func(tx *Repositories) error) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txRepos := &Repositories{
		User:        NewUserRepository(tx),
		Activity:    NewActivityRepository(tx),
		Card:        NewCardRepository(tx),
		DeviceToken: NewDeviceTokenRepository(tx),
	}

	if err := fn(txRepos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
