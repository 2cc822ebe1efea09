// Package storage declares the transaction seam shared by the concrete
// backends and the service layer.
package storage

import (
	"context"
	"database/sql"
)

// Tx is the unit of work handed to transaction-scoped writes.
// *sql.Tx satisfies it.
type Tx interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Commit() error
	Rollback() error
}
