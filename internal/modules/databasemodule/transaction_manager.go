// Package databasemodule provides the unit-of-work used by the
// ingestion pipeline and the watch cascade. Each multi-row fan-out
// (one season plus its episodes, one watch/unwatch cascade) runs inside
// a single transaction so partial failure is an explicit state rather
// than an accident of call ordering.
package databasemodule

import (
	"context"
	"fmt"
	"time"

	"github.com/skoller/showsync/internal/logger"
	"gorm.io/gorm"
)

// TransactionManager handles database transactions
type TransactionManager struct {
	db *gorm.DB
}

// TransactionContext wraps a transaction for safe handling
type TransactionContext struct {
	tx      *gorm.DB
	ctx     context.Context
	started time.Time
	id      string
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// BeginTransaction starts a new database transaction
func (tm *TransactionManager) BeginTransaction(ctx context.Context) (*TransactionContext, error) {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	txCtx := &TransactionContext{
		tx:      tx,
		ctx:     ctx,
		started: time.Now(),
		id:      fmt.Sprintf("tx_%d", time.Now().UnixNano()),
	}

	logger.Debug("Started transaction", "id", txCtx.id)
	return txCtx, nil
}

// Commit commits the transaction
func (tc *TransactionContext) Commit() error {
	if tc.tx == nil {
		return fmt.Errorf("transaction context is nil")
	}

	if err := tc.tx.Commit().Error; err != nil {
		logger.Error("Failed to commit transaction", "id", tc.id, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Debug("Committed transaction", "id", tc.id, "duration", time.Since(tc.started))
	tc.tx = nil
	return nil
}

// Rollback rolls back the transaction
func (tc *TransactionContext) Rollback() error {
	if tc.tx == nil {
		return fmt.Errorf("transaction context is nil")
	}

	if err := tc.tx.Rollback().Error; err != nil {
		logger.Error("Failed to rollback transaction", "id", tc.id, "error", err)
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	logger.Debug("Rolled back transaction", "id", tc.id, "duration", time.Since(tc.started))
	tc.tx = nil
	return nil
}

// DB returns the transaction database instance
func (tc *TransactionContext) DB() *gorm.DB {
	return tc.tx
}

// IsActive checks if the transaction is still active
func (tc *TransactionContext) IsActive() bool {
	return tc.tx != nil
}

// WithTransaction executes a function within a transaction
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	txCtx, err := tm.BeginTransaction(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if txCtx.IsActive() {
			txCtx.Rollback()
		}
	}()

	if err := fn(txCtx.DB()); err != nil {
		if rollbackErr := txCtx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to rollback transaction after error", "error", rollbackErr)
		}
		return err
	}

	return txCtx.Commit()
}
