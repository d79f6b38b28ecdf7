package persistence

import (
	"context"

	"github.com/campusmarket/backend/internal/domain/commerce"
	"gorm.io/gorm"
)

// txContextKey carries an open transaction through a context so that
// repositories called inside UnitOfWork.Execute join it transparently.
type txContextKey struct{}

func withTxContext(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// dbFor returns the transaction bound to the context, or the fallback
// connection when no transaction is open.
func dbFor(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// GormUnitOfWork implements commerce.UnitOfWork on a GORM connection
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a single database transaction. Repository
// calls made with the context passed to fn share that transaction.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTxContext(ctx, tx))
	})
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ commerce.UnitOfWork = (*GormUnitOfWork)(nil)
