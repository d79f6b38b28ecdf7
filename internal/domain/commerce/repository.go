package commerce

import (
	"context"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionSearch carries the filters for transaction queries
type TransactionSearch struct {
	shared.Filter
	BuyerID   *uuid.UUID
	SellerID  *uuid.UUID
	ProductID *uuid.UUID
	Status    *TransactionStatus
}

// CartRepository defines persistence operations for carts
type CartRepository interface {
	Save(ctx context.Context, cart *Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	// FindByUser loads the user's cart with its items
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Update(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	Save(ctx context.Context, tx *Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Search(ctx context.Context, search TransactionSearch) (*shared.Paginated[Transaction], error)
	Update(ctx context.Context, tx *Transaction) error
}

// OrderGroupRepository defines persistence operations for order groups
type OrderGroupRepository interface {
	Save(ctx context.Context, group *OrderGroup) error
	FindByID(ctx context.Context, id uuid.UUID) (*OrderGroup, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderGroup], error)
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*OrderGroup, error)
	Update(ctx context.Context, group *OrderGroup) error
}

// UnitOfWork executes fn inside a single database transaction. The
// repositories passed to fn share that transaction; checkout uses this
// so product reservation, transaction rows and the order group commit
// or roll back together.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
