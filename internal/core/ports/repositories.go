package ports

import (
	"context"

	"bank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// GetByNumberForUpdate locks the account row for the duration of tx.
	GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error)
	Update(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	Delete(ctx context.Context, tx pgx.Tx, accountNumber string) error
}

// TransactionRepository defines persistence for the append-only
// transaction log. Records are never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// ListByAccount returns every record where the account appears as
	// source or destination, in creation order.
	ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
