package ports

import (
	"context"
	"time"

	"bank-ledger/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// IDGenerator issues account numbers and transaction ids.
type IDGenerator interface {
	// AccountNumber derives a candidate account number from the holder
	// name: first three letters uppercased plus four digits.
	AccountNumber(holderName string) string
	// TransactionID returns a unique id with the TXN- prefix.
	TransactionID() string
}

// AccountCache is a read-through cache for account snapshots (fast path
// for GetAccount). Payloads are JSON-encoded accounts.
type AccountCache interface {
	Get(ctx context.Context, accountNumber string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, accountNumber string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, accountNumber string) error
}

// LedgerService is the transfer/deposit/withdraw engine. It is the only
// component allowed to mutate balances or append transaction records.
type LedgerService interface {
	CreateAccount(ctx context.Context, holderName string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error)
	UpdateHolderName(ctx context.Context, accountNumber, newHolderName string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountNumber string) error

	Deposit(ctx context.Context, accountNumber string, amount float64) (*domain.Account, error)
	Withdraw(ctx context.Context, accountNumber string, amount float64) (*domain.Account, error)
	// Transfer moves amount from source to destination atomically and
	// returns the TRANSFER record as confirmation.
	Transfer(ctx context.Context, sourceAccount, destinationAccount string, amount float64) (*domain.Transaction, error)

	GetTransactions(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}
