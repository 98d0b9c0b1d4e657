package postgres

import (
	"context"
	"errors"
	"fmt"

	"bank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account into the database.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (account_number, holder_name, balance, transaction_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		a.AccountNumber, a.HolderName, a.Balance, a.TransactionIDs,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByNumber fetches an account by its number (without locking).
func (r *AccountRepo) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT account_number, holder_name, balance, transaction_ids, created_at, updated_at
		FROM accounts WHERE account_number = $1`

	return scanAccount(r.pool.QueryRow(ctx, query, accountNumber))
}

// GetByNumberForUpdate fetches an account with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByNumberForUpdate(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error) {
	query := `SELECT account_number, holder_name, balance, transaction_ids, created_at, updated_at
		FROM accounts WHERE account_number = $1 FOR UPDATE`

	return scanAccount(tx.QueryRow(ctx, query, accountNumber))
}

// Update persists the account's mutable fields within a database transaction.
func (r *AccountRepo) Update(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `UPDATE accounts SET holder_name = $1, balance = $2, transaction_ids = $3, updated_at = NOW()
		WHERE account_number = $4`

	tag, err := tx.Exec(ctx, query, a.HolderName, a.Balance, a.TransactionIDs, a.AccountNumber)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", a.AccountNumber)
	}
	return nil
}

// Delete removes an account within a database transaction. Transaction
// records referencing the account are left in place.
func (r *AccountRepo) Delete(ctx context.Context, tx pgx.Tx, accountNumber string) error {
	query := `DELETE FROM accounts WHERE account_number = $1`

	tag, err := tx.Exec(ctx, query, accountNumber)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", accountNumber)
	}
	return nil
}

// scanAccount is a helper to scan a single row into an Account.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.AccountNumber, &a.HolderName, &a.Balance, &a.TransactionIDs,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}
