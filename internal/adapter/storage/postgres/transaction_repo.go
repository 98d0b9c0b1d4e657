package postgres

import (
	"context"
	"errors"
	"fmt"

	"bank-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. Records are
// append-only: there is no update or delete path.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction record within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (transaction_id, type, amount, status, source_account, destination_account, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		t.TransactionID, t.Type, t.Amount, t.Status,
		t.SourceAccount, t.DestinationAccount, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction record by its TXN id.
func (r *TransactionRepo) GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT transaction_id, type, amount, status, source_account, destination_account, created_at
		FROM transactions WHERE transaction_id = $1`

	return scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
}

// ListByAccount fetches every record involving the account, oldest
// first. Records survive account deletion, so this works for accounts
// that no longer exist.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	query := `SELECT transaction_id, type, amount, status, source_account, destination_account, created_at
		FROM transactions WHERE source_account = $1 OR destination_account = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.TransactionID, &t.Type, &t.Amount, &t.Status,
			&t.SourceAccount, &t.DestinationAccount, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.TransactionID, &t.Type, &t.Amount, &t.Status,
		&t.SourceAccount, &t.DestinationAccount, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
