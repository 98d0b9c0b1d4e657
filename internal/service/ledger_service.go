package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// accountNumberAttempts bounds the collision-retry loop when allocating
// a fresh account number.
const accountNumberAttempts = 5

// LedgerServiceImpl implements ports.LedgerService. It is the only
// component that mutates balances or appends to the transaction log;
// every mutation runs under the account's in-process lock and inside a
// database transaction with row-level locking.
type LedgerServiceImpl struct {
	accRepo    ports.AccountRepository
	txnRepo    ports.TransactionRepository
	idGen      ports.IDGenerator
	cache      ports.AccountCache
	transactor ports.DBTransactor
	locks      *accountLocks
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	accRepo ports.AccountRepository,
	txnRepo ports.TransactionRepository,
	idGen ports.IDGenerator,
	cache ports.AccountCache,
	transactor ports.DBTransactor,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accRepo:    accRepo,
		txnRepo:    txnRepo,
		idGen:      idGen,
		cache:      cache,
		transactor: transactor,
		locks:      newAccountLocks(),
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// validateAccountNumber runs before any lookup so malformed input never
// touches storage.
func validateAccountNumber(accountNumber string) error {
	if !domain.IsValidAccountNumber(accountNumber) {
		return apperror.ErrInvalidAccountNumber()
	}
	return nil
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return apperror.ErrInvalidAmount()
	}
	return nil
}

// CreateAccount issues a fresh account number for the holder and
// persists a zero-balance account.
func (s *LedgerServiceImpl) CreateAccount(ctx context.Context, holderName string) (*domain.Account, error) {
	if strings.TrimSpace(holderName) == "" {
		return nil, apperror.Validation("holder name is required")
	}

	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		accNo := s.idGen.AccountNumber(holderName)

		existing, err := s.accRepo.GetByNumber(ctx, accNo)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("check account number: %w", err))
		}
		if existing != nil {
			continue
		}

		acc := domain.NewAccount(accNo, holderName)
		if err := s.accRepo.Create(ctx, acc); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
		}

		s.log.Info().
			Str("account_number", acc.AccountNumber).
			Str("holder_name", holderName).
			Msg("account created")

		return acc, nil
	}

	return nil, apperror.InternalError(fmt.Errorf("no unused account number after %d attempts", accountNumberAttempts))
}

// GetAccount returns the account, consulting the cache first.
func (s *LedgerServiceImpl) GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	if err := validateAccountNumber(accountNumber); err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(ctx, accountNumber); err != nil {
		s.log.Warn().Err(err).Str("account_number", accountNumber).Msg("account cache read failed, falling through to DB")
	} else if cached != nil {
		acc := &domain.Account{}
		if err := json.Unmarshal(cached, acc); err == nil {
			return acc, nil
		}
		s.log.Warn().Str("account_number", accountNumber).Msg("corrupt account cache entry, falling through to DB")
	}

	acc, err := s.accRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if acc == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	s.cacheAccount(ctx, acc)
	return acc, nil
}

// Deposit credits the account and appends one DEPOSIT record.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, accountNumber string, amount float64) (*domain.Account, error) {
	if err := validateAccountNumber(accountNumber); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	release := s.locks.Acquire(accountNumber)
	defer release()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	acc, err := s.accRepo.GetByNumberForUpdate(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if acc == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	acc.Credit(amount)

	txn := domain.NewTransaction(s.idGen.TransactionID(), domain.TransactionTypeDeposit, amount, accountNumber, nil)
	if err := s.txnRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create deposit record: %w", err))
	}

	acc.AppendTransaction(txn.TransactionID)
	if err := s.accRepo.Update(ctx, dbTx, acc); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update account: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, accountNumber)

	s.log.Info().
		Str("account_number", accountNumber).
		Str("txn_id", txn.TransactionID).
		Float64("amount", amount).
		Float64("balance", acc.Balance).
		Msg("deposit processed")

	return acc, nil
}

// Withdraw debits the account and appends one WITHDRAW record. The debit
// check is the sole guard of the non-negative balance invariant.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, accountNumber string, amount float64) (*domain.Account, error) {
	if err := validateAccountNumber(accountNumber); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	release := s.locks.Acquire(accountNumber)
	defer release()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	acc, err := s.accRepo.GetByNumberForUpdate(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if acc == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	if !acc.Debit(amount) {
		return nil, apperror.ErrInsufficientBalance()
	}

	txn := domain.NewTransaction(s.idGen.TransactionID(), domain.TransactionTypeWithdraw, amount, accountNumber, nil)
	if err := s.txnRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create withdraw record: %w", err))
	}

	acc.AppendTransaction(txn.TransactionID)
	if err := s.accRepo.Update(ctx, dbTx, acc); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update account: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, accountNumber)

	s.log.Info().
		Str("account_number", accountNumber).
		Str("txn_id", txn.TransactionID).
		Float64("amount", amount).
		Float64("balance", acc.Balance).
		Msg("withdrawal processed")

	return acc, nil
}

// Transfer debits the source, credits the destination and appends three
// records (WITHDRAW on source, DEPOSIT on destination, TRANSFER across
// both) as one atomic unit. A failure at any point rolls everything
// back, so the sum of the two balances is invariant.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, sourceAccount, destinationAccount string, amount float64) (*domain.Transaction, error) {
	if err := validateAccountNumber(sourceAccount); err != nil {
		return nil, err
	}
	if err := validateAccountNumber(destinationAccount); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if sourceAccount == destinationAccount {
		return nil, apperror.ErrSameAccountTransfer()
	}

	release := s.locks.Acquire(sourceAccount, destinationAccount)
	defer release()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Row locks follow the same lexicographic order as the in-process
	// locks so concurrent opposite-direction transfers cannot deadlock.
	first, second := sourceAccount, destinationAccount
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]*domain.Account, 2)
	for _, accNo := range []string{first, second} {
		acc, err := s.accRepo.GetByNumberForUpdate(ctx, dbTx, accNo)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock account %s: %w", accNo, err))
		}
		if acc == nil {
			return nil, apperror.ErrAccountNotFound()
		}
		locked[accNo] = acc
	}
	src, dest := locked[sourceAccount], locked[destinationAccount]

	if !src.Debit(amount) {
		return nil, apperror.ErrInsufficientBalance()
	}
	dest.Credit(amount)

	withdrawTxn := domain.NewTransaction(s.idGen.TransactionID(), domain.TransactionTypeWithdraw, amount, sourceAccount, nil)
	depositTxn := domain.NewTransaction(s.idGen.TransactionID(), domain.TransactionTypeDeposit, amount, destinationAccount, nil)
	transferTxn := domain.NewTransaction(s.idGen.TransactionID(), domain.TransactionTypeTransfer, amount, sourceAccount, &destinationAccount)

	for _, txn := range []*domain.Transaction{withdrawTxn, depositTxn, transferTxn} {
		if err := s.txnRepo.Create(ctx, dbTx, txn); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create %s record: %w", txn.Type, err))
		}
	}

	src.AppendTransaction(withdrawTxn.TransactionID)
	src.AppendTransaction(transferTxn.TransactionID)
	dest.AppendTransaction(depositTxn.TransactionID)
	dest.AppendTransaction(transferTxn.TransactionID)

	for _, acc := range []*domain.Account{src, dest} {
		if err := s.accRepo.Update(ctx, dbTx, acc); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update account %s: %w", acc.AccountNumber, err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, sourceAccount)
	s.invalidateCache(ctx, destinationAccount)

	s.log.Info().
		Str("source", sourceAccount).
		Str("destination", destinationAccount).
		Str("txn_id", transferTxn.TransactionID).
		Float64("amount", amount).
		Msg("transfer processed")

	return transferTxn, nil
}

// UpdateHolderName replaces the holder name. Balance is untouched.
func (s *LedgerServiceImpl) UpdateHolderName(ctx context.Context, accountNumber, newHolderName string) (*domain.Account, error) {
	if err := validateAccountNumber(accountNumber); err != nil {
		return nil, err
	}
	if strings.TrimSpace(newHolderName) == "" {
		return nil, apperror.Validation("holder name is required")
	}

	release := s.locks.Acquire(accountNumber)
	defer release()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	acc, err := s.accRepo.GetByNumberForUpdate(ctx, dbTx, accountNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if acc == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	acc.Rename(newHolderName)
	if err := s.accRepo.Update(ctx, dbTx, acc); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update account: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, accountNumber)

	s.log.Info().
		Str("account_number", accountNumber).
		Str("holder_name", newHolderName).
		Msg("holder name updated")

	return acc, nil
}

// DeleteAccount removes the account row. Transaction records survive the
// account: the audit trail is immutable and outlives its subjects.
func (s *LedgerServiceImpl) DeleteAccount(ctx context.Context, accountNumber string) error {
	if err := validateAccountNumber(accountNumber); err != nil {
		return err
	}

	release := s.locks.Acquire(accountNumber)
	defer release()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	acc, err := s.accRepo.GetByNumberForUpdate(ctx, dbTx, accountNumber)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if acc == nil {
		return apperror.ErrAccountNotFound()
	}

	if err := s.accRepo.Delete(ctx, dbTx, accountNumber); err != nil {
		return apperror.InternalError(fmt.Errorf("delete account: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateCache(ctx, accountNumber)

	s.log.Info().Str("account_number", accountNumber).Msg("account deleted")
	return nil
}

// GetTransactions returns every record involving the account in creation
// order. Only the format is validated; an unknown account simply has an
// empty history.
func (s *LedgerServiceImpl) GetTransactions(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	if err := validateAccountNumber(accountNumber); err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListByAccount(ctx, accountNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// cacheAccount stores a snapshot, best-effort.
func (s *LedgerServiceImpl) cacheAccount(ctx context.Context, acc *domain.Account) {
	payload, err := json.Marshal(acc)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, acc.AccountNumber, payload, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("account_number", acc.AccountNumber).Msg("failed to cache account")
	}
}

// invalidateCache drops a snapshot after a mutation, best-effort.
func (s *LedgerServiceImpl) invalidateCache(ctx context.Context, accountNumber string) {
	if err := s.cache.Delete(ctx, accountNumber); err != nil {
		s.log.Warn().Err(err).Str("account_number", accountNumber).Msg("failed to invalidate account cache")
	}
}
