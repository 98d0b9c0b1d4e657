package domain

import (
	"regexp"
	"time"
)

// accountNumberRe is the canonical account number format:
// three uppercase letters followed by four digits, e.g. "JOH1234".
var accountNumberRe = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)

// IsValidAccountNumber reports whether s is a well-formed account number.
func IsValidAccountNumber(s string) bool {
	return accountNumberRe.MatchString(s)
}

// Account represents a single bank account and its authoritative balance.
// The balance never goes below zero; Debit is the only operation allowed
// to reduce it and refuses to cross that line.
type Account struct {
	AccountNumber  string    `json:"account_number"`
	HolderName     string    `json:"holder_name"`
	Balance        float64   `json:"balance"`
	TransactionIDs []string  `json:"transaction_ids"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAccount creates an account with a zero balance.
func NewAccount(accountNumber, holderName string) *Account {
	now := time.Now().UTC()
	return &Account{
		AccountNumber:  accountNumber,
		HolderName:     holderName,
		Balance:        0,
		TransactionIDs: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Credit increases the balance by amount. The caller must have validated
// amount > 0 already.
func (a *Account) Credit(amount float64) {
	a.Balance += amount
}

// Debit decreases the balance by amount. It returns false and leaves the
// balance untouched when the account does not hold enough funds.
func (a *Account) Debit(amount float64) bool {
	if a.Balance < amount {
		return false
	}
	a.Balance -= amount
	return true
}

// CanDebit reports whether the balance covers amount.
func (a *Account) CanDebit(amount float64) bool {
	return a.Balance >= amount
}

// AppendTransaction records a transaction id in the account's index.
// The index preserves insertion order, which is chronological order.
func (a *Account) AppendTransaction(txnID string) {
	a.TransactionIDs = append(a.TransactionIDs, txnID)
}

// Rename replaces the holder name. Balance is unaffected.
func (a *Account) Rename(newHolderName string) {
	a.HolderName = newHolderName
}
