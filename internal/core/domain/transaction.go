package domain

import "time"

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus represents the outcome recorded for a transaction.
// Only SUCCESS records are ever persisted: validation happens before any
// record is created, so failed attempts leave no trace.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is an immutable audit record of one completed balance change.
// For DEPOSIT records the credited account is stored in SourceAccount and
// DestinationAccount is absent; only TRANSFER records carry both sides.
type Transaction struct {
	TransactionID      string            `json:"transaction_id"`
	Type               TransactionType   `json:"type"`
	Amount             float64           `json:"amount"`
	Status             TransactionStatus `json:"status"`
	SourceAccount      string            `json:"source_account"`
	DestinationAccount *string           `json:"destination_account,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// NewTransaction creates a SUCCESS transaction record. destination may be
// empty for anything other than a transfer.
func NewTransaction(txnID string, txnType TransactionType, amount float64, source string, destination *string) *Transaction {
	return &Transaction{
		TransactionID:      txnID,
		Type:               txnType,
		Amount:             amount,
		Status:             TransactionStatusSuccess,
		SourceAccount:      source,
		DestinationAccount: destination,
		CreatedAt:          time.Now().UTC(),
	}
}

// Involves reports whether the account appears on either side of the record.
func (t *Transaction) Involves(accountNumber string) bool {
	if t.SourceAccount == accountNumber {
		return true
	}
	return t.DestinationAccount != nil && *t.DestinationAccount == accountNumber
}
