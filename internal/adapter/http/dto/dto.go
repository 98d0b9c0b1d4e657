package dto

// CreateAccountRequest is the request body for opening an account.
type CreateAccountRequest struct {
	HolderName string `json:"holder_name" binding:"required,min=1,max=100"`
}

// UpdateAccountRequest is the request body for changing the holder name.
type UpdateAccountRequest struct {
	HolderName string `json:"holder_name" binding:"required,min=1,max=100"`
}

// AmountRequest is the request body for deposits and withdrawals.
type AmountRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// TransferRequest is the request body for transfers between accounts.
type TransferRequest struct {
	SourceAccount      string  `json:"source_account" binding:"required,acct_num"`
	DestinationAccount string  `json:"destination_account" binding:"required,acct_num"`
	Amount             float64 `json:"amount" binding:"required,gt=0"`
}

// AccountResponse is the response body for account state.
type AccountResponse struct {
	AccountNumber  string   `json:"account_number"`
	HolderName     string   `json:"holder_name"`
	Balance        float64  `json:"balance"`
	TransactionIDs []string `json:"transaction_ids"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// TransactionResponse is the response body for one ledger record.
type TransactionResponse struct {
	TransactionID      string  `json:"transaction_id"`
	Type               string  `json:"type"`
	Amount             float64 `json:"amount"`
	Status             string  `json:"status"`
	SourceAccount      string  `json:"source_account"`
	DestinationAccount *string `json:"destination_account,omitempty"`
	CreatedAt          string  `json:"created_at"`
}
