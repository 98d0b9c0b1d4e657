package handler

import (
	"time"

	"bank-ledger/internal/adapter/http/dto"
	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/pkg/apperror"
	"bank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account and transaction endpoints.
type AccountHandler struct {
	ledgerSvc ports.LedgerService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerSvc ports.LedgerService) *AccountHandler {
	return &AccountHandler{ledgerSvc: ledgerSvc}
}

// CreateAccount handles POST /api/v1/accounts.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	acc, err := h.ledgerSvc.CreateAccount(c.Request.Context(), req.HolderName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAccountResponse(acc))
}

// GetAccount handles GET /api/v1/accounts/:accountNumber.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	acc, err := h.ledgerSvc.GetAccount(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAccountResponse(acc))
}

// UpdateAccount handles PUT /api/v1/accounts/:accountNumber.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	acc, err := h.ledgerSvc.UpdateHolderName(c.Request.Context(), c.Param("accountNumber"), req.HolderName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAccountResponse(acc))
}

// DeleteAccount handles DELETE /api/v1/accounts/:accountNumber.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.ledgerSvc.DeleteAccount(c.Request.Context(), c.Param("accountNumber")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Deposit handles PUT /api/v1/accounts/:accountNumber/deposit.
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	acc, err := h.ledgerSvc.Deposit(c.Request.Context(), c.Param("accountNumber"), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAccountResponse(acc))
}

// Withdraw handles PUT /api/v1/accounts/:accountNumber/withdraw.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	acc, err := h.ledgerSvc.Withdraw(c.Request.Context(), c.Param("accountNumber"), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAccountResponse(acc))
}

// Transfer handles POST /api/v1/accounts/transfer.
func (h *AccountHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.ledgerSvc.Transfer(c.Request.Context(), req.SourceAccount, req.DestinationAccount, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// ListTransactions handles GET /api/v1/accounts/:accountNumber/transactions.
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	txns, err := h.ledgerSvc.GetTransactions(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	response.OK(c, items)
}

// toAccountResponse converts domain.Account to DTO.
func toAccountResponse(acc *domain.Account) dto.AccountResponse {
	ids := acc.TransactionIDs
	if ids == nil {
		ids = []string{}
	}
	return dto.AccountResponse{
		AccountNumber:  acc.AccountNumber,
		HolderName:     acc.HolderName,
		Balance:        acc.Balance,
		TransactionIDs: ids,
		CreatedAt:      acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      acc.UpdatedAt.Format(time.RFC3339),
	}
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(txn *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID:      txn.TransactionID,
		Type:               string(txn.Type),
		Amount:             txn.Amount,
		Status:             string(txn.Status),
		SourceAccount:      txn.SourceAccount,
		DestinationAccount: txn.DestinationAccount,
		CreatedAt:          txn.CreatedAt.Format(time.RFC3339),
	}
}
