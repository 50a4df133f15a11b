package domain

import "github.com/shopspring/decimal"

// ============================================================
// Transactions — Request / Response types
// ============================================================

// CreateTransactionRequest is the body for POST /api/v1/transactions.
// Amount must be > 0; direction is carried by Type, not sign.
type CreateTransactionRequest struct {
	AccountID       string          `json:"accountId"`
	TransactionDate string          `json:"transactionDate"`
	Description     string          `json:"description"`
	Merchant        string          `json:"merchant"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Emotion         *EmotionTag     `json:"emotion"`
	Trigger         *TriggerTag     `json:"trigger"`
	Notes           string          `json:"notes"`
	IsCreditSpend   bool            `json:"isCreditSpend"`
	IsRecurring     bool            `json:"isRecurring"`
}

// UpdateTransactionRequest is a partial patch: nil fields keep their prior
// value. The account reference is immutable and cannot be patched.
type UpdateTransactionRequest struct {
	TransactionDate *string          `json:"transactionDate"`
	Description     *string          `json:"description"`
	Merchant        *string          `json:"merchant"`
	Amount          *decimal.Decimal `json:"amount"`
	Type            *TransactionType `json:"type"`
	Category        *string          `json:"category"`
	Emotion         *EmotionTag      `json:"emotion"`
	Trigger         *TriggerTag      `json:"trigger"`
	Notes           *string          `json:"notes"`
	IsCreditSpend   *bool            `json:"isCreditSpend"`
	IsRecurring     *bool            `json:"isRecurring"`
}

// TransactionFilter selects one listing mode. Exactly one mode applies per
// call; precedence is AccountID, then date range, then emotion, then trigger.
type TransactionFilter struct {
	AccountID string
	StartDate string
	EndDate   string
	Emotion   EmotionTag
	Trigger   TriggerTag
}

// TransactionResponse is the wire shape of a transaction.
type TransactionResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	AccountName     string          `json:"accountName"`
	TransactionDate string          `json:"transactionDate"`
	Description     string          `json:"description"`
	Merchant        string          `json:"merchant"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Emotion         *EmotionTag     `json:"emotion"`
	Trigger         *TriggerTag     `json:"trigger"`
	Notes           string          `json:"notes,omitempty"`
	IsCreditSpend   bool            `json:"isCreditSpend"`
	IsRecurring     bool            `json:"isRecurring"`
	CreatedAt       string          `json:"createdAt"`
}

// Dashboard bundles the data the mobile home screen fetches in one round trip.
type Dashboard struct {
	Summary            *CashflowSummary      `json:"summary"`
	Accounts           []AccountResponse     `json:"accounts"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}
