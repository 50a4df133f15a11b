package domain

import "github.com/shopspring/decimal"

// ============================================================
// Accounts — Request / Response types
// ============================================================

// CreateAccountRequest is the body for POST /api/v1/accounts.
// Balance must be >= 0; negative initial balances are rejected.
type CreateAccountRequest struct {
	Name           string           `json:"name"`
	Type           AccountType      `json:"type"`
	Balance        decimal.Decimal  `json:"balance"`
	CreditLimit    *decimal.Decimal `json:"creditLimit"`
	MinimumPayment *decimal.Decimal `json:"minimumPayment"`
	Currency       string           `json:"currency"`
}

// UpdateAccountRequest is a partial patch: nil fields keep their prior value.
// Active accepts an explicit false.
type UpdateAccountRequest struct {
	Name           *string          `json:"name"`
	Balance        *decimal.Decimal `json:"balance"`
	CreditLimit    *decimal.Decimal `json:"creditLimit"`
	MinimumPayment *decimal.Decimal `json:"minimumPayment"`
	Active         *bool            `json:"active"`
}

// AccountResponse is the wire shape of an account, with derived fields.
type AccountResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Type             AccountType      `json:"type"`
	Balance          decimal.Decimal  `json:"balance"`
	CreditLimit      *decimal.Decimal `json:"creditLimit"`
	MinimumPayment   *decimal.Decimal `json:"minimumPayment"`
	AvailableCredit  *decimal.Decimal `json:"availableCredit"`
	Currency         string           `json:"currency"`
	Active           bool             `json:"active"`
	CreatedAt        string           `json:"createdAt"`
	UpdatedAt        string           `json:"updatedAt"`
	TransactionCount int              `json:"transactionCount"`
}

// CashflowSummary is the derived, non-persisted aggregate computed on demand
// from the caller's active accounts.
type CashflowSummary struct {
	TotalCash          decimal.Decimal `json:"totalCash"`
	TotalCredit        decimal.Decimal `json:"totalCredit"`
	TotalDebt          decimal.Decimal `json:"totalDebt"`
	TotalInvestments   decimal.Decimal `json:"totalInvestments"`
	AvailableToSpend   decimal.Decimal `json:"availableToSpend"`
	UpcomingBills      decimal.Decimal `json:"upcomingBills"`
	MinimumPaymentsDue decimal.Decimal `json:"minimumPaymentsDue"`
}
