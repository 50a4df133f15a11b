// Package domain defines the core business entities for NeuroBudget.
// These models are independent of persistence and transport and represent
// the canonical data structures used throughout the API.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Users
// ============================================================

// Role is the authorization role assigned to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered user. Identity (email) is immutable once created.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ============================================================
// Accounts
// ============================================================

// AccountType classifies an account for aggregation purposes.
type AccountType string

const (
	AccountChecking   AccountType = "CHECKING"
	AccountSavings    AccountType = "SAVINGS"
	AccountCreditCard AccountType = "CREDIT_CARD"
	AccountLoan       AccountType = "LOAN"
	AccountInvestment AccountType = "INVESTMENT"
)

// ValidAccountType reports whether t is one of the closed account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountLoan, AccountInvestment:
		return true
	}
	return false
}

// Account belongs to exactly one user; ownership is permanent.
// Balance is stored to 2 decimal places. CreditLimit and MinimumPayment are
// nullable on every type and only consumed for CREDIT_CARD/LOAN in aggregation.
type Account struct {
	ID             string           `json:"id"`
	UserID         string           `json:"-"`
	Name           string           `json:"name"`
	Type           AccountType      `json:"type"`
	Balance        decimal.Decimal  `json:"balance"`
	CreditLimit    *decimal.Decimal `json:"creditLimit"`
	MinimumPayment *decimal.Decimal `json:"minimumPayment"`
	Currency       string           `json:"currency"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ============================================================
// Transactions
// ============================================================

// TransactionType carries the direction of a transaction; amounts are always
// stored positive.
type TransactionType string

const (
	TransactionIncome   TransactionType = "INCOME"
	TransactionExpense  TransactionType = "EXPENSE"
	TransactionTransfer TransactionType = "TRANSFER"
)

// ValidTransactionType reports whether t is one of the closed transaction types.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return true
	}
	return false
}

// EmotionTag labels the emotional state attached to a spend.
type EmotionTag string

const (
	EmotionHappy      EmotionTag = "HAPPY"
	EmotionStressed   EmotionTag = "STRESSED"
	EmotionBored      EmotionTag = "BORED"
	EmotionExcited    EmotionTag = "EXCITED"
	EmotionAnxious    EmotionTag = "ANXIOUS"
	EmotionTired      EmotionTag = "TIRED"
	EmotionFrustrated EmotionTag = "FRUSTRATED"
	EmotionContent    EmotionTag = "CONTENT"
	EmotionSad        EmotionTag = "SAD"
	EmotionNeutral    EmotionTag = "NEUTRAL"
)

// ValidEmotionTag reports whether e is one of the closed emotion tags.
func ValidEmotionTag(e EmotionTag) bool {
	switch e {
	case EmotionHappy, EmotionStressed, EmotionBored, EmotionExcited, EmotionAnxious,
		EmotionTired, EmotionFrustrated, EmotionContent, EmotionSad, EmotionNeutral:
		return true
	}
	return false
}

// TriggerTag labels the behavioral trigger attached to a spend.
type TriggerTag string

const (
	TriggerSocialMedia    TriggerTag = "SOCIAL_MEDIA"
	TriggerLateNight      TriggerTag = "LATE_NIGHT"
	TriggerWorkStress     TriggerTag = "WORK_STRESS"
	TriggerSocialPressure TriggerTag = "SOCIAL_PRESSURE"
	TriggerReward         TriggerTag = "REWARD"
	TriggerBoredom        TriggerTag = "BOREDOM"
	TriggerHunger         TriggerTag = "HUNGER"
	TriggerPlanned        TriggerTag = "PLANNED"
	TriggerEmergency      TriggerTag = "EMERGENCY"
	TriggerImpulse        TriggerTag = "IMPULSE"
)

// ValidTriggerTag reports whether t is one of the closed trigger tags.
func ValidTriggerTag(t TriggerTag) bool {
	switch t {
	case TriggerSocialMedia, TriggerLateNight, TriggerWorkStress, TriggerSocialPressure,
		TriggerReward, TriggerBoredom, TriggerHunger, TriggerPlanned, TriggerEmergency,
		TriggerImpulse:
		return true
	}
	return false
}

// MaxNotesLength bounds the free-text notes field.
const MaxNotesLength = 500

// Transaction belongs to exactly one account (and transitively one user).
// The account reference and CreatedAt are immutable after creation.
type Transaction struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	AccountName     string          `json:"-"`
	TransactionDate time.Time       `json:"-"`
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
	CreatedAt       time.Time       `json:"createdAt"`
}

// DateLayout is the wire format for transaction dates.
const DateLayout = "2006-01-02"
