// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/neurobudget/neurobudget-api/internal/domain"
)

// UserStore holds user identities and credentials.
// Lookup methods return (nil, nil) when no row matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// LedgerStore holds accounts and transactions with their ownership edges.
// Every read/update/delete is scoped to the owning user id: an id that exists
// but is owned by someone else behaves identically to an absent id
// (ErrNotFound). Each method executes as a single atomic unit of work.
type LedgerStore interface {
	// Accounts
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, accountID, userID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID, userID string, patch *domain.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID, userID string) error
	TransactionCounts(ctx context.Context, userID string) (map[string]int, error)

	// Transactions
	CreateTransaction(ctx context.Context, userID string, tx *domain.Transaction) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, transactionID, userID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID, userID string, patch *domain.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID, userID string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
