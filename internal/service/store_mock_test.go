package service_test

import (
	"context"

	"github.com/neurobudget/neurobudget-api/internal/domain"
)

// mockLedgerStore is an in-memory port.LedgerStore keyed by account and
// transaction id. It mirrors the real store's ownership semantics.
type mockLedgerStore struct {
	accounts     map[string]*domain.Account
	transactions map[string]*domain.Transaction
}

func newMockLedgerStore() *mockLedgerStore {
	return &mockLedgerStore{
		accounts:     map[string]*domain.Account{},
		transactions: map[string]*domain.Transaction{},
	}
}

func (m *mockLedgerStore) CreateAccount(_ context.Context, account *domain.Account) (*domain.Account, error) {
	m.accounts[account.ID] = account
	return account, nil
}

func (m *mockLedgerStore) ListAccounts(_ context.Context, userID string) ([]domain.Account, error) {
	out := []domain.Account{}
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockLedgerStore) ListActiveAccounts(_ context.Context, userID string) ([]domain.Account, error) {
	out := []domain.Account{}
	for _, a := range m.accounts {
		if a.UserID == userID && a.Active {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockLedgerStore) GetAccount(_ context.Context, accountID, userID string) (*domain.Account, error) {
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	return a, nil
}

func (m *mockLedgerStore) UpdateAccount(ctx context.Context, accountID, userID string, patch *domain.UpdateAccountRequest) (*domain.Account, error) {
	a, err := m.GetAccount(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Balance != nil {
		a.Balance = *patch.Balance
	}
	if patch.CreditLimit != nil {
		a.CreditLimit = patch.CreditLimit
	}
	if patch.MinimumPayment != nil {
		a.MinimumPayment = patch.MinimumPayment
	}
	if patch.Active != nil {
		a.Active = *patch.Active
	}
	return a, nil
}

func (m *mockLedgerStore) DeleteAccount(ctx context.Context, accountID, userID string) error {
	if _, err := m.GetAccount(ctx, accountID, userID); err != nil {
		return err
	}
	delete(m.accounts, accountID)
	for id, t := range m.transactions {
		if t.AccountID == accountID {
			delete(m.transactions, id)
		}
	}
	return nil
}

func (m *mockLedgerStore) TransactionCounts(_ context.Context, userID string) (map[string]int, error) {
	counts := map[string]int{}
	for _, t := range m.transactions {
		if a, ok := m.accounts[t.AccountID]; ok && a.UserID == userID {
			counts[t.AccountID]++
		}
	}
	return counts, nil
}

func (m *mockLedgerStore) CreateTransaction(ctx context.Context, userID string, txn *domain.Transaction) (*domain.Transaction, error) {
	a, err := m.GetAccount(ctx, txn.AccountID, userID)
	if err != nil {
		return nil, err
	}
	txn.AccountName = a.Name
	m.transactions[txn.ID] = txn
	return txn, nil
}

func (m *mockLedgerStore) ListTransactions(_ context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	for _, t := range m.transactions {
		a, ok := m.accounts[t.AccountID]
		if !ok || a.UserID != userID {
			continue
		}
		switch {
		case filter.AccountID != "":
			if t.AccountID != filter.AccountID {
				continue
			}
		case filter.Emotion != "":
			if t.Emotion == nil || *t.Emotion != filter.Emotion {
				continue
			}
		case filter.Trigger != "":
			if t.Trigger == nil || *t.Trigger != filter.Trigger {
				continue
			}
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockLedgerStore) GetTransaction(_ context.Context, transactionID, userID string) (*domain.Transaction, error) {
	t, ok := m.transactions[transactionID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	if a, ok := m.accounts[t.AccountID]; !ok || a.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	return t, nil
}

func (m *mockLedgerStore) UpdateTransaction(ctx context.Context, transactionID, userID string, patch *domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	t, err := m.GetTransaction(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Emotion != nil {
		t.Emotion = patch.Emotion
	}
	if patch.Trigger != nil {
		t.Trigger = patch.Trigger
	}
	return t, nil
}

func (m *mockLedgerStore) DeleteTransaction(ctx context.Context, transactionID, userID string) error {
	if _, err := m.GetTransaction(ctx, transactionID, userID); err != nil {
		return err
	}
	delete(m.transactions, transactionID)
	return nil
}
