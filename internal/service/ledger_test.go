package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/neurobudget/neurobudget-api/internal/domain"
	"github.com/neurobudget/neurobudget-api/internal/infra/observability"
	"github.com/neurobudget/neurobudget-api/internal/service"
)

func newLedgerService(store *mockLedgerStore) *service.LedgerService {
	return service.NewLedgerService(store, observability.NewMetrics(), zap.NewNop())
}

func TestCreateAccount_Validation(t *testing.T) {
	svc := newLedgerService(newMockLedgerStore())

	cases := []struct {
		name string
		req  domain.CreateAccountRequest
	}{
		{"missing name", domain.CreateAccountRequest{Type: domain.AccountChecking}},
		{"unknown type", domain.CreateAccountRequest{Name: "a", Type: "PIGGY_BANK"}},
		{"negative balance", domain.CreateAccountRequest{Name: "a", Type: domain.AccountChecking, Balance: dec("-1")}},
		{"negative limit", domain.CreateAccountRequest{Name: "a", Type: domain.AccountCreditCard, CreditLimit: decPtr("-10")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAccount(context.Background(), "user-1", &tc.req)
			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateAccount_Defaults(t *testing.T) {
	svc := newLedgerService(newMockLedgerStore())

	resp, err := svc.CreateAccount(context.Background(), "user-1", &domain.CreateAccountRequest{
		Name:    "Everyday",
		Type:    domain.AccountChecking,
		Balance: dec("100.456"),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if resp.Currency != "USD" {
		t.Errorf("expected default currency USD, got %s", resp.Currency)
	}
	if !resp.Active {
		t.Error("expected new accounts to be active")
	}
	assertDecimal(t, "balance rounded", resp.Balance, dec("100.46"))
}

func TestAccountResponse_AvailableCredit(t *testing.T) {
	store := newMockLedgerStore()
	svc := newLedgerService(store)

	card, err := svc.CreateAccount(context.Background(), "user-1", &domain.CreateAccountRequest{
		Name:        "Visa",
		Type:        domain.AccountCreditCard,
		Balance:     dec("200"),
		CreditLimit: decPtr("2000"),
	})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	if card.AvailableCredit == nil {
		t.Fatal("expected availableCredit on a card with a limit")
	}
	// The card's balance is what remains spendable of the limit.
	assertDecimal(t, "availableCredit", *card.AvailableCredit, dec("200"))

	checking, err := svc.CreateAccount(context.Background(), "user-1", &domain.CreateAccountRequest{
		Name:    "Everyday",
		Type:    domain.AccountChecking,
		Balance: dec("100"),
	})
	if err != nil {
		t.Fatalf("create checking: %v", err)
	}
	if checking.AvailableCredit != nil {
		t.Error("expected no availableCredit without a credit limit")
	}

	// The field keys off the limit, not the account type.
	loan, err := svc.CreateAccount(context.Background(), "user-1", &domain.CreateAccountRequest{
		Name:        "Car loan",
		Type:        domain.AccountLoan,
		Balance:     dec("3000"),
		CreditLimit: decPtr("5000"),
	})
	if err != nil {
		t.Fatalf("create loan: %v", err)
	}
	if loan.AvailableCredit == nil {
		t.Fatal("expected availableCredit on any account with a limit")
	}
	assertDecimal(t, "availableCredit", *loan.AvailableCredit, dec("3000"))
}

func TestUpdateAccount_RejectsEmptyName(t *testing.T) {
	store := newMockLedgerStore()
	svc := newLedgerService(store)

	created, err := svc.CreateAccount(context.Background(), "user-1", &domain.CreateAccountRequest{
		Name: "Everyday", Type: domain.AccountChecking,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := "   "
	_, err = svc.UpdateAccount(context.Background(), created.ID, "user-1", &domain.UpdateAccountRequest{Name: &empty})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListAccounts_CarriesTransactionCounts(t *testing.T) {
	store := newMockLedgerStore()
	svc := newLedgerService(store)

	created, err := svc.CreateAccount(context.Background(), "user-1", &domain.CreateAccountRequest{
		Name: "Everyday", Type: domain.AccountChecking, Balance: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	store.transactions["t1"] = &domain.Transaction{ID: "t1", AccountID: created.ID}
	store.transactions["t2"] = &domain.Transaction{ID: "t2", AccountID: created.ID}

	accounts, err := svc.ListAccounts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 1 || accounts[0].TransactionCount != 2 {
		t.Fatalf("expected 1 account with 2 transactions, got %+v", accounts)
	}
}
