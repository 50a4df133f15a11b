package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/neurobudget/neurobudget-api/internal/domain"
	"github.com/neurobudget/neurobudget-api/internal/infra/observability"
	"github.com/neurobudget/neurobudget-api/internal/service"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func account(typ domain.AccountType, balance string, mutate func(*domain.Account)) domain.Account {
	a := domain.Account{
		ID:      string(typ) + "-" + balance,
		UserID:  "user-1",
		Name:    string(typ),
		Type:    typ,
		Balance: dec(balance),
		Active:  true,
	}
	if mutate != nil {
		mutate(&a)
	}
	return a
}

func assertDecimal(t *testing.T, field string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s: got %s, want %s", field, got, want)
	}
}

func TestSummarize_MixedPortfolio(t *testing.T) {
	accounts := []domain.Account{
		account(domain.AccountChecking, "1000", nil),
		account(domain.AccountSavings, "500", nil),
		account(domain.AccountCreditCard, "200", func(a *domain.Account) {
			a.CreditLimit = decPtr("2000")
			a.MinimumPayment = decPtr("50")
		}),
		account(domain.AccountLoan, "-3000", func(a *domain.Account) {
			a.MinimumPayment = decPtr("150")
		}),
		account(domain.AccountInvestment, "10000", nil),
	}

	s := service.Summarize(accounts)

	assertDecimal(t, "totalCash", s.TotalCash, dec("1500"))
	assertDecimal(t, "totalCredit", s.TotalCredit, dec("200"))
	assertDecimal(t, "totalDebt", s.TotalDebt, dec("4800"))
	assertDecimal(t, "totalInvestments", s.TotalInvestments, dec("10000"))
	assertDecimal(t, "minimumPaymentsDue", s.MinimumPaymentsDue, dec("200"))
	assertDecimal(t, "availableToSpend", s.AvailableToSpend, dec("1500"))
	assertDecimal(t, "upcomingBills", s.UpcomingBills, decimal.Zero)
}

func TestSummarize_CreditCardWithoutLimitExcluded(t *testing.T) {
	accounts := []domain.Account{
		account(domain.AccountCreditCard, "300", func(a *domain.Account) {
			a.MinimumPayment = decPtr("25")
		}),
	}

	s := service.Summarize(accounts)

	// A card with no limit contributes nothing, not even its minimum payment.
	assertDecimal(t, "totalCredit", s.TotalCredit, decimal.Zero)
	assertDecimal(t, "totalDebt", s.TotalDebt, decimal.Zero)
	assertDecimal(t, "minimumPaymentsDue", s.MinimumPaymentsDue, decimal.Zero)
	assertDecimal(t, "availableToSpend", s.AvailableToSpend, decimal.Zero)
}

func TestSummarize_LoanBalanceSignIgnored(t *testing.T) {
	negative := service.Summarize([]domain.Account{account(domain.AccountLoan, "-3000", nil)})
	positive := service.Summarize([]domain.Account{account(domain.AccountLoan, "3000", nil)})

	assertDecimal(t, "totalDebt (negative balance)", negative.TotalDebt, dec("3000"))
	assertDecimal(t, "totalDebt (positive balance)", positive.TotalDebt, dec("3000"))
}

func TestSummarize_Empty(t *testing.T) {
	s := service.Summarize(nil)

	assertDecimal(t, "totalCash", s.TotalCash, decimal.Zero)
	assertDecimal(t, "availableToSpend", s.AvailableToSpend, decimal.Zero)
}

func TestSummarize_MinimumPaymentsReduceAvailable(t *testing.T) {
	accounts := []domain.Account{
		account(domain.AccountChecking, "100", nil),
		account(domain.AccountCreditCard, "50", func(a *domain.Account) {
			a.CreditLimit = decPtr("500")
			a.MinimumPayment = decPtr("75")
		}),
	}

	s := service.Summarize(accounts)

	// 100 cash + 50 credit - 75 due = 75
	assertDecimal(t, "availableToSpend", s.AvailableToSpend, dec("75"))
}

func TestCashflowSummary_SkipsInactiveAccounts(t *testing.T) {
	store := newMockLedgerStore()
	svc := newCashflowService(store)

	active := account(domain.AccountChecking, "1000", nil)
	inactive := account(domain.AccountSavings, "999", func(a *domain.Account) {
		a.ID = "inactive"
		a.Active = false
	})
	store.accounts[active.ID] = &active
	store.accounts[inactive.ID] = &inactive

	s, err := svc.Summary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	assertDecimal(t, "totalCash", s.TotalCash, dec("1000"))
}

func newCashflowService(store *mockLedgerStore) *service.CashflowService {
	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	ledger := service.NewLedgerService(store, metrics, logger)
	txns := service.NewTransactionService(store, metrics, logger)
	return service.NewCashflowService(store, ledger, txns, metrics, logger)
}

func TestDashboard_BundlesAllSections(t *testing.T) {
	store := newMockLedgerStore()
	svc := newCashflowService(store)

	checking := account(domain.AccountChecking, "1000", func(a *domain.Account) { a.ID = "acc-1" })
	store.accounts[checking.ID] = &checking

	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		store.transactions[id] = &domain.Transaction{
			ID:              id,
			AccountID:       "acc-1",
			AccountName:     checking.Name,
			TransactionDate: time.Now(),
			Amount:          dec("5"),
			Type:            domain.TransactionExpense,
			CreatedAt:       time.Now(),
		}
	}

	dash, err := svc.Dashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if dash.Summary == nil {
		t.Fatal("expected summary section")
	}
	assertDecimal(t, "summary.totalCash", dash.Summary.TotalCash, dec("1000"))
	if len(dash.Accounts) != 1 {
		t.Errorf("expected 1 account, got %d", len(dash.Accounts))
	}
	if len(dash.RecentTransactions) != 10 {
		t.Errorf("expected recent transactions capped at 10, got %d", len(dash.RecentTransactions))
	}
}
