package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/neurobudget/neurobudget-api/internal/domain"
	"github.com/neurobudget/neurobudget-api/internal/infra/observability"
	"github.com/neurobudget/neurobudget-api/internal/port"
)

var cashflowTracer = otel.Tracer("service/cashflow")

// recentTransactionLimit caps the dashboard's transaction list.
const recentTransactionLimit = 10

// CashflowService derives the cashflow summary and the dashboard bundle.
// Summaries are never persisted; they are recomputed from the caller's
// active accounts on every request.
type CashflowService struct {
	store   port.LedgerStore
	ledger  *LedgerService
	txns    *TransactionService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCashflowService creates a new cashflow service.
func NewCashflowService(store port.LedgerStore, ledger *LedgerService, txns *TransactionService, metrics *observability.Metrics, logger *zap.Logger) *CashflowService {
	return &CashflowService{
		store:   store,
		ledger:  ledger,
		txns:    txns,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// Summary — GET /api/v1/accounts/cashflow
// ============================================================

func (s *CashflowService) Summary(ctx context.Context, userID string) (*domain.CashflowSummary, error) {
	ctx, span := cashflowTracer.Start(ctx, "CashflowService.Summary")
	defer span.End()

	accounts, err := s.store.ListActiveAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active accounts: %w", err)
	}

	summary := Summarize(accounts)
	s.metrics.IncrSummary()
	return summary, nil
}

// Summarize folds the active accounts into a cashflow summary.
//
// CHECKING and SAVINGS balances add to cash. A CREDIT_CARD contributes its
// balance as spendable credit and the spent part of its limit as debt; a
// card with no limit set contributes nothing. LOAN balances count as debt
// regardless of sign, INVESTMENT balances as investments. Minimum payments
// on cards and loans accumulate separately and reduce what is available to
// spend.
func Summarize(accounts []domain.Account) *domain.CashflowSummary {
	zero := decimal.Zero
	summary := &domain.CashflowSummary{
		TotalCash:          zero,
		TotalCredit:        zero,
		TotalDebt:          zero,
		TotalInvestments:   zero,
		UpcomingBills:      zero,
		MinimumPaymentsDue: zero,
	}

	for i := range accounts {
		a := &accounts[i]
		switch a.Type {
		case domain.AccountChecking, domain.AccountSavings:
			summary.TotalCash = summary.TotalCash.Add(a.Balance)

		case domain.AccountCreditCard:
			if a.CreditLimit == nil {
				continue
			}
			summary.TotalCredit = summary.TotalCredit.Add(a.Balance)
			summary.TotalDebt = summary.TotalDebt.Add(a.CreditLimit.Sub(a.Balance))
			if a.MinimumPayment != nil {
				summary.MinimumPaymentsDue = summary.MinimumPaymentsDue.Add(*a.MinimumPayment)
			}

		case domain.AccountLoan:
			summary.TotalDebt = summary.TotalDebt.Add(a.Balance.Abs())
			if a.MinimumPayment != nil {
				summary.MinimumPaymentsDue = summary.MinimumPaymentsDue.Add(*a.MinimumPayment)
			}

		case domain.AccountInvestment:
			summary.TotalInvestments = summary.TotalInvestments.Add(a.Balance)
		}
	}

	summary.AvailableToSpend = summary.TotalCash.
		Add(summary.TotalCredit).
		Sub(summary.MinimumPaymentsDue)

	return summary
}

// ============================================================
// Dashboard — GET /api/v1/dashboard
// ============================================================

// Dashboard assembles the summary, the account list and the most recent
// transactions in one round trip. The three reads run concurrently.
func (s *CashflowService) Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	ctx, span := cashflowTracer.Start(ctx, "CashflowService.Dashboard")
	defer span.End()

	var dash domain.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.Summary(gctx, userID)
		if err != nil {
			return err
		}
		dash.Summary = summary
		return nil
	})

	g.Go(func() error {
		accounts, err := s.ledger.ListAccounts(gctx, userID)
		if err != nil {
			return err
		}
		dash.Accounts = accounts
		return nil
	})

	g.Go(func() error {
		txns, err := s.txns.List(gctx, userID, domain.TransactionFilter{})
		if err != nil {
			return err
		}
		if len(txns) > recentTransactionLimit {
			txns = txns[:recentTransactionLimit]
		}
		dash.RecentTransactions = txns
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}
