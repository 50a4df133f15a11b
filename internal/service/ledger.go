package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/neurobudget/neurobudget-api/internal/domain"
	"github.com/neurobudget/neurobudget-api/internal/infra/observability"
	"github.com/neurobudget/neurobudget-api/internal/port"
)

var ledgerTracer = otel.Tracer("service/ledger")

const defaultCurrency = "USD"

// LedgerService owns the account lifecycle. Every operation is scoped to
// the calling user; an account id owned by someone else is treated as
// absent.
type LedgerService struct {
	store   port.LedgerStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(store port.LedgerStore, metrics *observability.Metrics, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// CreateAccount — POST /api/v1/accounts
// ============================================================

func (s *LedgerService) CreateAccount(ctx context.Context, userID string, req *domain.CreateAccountRequest) (*domain.AccountResponse, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateAccount")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "is required"}
	}
	if !domain.ValidAccountType(req.Type) {
		return nil, &domain.ErrValidation{Field: "type", Message: fmt.Sprintf("unknown account type %q", req.Type)}
	}
	if req.Balance.IsNegative() {
		return nil, &domain.ErrValidation{Field: "balance", Message: "must not be negative"}
	}
	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		return nil, &domain.ErrValidation{Field: "creditLimit", Message: "must not be negative"}
	}
	if req.MinimumPayment != nil && req.MinimumPayment.IsNegative() {
		return nil, &domain.ErrValidation{Field: "minimumPayment", Message: "must not be negative"}
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now().UTC()
	account, err := s.store.CreateAccount(ctx, &domain.Account{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Type:           req.Type,
		Balance:        req.Balance.Round(2),
		CreditLimit:    roundPtr(req.CreditLimit),
		MinimumPayment: roundPtr(req.MinimumPayment),
		Currency:       currency,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrLedgerWrite("account")
	s.logger.Info("account created",
		zap.String("account_id", account.ID),
		zap.String("user_id", userID),
		zap.String("type", string(account.Type)),
	)

	return mapAccount(account, 0), nil
}

// ============================================================
// ListAccounts — GET /api/v1/accounts
// ============================================================

func (s *LedgerService) ListAccounts(ctx context.Context, userID string) ([]domain.AccountResponse, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListAccounts")
	defer span.End()

	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	counts, err := s.store.TransactionCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	resp := make([]domain.AccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, *mapAccount(&accounts[i], counts[accounts[i].ID]))
	}
	return resp, nil
}

// ============================================================
// GetAccount — GET /api/v1/accounts/{id}
// ============================================================

func (s *LedgerService) GetAccount(ctx context.Context, accountID, userID string) (*domain.AccountResponse, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetAccount")
	defer span.End()

	account, err := s.store.GetAccount(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.TransactionCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	return mapAccount(account, counts[account.ID]), nil
}

// ============================================================
// UpdateAccount — PUT /api/v1/accounts/{id}
// ============================================================

func (s *LedgerService) UpdateAccount(ctx context.Context, accountID, userID string, req *domain.UpdateAccountRequest) (*domain.AccountResponse, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpdateAccount")
	defer span.End()

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		return nil, &domain.ErrValidation{Field: "creditLimit", Message: "must not be negative"}
	}
	if req.MinimumPayment != nil && req.MinimumPayment.IsNegative() {
		return nil, &domain.ErrValidation{Field: "minimumPayment", Message: "must not be negative"}
	}
	req.Balance = roundPtr(req.Balance)
	req.CreditLimit = roundPtr(req.CreditLimit)
	req.MinimumPayment = roundPtr(req.MinimumPayment)

	account, err := s.store.UpdateAccount(ctx, accountID, userID, req)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.TransactionCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	return mapAccount(account, counts[account.ID]), nil
}

// ============================================================
// DeleteAccount — DELETE /api/v1/accounts/{id}
// ============================================================

func (s *LedgerService) DeleteAccount(ctx context.Context, accountID, userID string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteAccount")
	defer span.End()

	if err := s.store.DeleteAccount(ctx, accountID, userID); err != nil {
		return err
	}
	s.logger.Info("account deleted",
		zap.String("account_id", accountID),
		zap.String("user_id", userID),
	)
	return nil
}

// ============================================================
// Internal helpers
// ============================================================

func mapAccount(a *domain.Account, txCount int) *domain.AccountResponse {
	resp := &domain.AccountResponse{
		ID:               a.ID,
		Name:             a.Name,
		Type:             a.Type,
		Balance:          a.Balance,
		CreditLimit:      a.CreditLimit,
		MinimumPayment:   a.MinimumPayment,
		Currency:         a.Currency,
		Active:           a.Active,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.Format(time.RFC3339),
		TransactionCount: txCount,
	}
	// availableCredit mirrors the balance whenever a limit is set,
	// regardless of account type: the balance of a card is the part of
	// the limit still spendable.
	if a.CreditLimit != nil {
		available := a.Balance
		resp.AvailableCredit = &available
	}
	return resp
}

func roundPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}
