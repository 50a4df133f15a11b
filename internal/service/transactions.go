package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/neurobudget/neurobudget-api/internal/domain"
	"github.com/neurobudget/neurobudget-api/internal/infra/observability"
	"github.com/neurobudget/neurobudget-api/internal/port"
)

var txnTracer = otel.Tracer("service/transactions")

// TransactionService owns the transaction lifecycle, including the
// emotion/trigger tagging that drives the behavioral views.
type TransactionService struct {
	store   port.LedgerStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(store port.LedgerStore, metrics *observability.Metrics, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// Create — POST /api/v1/transactions
// ============================================================

func (s *TransactionService) Create(ctx context.Context, userID string, req *domain.CreateTransactionRequest) (*domain.TransactionResponse, error) {
	ctx, span := txnTracer.Start(ctx, "TransactionService.Create")
	defer span.End()

	if req.AccountID == "" {
		return nil, &domain.ErrValidation{Field: "accountId", Message: "is required"}
	}
	if !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be greater than zero"}
	}
	if !domain.ValidTransactionType(req.Type) {
		return nil, &domain.ErrValidation{Field: "type", Message: fmt.Sprintf("unknown transaction type %q", req.Type)}
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, &domain.ErrValidation{Field: "description", Message: "is required"}
	}
	date, err := time.Parse(domain.DateLayout, req.TransactionDate)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "transactionDate", Message: "must be formatted as YYYY-MM-DD"}
	}
	if err := validateTags(req.Emotion, req.Trigger); err != nil {
		return nil, err
	}
	if len(req.Notes) > domain.MaxNotesLength {
		return nil, &domain.ErrValidation{Field: "notes", Message: fmt.Sprintf("must not exceed %d characters", domain.MaxNotesLength)}
	}

	txn, err := s.store.CreateTransaction(ctx, userID, &domain.Transaction{
		ID:              uuid.NewString(),
		AccountID:       req.AccountID,
		TransactionDate: date,
		Description:     strings.TrimSpace(req.Description),
		Merchant:        strings.TrimSpace(req.Merchant),
		Amount:          req.Amount.Round(2),
		Type:            req.Type,
		Category:        req.Category,
		Emotion:         req.Emotion,
		Trigger:         req.Trigger,
		Notes:           req.Notes,
		IsCreditSpend:   req.IsCreditSpend,
		IsRecurring:     req.IsRecurring,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrLedgerWrite("transaction")
	s.logger.Info("transaction created",
		zap.String("transaction_id", txn.ID),
		zap.String("account_id", txn.AccountID),
		zap.String("type", string(txn.Type)),
	)

	return mapTransaction(txn), nil
}

// ============================================================
// List — GET /api/v1/transactions
// ============================================================

// List returns the caller's transactions, newest first. The filter selects
// one listing mode with precedence account > date range > emotion > trigger.
func (s *TransactionService) List(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionResponse, error) {
	ctx, span := txnTracer.Start(ctx, "TransactionService.List")
	defer span.End()

	if filter.StartDate != "" || filter.EndDate != "" {
		if filter.StartDate == "" || filter.EndDate == "" {
			return nil, &domain.ErrValidation{Field: "startDate", Message: "startDate and endDate must be provided together"}
		}
		if _, err := time.Parse(domain.DateLayout, filter.StartDate); err != nil {
			return nil, &domain.ErrValidation{Field: "startDate", Message: "must be formatted as YYYY-MM-DD"}
		}
		if _, err := time.Parse(domain.DateLayout, filter.EndDate); err != nil {
			return nil, &domain.ErrValidation{Field: "endDate", Message: "must be formatted as YYYY-MM-DD"}
		}
	}
	if filter.Emotion != "" && !domain.ValidEmotionTag(filter.Emotion) {
		return nil, &domain.ErrValidation{Field: "emotion", Message: fmt.Sprintf("unknown emotion tag %q", filter.Emotion)}
	}
	if filter.Trigger != "" && !domain.ValidTriggerTag(filter.Trigger) {
		return nil, &domain.ErrValidation{Field: "trigger", Message: fmt.Sprintf("unknown trigger tag %q", filter.Trigger)}
	}

	txns, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	resp := make([]domain.TransactionResponse, 0, len(txns))
	for i := range txns {
		resp = append(resp, *mapTransaction(&txns[i]))
	}
	return resp, nil
}

// ============================================================
// Get — GET /api/v1/transactions/{id}
// ============================================================

func (s *TransactionService) Get(ctx context.Context, transactionID, userID string) (*domain.TransactionResponse, error) {
	ctx, span := txnTracer.Start(ctx, "TransactionService.Get")
	defer span.End()

	txn, err := s.store.GetTransaction(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}
	return mapTransaction(txn), nil
}

// ============================================================
// Update — PUT /api/v1/transactions/{id}
// ============================================================

func (s *TransactionService) Update(ctx context.Context, transactionID, userID string, req *domain.UpdateTransactionRequest) (*domain.TransactionResponse, error) {
	ctx, span := txnTracer.Start(ctx, "TransactionService.Update")
	defer span.End()

	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be greater than zero"}
	}
	if req.Type != nil && !domain.ValidTransactionType(*req.Type) {
		return nil, &domain.ErrValidation{Field: "type", Message: fmt.Sprintf("unknown transaction type %q", *req.Type)}
	}
	if err := validateTags(req.Emotion, req.Trigger); err != nil {
		return nil, err
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, &domain.ErrValidation{Field: "notes", Message: fmt.Sprintf("must not exceed %d characters", domain.MaxNotesLength)}
	}
	if req.Amount != nil {
		rounded := req.Amount.Round(2)
		req.Amount = &rounded
	}

	txn, err := s.store.UpdateTransaction(ctx, transactionID, userID, req)
	if err != nil {
		return nil, err
	}
	return mapTransaction(txn), nil
}

// ============================================================
// Delete — DELETE /api/v1/transactions/{id}
// ============================================================

func (s *TransactionService) Delete(ctx context.Context, transactionID, userID string) error {
	ctx, span := txnTracer.Start(ctx, "TransactionService.Delete")
	defer span.End()

	if err := s.store.DeleteTransaction(ctx, transactionID, userID); err != nil {
		return err
	}
	s.logger.Info("transaction deleted",
		zap.String("transaction_id", transactionID),
		zap.String("user_id", userID),
	)
	return nil
}

// ============================================================
// Internal helpers
// ============================================================

func validateTags(emotion *domain.EmotionTag, trigger *domain.TriggerTag) error {
	if emotion != nil && !domain.ValidEmotionTag(*emotion) {
		return &domain.ErrValidation{Field: "emotion", Message: fmt.Sprintf("unknown emotion tag %q", *emotion)}
	}
	if trigger != nil && !domain.ValidTriggerTag(*trigger) {
		return &domain.ErrValidation{Field: "trigger", Message: fmt.Sprintf("unknown trigger tag %q", *trigger)}
	}
	return nil
}

func mapTransaction(t *domain.Transaction) *domain.TransactionResponse {
	return &domain.TransactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		AccountName:     t.AccountName,
		TransactionDate: t.TransactionDate.Format(domain.DateLayout),
		Description:     t.Description,
		Merchant:        t.Merchant,
		Amount:          t.Amount,
		Type:            t.Type,
		Category:        t.Category,
		Emotion:         t.Emotion,
		Trigger:         t.Trigger,
		Notes:           t.Notes,
		IsCreditSpend:   t.IsCreditSpend,
		IsRecurring:     t.IsRecurring,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
}
