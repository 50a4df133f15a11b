package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neurobudget/neurobudget-api/internal/domain"
)

// transactionColumns joins the owning account so every row carries its
// account name and the ownership check stays in one query.
const transactionColumns = `t.id, t.account_id, a.name, t.transaction_date, t.description, t.merchant,
	t.amount, t.type, t.category, t.emotion, t.trigger_tag, t.notes,
	t.is_credit_spend, t.is_recurring, t.created_at`

const transactionFrom = ` FROM transactions t JOIN accounts a ON a.id = t.account_id`

// CreateTransaction inserts a transaction after verifying that the target
// account is owned by userID; an account owned by someone else behaves as
// if it did not exist.
func (s *Store) CreateTransaction(ctx context.Context, userID string, txn *domain.Transaction) (*domain.Transaction, error) {
	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		var accountName string
		err := tx.QueryRowContext(ctx,
			`SELECT name FROM accounts WHERE id = ? AND user_id = ?`,
			txn.AccountID, userID).Scan(&accountName)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: "account", ID: txn.AccountID}
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (id, account_id, transaction_date, description, merchant,
			   amount, type, category, emotion, trigger_tag, notes, is_credit_spend, is_recurring, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, txn.AccountID, txn.TransactionDate.Format(domain.DateLayout),
			txn.Description, txn.Merchant, txn.Amount.String(), string(txn.Type),
			txn.Category, emotionToNull(txn.Emotion), triggerToNull(txn.Trigger),
			txn.Notes, boolToInt(txn.IsCreditSpend), boolToInt(txn.IsRecurring),
			txn.CreatedAt.Format(timeLayout),
		)
		if err != nil {
			return err
		}
		txn.AccountName = accountName
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns the caller's transactions, newest first.
// Exactly one filter mode applies: account, date range, emotion or trigger;
// an empty filter returns everything the caller owns.
func (s *Store) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + transactionFrom + ` WHERE a.user_id = ?`
	args := []any{userID}

	switch {
	case filter.AccountID != "":
		query += ` AND t.account_id = ?`
		args = append(args, filter.AccountID)
	case filter.StartDate != "" && filter.EndDate != "":
		query += ` AND t.transaction_date >= ? AND t.transaction_date <= ?`
		args = append(args, filter.StartDate, filter.EndDate)
	case filter.Emotion != "":
		query += ` AND t.emotion = ?`
		args = append(args, string(filter.Emotion))
	case filter.Trigger != "":
		query += ` AND t.trigger_tag = ?`
		args = append(args, string(filter.Trigger))
	}

	query += ` ORDER BY t.transaction_date DESC, t.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// GetTransaction returns a transaction only when its account is owned by
// userID.
func (s *Store) GetTransaction(ctx context.Context, transactionID, userID string) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+transactionFrom+` WHERE t.id = ? AND a.user_id = ?`,
		transactionID, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTransaction applies a partial patch to an owned transaction. The
// account reference and created_at are immutable.
func (s *Store) UpdateTransaction(ctx context.Context, transactionID, userID string, patch *domain.UpdateTransactionRequest) (*domain.Transaction, error) {
	var updated *domain.Transaction
	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+transactionColumns+transactionFrom+` WHERE t.id = ? AND a.user_id = ?`,
			transactionID, userID)
		t, err := scanTransaction(row)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
		}
		if err != nil {
			return err
		}

		if patch.TransactionDate != nil {
			d, err := time.Parse(domain.DateLayout, *patch.TransactionDate)
			if err != nil {
				return &domain.ErrValidation{Field: "transactionDate", Message: "must be formatted as YYYY-MM-DD"}
			}
			t.TransactionDate = d
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Merchant != nil {
			t.Merchant = *patch.Merchant
		}
		if patch.Amount != nil {
			t.Amount = *patch.Amount
		}
		if patch.Type != nil {
			t.Type = *patch.Type
		}
		if patch.Category != nil {
			t.Category = *patch.Category
		}
		if patch.Emotion != nil {
			t.Emotion = patch.Emotion
		}
		if patch.Trigger != nil {
			t.Trigger = patch.Trigger
		}
		if patch.Notes != nil {
			t.Notes = *patch.Notes
		}
		if patch.IsCreditSpend != nil {
			t.IsCreditSpend = *patch.IsCreditSpend
		}
		if patch.IsRecurring != nil {
			t.IsRecurring = *patch.IsRecurring
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET transaction_date = ?, description = ?, merchant = ?, amount = ?,
			   type = ?, category = ?, emotion = ?, trigger_tag = ?, notes = ?, is_credit_spend = ?, is_recurring = ?
			 WHERE id = ?`,
			t.TransactionDate.Format(domain.DateLayout), t.Description, t.Merchant,
			t.Amount.String(), string(t.Type), t.Category, emotionToNull(t.Emotion),
			triggerToNull(t.Trigger), t.Notes, boolToInt(t.IsCreditSpend),
			boolToInt(t.IsRecurring), transactionID,
		)
		updated = t
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes an owned transaction.
func (s *Store) DeleteTransaction(ctx context.Context, transactionID, userID string) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE id = ? AND account_id IN
			   (SELECT id FROM accounts WHERE user_id = ?)`,
			transactionID, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
		}
		return nil
	})
}

func scanTransaction(sc scanner) (*domain.Transaction, error) {
	var (
		t                       domain.Transaction
		txDate, txType          string
		amount, createdAt       string
		emotion, trigger        sql.NullString
		creditSpend, recurring  int
	)
	err := sc.Scan(&t.ID, &t.AccountID, &t.AccountName, &txDate, &t.Description,
		&t.Merchant, &amount, &txType, &t.Category, &emotion, &trigger,
		&t.Notes, &creditSpend, &recurring, &createdAt)
	if err != nil {
		return nil, err
	}

	t.Type = domain.TransactionType(txType)
	t.IsCreditSpend = creditSpend != 0
	t.IsRecurring = recurring != 0
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if t.TransactionDate, err = time.Parse(domain.DateLayout, txDate); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, err
	}
	if emotion.Valid {
		e := domain.EmotionTag(emotion.String)
		t.Emotion = &e
	}
	if trigger.Valid {
		tr := domain.TriggerTag(trigger.String)
		t.Trigger = &tr
	}
	return &t, nil
}

func emotionToNull(e *domain.EmotionTag) sql.NullString {
	if e == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*e), Valid: true}
}

func triggerToNull(t *domain.TriggerTag) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*t), Valid: true}
}
