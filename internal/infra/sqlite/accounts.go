package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neurobudget/neurobudget-api/internal/domain"
)

const accountColumns = `id, user_id, name, type, balance, credit_limit, minimum_payment, currency, active, created_at, updated_at`

// CreateAccount inserts a new account owned by account.UserID.
func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (`+accountColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			account.ID, account.UserID, account.Name, string(account.Type),
			account.Balance.String(), decimalPtrToNull(account.CreditLimit),
			decimalPtrToNull(account.MinimumPayment), account.Currency,
			boolToInt(account.Active),
			account.CreatedAt.Format(timeLayout), account.UpdatedAt.Format(timeLayout),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts returns every account owned by userID, oldest first.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.listAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY created_at`, userID)
}

// ListActiveAccounts returns the active accounts owned by userID.
func (s *Store) ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.listAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? AND active = 1 ORDER BY created_at`, userID)
}

// GetAccount returns the account only when it is owned by userID. An id
// owned by another user is indistinguishable from an absent id.
func (s *Store) GetAccount(ctx context.Context, accountID, userID string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAccount applies a partial patch to an owned account inside one
// write transaction. Nil patch fields keep their prior values.
func (s *Store) UpdateAccount(ctx context.Context, accountID, userID string, patch *domain.UpdateAccountRequest) (*domain.Account, error) {
	var updated *domain.Account
	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
		a, err := scanAccount(row)
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Resource: "account", ID: accountID}
		}
		if err != nil {
			return err
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
		a.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx,
			`UPDATE accounts SET name = ?, balance = ?, credit_limit = ?, minimum_payment = ?, active = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?`,
			a.Name, a.Balance.String(), decimalPtrToNull(a.CreditLimit),
			decimalPtrToNull(a.MinimumPayment), boolToInt(a.Active),
			a.UpdatedAt.Format(timeLayout), accountID, userID,
		)
		updated = a
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAccount removes an owned account; its transactions go with it
// (foreign key cascade).
func (s *Store) DeleteAccount(ctx context.Context, accountID, userID string) error {
	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &domain.ErrNotFound{Resource: "account", ID: accountID}
		}
		return nil
	})
}

// TransactionCounts returns the number of transactions per account id for
// every account owned by userID.
func (s *Store) TransactionCounts(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.account_id, COUNT(*)
		 FROM transactions t
		 JOIN accounts a ON a.id = t.account_id
		 WHERE a.user_id = ?
		 GROUP BY t.account_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *Store) listAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(sc scanner) (*domain.Account, error) {
	var (
		a                     domain.Account
		accType               string
		balance               string
		creditLimit           sql.NullString
		minimumPayment        sql.NullString
		active                int
		createdAt, updatedAt  string
	)
	err := sc.Scan(&a.ID, &a.UserID, &a.Name, &accType, &balance,
		&creditLimit, &minimumPayment, &a.Currency, &active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.Type = domain.AccountType(accType)
	a.Active = active != 0
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, err
	}
	if a.CreditLimit, err = nullToDecimalPtr(creditLimit); err != nil {
		return nil, err
	}
	if a.MinimumPayment, err = nullToDecimalPtr(minimumPayment); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func decimalPtrToNull(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullToDecimalPtr(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
