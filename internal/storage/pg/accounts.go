package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/skyreport-dev/skyreport/internal/domain"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
)

// Account fetches a single account by normalized email. Email uniqueness is
// case-insensitive: the lookup and the unique index both use lower(email).
func (s *Storage) Account(ctx context.Context, email domain.Email) (domain.Account, error) {
	return s.account(ctx, s.db, email)
}

func (s *Storage) account(ctx context.Context, q Querier, email domain.Email) (domain.Account, error) {
	var account domain.Account
	err := q.QueryRowContext(ctx, `
        SELECT id, email, credential, first_name, last_name, is_admin, created_at
        FROM accounts WHERE lower(email) = lower($1)`,
		email,
	).Scan(&account.Id, &account.Email, &account.Credential, &account.FirstName, &account.LastName, &account.Admin, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, &internal_errors.ErrorWithStatusCode{Message: "Account not found", StatusCode: http.StatusNotFound}
		}
		return domain.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

func (s *Storage) AccountIdByEmail(ctx context.Context, email domain.Email) (domain.AccountId, error) {
	var id domain.AccountId
	err := s.db.QueryRowContext(ctx, "SELECT id FROM accounts WHERE lower(email) = lower($1)", email).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Account not found", StatusCode: http.StatusNotFound}
		}
		return 0, fmt.Errorf("failed to query account id: %w", err)
	}
	return id, nil
}

func (s *Storage) SaveAccount(ctx context.Context, account domain.Account) (domain.AccountId, error) {
	var id domain.AccountId
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO accounts(email, credential, first_name, last_name, is_admin)
        VALUES($1, $2, $3, $4, $5) RETURNING id`,
		account.Email, account.Credential, account.FirstName, account.LastName, account.Admin,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert account: %w", err)
	}
	return id, nil
}

func (s *Storage) CountAccounts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM accounts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// UpdateCredential replaces the stored credential for one account. Used by
// the login core for plaintext-to-hash upgrades.
func (s *Storage) UpdateCredential(ctx context.Context, id domain.AccountId, credential string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE accounts SET credential = $1 WHERE id = $2", credential, id)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	return requireRowsAffected(result, "Account not found for credential update")
}

// ReplaceAdminCredential is the self-heal write: one atomic update, gated to
// administrator accounts, returning the repaired account.
func (s *Storage) ReplaceAdminCredential(ctx context.Context, email domain.Email, credential string) (domain.Account, error) {
	var account domain.Account
	err := s.db.QueryRowContext(ctx, `
        UPDATE accounts SET credential = $1
        WHERE lower(email) = lower($2) AND is_admin
        RETURNING id, email, credential, first_name, last_name, is_admin, created_at`,
		credential, email,
	).Scan(&account.Id, &account.Email, &account.Credential, &account.FirstName, &account.LastName, &account.Admin, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, &internal_errors.ErrorWithStatusCode{Message: "Admin account not found", StatusCode: http.StatusNotFound}
		}
		return domain.Account{}, fmt.Errorf("failed to replace admin credential: %w", err)
	}
	return account, nil
}

func (s *Storage) Accounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, email, first_name, last_name, is_admin, created_at
        FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Id, &a.Email, &a.FirstName, &a.LastName, &a.Admin, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Storage) UpdateAccount(ctx context.Context, id domain.AccountId, firstName, lastName *string, admin *bool) error {
	result, err := s.db.ExecContext(ctx, `
        UPDATE accounts SET
            first_name = COALESCE($1, first_name),
            last_name  = COALESCE($2, last_name),
            is_admin   = COALESCE($3, is_admin)
        WHERE id = $4`,
		firstName, lastName, admin, id)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireRowsAffected(result, "Account not found for update")
}

func (s *Storage) DeleteAccount(ctx context.Context, id domain.AccountId) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return requireRowsAffected(result, "Account not found for deletion")
}

func requireRowsAffected(result sql.Result, notFoundMessage string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: notFoundMessage, StatusCode: http.StatusNotFound}
	}
	return nil
}
