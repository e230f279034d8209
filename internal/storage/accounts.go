package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

// CreateAccount inserts a new account at version 1.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, display_name, email, role, credit_balance,
			max_active_contracts, current_active_contracts, version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)
	`,
		account.ID,
		account.DisplayName,
		account.Email,
		string(account.Role),
		account.CreditBalance,
		account.MaxActiveContracts,
		account.CurrentActiveContracts,
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s", common.ErrDuplicateEntry, account.Email)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetAccount returns the account with the given id and its version.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*model.Account, service.Version, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, 0, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, role, credit_balance,
		       max_active_contracts, current_active_contracts, version, created_at
		FROM accounts WHERE id = ?
	`, id)

	return scanAccount(row)
}

// GetAccountByEmail returns the account registered under email.
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, service.Version, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, 0, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, role, credit_balance,
		       max_active_contracts, current_active_contracts, version, created_at
		FROM accounts WHERE email = ?
	`, email)

	return scanAccount(row)
}

// ListAccountsByRole returns all accounts with the given role.
func (s *SQLiteStore) ListAccountsByRole(ctx context.Context, role model.Role) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, email, role, credit_balance,
		       max_active_contracts, current_active_contracts, version, created_at
		FROM accounts WHERE role = ? ORDER BY created_at
	`, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		account, _, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, service.Version, error) {
	var (
		account model.Account
		role    string
		version int64
	)
	err := row.Scan(
		&account.ID,
		&account.DisplayName,
		&account.Email,
		&role,
		&account.CreditBalance,
		&account.MaxActiveContracts,
		&account.CurrentActiveContracts,
		&version,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%w: account", common.ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan account: %w", err)
	}

	account.Role = model.Role(role)
	return &account, service.Version(version), nil
}
