package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/ledger"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

// RegisterParams are the fields of a new account registration.
type RegisterParams struct {
	DisplayName        string
	Email              string
	Role               model.Role
	MaxActiveContracts int
}

// RegisterAccount creates a new account. Clients start with the signup
// grant; auditors start at zero and earn through reviews.
func (e *WorkflowEngine) RegisterAccount(ctx context.Context, params RegisterParams) (*model.Account, error) {
	if !params.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", params.Role)
	}
	if params.Email == "" {
		return nil, fmt.Errorf("email is required")
	}

	account := &model.Account{
		ID:          uuid.NewString(),
		DisplayName: params.DisplayName,
		Email:       params.Email,
		Role:        params.Role,
		CreatedAt:   time.Now().UTC(),
	}
	switch params.Role {
	case model.RoleClient:
		account.CreditBalance = e.config.SignupGrant
	case model.RoleAuditor:
		account.MaxActiveContracts = params.MaxActiveContracts
	}

	if err := e.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	slog.Info("Account registered",
		"account_id", account.ID,
		"role", account.Role)

	return account, nil
}

// AddCredits tops up an account's balance. Admin only.
func (e *WorkflowEngine) AddCredits(ctx context.Context, identity service.Identity, accountID string, amount int64) error {
	if err := requireRole(identity, model.RoleAdmin); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	return e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		account, version, err := e.store.GetAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}

		if err := ledger.Credit(account, amount); err != nil {
			return nil, err
		}

		commit := service.NewCommit().
			Expect(service.KindAccount, account.ID, version).
			PutAccount(account)
		return commit, nil
	})
}

// LookupAccountByEmail resolves an account by its registered email.
// This backs login, which happens before any identity exists.
func (e *WorkflowEngine) LookupAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	account, _, err := e.store.GetAccountByEmail(ctx, email)
	return account, err
}

// GetAccount returns an account. Callers may read themselves; admins
// may read anyone.
func (e *WorkflowEngine) GetAccount(ctx context.Context, identity service.Identity, accountID string) (*model.Account, error) {
	if identity.AccountID != accountID && identity.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot read another account", common.ErrForbidden)
	}
	account, _, err := e.store.GetAccount(ctx, accountID)
	return account, err
}

// ListAuditors returns every auditor account, for the client's
// auditor-selection view.
func (e *WorkflowEngine) ListAuditors(ctx context.Context) ([]model.Account, error) {
	return e.store.ListAccountsByRole(ctx, model.RoleAuditor)
}
