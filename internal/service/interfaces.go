// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/chitragupt/chitragupt/internal/model"
)

// Version is a per-record monotonic version number used for optimistic
// concurrency control. Version zero means the record does not exist.
type Version int64

// Identity is the already-authenticated caller of an operation.
// The engine trusts it; producing it (JWT verification, sessions) is
// the transport layer's job.
type Identity struct {
	AccountID string
	Role      model.Role
}

// Store is the persistence contract for the workflow engine.
//
// Reads return the record together with its current version. All
// writes go through CommitIf, which applies a staged write set
// atomically if and only if every expected version still holds. There
// is no in-place update primitive: read, compute, commit is the only
// way to mutate state.
type Store interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, Version, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, Version, error)
	ListAccountsByRole(ctx context.Context, role model.Role) ([]model.Account, error)

	// Contract operations
	GetContract(ctx context.Context, id string) (*model.Contract, Version, error)
	ListContractsByOwner(ctx context.Context, ownerID string) ([]model.Contract, error)

	// Review request operations
	GetReviewRequest(ctx context.Context, id string) (*model.ReviewRequest, Version, error)
	ListReviewRequestsByContract(ctx context.Context, contractID string) ([]model.ReviewRequest, map[string]Version, error)
	ListReviewRequestsByAuditor(ctx context.Context, auditorID string, status model.RequestStatus) ([]model.ReviewRequest, error)

	// Chat operations
	ListChatMessages(ctx context.Context, contractID string) ([]model.ChatMessage, error)

	// CommitIf atomically applies the commit's write set, but only if
	// every expectation registered on it still holds. On a stale read
	// set it returns common.ErrConflict and leaves the store untouched.
	CommitIf(ctx context.Context, commit *Commit) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
