// Package engine implements the contract review workflow and the
// credit transactions that gate its paid operations.
//
// Every state-changing operation follows the same shape: read every
// record it touches (capturing versions), compute the new values in
// memory, stage all writes in one commit guarded by the captured
// versions, and hand it to the store. A lost race surfaces as a
// conflict, and the engine re-runs the whole read-compute-commit cycle
// a bounded number of times before giving up.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

// Config holds the engine's billing constants and retry policy.
type Config struct {
	ChatCost      int64
	AuditorReward int64
	AnalysisCost  int64
	SignupGrant   int64
	MaxRetries    int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ChatCost:      3,
		AuditorReward: 1,
		AnalysisCost:  1,
		SignupGrant:   5,
		MaxRetries:    3,
	}
}

// WorkflowEngine orchestrates contract lifecycle transitions and
// ledger mutations against the shared store.
type WorkflowEngine struct {
	store    service.Store
	analyzer Analyzer
	config   Config
}

// New creates a new workflow engine with the default configuration.
func New(store service.Store, analyzer Analyzer) *WorkflowEngine {
	return NewWithConfig(store, analyzer, DefaultConfig())
}

// NewWithConfig creates a new workflow engine with custom configuration.
func NewWithConfig(store service.Store, analyzer Analyzer, config Config) *WorkflowEngine {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultConfig().MaxRetries
	}
	return &WorkflowEngine{
		store:    store,
		analyzer: analyzer,
		config:   config,
	}
}

// transact runs one optimistic read-compute-commit cycle, retrying the
// whole cycle on commit conflicts. The op callback must perform all
// reads itself so a retry sees fresh state.
func (e *WorkflowEngine) transact(ctx context.Context, op func(ctx context.Context) (*service.Commit, error)) error {
	return common.WithRetry(ctx, func() error {
		commit, err := op(ctx)
		if err != nil {
			return err
		}
		return e.store.CommitIf(ctx, commit)
	}, service.RetryOptions{
		MaxAttempts:  e.config.MaxRetries,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     250 * time.Millisecond,
		Multiplier:   2.0,
	})
}

// requireRole rejects callers whose role differs from want.
func requireRole(identity service.Identity, want model.Role) error {
	if identity.Role != want {
		return fmt.Errorf("%w: operation requires role %s", common.ErrForbidden, want)
	}
	return nil
}

// requireOwner rejects callers who do not own the contract.
func requireOwner(identity service.Identity, contract *model.Contract) error {
	if contract.OwnerID != identity.AccountID {
		return fmt.Errorf("%w: not the contract owner", common.ErrForbidden)
	}
	return nil
}
