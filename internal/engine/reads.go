package engine

import (
	"context"
	"fmt"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

// GetContract returns a contract to its owner, an assigned auditor, or
// an admin.
func (e *WorkflowEngine) GetContract(ctx context.Context, identity service.Identity, contractID string) (*model.Contract, error) {
	contract, _, err := e.store.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.OwnerID != identity.AccountID &&
		!contract.IsAssigned(identity.AccountID) &&
		identity.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: no access to this contract", common.ErrForbidden)
	}
	return contract, nil
}

// ListContracts returns the caller's own contracts.
func (e *WorkflowEngine) ListContracts(ctx context.Context, identity service.Identity) ([]model.Contract, error) {
	return e.store.ListContractsByOwner(ctx, identity.AccountID)
}

// ListReviewQueue returns the auditor's pending review requests,
// newest first.
func (e *WorkflowEngine) ListReviewQueue(ctx context.Context, identity service.Identity) ([]model.ReviewRequest, error) {
	if err := requireRole(identity, model.RoleAuditor); err != nil {
		return nil, err
	}
	return e.store.ListReviewRequestsByAuditor(ctx, identity.AccountID, model.RequestPending)
}
