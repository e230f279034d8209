package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

// ReviewRequestParams are the client-supplied fields of a new review request.
type ReviewRequestParams struct {
	ContractID     string
	AuditorID      string
	ClientConcerns string
	Budget         int64
	ShareSummary   bool
}

// RequestReview creates a pending review request for one auditor and
// moves the contract into review. A client may fan a contract out to
// several auditors by calling this once per auditor.
func (e *WorkflowEngine) RequestReview(ctx context.Context, identity service.Identity, params ReviewRequestParams) (*model.ReviewRequest, error) {
	if err := requireRole(identity, model.RoleClient); err != nil {
		return nil, err
	}

	var request *model.ReviewRequest
	err := e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		contract, contractVersion, err := e.store.GetContract(ctx, params.ContractID)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(identity, contract); err != nil {
			return nil, err
		}
		if contract.Analysis == nil {
			return nil, fmt.Errorf("%w: contract %s", common.ErrAnalysisNotReady, contract.ID)
		}
		switch contract.Status {
		case model.StatusCompleted, model.StatusActionRequired, model.StatusInReview:
			// Reviewable states
		default:
			return nil, fmt.Errorf("%w: cannot request review from %s",
				common.ErrInvalidStateTransition, contract.Status)
		}

		auditor, _, err := e.store.GetAccount(ctx, params.AuditorID)
		if err != nil {
			return nil, err
		}
		if auditor.Role != model.RoleAuditor {
			return nil, fmt.Errorf("%w: account %s is not an auditor",
				common.ErrForbidden, params.AuditorID)
		}

		existing, _, err := e.store.ListReviewRequestsByContract(ctx, contract.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range existing {
			if r.AuditorID == params.AuditorID && r.Status != model.RequestRejected {
				return nil, fmt.Errorf("%w: auditor %s already requested for contract %s",
					common.ErrDuplicateEntry, params.AuditorID, contract.ID)
			}
		}

		// Snapshot the analysis fields so later contract edits cannot
		// change what the auditor evaluates.
		request = &model.ReviewRequest{
			ID:              uuid.NewString(),
			ContractID:      contract.ID,
			ContractTitle:   contract.Title,
			ContractOwnerID: contract.OwnerID,
			ClientID:        identity.AccountID,
			AuditorID:       params.AuditorID,
			Status:          model.RequestPending,
			Budget:          params.Budget,
			ClientConcerns:  params.ClientConcerns,
			RiskScore:       contract.Analysis.RiskScore,
			Severity:        contract.Analysis.Severity,
			SharedSummary:   []string{},
			CreatedAt:       time.Now().UTC(),
		}
		if params.ShareSummary {
			request.SharedSummary = contract.Analysis.SanitizedSummary
		}

		contract.Status = model.StatusInReview
		if !contract.IsAssigned(params.AuditorID) {
			contract.AssignedAuditorIDs = append(contract.AssignedAuditorIDs, params.AuditorID)
		}

		commit := service.NewCommit().
			Expect(service.KindContract, contract.ID, contractVersion).
			Expect(service.KindReviewRequest, request.ID, 0).
			PutContract(contract).
			PutReviewRequest(request)
		return commit, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Review requested",
		"contract_id", request.ContractID,
		"auditor_id", request.AuditorID,
		"request_id", request.ID)

	return request, nil
}

// AcceptReview transitions a pending request to accepted and counts
// the contract against the auditor's active capacity. Exactly one of
// two concurrent accepts of the same request can succeed.
func (e *WorkflowEngine) AcceptReview(ctx context.Context, identity service.Identity, requestID string) error {
	if err := requireRole(identity, model.RoleAuditor); err != nil {
		return err
	}

	return e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		request, requestVersion, err := e.store.GetReviewRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if request.AuditorID != identity.AccountID {
			return nil, fmt.Errorf("%w: request is for another auditor", common.ErrForbidden)
		}
		if request.Status != model.RequestPending {
			return nil, fmt.Errorf("%w: request %s is %s",
				common.ErrRequestNotPending, requestID, request.Status)
		}

		contract, contractVersion, err := e.store.GetContract(ctx, request.ContractID)
		if err != nil {
			return nil, err
		}
		if contract.Status != model.StatusInReview {
			return nil, fmt.Errorf("%w: contract is %s",
				common.ErrInvalidStateTransition, contract.Status)
		}

		auditor, auditorVersion, err := e.store.GetAccount(ctx, identity.AccountID)
		if err != nil {
			return nil, err
		}
		if auditor.MaxActiveContracts > 0 && auditor.CurrentActiveContracts >= auditor.MaxActiveContracts {
			return nil, fmt.Errorf("%w: %d of %d active",
				common.ErrAuditorAtCapacity, auditor.CurrentActiveContracts, auditor.MaxActiveContracts)
		}

		request.Status = model.RequestAccepted
		auditor.CurrentActiveContracts++

		commit := service.NewCommit().
			Expect(service.KindReviewRequest, request.ID, requestVersion).
			Expect(service.KindContract, contract.ID, contractVersion).
			Expect(service.KindAccount, auditor.ID, auditorVersion).
			PutReviewRequest(request).
			PutAccount(auditor)
		return commit, nil
	})
}

// RejectReview transitions a pending request to rejected and removes
// the auditor from the contract. The contract falls back to Action
// Required only when no other auditor remains assigned.
func (e *WorkflowEngine) RejectReview(ctx context.Context, identity service.Identity, requestID string) error {
	if err := requireRole(identity, model.RoleAuditor); err != nil {
		return err
	}

	return e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		request, requestVersion, err := e.store.GetReviewRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if request.AuditorID != identity.AccountID {
			return nil, fmt.Errorf("%w: request is for another auditor", common.ErrForbidden)
		}
		if request.Status != model.RequestPending {
			return nil, fmt.Errorf("%w: request %s is %s",
				common.ErrRequestNotPending, requestID, request.Status)
		}

		contract, contractVersion, err := e.store.GetContract(ctx, request.ContractID)
		if err != nil {
			return nil, err
		}

		request.Status = model.RequestRejected
		contract.RemoveAuditor(identity.AccountID)
		if len(contract.AssignedAuditorIDs) == 0 {
			contract.Status = model.StatusActionRequired
		}

		commit := service.NewCommit().
			Expect(service.KindReviewRequest, request.ID, requestVersion).
			Expect(service.KindContract, contract.ID, contractVersion).
			PutReviewRequest(request).
			PutContract(contract)
		return commit, nil
	})
}

// FinalizeReview records the auditor's verdict and hands the contract
// to the owner for approval.
func (e *WorkflowEngine) FinalizeReview(ctx context.Context, identity service.Identity, contractID string, verdict model.Verdict, feedback string) error {
	if err := requireRole(identity, model.RoleAuditor); err != nil {
		return err
	}
	if !verdict.Valid() {
		return fmt.Errorf("unknown verdict %q", verdict)
	}
	if feedback == "" {
		return fmt.Errorf("feedback is required")
	}

	return e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		contract, contractVersion, err := e.store.GetContract(ctx, contractID)
		if err != nil {
			return nil, err
		}
		if contract.Status != model.StatusInReview {
			return nil, fmt.Errorf("%w: cannot finalize from %s",
				common.ErrInvalidStateTransition, contract.Status)
		}
		if !contract.IsAssigned(identity.AccountID) {
			return nil, fmt.Errorf("%w: not assigned to this contract", common.ErrForbidden)
		}

		requests, _, err := e.store.ListReviewRequestsByContract(ctx, contract.ID)
		if err != nil {
			return nil, err
		}
		accepted := false
		for _, r := range requests {
			if r.AuditorID == identity.AccountID && r.Status == model.RequestAccepted {
				accepted = true
				break
			}
		}
		if !accepted {
			return nil, fmt.Errorf("%w: review not accepted by auditor %s",
				common.ErrRequestNotPending, identity.AccountID)
		}

		contract.FinalFeedback = &model.FinalFeedback{
			AuditorID:   identity.AccountID,
			Verdict:     verdict,
			Feedback:    feedback,
			SubmittedAt: time.Now().UTC(),
		}
		contract.Status = model.StatusPendingApproval

		commit := service.NewCommit().
			Expect(service.KindContract, contract.ID, contractVersion).
			PutContract(contract)
		return commit, nil
	})
}

// ApproveCompletion accepts the final review: the contract completes,
// every auditor who accepted gets their active slot back, and the
// contract's review requests are cleaned up.
func (e *WorkflowEngine) ApproveCompletion(ctx context.Context, identity service.Identity, contractID string) error {
	return e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		contract, contractVersion, err := e.store.GetContract(ctx, contractID)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(identity, contract); err != nil {
			return nil, err
		}
		if contract.Status != model.StatusPendingApproval {
			return nil, fmt.Errorf("%w: cannot approve from %s",
				common.ErrInvalidStateTransition, contract.Status)
		}

		requests, requestVersions, err := e.store.ListReviewRequestsByContract(ctx, contract.ID)
		if err != nil {
			return nil, err
		}

		commit := service.NewCommit().
			Expect(service.KindContract, contract.ID, contractVersion)

		// Only accepted requests incremented an auditor's active count,
		// so only those drive decrements.
		for _, request := range requests {
			commit.Expect(service.KindReviewRequest, request.ID, requestVersions[request.ID])
			commit.DeleteReviewRequest(request.ID)

			if request.Status != model.RequestAccepted {
				continue
			}
			auditor, auditorVersion, err := e.store.GetAccount(ctx, request.AuditorID)
			if err != nil {
				return nil, err
			}
			if auditor.CurrentActiveContracts > 0 {
				auditor.CurrentActiveContracts--
			}
			commit.Expect(service.KindAccount, auditor.ID, auditorVersion)
			commit.PutAccount(auditor)
		}

		contract.Status = model.StatusCompleted
		commit.PutContract(contract)
		return commit, nil
	})
}

// RequestRevisions sends the contract back to the review queue. The
// final feedback is retained as history until an auditor overwrites it
// on the next finalize.
func (e *WorkflowEngine) RequestRevisions(ctx context.Context, identity service.Identity, contractID string) error {
	return e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		contract, contractVersion, err := e.store.GetContract(ctx, contractID)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(identity, contract); err != nil {
			return nil, err
		}
		if contract.Status != model.StatusPendingApproval {
			return nil, fmt.Errorf("%w: cannot request revisions from %s",
				common.ErrInvalidStateTransition, contract.Status)
		}

		contract.Status = model.StatusInReview

		commit := service.NewCommit().
			Expect(service.KindContract, contract.ID, contractVersion).
			PutContract(contract)
		return commit, nil
	})
}

// AddReviewNote appends an interim note from an assigned auditor.
// Notes are free and append-only.
func (e *WorkflowEngine) AddReviewNote(ctx context.Context, identity service.Identity, contractID, text string) error {
	if err := requireRole(identity, model.RoleAuditor); err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("note text is required")
	}

	return e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		contract, contractVersion, err := e.store.GetContract(ctx, contractID)
		if err != nil {
			return nil, err
		}
		if contract.Status != model.StatusInReview {
			return nil, fmt.Errorf("%w: contract is %s",
				common.ErrInvalidStateTransition, contract.Status)
		}
		if !contract.IsAssigned(identity.AccountID) {
			return nil, fmt.Errorf("%w: not assigned to this contract", common.ErrForbidden)
		}

		contract.Notes = append(contract.Notes, model.ReviewNote{
			AuditorID: identity.AccountID,
			Text:      text,
			CreatedAt: time.Now().UTC(),
		})

		commit := service.NewCommit().
			Expect(service.KindContract, contract.ID, contractVersion).
			PutContract(contract)
		return commit, nil
	})
}

// DeleteContract removes a contract on the owner's request. Deletion
// is blocked while the contract is in review so no auditor is left
// holding an orphaned request.
func (e *WorkflowEngine) DeleteContract(ctx context.Context, identity service.Identity, contractID string) error {
	return e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		contract, contractVersion, err := e.store.GetContract(ctx, contractID)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(identity, contract); err != nil {
			return nil, err
		}
		if contract.Status == model.StatusInReview || contract.Status == model.StatusPendingApproval {
			return nil, fmt.Errorf("%w: cannot delete a contract under review",
				common.ErrInvalidStateTransition)
		}

		requests, requestVersions, err := e.store.ListReviewRequestsByContract(ctx, contract.ID)
		if err != nil {
			return nil, err
		}

		commit := service.NewCommit().
			Expect(service.KindContract, contract.ID, contractVersion)
		for _, request := range requests {
			commit.Expect(service.KindReviewRequest, request.ID, requestVersions[request.ID])
			commit.DeleteReviewRequest(request.ID)
		}
		commit.DeleteContract(contract.ID)
		return commit, nil
	})
}
