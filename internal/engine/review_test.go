package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
)

func TestRequestReview(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)

	request := requestReview(t, e, client, contract.ID, "auditor")

	assert.Equal(t, model.RequestPending, request.Status)
	assert.Equal(t, contract.ID, request.ContractID)
	assert.Equal(t, contract.Title, request.ContractTitle)
	assert.Equal(t, "auditor", request.AuditorID)

	// Snapshots come from the analysis at request time.
	assert.Equal(t, contract.Analysis.RiskScore, request.RiskScore)
	assert.Equal(t, contract.Analysis.SanitizedSummary, request.SharedSummary)

	updated, _, err := db.Store.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInReview, updated.Status)
	assert.True(t, updated.IsAssigned("auditor"))
}

func TestRequestReviewWithoutSharedSummary(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)

	request, err := e.RequestReview(ctx, identityOf(client), ReviewRequestParams{
		ContractID:   contract.ID,
		AuditorID:    "auditor",
		ShareSummary: false,
	})
	require.NoError(t, err)
	assert.Empty(t, request.SharedSummary)
}

func TestRequestReviewGuards(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	other := db.SeedClient("other", 5)
	db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)

	t.Run("non-owner is rejected", func(t *testing.T) {
		_, err := e.RequestReview(ctx, identityOf(other), ReviewRequestParams{
			ContractID: contract.ID,
			AuditorID:  "auditor",
		})
		require.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("target must be an auditor", func(t *testing.T) {
		_, err := e.RequestReview(ctx, identityOf(client), ReviewRequestParams{
			ContractID: contract.ID,
			AuditorID:  other.ID,
		})
		require.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("duplicate pending request for same auditor", func(t *testing.T) {
		requestReview(t, e, client, contract.ID, "auditor")

		_, err := e.RequestReview(ctx, identityOf(client), ReviewRequestParams{
			ContractID: contract.ID,
			AuditorID:  "auditor",
		})
		require.ErrorIs(t, err, common.ErrDuplicateEntry)
	})
}

func TestRequestReviewAllowedAfterRejection(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)

	first := requestReview(t, e, client, contract.ID, "auditor")
	require.NoError(t, e.RejectReview(ctx, identityOf(auditor), first.ID))

	// The client may ask the same auditor again after a rejection.
	second := requestReview(t, e, client, contract.ID, "auditor")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, model.StatusInReview, contractStatus(t, db, contract.ID))
}

func TestAcceptReview(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 3)
	contract := uploadContract(t, e, client)
	request := requestReview(t, e, client, contract.ID, "auditor")

	require.NoError(t, e.AcceptReview(ctx, identityOf(auditor), request.ID))

	updated, _, err := db.Store.GetReviewRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestAccepted, updated.Status)

	account, _, err := db.Store.GetAccount(ctx, auditor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, account.CurrentActiveContracts)
}

func TestAcceptReviewGuards(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 3)
	impostor := db.SeedAuditor("impostor", 3)
	contract := uploadContract(t, e, client)
	request := requestReview(t, e, client, contract.ID, "auditor")

	t.Run("wrong auditor", func(t *testing.T) {
		err := e.AcceptReview(ctx, identityOf(impostor), request.ID)
		require.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("already resolved", func(t *testing.T) {
		require.NoError(t, e.AcceptReview(ctx, identityOf(auditor), request.ID))

		err := e.AcceptReview(ctx, identityOf(auditor), request.ID)
		require.ErrorIs(t, err, common.ErrRequestNotPending)
	})
}

func TestAcceptReviewAtCapacity(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 1)
	first := uploadContract(t, e, client)
	second := uploadContract(t, e, client)

	firstReq := requestReview(t, e, client, first.ID, "auditor")
	secondReq := requestReview(t, e, client, second.ID, "auditor")

	require.NoError(t, e.AcceptReview(ctx, identityOf(auditor), firstReq.ID))

	err := e.AcceptReview(ctx, identityOf(auditor), secondReq.ID)
	require.ErrorIs(t, err, common.ErrAuditorAtCapacity)

	// The blocked accept left the request pending.
	pending, _, err := db.Store.GetReviewRequest(ctx, secondReq.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, pending.Status)
}

func TestConcurrentAcceptsResolveToOne(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)
	request := requestReview(t, e, client, contract.ID, "auditor")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.AcceptReview(ctx, identityOf(auditor), request.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, common.ErrRequestNotPending)
	}
	assert.Equal(t, 1, succeeded)

	// The slot was consumed exactly once.
	account, _, err := db.Store.GetAccount(ctx, auditor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, account.CurrentActiveContracts)
}

func TestRejectReviewLastAuditorFallsBack(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)
	request := requestReview(t, e, client, contract.ID, "auditor")

	require.NoError(t, e.RejectReview(ctx, identityOf(auditor), request.ID))

	updated, _, err := db.Store.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActionRequired, updated.Status)
	assert.Empty(t, updated.AssignedAuditorIDs)

	rejected, _, err := db.Store.GetReviewRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestRejected, rejected.Status)
}

func TestRejectReviewOtherAuditorsRemain(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	accepting := db.SeedAuditor("accepting", 0)
	rejecting := db.SeedAuditor("rejecting", 0)
	contract := uploadContract(t, e, client)

	acceptReq := requestReview(t, e, client, contract.ID, "accepting")
	rejectReq := requestReview(t, e, client, contract.ID, "rejecting")

	require.NoError(t, e.AcceptReview(ctx, identityOf(accepting), acceptReq.ID))
	require.NoError(t, e.RejectReview(ctx, identityOf(rejecting), rejectReq.ID))

	// One auditor is still on the job, so the review continues.
	updated, _, err := db.Store.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInReview, updated.Status)
	assert.Equal(t, []string{"accepting"}, updated.AssignedAuditorIDs)
}

func TestFinalizeReview(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)
	request := requestReview(t, e, client, contract.ID, "auditor")
	require.NoError(t, e.AcceptReview(ctx, identityOf(auditor), request.ID))

	require.NoError(t, e.FinalizeReview(ctx, identityOf(auditor), contract.ID,
		model.VerdictApprovedWithRevisions, "Tighten the liability cap in section 7."))

	updated, _, err := db.Store.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingApproval, updated.Status)
	require.NotNil(t, updated.FinalFeedback)
	assert.Equal(t, auditor.ID, updated.FinalFeedback.AuditorID)
	assert.Equal(t, model.VerdictApprovedWithRevisions, updated.FinalFeedback.Verdict)
}

func TestFinalizeReviewGuards(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 0)
	outsider := db.SeedAuditor("outsider", 0)
	contract := uploadContract(t, e, client)
	request := requestReview(t, e, client, contract.ID, "auditor")

	t.Run("unknown verdict", func(t *testing.T) {
		err := e.FinalizeReview(ctx, identityOf(auditor), contract.ID, "Maybe", "feedback")
		require.Error(t, err)
	})

	t.Run("not assigned", func(t *testing.T) {
		err := e.FinalizeReview(ctx, identityOf(outsider), contract.ID,
			model.VerdictApproved, "feedback")
		require.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("pending request is not enough", func(t *testing.T) {
		err := e.FinalizeReview(ctx, identityOf(auditor), contract.ID,
			model.VerdictApproved, "feedback")
		require.ErrorIs(t, err, common.ErrRequestNotPending)
	})

	t.Run("wrong contract state", func(t *testing.T) {
		require.NoError(t, e.AcceptReview(ctx, identityOf(auditor), request.ID))
		require.NoError(t, e.FinalizeReview(ctx, identityOf(auditor), contract.ID,
			model.VerdictApproved, "feedback"))

		// Already pending approval; a second finalize must fail.
		err := e.FinalizeReview(ctx, identityOf(auditor), contract.ID,
			model.VerdictApproved, "feedback")
		require.ErrorIs(t, err, common.ErrInvalidStateTransition)
	})
}

func TestApproveCompletion(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 0)
	declined := db.SeedAuditor("declined", 0)
	contract := uploadContract(t, e, client)

	acceptReq := requestReview(t, e, client, contract.ID, "auditor")
	declineReq := requestReview(t, e, client, contract.ID, "declined")
	require.NoError(t, e.AcceptReview(ctx, identityOf(auditor), acceptReq.ID))
	require.NoError(t, e.RejectReview(ctx, identityOf(declined), declineReq.ID))
	require.NoError(t, e.FinalizeReview(ctx, identityOf(auditor), contract.ID,
		model.VerdictApproved, "Looks good."))

	require.NoError(t, e.ApproveCompletion(ctx, identityOf(client), contract.ID))

	assert.Equal(t, model.StatusCompleted, contractStatus(t, db, contract.ID))

	// The accepting auditor got their slot back; the decliner never
	// held one.
	account, _, err := db.Store.GetAccount(ctx, auditor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, account.CurrentActiveContracts)

	// Requests are cleaned up with the approval.
	requests, _, err := db.Store.ListReviewRequestsByContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestApproveCompletionGuards(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	other := db.SeedClient("other", 5)
	contract := uploadContract(t, e, client)

	t.Run("wrong state", func(t *testing.T) {
		err := e.ApproveCompletion(ctx, identityOf(client), contract.ID)
		require.ErrorIs(t, err, common.ErrInvalidStateTransition)
	})

	t.Run("non-owner", func(t *testing.T) {
		err := e.ApproveCompletion(ctx, identityOf(other), contract.ID)
		require.ErrorIs(t, err, common.ErrForbidden)
	})
}

func TestRequestRevisionsLoop(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)
	request := requestReview(t, e, client, contract.ID, "auditor")
	require.NoError(t, e.AcceptReview(ctx, identityOf(auditor), request.ID))
	require.NoError(t, e.FinalizeReview(ctx, identityOf(auditor), contract.ID,
		model.VerdictActionRequired, "Section 3 is unacceptable."))

	require.NoError(t, e.RequestRevisions(ctx, identityOf(client), contract.ID))
	assert.Equal(t, model.StatusInReview, contractStatus(t, db, contract.ID))

	// The auditor can finalize again after revising.
	require.NoError(t, e.FinalizeReview(ctx, identityOf(auditor), contract.ID,
		model.VerdictApproved, "Section 3 fixed."))
	assert.Equal(t, model.StatusPendingApproval, contractStatus(t, db, contract.ID))
}

func TestAddReviewNote(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	auditor := db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)
	requestReview(t, e, client, contract.ID, "auditor")

	require.NoError(t, e.AddReviewNote(ctx, identityOf(auditor), contract.ID, "Check clause 4.2"))
	require.NoError(t, e.AddReviewNote(ctx, identityOf(auditor), contract.ID, "Clause 4.2 resolved"))

	updated, _, err := db.Store.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	require.Len(t, updated.Notes, 2)
	assert.Equal(t, "Check clause 4.2", updated.Notes[0].Text)
	assert.Equal(t, auditor.ID, updated.Notes[0].AuditorID)
}

func TestAddReviewNoteRequiresAssignment(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	db.SeedAuditor("auditor", 0)
	outsider := db.SeedAuditor("outsider", 0)
	contract := uploadContract(t, e, client)
	requestReview(t, e, client, contract.ID, "auditor")

	err := e.AddReviewNote(ctx, identityOf(outsider), contract.ID, "drive-by note")
	require.ErrorIs(t, err, common.ErrForbidden)
}

func TestDeleteContract(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	contract := uploadContract(t, e, client)

	require.NoError(t, e.DeleteContract(ctx, identityOf(client), contract.ID))

	_, _, err := db.Store.GetContract(ctx, contract.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteContractBlockedDuringReview(t *testing.T) {
	ctx := context.Background()
	e, db, _ := newTestEngine(t)
	client := db.SeedClient("client", 5)
	db.SeedAuditor("auditor", 0)
	contract := uploadContract(t, e, client)
	requestReview(t, e, client, contract.ID, "auditor")

	err := e.DeleteContract(ctx, identityOf(client), contract.ID)
	require.ErrorIs(t, err, common.ErrInvalidStateTransition)
}
