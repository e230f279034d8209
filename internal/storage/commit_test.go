package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func seedAccount(t *testing.T, store *SQLiteStore, id string, balance int64) {
	t.Helper()

	require.NoError(t, store.CreateAccount(context.Background(), &model.Account{
		ID:            id,
		DisplayName:   "Account " + id,
		Email:         id + "@example.com",
		Role:          model.RoleClient,
		CreditBalance: balance,
	}))
}

func TestCommitIfAppliesGuardedWrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedAccount(t, store, "client", 10)

	account, version, err := store.GetAccount(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, service.Version(1), version)

	account.CreditBalance = 7
	commit := service.NewCommit().
		Expect(service.KindAccount, account.ID, version).
		PutAccount(account)
	require.NoError(t, store.CommitIf(ctx, commit))

	updated, newVersion, err := store.GetAccount(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.CreditBalance)
	assert.Equal(t, version+1, newVersion)
}

func TestCommitIfStaleVersionConflicts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedAccount(t, store, "client", 10)

	account, version, err := store.GetAccount(ctx, "client")
	require.NoError(t, err)

	// Another writer gets there first.
	interloper := *account
	interloper.CreditBalance = 9
	require.NoError(t, store.CommitIf(ctx, service.NewCommit().
		Expect(service.KindAccount, account.ID, version).
		PutAccount(&interloper)))

	account.CreditBalance = 7
	err = store.CommitIf(ctx, service.NewCommit().
		Expect(service.KindAccount, account.ID, version).
		PutAccount(account))
	require.ErrorIs(t, err, common.ErrConflict)

	// The losing commit left nothing behind.
	current, _, err := store.GetAccount(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, int64(9), current.CreditBalance)
}

func TestCommitIfVersionZeroMeansAbsent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	contract := &model.Contract{
		ID:      "contract-1",
		OwnerID: "client",
		Title:   "MSA",
		Status:  model.StatusCompleted,
	}

	require.NoError(t, store.CommitIf(ctx, service.NewCommit().
		Expect(service.KindContract, contract.ID, 0).
		PutContract(contract)))

	// Creating the same record again must conflict.
	err := store.CommitIf(ctx, service.NewCommit().
		Expect(service.KindContract, contract.ID, 0).
		PutContract(contract))
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestCommitIfConflictLeavesWholeWriteSetUnapplied(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedAccount(t, store, "client", 10)

	contract := &model.Contract{
		ID:      "contract-1",
		OwnerID: "client",
		Title:   "NDA",
		Status:  model.StatusCompleted,
	}

	account, _, err := store.GetAccount(ctx, "client")
	require.NoError(t, err)
	account.CreditBalance = 5

	// The account guard is stale, so neither write may land.
	err = store.CommitIf(ctx, service.NewCommit().
		Expect(service.KindAccount, account.ID, 99).
		Expect(service.KindContract, contract.ID, 0).
		PutAccount(account).
		PutContract(contract))
	require.ErrorIs(t, err, common.ErrConflict)

	current, _, err := store.GetAccount(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, int64(10), current.CreditBalance)

	_, _, err = store.GetContract(ctx, contract.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCommitIfDeletesRequestAndContract(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	contract := &model.Contract{ID: "contract-1", OwnerID: "client", Title: "SOW", Status: model.StatusCompleted}
	request := &model.ReviewRequest{
		ID:         "request-1",
		ContractID: contract.ID,
		ClientID:   "client",
		AuditorID:  "auditor",
		Status:     model.RequestPending,
	}

	require.NoError(t, store.CommitIf(ctx, service.NewCommit().
		PutContract(contract).
		PutReviewRequest(request).
		AppendMessage(&model.ChatMessage{
			ID:         "msg-1",
			ContractID: contract.ID,
			SenderID:   "client",
			SenderName: "Client",
			Text:       "hello",
		})))

	require.NoError(t, store.CommitIf(ctx, service.NewCommit().
		DeleteReviewRequest(request.ID).
		DeleteContract(contract.ID)))

	_, _, err := store.GetReviewRequest(ctx, request.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, _, err = store.GetContract(ctx, contract.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	// Chat history goes with the contract.
	messages, err := store.ListChatMessages(ctx, contract.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAppendMessageAssignsMonotonicSequence(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	contract := &model.Contract{ID: "contract-1", OwnerID: "client", Title: "MSA", Status: model.StatusCompleted}
	require.NoError(t, store.CommitIf(ctx, service.NewCommit().PutContract(contract)))

	for i, text := range []string{"first", "second", "third"} {
		message := &model.ChatMessage{
			ID:         "msg-" + text,
			ContractID: contract.ID,
			SenderID:   "client",
			SenderName: "Client",
			Text:       text,
		}
		require.NoError(t, store.CommitIf(ctx, service.NewCommit().AppendMessage(message)))
		assert.Equal(t, int64(i+1), message.Seq)
	}

	messages, err := store.ListChatMessages(ctx, contract.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	var lastTS time.Time
	for i, message := range messages {
		assert.Equal(t, int64(i+1), message.Seq)
		assert.False(t, message.Timestamp.Before(lastTS), "timestamps must be non-decreasing")
		lastTS = message.Timestamp
	}
}

func TestAppendMessageSequencesArePerContract(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, contractID := range []string{"contract-a", "contract-b"} {
		require.NoError(t, store.CommitIf(ctx, service.NewCommit().PutContract(&model.Contract{
			ID:      contractID,
			OwnerID: "client",
			Title:   "Contract " + contractID,
			Status:  model.StatusCompleted,
		})))
	}

	msgA := &model.ChatMessage{ID: "a1", ContractID: "contract-a", SenderID: "client", SenderName: "C", Text: "a"}
	msgA2 := &model.ChatMessage{ID: "a2", ContractID: "contract-a", SenderID: "client", SenderName: "C", Text: "a"}
	msgB := &model.ChatMessage{ID: "b1", ContractID: "contract-b", SenderID: "client", SenderName: "C", Text: "b"}

	require.NoError(t, store.CommitIf(ctx, service.NewCommit().AppendMessage(msgA)))
	require.NoError(t, store.CommitIf(ctx, service.NewCommit().AppendMessage(msgA2)))
	require.NoError(t, store.CommitIf(ctx, service.NewCommit().AppendMessage(msgB)))

	assert.Equal(t, int64(1), msgA.Seq)
	assert.Equal(t, int64(2), msgA2.Seq)
	assert.Equal(t, int64(1), msgB.Seq)
}

func TestCommitIfEmptyCommitIsNoOp(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CommitIf(context.Background(), service.NewCommit()))
}

func TestCommitIfNilCommit(t *testing.T) {
	store := newTestStore(t)
	require.Error(t, store.CommitIf(context.Background(), nil))
}

func TestContractRoundTripsStructuredFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	contract := &model.Contract{
		ID:       "contract-1",
		OwnerID:  "client",
		Title:    "Master Services Agreement",
		FileName: "msa.pdf",
		Status:   model.StatusInReview,
		Analysis: &model.AnalysisReport{
			ContractType:      "Service Agreement",
			Severity:          model.SeverityHigh,
			Summary:           []string{"Includes an indemnification clause."},
			SanitizedSummary:  []string{"Includes an indemnification clause."},
			RiskAssessment:    []string{"Unlimited liability exposure."},
			MissingClauses:    []string{"No termination clause found."},
			Recommendations:   []string{"Add a termination clause before signing."},
			RiskScore:         68,
			AIConfidenceScore: 85,
		},
		AssignedAuditorIDs: []string{"auditor-1", "auditor-2"},
		Notes: []model.ReviewNote{
			{AuditorID: "auditor-1", Text: "Section 4 needs work", CreatedAt: time.Now().UTC()},
		},
		UploadedAt: time.Now().UTC(),
	}

	require.NoError(t, store.CommitIf(ctx, service.NewCommit().PutContract(contract)))

	got, version, err := store.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, service.Version(1), version)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, 68, got.Analysis.RiskScore)
	assert.Equal(t, model.SeverityHigh, got.Analysis.Severity)
	assert.Equal(t, []string{"auditor-1", "auditor-2"}, got.AssignedAuditorIDs)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "Section 4 needs work", got.Notes[0].Text)
}
