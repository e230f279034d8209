package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

func seedRequest(t *testing.T, store *SQLiteStore, id, contractID, auditorID string, status model.RequestStatus, createdAt time.Time) {
	t.Helper()

	require.NoError(t, store.CommitIf(context.Background(), service.NewCommit().
		PutReviewRequest(&model.ReviewRequest{
			ID:         id,
			ContractID: contractID,
			ClientID:   "client",
			AuditorID:  auditorID,
			Status:     status,
			CreatedAt:  createdAt,
		})))
}

func TestListReviewRequestsByContract(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Now().UTC()
	seedRequest(t, store, "req-1", "contract-1", "auditor-a", model.RequestPending, base)
	seedRequest(t, store, "req-2", "contract-1", "auditor-b", model.RequestAccepted, base.Add(time.Second))
	seedRequest(t, store, "req-3", "contract-2", "auditor-a", model.RequestPending, base)

	requests, versions, err := store.ListReviewRequestsByContract(ctx, "contract-1")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "req-1", requests[0].ID)
	assert.Equal(t, "req-2", requests[1].ID)
	assert.Equal(t, service.Version(1), versions["req-1"])
	assert.Equal(t, service.Version(1), versions["req-2"])
}

func TestListReviewRequestsByAuditorFiltersStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Now().UTC()
	seedRequest(t, store, "req-1", "contract-1", "auditor-a", model.RequestPending, base)
	seedRequest(t, store, "req-2", "contract-2", "auditor-a", model.RequestRejected, base.Add(time.Second))
	seedRequest(t, store, "req-3", "contract-3", "auditor-a", model.RequestPending, base.Add(2*time.Second))
	seedRequest(t, store, "req-4", "contract-4", "auditor-b", model.RequestPending, base)

	pending, err := store.ListReviewRequestsByAuditor(ctx, "auditor-a", model.RequestPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// Newest first.
	assert.Equal(t, "req-3", pending[0].ID)
	assert.Equal(t, "req-1", pending[1].ID)
}

func TestReviewRequestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	request := &model.ReviewRequest{
		ID:              "req-1",
		ContractID:      "contract-1",
		ContractTitle:   "MSA",
		ContractOwnerID: "client",
		ClientID:        "client",
		AuditorID:       "auditor",
		Status:          model.RequestPending,
		Budget:          250,
		ClientConcerns:  "Check the indemnification clause",
		SharedSummary:   []string{"Includes a confidentiality clause."},
		RiskScore:       42,
		Severity:        model.SeverityMedium,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.CommitIf(ctx, service.NewCommit().PutReviewRequest(request)))

	got, version, err := store.GetReviewRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, service.Version(1), version)
	assert.Equal(t, int64(250), got.Budget)
	assert.Equal(t, 42, got.RiskScore)
	assert.Equal(t, model.SeverityMedium, got.Severity)
	assert.Equal(t, []string{"Includes a confidentiality clause."}, got.SharedSummary)
}
