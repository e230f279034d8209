package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
	"github.com/chitragupt/chitragupt/internal/testutil"
)

// newTestEngine wires a workflow engine to an in-memory store and a
// mock analyzer.
func newTestEngine(t *testing.T) (*WorkflowEngine, *testutil.TestDB, *MockAnalyzer) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	analyzer := NewMockAnalyzer()
	return New(db.Store, analyzer), db, analyzer
}

func identityOf(account *model.Account) service.Identity {
	return service.Identity{AccountID: account.ID, Role: account.Role}
}

// uploadContract runs a full upload for the client and returns the
// stored contract.
func uploadContract(t *testing.T, e *WorkflowEngine, client *model.Account) *model.Contract {
	t.Helper()

	contract, err := e.UploadAndAnalyze(context.Background(), identityOf(client),
		"Master Services Agreement", "msa.pdf", []byte("services agreement with indemnification"))
	require.NoError(t, err)
	return contract
}

// requestReview fans the contract out to one auditor and returns the
// pending request.
func requestReview(t *testing.T, e *WorkflowEngine, client *model.Account, contractID, auditorID string) *model.ReviewRequest {
	t.Helper()

	request, err := e.RequestReview(context.Background(), identityOf(client), ReviewRequestParams{
		ContractID:   contractID,
		AuditorID:    auditorID,
		Budget:       100,
		ShareSummary: true,
	})
	require.NoError(t, err)
	return request
}

// contractStatus reads the contract's current lifecycle state.
func contractStatus(t *testing.T, db *testutil.TestDB, contractID string) model.ContractStatus {
	t.Helper()

	contract, _, err := db.Store.GetContract(context.Background(), contractID)
	require.NoError(t, err)
	return contract.Status
}
