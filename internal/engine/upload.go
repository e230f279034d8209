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

// UploadAndAnalyze runs the analysis collaborator on the document,
// then atomically creates the contract with the report attached and
// debits the analysis cost.
//
// The analyzer runs before the transaction; the balance it was
// pre-checked against may have changed by commit time, so the balance
// is re-checked inside the cycle. A caller who loses that race pays
// nothing and gets no contract, but the analysis work is discarded.
func (e *WorkflowEngine) UploadAndAnalyze(ctx context.Context, identity service.Identity, title, fileName string, document []byte) (*model.Contract, error) {
	if err := requireRole(identity, model.RoleClient); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	// Pre-check so an obviously broke client skips the analysis call.
	account, _, err := e.store.GetAccount(ctx, identity.AccountID)
	if err != nil {
		return nil, err
	}
	if account.CreditBalance < e.config.AnalysisCost {
		return nil, fmt.Errorf("%w: analysis costs %d credits",
			common.ErrInsufficientBalance, e.config.AnalysisCost)
	}

	report, err := e.analyzer.Analyze(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrAnalysisUnavailable, err)
	}

	contract := &model.Contract{
		ID:         uuid.NewString(),
		OwnerID:    identity.AccountID,
		Title:      title,
		FileName:   fileName,
		Status:     model.StatusCompleted,
		Analysis:   report,
		UploadedAt: time.Now().UTC(),
	}

	err = e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		client, clientVersion, err := e.store.GetAccount(ctx, identity.AccountID)
		if err != nil {
			return nil, err
		}

		if err := ledger.Debit(client, e.config.AnalysisCost); err != nil {
			return nil, err
		}

		commit := service.NewCommit().
			Expect(service.KindAccount, client.ID, clientVersion).
			Expect(service.KindContract, contract.ID, 0).
			PutAccount(client).
			PutContract(contract)
		return commit, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Contract analyzed and stored",
		"contract_id", contract.ID,
		"owner_id", contract.OwnerID,
		"risk_score", report.RiskScore,
		"severity", report.Severity)

	return contract, nil
}
