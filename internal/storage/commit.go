package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

// CommitIf atomically applies a staged write set, but only if every
// record in the commit's read set still has its expected version.
//
// The version checks and the writes run inside one database
// transaction on the store's single connection, so no other commit can
// interleave between check and write. A stale expectation returns
// common.ErrConflict with the store untouched; the caller re-reads and
// rebuilds the commit.
func (s *SQLiteStore) CommitIf(ctx context.Context, commit *service.Commit) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if commit == nil {
		return fmt.Errorf("%w: commit", ErrNilParameter)
	}
	if commit.Empty() {
		return nil
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, expect := range commit.Expectations() {
		current, err := recordVersionTx(ctx, tx, expect.Kind, expect.ID)
		if err != nil {
			return err
		}
		if current != expect.Version {
			return fmt.Errorf("%w: %s %s at version %d, expected %d",
				common.ErrConflict, expect.Kind, expect.ID, current, expect.Version)
		}
	}

	for _, op := range commit.Ops() {
		if err := s.applyTx(ctx, tx, op); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit write set: %w", err)
	}

	return nil
}

func recordVersionTx(ctx context.Context, tx *sql.Tx, kind service.RecordKind, id string) (service.Version, error) {
	var table string
	switch kind {
	case service.KindAccount:
		table = "accounts"
	case service.KindContract:
		table = "contracts"
	case service.KindReviewRequest:
		table = "review_requests"
	default:
		return 0, fmt.Errorf("unknown record kind %q", kind)
	}

	var version int64
	err := tx.QueryRowContext(ctx,
		`SELECT version FROM `+table+` WHERE id = ?`, id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s version: %w", kind, err)
	}

	return service.Version(version), nil
}

func (s *SQLiteStore) applyTx(ctx context.Context, tx *sql.Tx, op service.WriteOp) error {
	switch {
	case op.Op == service.OpAppend:
		return appendMessageTx(ctx, tx, op.Message)
	case op.Op == service.OpDelete && op.Kind == service.KindReviewRequest:
		_, err := tx.ExecContext(ctx, `DELETE FROM review_requests WHERE id = ?`, op.ID)
		if err != nil {
			return fmt.Errorf("failed to delete review request: %w", err)
		}
		return nil
	case op.Op == service.OpDelete && op.Kind == service.KindContract:
		// Chat history goes with the contract.
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE contract_id = ?`, op.ID); err != nil {
			return fmt.Errorf("failed to delete chat messages: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM contracts WHERE id = ?`, op.ID); err != nil {
			return fmt.Errorf("failed to delete contract: %w", err)
		}
		return nil
	case op.Kind == service.KindAccount:
		return putAccountTx(ctx, tx, op.Account)
	case op.Kind == service.KindContract:
		return putContractTx(ctx, tx, op.Contract)
	case op.Kind == service.KindReviewRequest:
		return putReviewRequestTx(ctx, tx, op.Request)
	default:
		return fmt.Errorf("unknown write op for kind %q", op.Kind)
	}
}

func putAccountTx(ctx context.Context, tx *sql.Tx, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}

	version, err := recordVersionTx(ctx, tx, service.KindAccount, account.ID)
	if err != nil {
		return err
	}

	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO accounts (
			id, display_name, email, role, credit_balance,
			max_active_contracts, current_active_contracts, version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		account.ID,
		account.DisplayName,
		account.Email,
		string(account.Role),
		account.CreditBalance,
		account.MaxActiveContracts,
		account.CurrentActiveContracts,
		int64(version)+1,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write account: %w", err)
	}
	return nil
}

func putContractTx(ctx context.Context, tx *sql.Tx, contract *model.Contract) error {
	if err := validateContract(contract); err != nil {
		return err
	}

	version, err := recordVersionTx(ctx, tx, service.KindContract, contract.ID)
	if err != nil {
		return err
	}

	analysis, feedback, auditors, notes, err := contractColumnValues(contract)
	if err != nil {
		return err
	}

	uploadedAt := contract.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO contracts (
			id, owner_id, title, file_name, status, analysis,
			final_feedback, assigned_auditor_ids, notes, version, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		contract.ID,
		contract.OwnerID,
		contract.Title,
		contract.FileName,
		string(contract.Status),
		analysis,
		feedback,
		auditors.String,
		notes.String,
		int64(version)+1,
		uploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write contract: %w", err)
	}
	return nil
}

func putReviewRequestTx(ctx context.Context, tx *sql.Tx, request *model.ReviewRequest) error {
	if err := validateReviewRequest(request); err != nil {
		return err
	}

	version, err := recordVersionTx(ctx, tx, service.KindReviewRequest, request.ID)
	if err != nil {
		return err
	}

	summary := request.SharedSummary
	if summary == nil {
		summary = []string{}
	}
	summaryJSON, err := marshalJSON(summary)
	if err != nil {
		return fmt.Errorf("failed to encode shared summary: %w", err)
	}

	createdAt := request.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO review_requests (
			id, contract_id, contract_title, contract_owner_id, client_id,
			auditor_id, status, budget, client_concerns, shared_summary,
			risk_score, severity, version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		request.ID,
		request.ContractID,
		request.ContractTitle,
		request.ContractOwnerID,
		request.ClientID,
		request.AuditorID,
		string(request.Status),
		request.Budget,
		request.ClientConcerns,
		summaryJSON,
		request.RiskScore,
		string(request.Severity),
		int64(version)+1,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write review request: %w", err)
	}
	return nil
}

// appendMessageTx assigns the next per-contract sequence number and a
// commit-time timestamp clamped to be non-decreasing, then inserts.
func appendMessageTx(ctx context.Context, tx *sql.Tx, message *model.ChatMessage) error {
	if err := validateMessage(message); err != nil {
		return err
	}

	var (
		lastSeq sql.NullInt64
		lastTS  sql.NullTime
	)
	err := tx.QueryRowContext(ctx, `
		SELECT MAX(seq), MAX(timestamp) FROM chat_messages WHERE contract_id = ?
	`, message.ContractID).Scan(&lastSeq, &lastTS)
	if err != nil {
		return fmt.Errorf("failed to read chat sequence: %w", err)
	}

	message.Seq = lastSeq.Int64 + 1
	message.Timestamp = time.Now().UTC()
	if lastTS.Valid && message.Timestamp.Before(lastTS.Time) {
		message.Timestamp = lastTS.Time
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, contract_id, sender_id, sender_name, text, seq, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		message.ID,
		message.ContractID,
		message.SenderID,
		message.SenderName,
		message.Text,
		message.Seq,
		message.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
