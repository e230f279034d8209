package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

const requestColumns = `id, contract_id, contract_title, contract_owner_id, client_id,
	auditor_id, status, budget, client_concerns, shared_summary, risk_score, severity,
	version, created_at`

// GetReviewRequest returns the review request with the given id and its version.
func (s *SQLiteStore) GetReviewRequest(ctx context.Context, id string) (*model.ReviewRequest, service.Version, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, 0, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM review_requests WHERE id = ?`, id)

	return scanReviewRequest(row)
}

// ListReviewRequestsByContract returns every review request for a
// contract along with a version map keyed by request id, so an engine
// operation can guard its whole fan-out read in one commit.
func (s *SQLiteStore) ListReviewRequestsByContract(ctx context.Context, contractID string) ([]model.ReviewRequest, map[string]service.Version, error) {
	if err := validateContext(ctx); err != nil {
		return nil, nil, err
	}
	if err := validateString(contractID, "contractID"); err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM review_requests WHERE contract_id = ? ORDER BY created_at`,
		contractID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query review requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var requests []model.ReviewRequest
	versions := make(map[string]service.Version)
	for rows.Next() {
		request, version, err := scanReviewRequest(rows)
		if err != nil {
			return nil, nil, err
		}
		requests = append(requests, *request)
		versions[request.ID] = version
	}

	return requests, versions, rows.Err()
}

// ListReviewRequestsByAuditor returns the auditor's requests in the
// given status, newest first. This backs the auditor's review queue.
func (s *SQLiteStore) ListReviewRequestsByAuditor(ctx context.Context, auditorID string, status model.RequestStatus) ([]model.ReviewRequest, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(auditorID, "auditorID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM review_requests
		 WHERE auditor_id = ? AND status = ? ORDER BY created_at DESC`,
		auditorID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query review requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var requests []model.ReviewRequest
	for rows.Next() {
		request, _, err := scanReviewRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}

	return requests, rows.Err()
}

func scanReviewRequest(row rowScanner) (*model.ReviewRequest, service.Version, error) {
	var (
		request      model.ReviewRequest
		title        sql.NullString
		status       string
		concerns     sql.NullString
		summaryJSON  string
		severity     sql.NullString
		version      int64
	)
	err := row.Scan(
		&request.ID,
		&request.ContractID,
		&title,
		&request.ContractOwnerID,
		&request.ClientID,
		&request.AuditorID,
		&status,
		&request.Budget,
		&concerns,
		&summaryJSON,
		&request.RiskScore,
		&severity,
		&version,
		&request.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%w: review request", common.ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan review request: %w", err)
	}

	request.ContractTitle = title.String
	request.Status = model.RequestStatus(status)
	request.ClientConcerns = concerns.String
	request.Severity = model.Severity(severity.String)

	if err := json.Unmarshal([]byte(summaryJSON), &request.SharedSummary); err != nil {
		return nil, 0, fmt.Errorf("failed to decode shared summary: %w", err)
	}

	return &request, service.Version(version), nil
}
