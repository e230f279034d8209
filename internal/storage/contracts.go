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

const contractColumns = `id, owner_id, title, file_name, status, analysis,
	final_feedback, assigned_auditor_ids, notes, version, uploaded_at`

// GetContract returns the contract with the given id and its version.
func (s *SQLiteStore) GetContract(ctx context.Context, id string) (*model.Contract, service.Version, error) {
	if err := validateContext(ctx); err != nil {
		return nil, 0, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, 0, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE id = ?`, id)

	return scanContract(row)
}

// ListContractsByOwner returns all contracts owned by ownerID, newest first.
func (s *SQLiteStore) ListContractsByOwner(ctx context.Context, ownerID string) ([]model.Contract, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE owner_id = ? ORDER BY uploaded_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contracts []model.Contract
	for rows.Next() {
		contract, _, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *contract)
	}

	return contracts, rows.Err()
}

func scanContract(row rowScanner) (*model.Contract, service.Version, error) {
	var (
		contract      model.Contract
		status        string
		fileName      sql.NullString
		analysisJSON  sql.NullString
		feedbackJSON  sql.NullString
		auditorsJSON  string
		notesJSON     string
		version       int64
	)
	err := row.Scan(
		&contract.ID,
		&contract.OwnerID,
		&contract.Title,
		&fileName,
		&status,
		&analysisJSON,
		&feedbackJSON,
		&auditorsJSON,
		&notesJSON,
		&version,
		&contract.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%w: contract", common.ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan contract: %w", err)
	}

	contract.Status = model.ContractStatus(status)
	contract.FileName = fileName.String

	if analysisJSON.Valid && analysisJSON.String != "" {
		var report model.AnalysisReport
		if err := json.Unmarshal([]byte(analysisJSON.String), &report); err != nil {
			return nil, 0, fmt.Errorf("failed to decode analysis report: %w", err)
		}
		contract.Analysis = &report
	}
	if feedbackJSON.Valid && feedbackJSON.String != "" {
		var feedback model.FinalFeedback
		if err := json.Unmarshal([]byte(feedbackJSON.String), &feedback); err != nil {
			return nil, 0, fmt.Errorf("failed to decode final feedback: %w", err)
		}
		contract.FinalFeedback = &feedback
	}
	if err := json.Unmarshal([]byte(auditorsJSON), &contract.AssignedAuditorIDs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode assigned auditors: %w", err)
	}
	if err := json.Unmarshal([]byte(notesJSON), &contract.Notes); err != nil {
		return nil, 0, fmt.Errorf("failed to decode review notes: %w", err)
	}

	return &contract, service.Version(version), nil
}

// contractColumnValues marshals a contract's variable-shape fields for storage.
func contractColumnValues(contract *model.Contract) (analysis, feedback, auditors, notes sql.NullString, err error) {
	if contract.Analysis != nil {
		data, merr := json.Marshal(contract.Analysis)
		if merr != nil {
			err = fmt.Errorf("failed to encode analysis report: %w", merr)
			return
		}
		analysis = sql.NullString{String: string(data), Valid: true}
	}
	if contract.FinalFeedback != nil {
		data, merr := json.Marshal(contract.FinalFeedback)
		if merr != nil {
			err = fmt.Errorf("failed to encode final feedback: %w", merr)
			return
		}
		feedback = sql.NullString{String: string(data), Valid: true}
	}

	auditorIDs := contract.AssignedAuditorIDs
	if auditorIDs == nil {
		auditorIDs = []string{}
	}
	data, merr := json.Marshal(auditorIDs)
	if merr != nil {
		err = fmt.Errorf("failed to encode assigned auditors: %w", merr)
		return
	}
	auditors = sql.NullString{String: string(data), Valid: true}

	noteList := contract.Notes
	if noteList == nil {
		noteList = []model.ReviewNote{}
	}
	data, merr = json.Marshal(noteList)
	if merr != nil {
		err = fmt.Errorf("failed to encode review notes: %w", merr)
		return
	}
	notes = sql.NullString{String: string(data), Valid: true}
	return
}
