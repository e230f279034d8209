package model

import "time"

// RequestStatus is the state of a review request.
type RequestStatus string

const (
	// RequestPending means the auditor has not yet responded.
	RequestPending RequestStatus = "pending"
	// RequestAccepted means the auditor took the review on.
	RequestAccepted RequestStatus = "accepted"
	// RequestRejected means the auditor declined.
	RequestRejected RequestStatus = "rejected"
)

// ReviewRequest is the negotiation record between a client and one
// specific auditor for reviewing one contract.
//
// Budget, ClientConcerns, SharedSummary, RiskScore and Severity are
// snapshots taken when the request was created. Later contract edits
// must not retroactively alter what the auditor already evaluated.
type ReviewRequest struct {
	CreatedAt       time.Time
	ID              string
	ContractID      string
	ContractTitle   string
	ContractOwnerID string
	ClientID        string
	AuditorID       string
	Status          RequestStatus
	ClientConcerns  string
	Severity        Severity
	SharedSummary   []string
	Budget          int64
	RiskScore       int
}
