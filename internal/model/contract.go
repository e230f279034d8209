package model

import (
	"slices"
	"time"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	// StatusPending is the initial state before analysis completes.
	StatusPending ContractStatus = "Pending"
	// StatusInReview means at least one auditor has been requested.
	StatusInReview ContractStatus = "In Review"
	// StatusActionRequired means the owner must act (e.g. all auditors rejected).
	StatusActionRequired ContractStatus = "Action Required"
	// StatusPendingApproval means an auditor finalized and the owner must approve.
	StatusPendingApproval ContractStatus = "Pending Approval"
	// StatusCompleted is the terminal state.
	StatusCompleted ContractStatus = "Completed"
)

// Verdict is an auditor's final categorical judgment on a contract.
type Verdict string

const (
	VerdictApproved              Verdict = "Approved"
	VerdictApprovedWithRevisions Verdict = "Approved with Revisions"
	VerdictActionRequired        Verdict = "Action Required"
)

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictApproved, VerdictApprovedWithRevisions, VerdictActionRequired:
		return true
	}
	return false
}

// FinalFeedback is the verdict an auditor submits when finalizing a review.
// It may be overwritten on a revision loop.
type FinalFeedback struct {
	SubmittedAt time.Time
	AuditorID   string
	Verdict     Verdict
	Feedback    string
}

// ReviewNote is an interim note left by an auditor during review.
// Notes are append-only.
type ReviewNote struct {
	CreatedAt time.Time
	AuditorID string
	Text      string
}

// Contract is the document-review unit whose lifecycle the engine governs.
type Contract struct {
	UploadedAt         time.Time
	ID                 string
	OwnerID            string
	Title              string
	FileName           string
	Status             ContractStatus
	Analysis           *AnalysisReport
	FinalFeedback      *FinalFeedback
	AssignedAuditorIDs []string
	Notes              []ReviewNote
}

// IsAssigned reports whether auditorID is currently assigned to the contract.
func (c *Contract) IsAssigned(auditorID string) bool {
	return slices.Contains(c.AssignedAuditorIDs, auditorID)
}

// RemoveAuditor removes auditorID from the assigned set, if present.
func (c *Contract) RemoveAuditor(auditorID string) {
	c.AssignedAuditorIDs = slices.DeleteFunc(c.AssignedAuditorIDs, func(id string) bool {
		return id == auditorID
	})
}
