package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chitragupt/chitragupt/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidAccount = errors.New("invalid account")
	ErrInvalidRequest = errors.New("invalid review request")
	ErrInvalidMessage = errors.New("invalid chat message")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAccount validates a single account.
func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAccount)
	}
	if strings.TrimSpace(account.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidAccount)
	}
	if !account.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidAccount, account.Role)
	}
	if account.CreditBalance < 0 {
		return fmt.Errorf("%w: negative credit balance", ErrInvalidAccount)
	}
	if account.CurrentActiveContracts < 0 {
		return fmt.Errorf("%w: negative active contract count", ErrInvalidAccount)
	}
	return nil
}

// validateContract validates a single contract.
func validateContract(contract *model.Contract) error {
	if contract == nil {
		return fmt.Errorf("%w: contract", ErrNilParameter)
	}
	if contract.ID == "" {
		return errors.New("invalid contract: missing ID")
	}
	if contract.OwnerID == "" {
		return errors.New("invalid contract: missing owner ID")
	}
	switch contract.Status {
	case model.StatusPending, model.StatusInReview, model.StatusActionRequired,
		model.StatusPendingApproval, model.StatusCompleted:
		// Valid status
	default:
		return fmt.Errorf("invalid contract: unknown status %q", contract.Status)
	}
	return nil
}

// validateReviewRequest validates a single review request.
func validateReviewRequest(request *model.ReviewRequest) error {
	if request == nil {
		return fmt.Errorf("%w: request", ErrNilParameter)
	}
	if request.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRequest)
	}
	if request.ContractID == "" {
		return fmt.Errorf("%w: missing contract ID", ErrInvalidRequest)
	}
	if request.AuditorID == "" {
		return fmt.Errorf("%w: missing auditor ID", ErrInvalidRequest)
	}
	switch request.Status {
	case model.RequestPending, model.RequestAccepted, model.RequestRejected:
		// Valid status
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, request.Status)
	}
	return nil
}

// validateMessage validates a chat message before it is staged.
func validateMessage(message *model.ChatMessage) error {
	if message == nil {
		return fmt.Errorf("%w: message", ErrNilParameter)
	}
	if message.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidMessage)
	}
	if message.ContractID == "" {
		return fmt.Errorf("%w: missing contract ID", ErrInvalidMessage)
	}
	if message.SenderID == "" {
		return fmt.Errorf("%w: missing sender ID", ErrInvalidMessage)
	}
	if strings.TrimSpace(message.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidMessage)
	}
	return nil
}
