package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/ledger"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

// SendChatMessage appends a message to the contract's chat stream.
//
// A client message is a paid operation: the chat cost is debited and
// every currently assigned auditor is rewarded, in the same commit
// that appends the message. Auditor messages are free. The billing
// and the append are never observable separately.
func (e *WorkflowEngine) SendChatMessage(ctx context.Context, identity service.Identity, contractID, text string) (*model.ChatMessage, error) {
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	var message *model.ChatMessage
	err := e.transact(ctx, func(ctx context.Context) (*service.Commit, error) {
		contract, contractVersion, err := e.store.GetContract(ctx, contractID)
		if err != nil {
			return nil, err
		}

		isOwner := contract.OwnerID == identity.AccountID
		if !isOwner && !contract.IsAssigned(identity.AccountID) {
			return nil, fmt.Errorf("%w: sender is neither owner nor assigned auditor",
				common.ErrForbidden)
		}

		sender, senderVersion, err := e.store.GetAccount(ctx, identity.AccountID)
		if err != nil {
			return nil, err
		}

		message = &model.ChatMessage{
			ID:         uuid.NewString(),
			ContractID: contract.ID,
			SenderID:   sender.ID,
			SenderName: sender.DisplayName,
			Text:       text,
		}

		// The assigned-auditor set is part of the billing computation,
		// so the contract version guards the whole commit.
		commit := service.NewCommit().
			Expect(service.KindContract, contract.ID, contractVersion)

		if isOwner {
			auditors := make([]*model.Account, 0, len(contract.AssignedAuditorIDs))
			for _, auditorID := range contract.AssignedAuditorIDs {
				auditor, auditorVersion, err := e.store.GetAccount(ctx, auditorID)
				if err != nil {
					return nil, err
				}
				auditors = append(auditors, auditor)
				commit.Expect(service.KindAccount, auditor.ID, auditorVersion)
			}

			if err := ledger.Transfer(sender, auditors, e.config.ChatCost, e.config.AuditorReward); err != nil {
				return nil, err
			}
			if len(auditors) == 0 {
				slog.Warn("Chat message billed with no auditors assigned",
					"contract_id", contract.ID,
					"sender_id", sender.ID)
			}

			commit.Expect(service.KindAccount, sender.ID, senderVersion)
			commit.PutAccount(sender)
			for _, auditor := range auditors {
				commit.PutAccount(auditor)
			}
		}

		commit.AppendMessage(message)
		return commit, nil
	})
	if err != nil {
		return nil, err
	}

	return message, nil
}

// ListChatMessages returns the contract's chat stream in commit order.
// Only the owner, assigned auditors, and admins may read it.
func (e *WorkflowEngine) ListChatMessages(ctx context.Context, identity service.Identity, contractID string) ([]model.ChatMessage, error) {
	contract, _, err := e.store.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.OwnerID != identity.AccountID &&
		!contract.IsAssigned(identity.AccountID) &&
		identity.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: no chat access to this contract", common.ErrForbidden)
	}

	return e.store.ListChatMessages(ctx, contractID)
}
