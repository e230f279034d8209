package storage

import (
	"context"
	"fmt"

	"github.com/chitragupt/chitragupt/internal/model"
)

// ListChatMessages returns a contract's chat stream in commit order.
// Ordering by seq (assigned under the commit lock) guarantees the
// non-decreasing timestamp property regardless of submission order.
func (s *SQLiteStore) ListChatMessages(ctx context.Context, contractID string) ([]model.ChatMessage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(contractID, "contractID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contract_id, sender_id, sender_name, text, seq, timestamp
		FROM chat_messages WHERE contract_id = ? ORDER BY seq
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []model.ChatMessage
	for rows.Next() {
		var message model.ChatMessage
		if err := rows.Scan(
			&message.ID,
			&message.ContractID,
			&message.SenderID,
			&message.SenderName,
			&message.Text,
			&message.Seq,
			&message.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}
