package model

import "time"

// ChatMessage is one message in a contract's chat stream.
//
// Seq and Timestamp are assigned by the store at commit time; Timestamp
// is non-decreasing within a contract even when senders submit
// concurrently. Messages are append-only.
type ChatMessage struct {
	Timestamp  time.Time
	ID         string
	ContractID string
	SenderID   string
	SenderName string
	Text       string
	Seq        int64
}
