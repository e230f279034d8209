package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					display_name TEXT NOT NULL,
					email TEXT UNIQUE NOT NULL,
					role TEXT NOT NULL,
					credit_balance INTEGER NOT NULL DEFAULT 0,
					max_active_contracts INTEGER NOT NULL DEFAULT 0,
					current_active_contracts INTEGER NOT NULL DEFAULT 0,
					version INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					CHECK (credit_balance >= 0),
					CHECK (current_active_contracts >= 0)
				)`,
				`CREATE INDEX idx_accounts_role ON accounts(role)`,

				`CREATE TABLE IF NOT EXISTS contracts (
					id TEXT PRIMARY KEY,
					owner_id TEXT NOT NULL,
					title TEXT NOT NULL,
					file_name TEXT,
					status TEXT NOT NULL,
					analysis TEXT,
					final_feedback TEXT,
					assigned_auditor_ids TEXT NOT NULL DEFAULT '[]',
					notes TEXT NOT NULL DEFAULT '[]',
					version INTEGER NOT NULL DEFAULT 1,
					uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (owner_id) REFERENCES accounts(id)
				)`,
				`CREATE INDEX idx_contracts_owner ON contracts(owner_id)`,
				`CREATE INDEX idx_contracts_status ON contracts(status)`,

				`CREATE TABLE IF NOT EXISTS review_requests (
					id TEXT PRIMARY KEY,
					contract_id TEXT NOT NULL,
					contract_title TEXT,
					contract_owner_id TEXT NOT NULL,
					client_id TEXT NOT NULL,
					auditor_id TEXT NOT NULL,
					status TEXT NOT NULL,
					budget INTEGER NOT NULL DEFAULT 0,
					client_concerns TEXT,
					shared_summary TEXT NOT NULL DEFAULT '[]',
					risk_score INTEGER NOT NULL DEFAULT 0,
					severity TEXT,
					version INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (contract_id) REFERENCES contracts(id)
				)`,
				`CREATE INDEX idx_review_requests_contract ON review_requests(contract_id)`,
				`CREATE INDEX idx_review_requests_auditor ON review_requests(auditor_id, status)`,

				`CREATE TABLE IF NOT EXISTS chat_messages (
					id TEXT PRIMARY KEY,
					contract_id TEXT NOT NULL,
					sender_id TEXT NOT NULL,
					sender_name TEXT,
					text TEXT NOT NULL,
					seq INTEGER NOT NULL,
					timestamp DATETIME NOT NULL,
					UNIQUE (contract_id, seq),
					FOREIGN KEY (contract_id) REFERENCES contracts(id)
				)`,
				`CREATE INDEX idx_chat_messages_contract ON chat_messages(contract_id, seq)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index pending review requests per auditor",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_review_requests_status
				ON review_requests(status)`)
			if err != nil {
				return fmt.Errorf("failed to create status index: %w", err)
			}
			return nil
		},
	},
}

// Migrate runs all pending schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", m.Version,
			"description", m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		current = m.Version
	}

	if current != ExpectedSchemaVersion {
		return fmt.Errorf("schema version mismatch: have %d, want %d", current, ExpectedSchemaVersion)
	}

	return nil
}
