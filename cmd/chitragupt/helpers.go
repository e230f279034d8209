package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/chitragupt/chitragupt/internal/analysis"
	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/engine"
	"github.com/chitragupt/chitragupt/internal/service"
	"github.com/chitragupt/chitragupt/internal/storage"
)

func databasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "chitragupt", "chitragupt.db"), nil
}

func openStore() (*storage.SQLiteStore, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func engineConfig() engine.Config {
	config := engine.DefaultConfig()
	if v := viper.GetInt64("engine.chat_cost"); v > 0 {
		config.ChatCost = v
	}
	if v := viper.GetInt64("engine.auditor_reward"); v > 0 {
		config.AuditorReward = v
	}
	if v := viper.GetInt64("engine.analysis_cost"); v > 0 {
		config.AnalysisCost = v
	}
	if v := viper.GetInt64("engine.signup_grant"); v > 0 {
		config.SignupGrant = v
	}
	if v := viper.GetInt("engine.max_retries"); v > 0 {
		config.MaxRetries = v
	}
	return config
}

// withEngine opens the store, builds the engine, runs fn, and closes.
func withEngine(ctx context.Context, fn func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	workflowEngine := engine.NewWithConfig(store, analysis.NewHeuristicAnalyzer(), engineConfig())
	return fn(ctx, workflowEngine, store)
}

// identityFor resolves an --as account id into the caller identity the
// engine expects.
func identityFor(ctx context.Context, store service.Store, accountID string) (service.Identity, error) {
	if accountID == "" {
		return service.Identity{}, fmt.Errorf("--as <account-id> is required")
	}

	account, _, err := store.GetAccount(ctx, accountID)
	if err != nil {
		return service.Identity{}, common.NewUserError(
			fmt.Sprintf("no account %q", accountID), err)
	}

	return service.Identity{AccountID: account.ID, Role: account.Role}, nil
}
