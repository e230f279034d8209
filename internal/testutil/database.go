// Package testutil provides test utilities for setting up isolated
// in-memory stores with seeded accounts.
package testutil

import (
	"context"
	"testing"

	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
	"github.com/chitragupt/chitragupt/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Store service.Store
	t     *testing.T
}

// SetupTestDB creates a new in-memory test store, runs migrations and
// registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Store: store,
		t:     t,
	}
}

// SeedAccount creates an account directly in the store.
func (db *TestDB) SeedAccount(account model.Account) *model.Account {
	db.t.Helper()

	if err := db.Store.CreateAccount(context.Background(), &account); err != nil {
		db.t.Fatalf("failed to seed account %q: %v", account.ID, err)
	}
	return &account
}

// SeedClient creates a client account with the given balance.
func (db *TestDB) SeedClient(id string, balance int64) *model.Account {
	db.t.Helper()

	return db.SeedAccount(model.Account{
		ID:            id,
		DisplayName:   "Client " + id,
		Email:         id + "@example.com",
		Role:          model.RoleClient,
		CreditBalance: balance,
	})
}

// SeedAuditor creates an auditor account with the given capacity.
// Zero capacity means unlimited.
func (db *TestDB) SeedAuditor(id string, maxActive int) *model.Account {
	db.t.Helper()

	return db.SeedAccount(model.Account{
		ID:                 id,
		DisplayName:        "Auditor " + id,
		Email:              id + "@example.com",
		Role:               model.RoleAuditor,
		MaxActiveContracts: maxActive,
	})
}

// SeedAdmin creates an admin account.
func (db *TestDB) SeedAdmin(id string) *model.Account {
	db.t.Helper()

	return db.SeedAccount(model.Account{
		ID:          id,
		DisplayName: "Admin " + id,
		Email:       id + "@example.com",
		Role:        model.RoleAdmin,
	})
}

// Balance returns the current credit balance of an account.
func (db *TestDB) Balance(id string) int64 {
	db.t.Helper()

	account, _, err := db.Store.GetAccount(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to read account %q: %v", id, err)
	}
	return account.CreditBalance
}
