// Package model defines the core domain types shared across the application.
package model

import "time"

// Role identifies what kind of party an account represents.
type Role string

const (
	// RoleClient is a contract owner who uploads documents and spends credits.
	RoleClient Role = "client"
	// RoleAuditor is a professional reviewer who earns credits.
	RoleAuditor Role = "auditor"
	// RoleAdmin can top up any account's balance.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAuditor, RoleAdmin:
		return true
	}
	return false
}

// Account is a party holding a credit balance.
//
// CreditBalance is an integer point count, not currency, and must never
// go negative. The active-contract counters only apply to auditors.
type Account struct {
	CreatedAt              time.Time
	ID                     string
	DisplayName            string
	Email                  string
	Role                   Role
	CreditBalance          int64
	MaxActiveContracts     int
	CurrentActiveContracts int
}
