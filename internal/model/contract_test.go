package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContractAssignment(t *testing.T) {
	contract := &Contract{AssignedAuditorIDs: []string{"a", "b"}}

	assert.True(t, contract.IsAssigned("a"))
	assert.False(t, contract.IsAssigned("c"))

	contract.RemoveAuditor("a")
	assert.False(t, contract.IsAssigned("a"))
	assert.Equal(t, []string{"b"}, contract.AssignedAuditorIDs)

	// Removing an unknown auditor is a no-op.
	contract.RemoveAuditor("missing")
	assert.Equal(t, []string{"b"}, contract.AssignedAuditorIDs)
}

func TestVerdictValid(t *testing.T) {
	assert.True(t, VerdictApproved.Valid())
	assert.True(t, VerdictApprovedWithRevisions.Valid())
	assert.True(t, VerdictActionRequired.Valid())
	assert.False(t, Verdict("Maybe").Valid())
	assert.False(t, Verdict("").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleClient.Valid())
	assert.True(t, RoleAuditor.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("wizard").Valid())
}
