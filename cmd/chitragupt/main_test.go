package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	expected := []string{
		"serve", "migrate", "register", "contracts",
		"review", "chat", "credits", "version",
	}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "missing subcommand %q", name)
	}
}

func TestReviewCommandSubcommands(t *testing.T) {
	cmd := reviewCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, name := range []string{"request", "queue", "accept", "reject", "finalize", "note"} {
		assert.True(t, names[name], "missing review subcommand %q", name)
	}
}

func TestReviewFinalizeRequiredFlags(t *testing.T) {
	cmd := reviewFinalizeCmd()

	verdict := cmd.Flags().Lookup("verdict")
	require.NotNil(t, verdict)
	feedback := cmd.Flags().Lookup("feedback")
	require.NotNil(t, feedback)
}

func TestEngineConfigDefaults(t *testing.T) {
	config := engineConfig()

	assert.Equal(t, int64(3), config.ChatCost)
	assert.Equal(t, int64(1), config.AuditorReward)
	assert.Equal(t, int64(1), config.AnalysisCost)
	assert.Equal(t, int64(5), config.SignupGrant)
	assert.Equal(t, 3, config.MaxRetries)
}
