package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
)

func TestAnalyzeEmptyDocument(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	for _, doc := range [][]byte{nil, []byte(""), []byte("   \n\t ")} {
		_, err := analyzer.Analyze(context.Background(), doc)
		require.ErrorIs(t, err, common.ErrAnalysisUnavailable)
	}
}

func TestAnalyzeFlagsRiskLanguage(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	doc := []byte(`This agreement shall automatically renew each year.
	The vendor may modify pricing at its sole discretion.
	The customer agrees to indemnify the vendor against all claims.`)

	report, err := analyzer.Analyze(context.Background(), doc)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RiskAssessment)
	assert.Positive(t, report.RiskScore)

	var findings string
	for _, f := range report.RiskAssessment {
		findings += f + "\n"
	}
	assert.Contains(t, findings, "indemnification")
	assert.Contains(t, findings, "sole discretion")
}

func TestAnalyzeReportsMissingClauses(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	// No standard clauses at all.
	report, err := analyzer.Analyze(context.Background(), []byte("the parties agree to cooperate"))
	require.NoError(t, err)

	assert.Len(t, report.MissingClauses, len(clauseChecklist))
	assert.Len(t, report.Recommendations, len(clauseChecklist))
	assert.Equal(t, []string{"No standard contract clauses were identified."}, report.Summary)
}

func TestAnalyzePresentClausesAreSummarized(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	doc := []byte(`This agreement is governed by the laws of Delaware.
	Either party may terminate with 30 days notice.
	All confidential information remains protected.`)

	report, err := analyzer.Analyze(context.Background(), doc)
	require.NoError(t, err)

	var summary string
	for _, s := range report.Summary {
		summary += s + "\n"
	}
	assert.Contains(t, summary, "governing law")
	assert.Contains(t, summary, "termination")
	assert.Contains(t, summary, "confidentiality")
	assert.Equal(t, report.Summary, report.SanitizedSummary)
}

func TestAnalyzeDetectsContractType(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"nda", "this non-disclosure agreement protects secrets", "Non-Disclosure Agreement (NDA)"},
		{"lease", "the tenant shall pay the landlord monthly", "Rental Agreement"},
		{"loan", "the borrower shall repay the lender", "Loan Agreement"},
		{"unknown", "the parties agree to cooperate", "General Agreement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := analyzer.Analyze(context.Background(), []byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.ContractType)
		})
	}
}

func TestSeverityForScore(t *testing.T) {
	tests := []struct {
		score int
		want  model.Severity
	}{
		{0, model.SeverityLow},
		{24, model.SeverityLow},
		{25, model.SeverityMedium},
		{49, model.SeverityMedium},
		{50, model.SeverityHigh},
		{74, model.SeverityHigh},
		{75, model.SeverityCritical},
		{100, model.SeverityCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, severityForScore(tt.score), "score %d", tt.score)
	}
}

func TestAnalyzeScoreIsCapped(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	// Every risk phrase, no standard clauses.
	var b strings.Builder
	for _, risk := range riskSignals {
		b.WriteString(risk.phrase)
		b.WriteString(". ")
	}

	report, err := analyzer.Analyze(context.Background(), []byte(b.String()))
	require.NoError(t, err)
	assert.LessOrEqual(t, report.RiskScore, 100)
	assert.Equal(t, model.SeverityCritical, report.Severity)
}

func TestAnalyzeConfidenceTracksDocumentLength(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	short, err := analyzer.Analyze(context.Background(), []byte("short nda"))
	require.NoError(t, err)
	assert.Equal(t, 40, short.AIConfidenceScore)

	long, err := analyzer.Analyze(context.Background(), []byte(strings.Repeat("agreement terms and conditions ", 50)))
	require.NoError(t, err)
	assert.Equal(t, 85, long.AIConfidenceScore)
}
