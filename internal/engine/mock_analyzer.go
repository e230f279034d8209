package engine

import (
	"context"
	"sync"

	"github.com/chitragupt/chitragupt/internal/model"
)

// MockAnalyzer is a test implementation of the Analyzer interface.
// It returns a fixed report and records every call.
type MockAnalyzer struct {
	Report *model.AnalysisReport
	Err    error
	calls  [][]byte
	mu     sync.Mutex
}

// NewMockAnalyzer creates a mock analyzer returning a plausible report.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{
		Report: &model.AnalysisReport{
			ContractType:      "Service Agreement",
			Severity:          model.SeverityMedium,
			Summary:           []string{"Vendor provides support services to Acme Corp."},
			SanitizedSummary:  []string{"Vendor provides support services to the client."},
			RiskAssessment:    []string{"Termination requires 90 days notice."},
			MissingClauses:    []string{"No limitation of liability clause found."},
			Recommendations:   []string{"Add a limitation of liability clause."},
			RiskScore:         42,
			AIConfidenceScore: 85,
		},
	}
}

// Analyze returns the configured report or error.
func (m *MockAnalyzer) Analyze(_ context.Context, document []byte) (*model.AnalysisReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, document)
	if m.Err != nil {
		return nil, m.Err
	}

	report := *m.Report
	return &report, nil
}

// CallCount returns how many times Analyze has been invoked.
func (m *MockAnalyzer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
