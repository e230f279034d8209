// Package analysis implements the analysis collaborator contract with a
// deterministic heuristic analyzer, so the binary works without any
// external AI service. The engine only depends on the Analyzer
// interface; swapping in a remote analyzer is a wiring change.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/chitragupt/chitragupt/internal/common"
	"github.com/chitragupt/chitragupt/internal/model"
)

// HeuristicAnalyzer scores a document by scanning for risk-bearing
// language and checking a standard clause checklist.
type HeuristicAnalyzer struct{}

// NewHeuristicAnalyzer creates a new heuristic analyzer.
func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

// Analyze produces an AnalysisReport for the document. It fails with
// ErrAnalysisUnavailable on empty or non-textual input; the caller may
// retry the whole upload.
func (a *HeuristicAnalyzer) Analyze(_ context.Context, document []byte) (*model.AnalysisReport, error) {
	text := strings.ToLower(string(document))
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty document", common.ErrAnalysisUnavailable)
	}

	report := &model.AnalysisReport{
		ContractType: detectContractType(text),
	}

	score := 0
	for _, risk := range riskSignals {
		if !strings.Contains(text, risk.phrase) {
			continue
		}
		score += risk.weight
		report.RiskAssessment = append(report.RiskAssessment, risk.finding)
	}

	for _, clause := range clauseChecklist {
		if containsAny(text, clause.markers) {
			report.Summary = append(report.Summary,
				fmt.Sprintf("Includes a %s clause.", clause.name))
			report.SanitizedSummary = append(report.SanitizedSummary,
				fmt.Sprintf("Includes a %s clause.", clause.name))
		} else {
			score += clause.missingWeight
			report.MissingClauses = append(report.MissingClauses,
				fmt.Sprintf("No %s clause found.", clause.name))
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Add a %s clause before signing.", clause.name))
		}
	}

	if score > 100 {
		score = 100
	}
	report.RiskScore = score
	report.Severity = severityForScore(score)

	// Confidence degrades on very short documents: there is less text
	// for the heuristics to trigger on.
	switch {
	case len(text) < 200:
		report.AIConfidenceScore = 40
	case len(text) < 1000:
		report.AIConfidenceScore = 65
	default:
		report.AIConfidenceScore = 85
	}

	if len(report.Summary) == 0 {
		report.Summary = []string{"No standard contract clauses were identified."}
		report.SanitizedSummary = []string{"No standard contract clauses were identified."}
	}

	return report, nil
}

func severityForScore(score int) model.Severity {
	switch {
	case score >= 75:
		return model.SeverityCritical
	case score >= 50:
		return model.SeverityHigh
	case score >= 25:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func detectContractType(text string) string {
	for _, ct := range contractTypes {
		if containsAny(text, ct.markers) {
			return ct.name
		}
	}
	return "General Agreement"
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
