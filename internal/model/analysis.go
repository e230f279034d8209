package model

// Severity is the overall severity level of an analyzed document.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// AnalysisReport is the structured output of the analysis collaborator.
// It is stored once on the contract and never mutated afterwards.
//
// SanitizedSummary redacts PII, names, addresses and monetary values;
// it is the only part of the summary a review request may share with an
// auditor before acceptance.
type AnalysisReport struct {
	ContractType      string
	Severity          Severity
	Summary           []string
	SanitizedSummary  []string
	RiskAssessment    []string
	MissingClauses    []string
	Recommendations   []string
	RiskScore         int
	AIConfidenceScore int
}
