package domain

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Finding is one rule match against one statement of a policy document.
// Statements holds the zero-based indices of the affected statements in the
// normalized statement sequence; matching is per-statement today, so the slice
// always has one element, but multi-statement rules may populate more.
type Finding struct {
	Key            string
	Severity       Severity
	Title          string
	Description    string
	Recommendation string
	Statements     []int
}

// PolicyAnalysis is the full result of analyzing one policy's default document.
// HighRisk is true iff at least one finding is SeverityHigh.
type PolicyAnalysis struct {
	PolicyID   string
	PolicyName string
	Findings   []Finding
	HighRisk   bool
}

// SecuritySummary aggregates analysis results over a collection of policies.
type SecuritySummary struct {
	TotalPolicies        int
	HighRiskPolicies     int
	TotalFindings        int
	HighSeverityFindings int
}
