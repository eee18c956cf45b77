package api

// SecurityFlag is one catalog rule firing against one policy statement.
type SecurityFlag struct {
	Key            string `json:"key"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Statements     []int  `json:"statements"`
}

type PolicyAnalysis struct {
	PolicyID   string         `json:"policyId"`
	PolicyName string         `json:"policyName"`
	Flags      []SecurityFlag `json:"flags"`
	IsHighRisk bool           `json:"isHighRisk"`
}

type SecuritySummary struct {
	TotalPolicies      int `json:"totalPolicies"`
	HighRiskPolicies   int `json:"highRiskPolicies"`
	TotalSecurityFlags int `json:"totalSecurityFlags"`
	HighSeverityFlags  int `json:"highSeverityFlags"`
}
