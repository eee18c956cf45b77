package domain

import "time"

// PolicyContext is the input handed to the advisor: the policy's statements as
// they appear in the document plus the flags the analyzer raised against them.
type PolicyContext struct {
	PolicyID   string
	PolicyName string
	Statements []map[string]any
	Flags      []Finding
	OrgContext string
}

// Recommendation is an advisor-generated remediation list for one policy.
type Recommendation struct {
	UploadID   string
	PolicyID   string
	PolicyName string
	Items      []string
	Rationale  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecommendedPolicy is an advisor-generated replacement policy document.
// The document is opaque JSON; this system never validates or interprets it.
type RecommendedPolicy struct {
	UploadID    string
	PolicyID    string
	PolicyName  string
	Document    map[string]any
	Explanation string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AttackPath holds advisor-generated attack scenarios. Scenarios are kept as
// opaque JSON objects since their structure is owned by the generating model.
type AttackPath struct {
	UploadID         string
	PolicyID         string
	PolicyName       string
	Scenarios        []map[string]any
	ImpactAssessment string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
