package store

import (
	"encoding/json"
	"time"
)

// Advisor artifacts are keyed by (upload_id, policy_id) and upserted in place.

type Recommendation struct {
	UploadID        string
	PolicyID        string
	PolicyName      string
	Recommendations json.RawMessage
	Rationale       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type RecommendedPolicy struct {
	UploadID       string
	PolicyID       string
	PolicyName     string
	PolicyDocument json.RawMessage
	Explanation    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type AttackPath struct {
	UploadID         string
	PolicyID         string
	PolicyName       string
	AttackScenarios  json.RawMessage
	ImpactAssessment string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
