package api

// PolicyContext is the client-supplied context for advisor generation:
// the policy's raw statements plus the flags detected by the analyzer.
type PolicyContext struct {
	PolicyName    string           `json:"policy_name"`
	PolicyID      string           `json:"policy_id"`
	Statements    []map[string]any `json:"statements"`
	DetectedFlags []SecurityFlag   `json:"detected_flags"`
}

type AdvisorRequest struct {
	Policy              PolicyContext `json:"policy"`
	OrganizationContext string        `json:"organization_context,omitempty"`
}

type Recommendation struct {
	UploadID        string   `json:"upload_id"`
	PolicyID        string   `json:"policy_id"`
	PolicyName      string   `json:"policy_name"`
	Recommendations []string `json:"recommendations"`
	Rationale       string   `json:"rationale,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
}

type RecommendedPolicy struct {
	UploadID       string         `json:"upload_id"`
	PolicyID       string         `json:"policy_id"`
	PolicyName     string         `json:"policy_name"`
	PolicyDocument map[string]any `json:"policy_document"`
	Explanation    string         `json:"explanation,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	UpdatedAt      string         `json:"updated_at,omitempty"`
}

type AttackPath struct {
	UploadID         string           `json:"upload_id"`
	PolicyID         string           `json:"policy_id"`
	PolicyName       string           `json:"policy_name"`
	AttackScenarios  []map[string]any `json:"attack_scenarios"`
	ImpactAssessment string           `json:"impact_assessment,omitempty"`
	CreatedAt        string           `json:"created_at,omitempty"`
	UpdatedAt        string           `json:"updated_at,omitempty"`
}

type PersistRecommendationRequest struct {
	UploadID        string   `json:"upload_id"`
	PolicyID        string   `json:"policy_id"`
	PolicyName      string   `json:"policy_name"`
	Recommendations []string `json:"recommendations"`
	Rationale       string   `json:"rationale,omitempty"`
}

type PersistRecommendedPolicyRequest struct {
	UploadID       string         `json:"upload_id"`
	PolicyID       string         `json:"policy_id"`
	PolicyName     string         `json:"policy_name"`
	PolicyDocument map[string]any `json:"policy_document"`
	Explanation    string         `json:"explanation,omitempty"`
}

type PersistAttackPathRequest struct {
	UploadID         string           `json:"upload_id"`
	PolicyID         string           `json:"policy_id"`
	PolicyName       string           `json:"policy_name"`
	AttackScenarios  []map[string]any `json:"attack_scenarios"`
	ImpactAssessment string           `json:"impact_assessment,omitempty"`
}

// RuntimeConfig is served to the UI so it can hide advisor features.
type RuntimeConfig struct {
	LLMDisabled bool `json:"llm_disabled"`
}
