package analysis

import (
	"testing"

	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_KeysAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(Catalog))
	for _, rule := range Catalog {
		assert.False(t, seen[rule.Key], "duplicate rule key %q", rule.Key)
		seen[rule.Key] = true
		assert.NotEmpty(t, rule.Title)
		assert.NotEmpty(t, rule.Description)
		assert.NotEmpty(t, rule.Recommendation)
		assert.NotNil(t, rule.match)
	}
}

func TestCatalog_CoOccurrenceRequiresAllActions(t *testing.T) {
	// lambda-privilege-escalation needs PassRole + CreateFunction + InvokeFunction;
	// two out of three must not fire it, but passrole-any still does.
	doc := map[string]any{
		"Statement": []any{allowStatement([]any{"iam:PassRole", "lambda:CreateFunction"}, nil)},
	}
	result := AnalyzePolicy(policyWithDoc(doc))
	assert.Equal(t, []string{"passrole-any"}, findingKeys(result.Findings))
}

func TestCatalog_AnyOfRulesFireOnEitherAction(t *testing.T) {
	tests := []struct {
		name   string
		action string
		key    string
	}{
		{name: "set default policy version", action: "iam:SetDefaultPolicyVersion", key: "policy-version-manipulation"},
		{name: "update login profile", action: "iam:UpdateLoginProfile", key: "login-profile-manipulation"},
		{name: "create login profile", action: "iam:CreateLoginProfile", key: "login-profile-manipulation"},
		{name: "attach role policy", action: "iam:AttachRolePolicy", key: "policy-attachment"},
		{name: "put group policy", action: "iam:PutGroupPolicy", key: "inline-policy-manipulation"},
		{name: "update assume role policy", action: "iam:UpdateAssumeRolePolicy", key: "assume-role-policy-update"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := map[string]any{"Statement": []any{allowStatement(tt.action, nil)}}
			result := AnalyzePolicy(policyWithDoc(doc))
			assert.Contains(t, findingKeys(result.Findings), tt.key)
		})
	}
}

func TestCatalog_WildcardActionMatchesExactly(t *testing.T) {
	// "s3:*" is broad but is neither "*" nor "iam:*"; the wildcard rules must
	// not fire on service wildcards outside IAM.
	doc := map[string]any{"Statement": []any{allowStatement("s3:*", nil)}}
	result := AnalyzePolicy(policyWithDoc(doc))
	assert.NotContains(t, findingKeys(result.Findings), "wildcard-permission")
	assert.NotContains(t, findingKeys(result.Findings), "wildcard-iam")
}

func TestCatalog_DataPipelineNeedsAllFourActions(t *testing.T) {
	full := []any{
		"iam:PassRole",
		"datapipeline:CreatePipeline",
		"datapipeline:PutPipelineDefinition",
		"datapipeline:ActivatePipeline",
	}
	doc := map[string]any{"Statement": []any{allowStatement(full, nil)}}
	result := AnalyzePolicy(policyWithDoc(doc))
	require.Contains(t, findingKeys(result.Findings), "datapipeline-privilege-escalation")

	partial := full[:3]
	doc = map[string]any{"Statement": []any{allowStatement(partial, nil)}}
	result = AnalyzePolicy(policyWithDoc(doc))
	assert.NotContains(t, findingKeys(result.Findings), "datapipeline-privilege-escalation")
}

func TestCatalog_SeverityAssignments(t *testing.T) {
	mediums := map[string]bool{
		"group-membership":           true,
		"lambda-code-update":         true,
		"glue-endpoint-manipulation": true,
	}
	for _, rule := range Catalog {
		if mediums[rule.Key] {
			assert.Equal(t, domain.SeverityMedium, rule.Severity, rule.Key)
		} else {
			assert.Equal(t, domain.SeverityHigh, rule.Severity, rule.Key)
		}
	}
}
