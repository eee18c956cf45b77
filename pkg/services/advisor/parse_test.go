package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendations(t *testing.T) {
	text := `Here is the analysis.
- Scope the Resource element to specific bucket ARNs
- Add a Condition limiting iam:PassRole to the EC2 service
• Replace the wildcard action with the specific calls the workload makes

Rationale:
The policy grants far more than the workload needs.
Tightening it reduces the blast radius of leaked credentials.`

	items, rationale := parseRecommendations(text)
	require.Len(t, items, 3)
	assert.Equal(t, "Scope the Resource element to specific bucket ARNs", items[0])
	assert.Equal(t, "Replace the wildcard action with the specific calls the workload makes", items[2])
	assert.Contains(t, rationale, "blast radius")
}

func TestParseRecommendations_CapsAtSeven(t *testing.T) {
	text := `- one
- two
- three
- four
- five
- six
- seven
- eight
- nine`

	items, _ := parseRecommendations(text)
	assert.Len(t, items, 7)
	assert.Equal(t, "seven", items[6])
}

func TestParseRecommendations_NoBulletsFallsBackToRationale(t *testing.T) {
	items, rationale := parseRecommendations("The policy looks risky but I cannot enumerate fixes.")
	assert.Empty(t, items)
	assert.Equal(t, "The policy looks risky but I cannot enumerate fixes.", rationale)

	items, rationale = parseRecommendations("   ")
	assert.Empty(t, items)
	assert.Equal(t, "model did not return content", rationale)
}

func TestParseRecommendedPolicy(t *testing.T) {
	text := `POLICY_JSON:
{
  "Version": "2012-10-17",
  "Statement": [{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "arn:aws:s3:::app-data/*"}]
}

EXPLANATION:
Replaced the wildcard resource with the application bucket.`

	doc, explanation, err := parseRecommendedPolicy(text)
	require.NoError(t, err)
	assert.Equal(t, "2012-10-17", doc["Version"])
	assert.Equal(t, "Replaced the wildcard resource with the application bucket.", explanation)
}

func TestParseRecommendedPolicy_CodeFences(t *testing.T) {
	text := "POLICY_JSON:\n```json\n{\"Version\": \"2012-10-17\", \"Statement\": []}\n```\nEXPLANATION:\nTightened it."

	doc, explanation, err := parseRecommendedPolicy(text)
	require.NoError(t, err)
	assert.Equal(t, "2012-10-17", doc["Version"])
	assert.Equal(t, "Tightened it.", explanation)
}

func TestParseRecommendedPolicy_BarePolicyFallback(t *testing.T) {
	text := `Here is the improved document: {"Version": "2012-10-17", "Statement": []}`

	doc, _, err := parseRecommendedPolicy(text)
	require.NoError(t, err)
	assert.Equal(t, "2012-10-17", doc["Version"])
}

func TestParseRecommendedPolicy_NoJSON(t *testing.T) {
	_, _, err := parseRecommendedPolicy("I cannot produce a policy for this input.")
	require.Error(t, err)
}

func TestParseAttackPath(t *testing.T) {
	text := `{
		"attack_scenarios": [
			{"title": "PassRole to EC2", "severity": "HIGH", "steps": []}
		],
		"impact_assessment": "Full account takeover is possible."
	}`

	scenarios, impact := parseAttackPath(text)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "PassRole to EC2", scenarios[0]["title"])
	assert.Equal(t, "Full account takeover is possible.", impact)
}

func TestParseAttackPath_UnstructuredFallback(t *testing.T) {
	scenarios, impact := parseAttackPath("An attacker could escalate privileges via PassRole.")
	require.Len(t, scenarios, 1)
	assert.Equal(t, "Attack Analysis", scenarios[0]["title"])
	assert.Contains(t, scenarios[0]["description"], "PassRole")
	assert.Equal(t, "MEDIUM", scenarios[0]["severity"])
	assert.Contains(t, impact, "Unable to parse")
}
