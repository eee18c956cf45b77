package advisor

import (
	"encoding/json"
	"strings"

	"github.com/de-tools/iam-atlas/pkg/models/domain"
)

const recommendationSystemPrompt = "You are a senior cloud security engineer. Given AWS IAM policy statements " +
	"and detected risky flags, produce specific remediation recommendations. " +
	"Favor least-privilege, resource scoping, and conditional constraints. " +
	"Return clear, concise bullet recommendations. Include a short rationale paragraph. " +
	"The recommendations should be formatted in markdown format for easy readability."

const recommendedPolicySystemPrompt = "You are a senior cloud security engineer. Given an AWS IAM policy with detected " +
	"security issues, generate an improved policy document that addresses the security " +
	"concerns while maintaining the necessary functionality. " +
	"Return a valid JSON policy document and a brief explanation of changes made. " +
	"Focus on least-privilege principles, resource scoping, and conditional constraints. " +
	"The policy should be production-ready and follow AWS IAM best practices."

const attackPathSystemPrompt = "You are a senior cloud security penetration tester. Given an AWS IAM policy with detected " +
	"security issues, generate realistic attack scenarios that demonstrate how a malicious actor " +
	"could exploit these permissions. For each scenario, provide:\n" +
	"1. Attack scenario description\n" +
	"2. Specific AWS CLI commands that would be used\n" +
	"3. Potential impact of the attack\n" +
	"4. Prerequisites for the attack\n\n" +
	"Focus on practical, real-world attack vectors that demonstrate the business impact. " +
	"Be specific about the AWS CLI commands and explain the attack chain step by step. " +
	"Consider privilege escalation, data exfiltration, resource manipulation, and lateral movement."

func buildRecommendationPrompt(pc domain.PolicyContext) string {
	ctx := map[string]any{
		"policy_name":          pc.PolicyName,
		"policy_id":            pc.PolicyID,
		"statements":           pc.Statements,
		"detected_flags":       flagSummaries(pc.Flags),
		"organization_context": pc.OrgContext,
	}
	return joinPrompt(
		recommendationSystemPrompt,
		"\nContext:",
		marshalContext(ctx),
		"\nOutput format:\n- recommendations: 3-7 bullets\n- rationale: 1 short paragraph",
	)
}

func buildRecommendedPolicyPrompt(pc domain.PolicyContext) string {
	ctx := map[string]any{
		"original_policy": map[string]any{
			"policy_name": pc.PolicyName,
			"policy_id":   pc.PolicyID,
			"statements":  pc.Statements,
		},
		"detected_security_issues": flagSummaries(pc.Flags),
		"organization_context":     pc.OrgContext,
	}
	return joinPrompt(
		recommendedPolicySystemPrompt,
		"\nOriginal Policy Context:",
		marshalContext(ctx),
		"\nOutput format:\n"+
			"POLICY_JSON:\n"+
			"{\n"+
			"  \"Version\": \"2012-10-17\",\n"+
			"  \"Statement\": [...]\n"+
			"}\n\n"+
			"EXPLANATION:\n"+
			"Brief explanation of changes made and security improvements.",
	)
}

func buildAttackPathPrompt(pc domain.PolicyContext) string {
	ctx := map[string]any{
		"policy_context": map[string]any{
			"policy_name": pc.PolicyName,
			"policy_id":   pc.PolicyID,
			"statements":  pc.Statements,
		},
		"detected_security_issues": flagSummaries(pc.Flags),
		"organization_context":     pc.OrgContext,
	}
	return joinPrompt(
		attackPathSystemPrompt,
		"\nPolicy Context:",
		marshalContext(ctx),
		"\nOutput format (JSON):\n"+
			"{\n"+
			"  \"attack_scenarios\": [\n"+
			"    {\n"+
			"      \"title\": \"Attack scenario name\",\n"+
			"      \"description\": \"Detailed description of the attack\",\n"+
			"      \"prerequisites\": \"What the attacker needs\",\n"+
			"      \"steps\": [\n"+
			"        {\n"+
			"          \"step\": 1,\n"+
			"          \"description\": \"Step description\",\n"+
			"          \"aws_cli_command\": \"aws command here\",\n"+
			"          \"explanation\": \"Why this command works\"\n"+
			"        }\n"+
			"      ],\n"+
			"      \"impact\": \"Business impact description\",\n"+
			"      \"severity\": \"HIGH|MEDIUM|LOW\"\n"+
			"    }\n"+
			"  ],\n"+
			"  \"impact_assessment\": \"Overall security impact summary\"\n"+
			"}",
	)
}

func flagSummaries(flags []domain.Finding) []map[string]any {
	out := make([]map[string]any, 0, len(flags))
	for _, f := range flags {
		out = append(out, map[string]any{
			"key":         f.Key,
			"severity":    string(f.Severity),
			"title":       f.Title,
			"description": f.Description,
			"statements":  f.Statements,
		})
	}
	return out
}

func marshalContext(ctx map[string]any) string {
	raw, err := json.Marshal(ctx)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func joinPrompt(parts ...string) string {
	return strings.Join(parts, "\n")
}
