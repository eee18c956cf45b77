package advisor

import (
	"encoding/json"
	"fmt"
	"strings"
)

const maxRecommendations = 7

// parseRecommendations splits model output into bullet recommendations and a
// trailing rationale paragraph. When no bullets can be found the whole text
// becomes the rationale so the caller still gets something useful.
func parseRecommendations(text string) ([]string, string) {
	var recommendations []string
	var rationaleLines []string
	inRecs := true

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), "rationale") {
			inRecs = false
			continue
		}
		if inRecs && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")) {
			recommendations = append(recommendations, strings.TrimLeft(line, "-• "))
		} else if !inRecs {
			rationaleLines = append(rationaleLines, line)
		}
	}

	if len(recommendations) == 0 {
		rationale := strings.TrimSpace(text)
		if rationale == "" {
			rationale = "model did not return content"
		}
		return []string{}, rationale
	}
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations, strings.Join(rationaleLines, " ")
}

// parseRecommendedPolicy extracts the policy JSON and the explanation from a
// POLICY_JSON / EXPLANATION structured response, tolerating markdown code
// fences around the JSON.
func parseRecommendedPolicy(text string) (map[string]any, string, error) {
	jsonPart := text
	explanation := ""
	if idx := strings.Index(text, "EXPLANATION:"); idx >= 0 {
		jsonPart = text[:idx]
		explanation = strings.TrimSpace(text[idx+len("EXPLANATION:"):])
	}
	if idx := strings.Index(jsonPart, "POLICY_JSON:"); idx >= 0 {
		jsonPart = jsonPart[idx+len("POLICY_JSON:"):]
	}

	doc, err := extractJSONObject(jsonPart)
	if err != nil {
		// fallback: any object in the full response that looks like a policy
		doc, err = extractJSONObject(text)
		if err != nil || doc["Version"] == nil {
			return nil, "", fmt.Errorf("no valid policy JSON found in response")
		}
	}
	return doc, explanation, nil
}

// parseAttackPath extracts the attack_scenarios document from model output.
// Unparseable responses degrade into a single scenario wrapping the raw text.
func parseAttackPath(text string) ([]map[string]any, string) {
	if strings.Contains(text, "attack_scenarios") {
		doc, err := extractJSONObject(text)
		if err == nil {
			scenarios := toScenarioList(doc["attack_scenarios"])
			impact, _ := doc["impact_assessment"].(string)
			if scenarios != nil {
				return scenarios, impact
			}
		}
	}

	return []map[string]any{{
		"title":         "Attack Analysis",
		"description":   text,
		"prerequisites": "Valid AWS credentials with the analyzed policy permissions",
		"steps":         []any{},
		"impact":        "Potential security compromise based on policy permissions",
		"severity":      "MEDIUM",
	}}, "Unable to parse structured attack scenarios from model response"
}

// extractJSONObject decodes the outermost JSON object found in text.
func extractJSONObject(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found")
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &doc); err != nil {
		return nil, fmt.Errorf("decode JSON object: %w", err)
	}
	return doc, nil
}

func toScenarioList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	scenarios := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			scenarios = append(scenarios, m)
		}
	}
	return scenarios
}
