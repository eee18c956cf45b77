package analysis

import (
	"github.com/de-tools/iam-atlas/pkg/models/domain"
)

// statement is the normalized view of one policy statement that matchers see.
type statement struct {
	actions    map[string]bool
	actionList []string
	resources  []string
}

// AnalyzePolicy evaluates every catalog rule against every Allow statement of
// the policy's default document and returns the accumulated findings.
//
// The function is pure and total: it never fails. A policy with no default
// version, no document, or a malformed document analyzes as risk-free.
// Deny statements are skipped entirely; explicit denies elsewhere that would
// override an Allow are not considered. That is a known limitation of the
// static per-statement model, not a bug.
func AnalyzePolicy(p domain.Policy) domain.PolicyAnalysis {
	result := domain.PolicyAnalysis{
		PolicyID:   p.PolicyID,
		PolicyName: p.PolicyName,
		Findings:   []domain.Finding{},
	}

	doc := p.DefaultDocument()
	if doc == nil {
		return result
	}

	// Statement indices refer to positions in the normalized sequence, so
	// non-object entries are skipped in place rather than compacted away.
	for idx, entry := range normalizeStatements(doc["Statement"]) {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if effect, _ := raw["Effect"].(string); effect != "Allow" {
			continue
		}

		stmt := statement{
			actionList: toStringList(raw["Action"]),
			resources:  toStringList(raw["Resource"]),
		}
		stmt.actions = make(map[string]bool, len(stmt.actionList))
		for _, a := range stmt.actionList {
			stmt.actions[a] = true
		}

		for _, rule := range Catalog {
			if !rule.match.matches(stmt) {
				continue
			}
			result.Findings = append(result.Findings, domain.Finding{
				Key:            rule.Key,
				Severity:       rule.Severity,
				Title:          rule.Title,
				Description:    rule.Description,
				Recommendation: rule.Recommendation,
				Statements:     []int{idx},
			})
			if rule.Severity == domain.SeverityHigh {
				result.HighRisk = true
			}
		}
	}

	return result
}

// AnalyzeAll maps AnalyzePolicy over the collection, preserving input order.
func AnalyzeAll(policies []domain.Policy) []domain.PolicyAnalysis {
	results := make([]domain.PolicyAnalysis, 0, len(policies))
	for _, p := range policies {
		results = append(results, AnalyzePolicy(p))
	}
	return results
}

// Summarize reduces the collection to the dashboard counts. The summary is
// recomputed from scratch on every call; nothing is cached between calls.
func Summarize(policies []domain.Policy) domain.SecuritySummary {
	summary := domain.SecuritySummary{TotalPolicies: len(policies)}
	for _, r := range AnalyzeAll(policies) {
		if r.HighRisk {
			summary.HighRiskPolicies++
		}
		summary.TotalFindings += len(r.Findings)
		for _, f := range r.Findings {
			if f.Severity == domain.SeverityHigh {
				summary.HighSeverityFindings++
			}
		}
	}
	return summary
}

// normalizeStatements accepts the Statement field in either shape IAM permits:
// a single statement object or a sequence. Anything else yields no statements.
func normalizeStatements(v any) []any {
	switch s := v.(type) {
	case map[string]any:
		return []any{s}
	case []any:
		return s
	default:
		return nil
	}
}

// toStringList normalizes a string-or-sequence field to a string slice,
// silently dropping non-string entries.
func toStringList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
