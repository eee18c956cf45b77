package adapters

import (
	"time"

	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
)

func MapFindingDomainToApi(f domain.Finding) api.SecurityFlag {
	return api.SecurityFlag{
		Key:            f.Key,
		Severity:       string(f.Severity),
		Title:          f.Title,
		Description:    f.Description,
		Recommendation: f.Recommendation,
		Statements:     f.Statements,
	}
}

func MapFlagApiToDomain(f api.SecurityFlag) domain.Finding {
	return domain.Finding{
		Key:            f.Key,
		Severity:       domain.Severity(f.Severity),
		Title:          f.Title,
		Description:    f.Description,
		Recommendation: f.Recommendation,
		Statements:     f.Statements,
	}
}

func MapPolicyAnalysisDomainToApi(a domain.PolicyAnalysis) api.PolicyAnalysis {
	result := api.PolicyAnalysis{
		PolicyID:   a.PolicyID,
		PolicyName: a.PolicyName,
		Flags:      []api.SecurityFlag{},
		IsHighRisk: a.HighRisk,
	}
	for _, f := range a.Findings {
		result.Flags = append(result.Flags, MapFindingDomainToApi(f))
	}
	return result
}

func MapSummaryDomainToApi(s domain.SecuritySummary) api.SecuritySummary {
	return api.SecuritySummary{
		TotalPolicies:      s.TotalPolicies,
		HighRiskPolicies:   s.HighRiskPolicies,
		TotalSecurityFlags: s.TotalFindings,
		HighSeverityFlags:  s.HighSeverityFindings,
	}
}

func MapUploadDomainToApi(u domain.Upload) api.Upload {
	return api.Upload{
		ID:               u.ID,
		Name:             u.Name,
		OriginalFilename: u.OriginalFilename,
		UploadedAt:       u.UploadedAt,
		Size:             u.Size,
	}
}

// formatTimestamp renders persisted timestamps the way the API exposes them;
// zero times become empty strings so omitempty drops them.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
