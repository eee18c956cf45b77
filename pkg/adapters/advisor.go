package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/de-tools/iam-atlas/pkg/models/store"
)

func MapAdvisorRequestApiToDomain(req api.AdvisorRequest) domain.PolicyContext {
	ctx := domain.PolicyContext{
		PolicyID:   req.Policy.PolicyID,
		PolicyName: req.Policy.PolicyName,
		Statements: req.Policy.Statements,
		OrgContext: req.OrganizationContext,
	}
	for _, f := range req.Policy.DetectedFlags {
		ctx.Flags = append(ctx.Flags, MapFlagApiToDomain(f))
	}
	return ctx
}

func MapRecommendationDomainToApi(r domain.Recommendation) api.Recommendation {
	items := r.Items
	if items == nil {
		items = []string{}
	}
	return api.Recommendation{
		UploadID:        r.UploadID,
		PolicyID:        r.PolicyID,
		PolicyName:      r.PolicyName,
		Recommendations: items,
		Rationale:       r.Rationale,
		CreatedAt:       formatTimestamp(r.CreatedAt),
		UpdatedAt:       formatTimestamp(r.UpdatedAt),
	}
}

func MapRecommendationDomainToStore(r domain.Recommendation) (store.Recommendation, error) {
	items, err := json.Marshal(r.Items)
	if err != nil {
		return store.Recommendation{}, fmt.Errorf("marshal recommendations: %w", err)
	}
	return store.Recommendation{
		UploadID:        r.UploadID,
		PolicyID:        r.PolicyID,
		PolicyName:      r.PolicyName,
		Recommendations: items,
		Rationale:       r.Rationale,
	}, nil
}

func MapRecommendationStoreToDomain(r store.Recommendation) domain.Recommendation {
	var items []string
	_ = json.Unmarshal(r.Recommendations, &items)
	return domain.Recommendation{
		UploadID:   r.UploadID,
		PolicyID:   r.PolicyID,
		PolicyName: r.PolicyName,
		Items:      items,
		Rationale:  r.Rationale,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func MapRecommendedPolicyDomainToApi(r domain.RecommendedPolicy) api.RecommendedPolicy {
	return api.RecommendedPolicy{
		UploadID:       r.UploadID,
		PolicyID:       r.PolicyID,
		PolicyName:     r.PolicyName,
		PolicyDocument: r.Document,
		Explanation:    r.Explanation,
		CreatedAt:      formatTimestamp(r.CreatedAt),
		UpdatedAt:      formatTimestamp(r.UpdatedAt),
	}
}

func MapRecommendedPolicyDomainToStore(r domain.RecommendedPolicy) (store.RecommendedPolicy, error) {
	doc, err := json.Marshal(r.Document)
	if err != nil {
		return store.RecommendedPolicy{}, fmt.Errorf("marshal policy document: %w", err)
	}
	return store.RecommendedPolicy{
		UploadID:       r.UploadID,
		PolicyID:       r.PolicyID,
		PolicyName:     r.PolicyName,
		PolicyDocument: doc,
		Explanation:    r.Explanation,
	}, nil
}

func MapRecommendedPolicyStoreToDomain(r store.RecommendedPolicy) domain.RecommendedPolicy {
	var doc map[string]any
	_ = json.Unmarshal(r.PolicyDocument, &doc)
	return domain.RecommendedPolicy{
		UploadID:    r.UploadID,
		PolicyID:    r.PolicyID,
		PolicyName:  r.PolicyName,
		Document:    doc,
		Explanation: r.Explanation,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func MapAttackPathDomainToApi(a domain.AttackPath) api.AttackPath {
	scenarios := a.Scenarios
	if scenarios == nil {
		scenarios = []map[string]any{}
	}
	return api.AttackPath{
		UploadID:         a.UploadID,
		PolicyID:         a.PolicyID,
		PolicyName:       a.PolicyName,
		AttackScenarios:  scenarios,
		ImpactAssessment: a.ImpactAssessment,
		CreatedAt:        formatTimestamp(a.CreatedAt),
		UpdatedAt:        formatTimestamp(a.UpdatedAt),
	}
}

func MapAttackPathDomainToStore(a domain.AttackPath) (store.AttackPath, error) {
	scenarios, err := json.Marshal(a.Scenarios)
	if err != nil {
		return store.AttackPath{}, fmt.Errorf("marshal attack scenarios: %w", err)
	}
	return store.AttackPath{
		UploadID:         a.UploadID,
		PolicyID:         a.PolicyID,
		PolicyName:       a.PolicyName,
		AttackScenarios:  scenarios,
		ImpactAssessment: a.ImpactAssessment,
	}, nil
}

func MapAttackPathStoreToDomain(a store.AttackPath) domain.AttackPath {
	var scenarios []map[string]any
	_ = json.Unmarshal(a.AttackScenarios, &scenarios)
	return domain.AttackPath{
		UploadID:         a.UploadID,
		PolicyID:         a.PolicyID,
		PolicyName:       a.PolicyName,
		Scenarios:        scenarios,
		ImpactAssessment: a.ImpactAssessment,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
