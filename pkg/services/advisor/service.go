package advisor

import (
	"context"
	"fmt"

	"github.com/de-tools/iam-atlas/pkg/adapters"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
	advisorstore "github.com/de-tools/iam-atlas/pkg/store/sqlite/advisor"
)

// ErrNotFound mirrors the store sentinel so handlers do not need to import
// the store package.
var ErrNotFound = advisorstore.ErrNotFound

// Service generates and persists advisor artifacts. Generate* calls the
// model without touching storage; Regenerate* generates and stores the
// result under (uploadID, policy id) in one step.
type Service interface {
	GenerateRecommendation(ctx context.Context, pc domain.PolicyContext) (domain.Recommendation, error)
	GetRecommendation(ctx context.Context, uploadID, policyID string) (domain.Recommendation, error)
	PersistRecommendation(ctx context.Context, rec domain.Recommendation) (domain.Recommendation, error)
	RegenerateRecommendation(ctx context.Context, uploadID string, pc domain.PolicyContext) (domain.Recommendation, error)

	GenerateRecommendedPolicy(ctx context.Context, pc domain.PolicyContext) (domain.RecommendedPolicy, error)
	GetRecommendedPolicy(ctx context.Context, uploadID, policyID string) (domain.RecommendedPolicy, error)
	PersistRecommendedPolicy(ctx context.Context, rp domain.RecommendedPolicy) (domain.RecommendedPolicy, error)
	RegenerateRecommendedPolicy(ctx context.Context, uploadID string, pc domain.PolicyContext) (domain.RecommendedPolicy, error)

	GenerateAttackPath(ctx context.Context, pc domain.PolicyContext) (domain.AttackPath, error)
	GetAttackPath(ctx context.Context, uploadID, policyID string) (domain.AttackPath, error)
	PersistAttackPath(ctx context.Context, ap domain.AttackPath) (domain.AttackPath, error)
	RegenerateAttackPath(ctx context.Context, uploadID string, pc domain.PolicyContext) (domain.AttackPath, error)
}

type service struct {
	generator Generator
	store     advisorstore.Store
}

func NewService(generator Generator, store advisorstore.Store) Service {
	return &service{generator: generator, store: store}
}

func (s *service) GenerateRecommendation(ctx context.Context, pc domain.PolicyContext) (domain.Recommendation, error) {
	text, err := s.generator.Generate(ctx, buildRecommendationPrompt(pc))
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("generate recommendation: %w", err)
	}
	items, rationale := parseRecommendations(text)
	return domain.Recommendation{
		PolicyID:   pc.PolicyID,
		PolicyName: pc.PolicyName,
		Items:      items,
		Rationale:  rationale,
	}, nil
}

func (s *service) GetRecommendation(ctx context.Context, uploadID, policyID string) (domain.Recommendation, error) {
	row, err := s.store.GetRecommendation(ctx, uploadID, policyID)
	if err != nil {
		return domain.Recommendation{}, err
	}
	return adapters.MapRecommendationStoreToDomain(row), nil
}

func (s *service) PersistRecommendation(ctx context.Context, rec domain.Recommendation) (domain.Recommendation, error) {
	row, err := adapters.MapRecommendationDomainToStore(rec)
	if err != nil {
		return domain.Recommendation{}, err
	}
	if err := s.store.SaveRecommendation(ctx, row); err != nil {
		return domain.Recommendation{}, err
	}
	return s.GetRecommendation(ctx, rec.UploadID, rec.PolicyID)
}

func (s *service) RegenerateRecommendation(ctx context.Context, uploadID string, pc domain.PolicyContext) (domain.Recommendation, error) {
	rec, err := s.GenerateRecommendation(ctx, pc)
	if err != nil {
		return domain.Recommendation{}, err
	}
	rec.UploadID = uploadID
	return s.PersistRecommendation(ctx, rec)
}

func (s *service) GenerateRecommendedPolicy(ctx context.Context, pc domain.PolicyContext) (domain.RecommendedPolicy, error) {
	text, err := s.generator.Generate(ctx, buildRecommendedPolicyPrompt(pc))
	if err != nil {
		return domain.RecommendedPolicy{}, fmt.Errorf("generate recommended policy: %w", err)
	}
	doc, explanation, err := parseRecommendedPolicy(text)
	if err != nil {
		return domain.RecommendedPolicy{}, fmt.Errorf("parse recommended policy: %w", err)
	}
	return domain.RecommendedPolicy{
		PolicyID:    pc.PolicyID,
		PolicyName:  pc.PolicyName,
		Document:    doc,
		Explanation: explanation,
	}, nil
}

func (s *service) GetRecommendedPolicy(ctx context.Context, uploadID, policyID string) (domain.RecommendedPolicy, error) {
	row, err := s.store.GetRecommendedPolicy(ctx, uploadID, policyID)
	if err != nil {
		return domain.RecommendedPolicy{}, err
	}
	return adapters.MapRecommendedPolicyStoreToDomain(row), nil
}

func (s *service) PersistRecommendedPolicy(ctx context.Context, rp domain.RecommendedPolicy) (domain.RecommendedPolicy, error) {
	row, err := adapters.MapRecommendedPolicyDomainToStore(rp)
	if err != nil {
		return domain.RecommendedPolicy{}, err
	}
	if err := s.store.SaveRecommendedPolicy(ctx, row); err != nil {
		return domain.RecommendedPolicy{}, err
	}
	return s.GetRecommendedPolicy(ctx, rp.UploadID, rp.PolicyID)
}

func (s *service) RegenerateRecommendedPolicy(ctx context.Context, uploadID string, pc domain.PolicyContext) (domain.RecommendedPolicy, error) {
	rp, err := s.GenerateRecommendedPolicy(ctx, pc)
	if err != nil {
		return domain.RecommendedPolicy{}, err
	}
	rp.UploadID = uploadID
	return s.PersistRecommendedPolicy(ctx, rp)
}

func (s *service) GenerateAttackPath(ctx context.Context, pc domain.PolicyContext) (domain.AttackPath, error) {
	text, err := s.generator.Generate(ctx, buildAttackPathPrompt(pc))
	if err != nil {
		return domain.AttackPath{}, fmt.Errorf("generate attack path: %w", err)
	}
	scenarios, impact := parseAttackPath(text)
	return domain.AttackPath{
		PolicyID:         pc.PolicyID,
		PolicyName:       pc.PolicyName,
		Scenarios:        scenarios,
		ImpactAssessment: impact,
	}, nil
}

func (s *service) GetAttackPath(ctx context.Context, uploadID, policyID string) (domain.AttackPath, error) {
	row, err := s.store.GetAttackPath(ctx, uploadID, policyID)
	if err != nil {
		return domain.AttackPath{}, err
	}
	return adapters.MapAttackPathStoreToDomain(row), nil
}

func (s *service) PersistAttackPath(ctx context.Context, ap domain.AttackPath) (domain.AttackPath, error) {
	row, err := adapters.MapAttackPathDomainToStore(ap)
	if err != nil {
		return domain.AttackPath{}, err
	}
	if err := s.store.SaveAttackPath(ctx, row); err != nil {
		return domain.AttackPath{}, err
	}
	return s.GetAttackPath(ctx, ap.UploadID, ap.PolicyID)
}

func (s *service) RegenerateAttackPath(ctx context.Context, uploadID string, pc domain.PolicyContext) (domain.AttackPath, error) {
	ap, err := s.GenerateAttackPath(ctx, pc)
	if err != nil {
		return domain.AttackPath{}, err
	}
	ap.UploadID = uploadID
	return s.PersistAttackPath(ctx, ap)
}
