package advisor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/iam-atlas/pkg/models/store"
)

// ErrNotFound is returned when no artifact exists for the requested
// (upload, policy) pair.
var ErrNotFound = errors.New("advisor artifact not found")

// Store persists advisor artifacts. Each artifact kind is keyed by
// (upload_id, policy_id); saving again replaces the payload in place and
// refreshes updated_at while keeping the original created_at.
type Store interface {
	SaveRecommendation(ctx context.Context, rec store.Recommendation) error
	GetRecommendation(ctx context.Context, uploadID, policyID string) (store.Recommendation, error)
	SaveRecommendedPolicy(ctx context.Context, rp store.RecommendedPolicy) error
	GetRecommendedPolicy(ctx context.Context, uploadID, policyID string) (store.RecommendedPolicy, error)
	SaveAttackPath(ctx context.Context, ap store.AttackPath) error
	GetAttackPath(ctx context.Context, uploadID, policyID string) (store.AttackPath, error)
}

type advisorStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &advisorStore{db: db, now: time.Now}, nil
}

func (a *advisorStore) SaveRecommendation(ctx context.Context, rec store.Recommendation) error {
	now := a.now().UTC()
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO llm_recommendations (
			upload_id, policy_id, policy_name, recommendations, rationale, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (upload_id, policy_id) DO UPDATE SET
			policy_name = excluded.policy_name,
			recommendations = excluded.recommendations,
			rationale = excluded.rationale,
			updated_at = excluded.updated_at`,
		rec.UploadID, rec.PolicyID, rec.PolicyName,
		[]byte(rec.Recommendations), rec.Rationale, now, now,
	)
	if err != nil {
		return fmt.Errorf("save recommendation: %w", err)
	}
	return nil
}

func (a *advisorStore) GetRecommendation(ctx context.Context, uploadID, policyID string) (store.Recommendation, error) {
	var rec store.Recommendation
	var payload []byte
	err := a.db.QueryRowContext(ctx, `
		SELECT upload_id, policy_id, policy_name, recommendations, rationale, created_at, updated_at
		FROM llm_recommendations WHERE upload_id = ? AND policy_id = ?`,
		uploadID, policyID).
		Scan(&rec.UploadID, &rec.PolicyID, &rec.PolicyName, &payload,
			&rec.Rationale, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Recommendation{}, ErrNotFound
	}
	if err != nil {
		return store.Recommendation{}, fmt.Errorf("get recommendation: %w", err)
	}
	rec.Recommendations = payload
	return rec, nil
}

func (a *advisorStore) SaveRecommendedPolicy(ctx context.Context, rp store.RecommendedPolicy) error {
	now := a.now().UTC()
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO recommended_policies (
			upload_id, policy_id, policy_name, policy_document, explanation, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (upload_id, policy_id) DO UPDATE SET
			policy_name = excluded.policy_name,
			policy_document = excluded.policy_document,
			explanation = excluded.explanation,
			updated_at = excluded.updated_at`,
		rp.UploadID, rp.PolicyID, rp.PolicyName,
		[]byte(rp.PolicyDocument), rp.Explanation, now, now,
	)
	if err != nil {
		return fmt.Errorf("save recommended policy: %w", err)
	}
	return nil
}

func (a *advisorStore) GetRecommendedPolicy(ctx context.Context, uploadID, policyID string) (store.RecommendedPolicy, error) {
	var rp store.RecommendedPolicy
	var payload []byte
	err := a.db.QueryRowContext(ctx, `
		SELECT upload_id, policy_id, policy_name, policy_document, explanation, created_at, updated_at
		FROM recommended_policies WHERE upload_id = ? AND policy_id = ?`,
		uploadID, policyID).
		Scan(&rp.UploadID, &rp.PolicyID, &rp.PolicyName, &payload,
			&rp.Explanation, &rp.CreatedAt, &rp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.RecommendedPolicy{}, ErrNotFound
	}
	if err != nil {
		return store.RecommendedPolicy{}, fmt.Errorf("get recommended policy: %w", err)
	}
	rp.PolicyDocument = payload
	return rp, nil
}

func (a *advisorStore) SaveAttackPath(ctx context.Context, ap store.AttackPath) error {
	now := a.now().UTC()
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO attack_paths (
			upload_id, policy_id, policy_name, attack_scenarios, impact_assessment, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (upload_id, policy_id) DO UPDATE SET
			policy_name = excluded.policy_name,
			attack_scenarios = excluded.attack_scenarios,
			impact_assessment = excluded.impact_assessment,
			updated_at = excluded.updated_at`,
		ap.UploadID, ap.PolicyID, ap.PolicyName,
		[]byte(ap.AttackScenarios), ap.ImpactAssessment, now, now,
	)
	if err != nil {
		return fmt.Errorf("save attack path: %w", err)
	}
	return nil
}

func (a *advisorStore) GetAttackPath(ctx context.Context, uploadID, policyID string) (store.AttackPath, error) {
	var ap store.AttackPath
	var payload []byte
	err := a.db.QueryRowContext(ctx, `
		SELECT upload_id, policy_id, policy_name, attack_scenarios, impact_assessment, created_at, updated_at
		FROM attack_paths WHERE upload_id = ? AND policy_id = ?`,
		uploadID, policyID).
		Scan(&ap.UploadID, &ap.PolicyID, &ap.PolicyName, &payload,
			&ap.ImpactAssessment, &ap.CreatedAt, &ap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.AttackPath{}, ErrNotFound
	}
	if err != nil {
		return store.AttackPath{}, fmt.Errorf("get attack path: %w", err)
	}
	ap.AttackScenarios = payload
	return ap, nil
}
