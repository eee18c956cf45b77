package advisor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/iam-atlas/pkg/adapters"
	"github.com/de-tools/iam-atlas/pkg/handlers/respond"
	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/de-tools/iam-atlas/pkg/services/advisor"
	"github.com/de-tools/iam-atlas/pkg/services/inventory"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const disabledMessage = "LLM is disabled by configuration"

type Handler struct {
	service  advisor.Service
	explorer inventory.Explorer
	disabled bool
}

func NewHandler(service advisor.Service, explorer inventory.Explorer, disabled bool) *Handler {
	return &Handler{service: service, explorer: explorer, disabled: disabled}
}

// Disabled gates every advisor route behind the llm_disabled flag.
func (h *Handler) Disabled(w http.ResponseWriter, r *http.Request) bool {
	if h.disabled {
		respond.Error(w, r, http.StatusServiceUnavailable, disabledMessage)
		return true
	}
	return false
}

func (h *Handler) GenerateRecommendation(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	pc, ok := h.decodeContext(w, r)
	if !ok {
		return
	}

	rec, err := h.service.GenerateRecommendation(r.Context(), pc)
	if err != nil {
		h.generationFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRecommendationDomainToApi(rec))
}

func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	uploadID := chi.URLParam(r, "uploadID")
	policyID := chi.URLParam(r, "policyID")

	rec, err := h.service.GetRecommendation(r.Context(), uploadID, policyID)
	if errors.Is(err, advisor.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, "Recommendation not found")
		return
	}
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRecommendationDomainToApi(rec))
}

func (h *Handler) PersistRecommendation(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	var req api.PersistRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.service.PersistRecommendation(r.Context(), domain.Recommendation{
		UploadID:   req.UploadID,
		PolicyID:   req.PolicyID,
		PolicyName: req.PolicyName,
		Items:      req.Recommendations,
		Rationale:  req.Rationale,
	})
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRecommendationDomainToApi(rec))
}

func (h *Handler) RegenerateRecommendation(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	pc, ok := h.decodeContext(w, r)
	if !ok {
		return
	}
	uploadID, ok := h.currentUpload(w, r)
	if !ok {
		return
	}

	rec, err := h.service.RegenerateRecommendation(r.Context(), uploadID, pc)
	if err != nil {
		h.generationFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRecommendationDomainToApi(rec))
}

func (h *Handler) GenerateRecommendedPolicy(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	pc, ok := h.decodeContext(w, r)
	if !ok {
		return
	}

	rp, err := h.service.GenerateRecommendedPolicy(r.Context(), pc)
	if err != nil {
		h.generationFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRecommendedPolicyDomainToApi(rp))
}

func (h *Handler) GetRecommendedPolicy(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	uploadID := chi.URLParam(r, "uploadID")
	policyID := chi.URLParam(r, "policyID")

	rp, err := h.service.GetRecommendedPolicy(r.Context(), uploadID, policyID)
	if errors.Is(err, advisor.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, "Recommended policy not found")
		return
	}
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRecommendedPolicyDomainToApi(rp))
}

func (h *Handler) PersistRecommendedPolicy(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	var req api.PersistRecommendedPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	rp, err := h.service.PersistRecommendedPolicy(r.Context(), domain.RecommendedPolicy{
		UploadID:    req.UploadID,
		PolicyID:    req.PolicyID,
		PolicyName:  req.PolicyName,
		Document:    req.PolicyDocument,
		Explanation: req.Explanation,
	})
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRecommendedPolicyDomainToApi(rp))
}

func (h *Handler) RegenerateRecommendedPolicy(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	pc, ok := h.decodeContext(w, r)
	if !ok {
		return
	}
	uploadID, ok := h.currentUpload(w, r)
	if !ok {
		return
	}

	rp, err := h.service.RegenerateRecommendedPolicy(r.Context(), uploadID, pc)
	if err != nil {
		h.generationFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRecommendedPolicyDomainToApi(rp))
}

func (h *Handler) GenerateAttackPath(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	pc, ok := h.decodeContext(w, r)
	if !ok {
		return
	}

	ap, err := h.service.GenerateAttackPath(r.Context(), pc)
	if err != nil {
		h.generationFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapAttackPathDomainToApi(ap))
}

func (h *Handler) GetAttackPath(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	uploadID := chi.URLParam(r, "uploadID")
	policyID := chi.URLParam(r, "policyID")

	ap, err := h.service.GetAttackPath(r.Context(), uploadID, policyID)
	if errors.Is(err, advisor.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, "Attack path not found")
		return
	}
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapAttackPathDomainToApi(ap))
}

func (h *Handler) PersistAttackPath(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	var req api.PersistAttackPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ap, err := h.service.PersistAttackPath(r.Context(), domain.AttackPath{
		UploadID:         req.UploadID,
		PolicyID:         req.PolicyID,
		PolicyName:       req.PolicyName,
		Scenarios:        req.AttackScenarios,
		ImpactAssessment: req.ImpactAssessment,
	})
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapAttackPathDomainToApi(ap))
}

func (h *Handler) RegenerateAttackPath(w http.ResponseWriter, r *http.Request) {
	if h.Disabled(w, r) {
		return
	}
	pc, ok := h.decodeContext(w, r)
	if !ok {
		return
	}
	uploadID, ok := h.currentUpload(w, r)
	if !ok {
		return
	}

	ap, err := h.service.RegenerateAttackPath(r.Context(), uploadID, pc)
	if err != nil {
		h.generationFailed(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapAttackPathDomainToApi(ap))
}

func (h *Handler) decodeContext(w http.ResponseWriter, r *http.Request) (domain.PolicyContext, bool) {
	var req api.AdvisorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid request body")
		return domain.PolicyContext{}, false
	}
	return adapters.MapAdvisorRequestApiToDomain(req), true
}

func (h *Handler) currentUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := h.explorer.CurrentUploadID(r.Context())
	if err != nil {
		h.lookupFailed(w, r, err)
		return "", false
	}
	if id == "" {
		respond.Error(w, r, http.StatusNotFound, "No upload available")
		return "", false
	}
	return id, true
}

func (h *Handler) generationFailed(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("advisor generation failed")
	respond.Error(w, r, http.StatusInternalServerError, err.Error())
}

func (h *Handler) lookupFailed(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("advisor storage operation failed")
	respond.Error(w, r, http.StatusInternalServerError, "advisor storage operation failed")
}
