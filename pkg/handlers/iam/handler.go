package iam

import (
	"errors"
	"net/http"

	"github.com/de-tools/iam-atlas/pkg/adapters"
	"github.com/de-tools/iam-atlas/pkg/handlers/respond"
	"github.com/de-tools/iam-atlas/pkg/services/analysis"
	"github.com/de-tools/iam-atlas/pkg/services/inventory"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	explorer inventory.Explorer
}

func NewHandler(explorer inventory.Explorer) *Handler {
	return &Handler{explorer: explorer}
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	user, err := h.explorer.GetUser(ctx, id)
	if h.lookupFailed(w, r, err, "User not found") {
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapUserDomainToApi(user))
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	role, err := h.explorer.GetRole(ctx, id)
	if h.lookupFailed(w, r, err, "Role not found") {
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapRoleDomainToApi(role))
}

func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	policy, err := h.explorer.GetPolicy(ctx, id)
	if h.lookupFailed(w, r, err, "Policy not found") {
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapPolicyDomainToApi(policy))
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	group, err := h.explorer.GetGroup(ctx, id)
	if h.lookupFailed(w, r, err, "Group not found") {
		return
	}
	respond.JSON(w, r, http.StatusOK, adapters.MapGroupDomainToApi(group))
}

// GetPolicyAnalysis runs the full rule catalog against one policy's default
// version and returns the findings.
func (h *Handler) GetPolicyAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	policy, err := h.explorer.GetPolicy(ctx, id)
	if h.lookupFailed(w, r, err, "Policy not found") {
		return
	}

	result := analysis.AnalyzePolicy(policy)
	respond.JSON(w, r, http.StatusOK, adapters.MapPolicyAnalysisDomainToApi(result))
}

// GetSummary aggregates findings across every policy in the current upload.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	policies, err := h.explorer.CurrentPolicies(ctx)
	if errors.Is(err, inventory.ErrNoCurrentUpload) {
		respond.Error(w, r, http.StatusNotFound, "No upload available")
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to load policies for summary")
		respond.Error(w, r, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	summary := analysis.Summarize(policies)
	respond.JSON(w, r, http.StatusOK, adapters.MapSummaryDomainToApi(summary))
}

func (h *Handler) lookupFailed(w http.ResponseWriter, r *http.Request, err error, notFound string) bool {
	if err == nil {
		return false
	}
	logger := zerolog.Ctx(r.Context())

	switch {
	case errors.Is(err, inventory.ErrEntityNotFound):
		respond.Error(w, r, http.StatusNotFound, notFound)
	case errors.Is(err, inventory.ErrNoCurrentUpload):
		respond.Error(w, r, http.StatusNotFound, "No upload available")
	default:
		logger.Error().Err(err).Msg("entity lookup failed")
		respond.Error(w, r, http.StatusInternalServerError, "lookup failed")
	}
	return true
}
