package uploads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/iam-atlas/pkg/adapters"
	"github.com/de-tools/iam-atlas/pkg/handlers/respond"
	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/services/inventory"
	uploadstore "github.com/de-tools/iam-atlas/pkg/store/sqlite/uploads"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	explorer inventory.Explorer
}

func NewHandler(explorer inventory.Explorer) *Handler {
	return &Handler{explorer: explorer}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	account := adapters.MapAccountDataApiToDomain(req.Data)
	upload, err := h.explorer.CreateUpload(ctx, req.Name, req.OriginalFilename, req.Size, account)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create upload")
		respond.Error(w, r, http.StatusBadRequest, "failed to create upload")
		return
	}

	respond.JSON(w, r, http.StatusOK, adapters.MapUploadDomainToApi(upload))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	uploads, err := h.explorer.ListUploads(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list uploads")
		respond.Error(w, r, http.StatusInternalServerError, "failed to list uploads")
		return
	}

	response := make([]api.Upload, 0, len(uploads))
	for _, up := range uploads {
		response = append(response, adapters.MapUploadDomainToApi(up))
	}
	respond.JSON(w, r, http.StatusOK, response)
}

// GetData serves the processed dataset of one upload, keyed by entity id.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	account, err := h.explorer.GetAccount(ctx, id)
	if errors.Is(err, uploadstore.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, "Upload not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("upload_id", id).Msg("failed to load upload data")
		respond.Error(w, r, http.StatusInternalServerError, "failed to load upload data")
		return
	}

	respond.JSON(w, r, http.StatusOK, adapters.MapAccountDomainToApi(account))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	err := h.explorer.DeleteUpload(ctx, id)
	if errors.Is(err, uploadstore.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, "Upload not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("upload_id", id).Msg("failed to delete upload")
		respond.Error(w, r, http.StatusInternalServerError, "failed to delete upload")
		return
	}

	respond.JSON(w, r, http.StatusOK, api.Message{Message: "Upload deleted successfully"})
}

func (h *Handler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	err := h.explorer.SetCurrentUpload(ctx, id)
	if errors.Is(err, uploadstore.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, "Upload not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("upload_id", id).Msg("failed to set current upload")
		respond.Error(w, r, http.StatusInternalServerError, "failed to set current upload")
		return
	}

	respond.JSON(w, r, http.StatusOK, api.Message{Message: "Current upload set successfully"})
}

func (h *Handler) GetCurrentID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	id, err := h.explorer.CurrentUploadID(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to resolve current upload")
		respond.Error(w, r, http.StatusInternalServerError, "failed to resolve current upload")
		return
	}

	var response api.CurrentUpload
	if id != "" {
		response.UploadID = &id
	}
	respond.JSON(w, r, http.StatusOK, response)
}
