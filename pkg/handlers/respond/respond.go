package respond

import (
	"encoding/json"
	"net/http"

	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/rs/zerolog"
)

// JSON writes v with the given status. Encoding failures are logged, not
// surfaced; headers are already gone by then.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	logger := zerolog.Ctx(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// Error writes the standard error envelope.
func Error(w http.ResponseWriter, r *http.Request, status int, detail string) {
	JSON(w, r, status, api.Error{Detail: detail})
}
