package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// getPathID extracts a positive int64 id from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "ID is required")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "Invalid ID format")
	}
	return id, nil
}

// requireIdentity returns the caller's identity, writing a 401 response when
// the request is anonymous.
func requireIdentity(w http.ResponseWriter, r *http.Request, log *slog.Logger) (shared.Identity, bool) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		log.Warn("identity not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return shared.Identity{}, false
	}
	return id, true
}

// handleIdentityAndPathID extracts both the caller's identity and an id from
// the path. It writes the error response if either is missing or invalid.
func handleIdentityAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (shared.Identity, int64, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	identity, ok := requireIdentity(w, r, log)
	if !ok {
		return shared.Identity{}, 0, false
	}

	id, err := getPathID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err)
		return shared.Identity{}, 0, false
	}

	return identity, id, true
}

// decodeAndValidate decodes the JSON body into v and checks its tags,
// writing a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
