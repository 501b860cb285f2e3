package handler

import (
	"errors"
	"net/http"

	"stash/internal/domain"
	"stash/internal/httputil"
)

// handleError converts domain errors to HTTP responses. ErrForbidden maps to
// 400: structurally disallowed operations (mutating a root folder, moving a
// folder into its own subtree) are malformed requests, matching the original
// API contract.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrStorage):
		httputil.RespondError(w, http.StatusInternalServerError, "storage operation failed")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// callerID extracts the authenticated user ID set by the auth middleware.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// idResponse is the {id} payload most mutations return.
type idResponse struct {
	ID string `json:"id"`
}
