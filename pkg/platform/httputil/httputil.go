// Package httputil centralizes JSON response writing so handlers stay thin and
// error envelopes stay consistent across modules.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/sentinel"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the standard error envelope.
// Internal errors omit the description so infrastructure detail never reaches
// clients; everything else includes it.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		// infra sentinels that escaped without a domain wrapper
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			code = dErrors.CodeNotFound
		case errors.Is(err, sentinel.ErrConflict):
			code = dErrors.CodeConflict
		case errors.Is(err, sentinel.ErrExpired):
			code = dErrors.CodeBadRequest
		case errors.Is(err, sentinel.ErrUnavailable):
			code = dErrors.CodeUnavailable
		}
	}
	body := map[string]string{"error": string(code)}
	var de *dErrors.DomainError
	if code != dErrors.CodeInternal && errors.As(err, &de) && de.Message != "" {
		body["error_description"] = de.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
