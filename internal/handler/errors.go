package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/pkordes/metro-router/internal/domain"
	"github.com/pkordes/metro-router/internal/network"
)

// ErrorDetail is the inner object of every error body.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response: {"error":{"code","message"}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client is gone if this fails; nothing left to report to.
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError reports a request rejected before reaching the service layer
// (e.g. missing or malformed body).
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// decodeBody decodes the JSON request body into dst. It writes the error
// response itself and returns false when the body is unusable.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
		return false
	}
	if errors.Is(err, io.EOF) {
		requestError(w, "request body is required")
		return false
	}
	requestError(w, "invalid JSON body: "+err.Error())
	return false
}

// serviceError maps a service error to its HTTP response. notFound is the
// message used for domain.ErrNotFound because the handler is the layer that
// knows what was being looked up.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		buildErr *network.BuildError
		unknown  *network.UnknownStationError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", unwrapMessage(err, domain.ErrConflict))
	case errors.Is(err, domain.ErrLineInUse):
		writeError(w, http.StatusBadRequest, "line_in_use", unwrapMessage(err, domain.ErrLineInUse))
	case errors.As(err, &unknown):
		writeError(w, http.StatusBadRequest, "invalid_station", "invalid station name: "+unknown.Name)
	case errors.Is(err, domain.ErrNoRoute):
		writeError(w, http.StatusNotFound, "route_not_found", unwrapMessage(err, domain.ErrNoRoute))
	case errors.Is(err, domain.ErrGraphUnavailable):
		writeError(w, http.StatusServiceUnavailable, "graph_unavailable", "route finding service not initialized")
	case errors.As(err, &buildErr):
		writeError(w, http.StatusUnprocessableEntity, "build_error", buildErr.Reason)
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part of a wrapped sentinel error.
// e.g. "service.LineService.Create: conflict: line with name \"Red\" already exists"
// → "line with name \"Red\" already exists"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	i := strings.Index(msg, sentinel.Error())
	if i < 0 {
		return msg
	}
	rest := msg[i:]
	if after, ok := strings.CutPrefix(rest, sentinel.Error()+": "); ok {
		return after
	}
	return rest
}
