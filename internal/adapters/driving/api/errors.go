package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

// Hints shown to clients alongside retryable failures.
const (
	hintRelayTimeout = "the relays did not answer in time; retry or switch relay"
	hintRelayFailed  = "no relay could serve the request; retry or switch relay"
	hintSigner       = "configure a signing key with: scholarstr settings set-key"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Error  string              `json:"error"`
	Retry  bool                `json:"retry"`
	Hint   string              `json:"hint,omitempty"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// classify maps err to a status code and response body.
func classify(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		resp.Fields = verrs
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrNotFound):
		resp.Error = "paper not found"
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrOverlappingSelection):
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrQueryTimeout):
		resp.Retry, resp.Hint = true, hintRelayTimeout
		return http.StatusGatewayTimeout, resp
	case errors.Is(err, domain.ErrQueryFailed),
		errors.Is(err, domain.ErrNoRelays),
		errors.Is(err, domain.ErrPublishFailed):
		resp.Retry, resp.Hint = true, hintRelayFailed
		return http.StatusBadGateway, resp
	case errors.Is(err, domain.ErrSignerUnavailable):
		resp.Hint = hintSigner
		return http.StatusServiceUnavailable, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := classify(err)
	if resp.Retry {
		kind := "query"
		if errors.Is(err, domain.ErrQueryTimeout) {
			kind = "timeout"
		} else if errors.Is(err, domain.ErrPublishFailed) {
			kind = "publish"
		}
		s.metrics.RelayErrors.WithLabelValues(kind).Inc()
	}
	if status >= http.StatusInternalServerError {
		logger.Warn("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("encoding response: %v", err)
	}
}
