package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/petal-labs/voiceprint/core"
	"github.com/petal-labs/voiceprint/studio"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind     string          `json:"kind"`
	Message  string          `json:"message"`
	Provider core.ProviderID `json:"provider,omitempty"`
	Fallback bool            `json:"fallback"`
}

var kindStatus = map[core.ErrorKind]int{
	core.KindAuth:               http.StatusUnauthorized,
	core.KindRateLimit:          http.StatusTooManyRequests,
	core.KindContentFilter:      http.StatusUnprocessableEntity,
	core.KindContextLength:      http.StatusRequestEntityTooLarge,
	core.KindModelNotFound:      http.StatusNotFound,
	core.KindServiceUnavailable: http.StatusServiceUnavailable,
	core.KindTimeout:            http.StatusGatewayTimeout,
	core.KindNetwork:            http.StatusBadGateway,
	core.KindEmptyContent:       http.StatusBadGateway,
	core.KindUnknownProvider:    http.StatusBadGateway,
	core.KindProfileParse:       http.StatusBadGateway,
}

// classify maps err to an HTTP status and response body.
func classify(provider core.ProviderID, err error) (int, errorDetail) {
	var pe *core.ProviderError
	var pfe *studio.PreflightError
	switch {
	case errors.As(err, &pe):
		status, ok := kindStatus[pe.Kind]
		if !ok {
			status = http.StatusBadGateway
		}
		return status, errorDetail{
			Kind:     string(pe.Kind),
			Message:  pe.Message,
			Provider: pe.Provider,
			Fallback: pe.Fallback,
		}
	case errors.As(err, &pfe):
		return http.StatusUnprocessableEntity, errorDetail{Kind: "preflight", Message: pfe.Result.Error, Provider: provider}
	case errors.Is(err, studio.ErrInvalidInput),
		errors.Is(err, core.ErrSystemMessageRequired),
		errors.Is(err, core.ErrUserMessageRequired),
		errors.Is(err, core.ErrBaseURLRequired):
		return http.StatusBadRequest, errorDetail{Kind: "invalid_request", Message: err.Error(), Provider: provider}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorDetail{Kind: string(core.KindTimeout), Message: core.KindTimeout.Describe(string(provider)), Provider: provider}
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, errorDetail{Kind: "canceled", Message: "request canceled", Provider: provider}
	default:
		return http.StatusInternalServerError, errorDetail{Kind: "internal", Message: err.Error(), Provider: provider}
	}
}

func (s *Server) writeError(w http.ResponseWriter, provider core.ProviderID, err error) {
	status, detail := classify(provider, err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "provider", provider, "kind", detail.Kind, "error", err)
	}
	writeJSON(w, status, errorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
