package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"nexus-companion/internal/gateway"
)

// responseEnvelope mirrors the backend's wrapper so the UI handles one shape
// everywhere.
type responseEnvelope struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseEnvelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Code:      "OK",
		Message:   "",
		Data:      data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(gateway.CodeInternal)
	message := err.Error()

	var apiErr *gateway.APIError
	switch {
	case errors.Is(err, gateway.ErrSessionExpired):
		status = http.StatusUnauthorized
		code = string(gateway.CodeAuthFailed)
		message = "session expired, please log in again"
	case errors.As(err, &apiErr):
		status = apiErr.Status
		code = string(apiErr.Code)
		message = apiErr.Message
	case errors.Is(err, gateway.ErrMissingData):
		status = http.StatusBadGateway
		code = string(gateway.CodeExternalAPI)
		message = "backend returned an incomplete response"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseEnvelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Code:      code,
		Message:   message,
	})
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
