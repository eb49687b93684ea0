package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/emblashop/embla/internal/domain"
)

// maxBodyBytes bounds request bodies; the mobile clients send small payloads.
const maxBodyBytes = 1 << 20

// JSON writes a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("request.decode", "invalid request body")
	}
	return nil
}
