package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/pkg/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleDomainError maps the error taxonomy to status codes. Internal
// failure detail never reaches the client, only generic messages.
func handleDomainError(w http.ResponseWriter, err error) {
	var persistErr *domain.PersistenceError

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, domain.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", "cart is empty")
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, domain.ErrUpstream):
		respondError(w, http.StatusBadGateway, "upstream_error", "payment provider unavailable")
	case errors.As(err, &persistErr):
		logger.Log.Error("persistence failure", zap.String("op", persistErr.Op), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	default:
		logger.Log.Error("unhandled error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
