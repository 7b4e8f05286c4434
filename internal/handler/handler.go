package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

// maxJSONBodyBytes ограничивает тело JSON-запросов (формы, метаданные).
const maxJSONBodyBytes = 1 << 20

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// statusFor сопоставляет доменные ошибки со статусами HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// respondWithDomainError отвечает статусом по типу ошибки. Внутренние ошибки
// логируются, а клиенту уходит общее сообщение.
func respondWithDomainError(w http.ResponseWriter, err error, logger *slog.Logger, attrs ...any) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed", append(attrs, "error", err)...)
		respondWithError(w, code, "internal server error", logger)
		return
	}
	logger.Warn("request rejected", append(attrs, "status", code, "error", err)...)
	respondWithError(w, code, err.Error(), logger)
}

// decodeJSON читает тело запроса в dst. Ошибки разбора — ошибки валидации.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrPayloadTooLarge, mbe.Limit)
		}
		return domain.NewValidationError(fmt.Errorf("invalid JSON body: %v", err))
	}
	return nil
}

// parseListParams читает limit и sort из строки запроса.
func parseListParams(r *http.Request) (usecase.ListParams, error) {
	q := r.URL.Query()
	params := usecase.ListParams{Sort: q.Get("sort")}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, domain.NewValidationError(fmt.Errorf("limit: must be an integer, got %q", raw))
		}
		params.Limit = limit
	}
	return params, nil
}
