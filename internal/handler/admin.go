package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

// AdminHandler — административные действия владельца сайта.
type AdminHandler struct {
	seedUseCase usecase.SeedUseCase
	logger      *slog.Logger
}

func NewAdminHandler(uc usecase.SeedUseCase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{seedUseCase: uc, logger: logger}
}

// Seed — POST /admin/seed, поле формы owner_key.
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	ownerKey := r.FormValue("owner_key")
	if ownerKey == "" {
		respondWithDomainError(w, domain.NewValidationError(errors.New("owner_key: form field is required")), h.logger, "endpoint", "Seed")
		return
	}

	result, err := h.seedUseCase.Seed(r.Context(), ownerKey)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "Seed")
		return
	}
	respondWithJSON(w, http.StatusOK, result, h.logger)
}
