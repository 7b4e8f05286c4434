package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

// ContactHandler принимает сообщения с контактной формы.
type ContactHandler struct {
	contactUseCase usecase.ContactUseCase
	logger         *slog.Logger
}

func NewContactHandler(uc usecase.ContactUseCase, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contactUseCase: uc, logger: logger}
}

// Submit — POST /contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var payload domain.ContactMessage
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "SubmitContact")
		return
	}

	msg, err := h.contactUseCase.SubmitContact(r.Context(), payload)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "SubmitContact")
		return
	}
	respondWithJSON(w, http.StatusCreated, msg, h.logger)
}
