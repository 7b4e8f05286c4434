package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

// CategoryHandler — обработчик HTTP-запросов для категорий.
type CategoryHandler struct {
	categoryUseCase usecase.CategoryUseCase
	logger          *slog.Logger
}

func NewCategoryHandler(uc usecase.CategoryUseCase, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUseCase: uc, logger: logger}
}

// List — GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "ListCategories")
		return
	}

	categories, err := h.categoryUseCase.ListCategories(r.Context(), params)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "ListCategories")
		return
	}
	respondWithJSON(w, http.StatusOK, categories, h.logger)
}

// Create — POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload domain.Category
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "CreateCategory")
		return
	}

	category, err := h.categoryUseCase.CreateCategory(r.Context(), payload)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "CreateCategory", "slug", payload.Slug)
		return
	}
	respondWithJSON(w, http.StatusCreated, category, h.logger)
}
