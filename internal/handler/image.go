package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// ImageHandler — обработчик HTTP-запросов для записей изображений.
type ImageHandler struct {
	imageUseCase usecase.ImageUseCase
	logger       *slog.Logger
}

func NewImageHandler(uc usecase.ImageUseCase, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{imageUseCase: uc, logger: logger}
}

// List — GET /images?category_slug=&folder_id=&limit=
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "ListImages")
		return
	}

	filter := usecase.ImageFilter{
		CategorySlug: r.URL.Query().Get("category_slug"),
		FolderID:     r.URL.Query().Get("folder_id"),
	}
	images, err := h.imageUseCase.ListImages(r.Context(), filter, params)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "ListImages")
		return
	}
	respondWithJSON(w, http.StatusOK, images, h.logger)
}

// Create — POST /images
func (h *ImageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload domain.Image
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "CreateImage")
		return
	}

	image, err := h.imageUseCase.CreateImage(r.Context(), payload)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "CreateImage", "category_slug", payload.CategorySlug)
		return
	}
	respondWithJSON(w, http.StatusCreated, image, h.logger)
}

// Delete — DELETE /images/{id}
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.imageUseCase.DeleteImage(r.Context(), id); err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "DeleteImage", "id", id)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true}, h.logger)
}
