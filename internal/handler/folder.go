package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

// FolderHandler — обработчик HTTP-запросов для папок.
type FolderHandler struct {
	folderUseCase usecase.FolderUseCase
	logger        *slog.Logger
}

func NewFolderHandler(uc usecase.FolderUseCase, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folderUseCase: uc, logger: logger}
}

// List — GET /folders?category_slug=&parent_id=
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "ListFolders")
		return
	}

	filter := usecase.FolderFilter{
		CategorySlug: r.URL.Query().Get("category_slug"),
		ParentID:     r.URL.Query().Get("parent_id"),
	}
	folders, err := h.folderUseCase.ListFolders(r.Context(), filter, params)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "ListFolders")
		return
	}
	respondWithJSON(w, http.StatusOK, folders, h.logger)
}

// Create — POST /folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload domain.Folder
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "CreateFolder")
		return
	}

	folder, err := h.folderUseCase.CreateFolder(r.Context(), payload)
	if err != nil {
		respondWithDomainError(w, err, h.logger, "endpoint", "CreateFolder", "category_slug", payload.CategorySlug)
		return
	}
	respondWithJSON(w, http.StatusCreated, folder, h.logger)
}
