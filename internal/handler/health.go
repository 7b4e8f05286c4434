package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

// AppName возвращается корневым маршрутом.
const AppName = "Portfolio API"

// HealthHandler — корневой маршрут и проверка хранилища.
type HealthHandler struct {
	statusUseCase usecase.StatusUseCase
	logger        *slog.Logger
}

func NewHealthHandler(uc usecase.StatusUseCase, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{statusUseCase: uc, logger: logger}
}

// Root — GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"app": AppName, "status": "ok"}, h.logger)
}

// Test — GET /test
func (h *HealthHandler) Test(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.statusUseCase.Status(r.Context()), h.logger)
}
