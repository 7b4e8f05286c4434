package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PortfolioApp/internal/config"
	"github.com/GoArmGo/PortfolioApp/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Handlers — набор HTTP-обработчиков, которые монтирует роутер.
type Handlers struct {
	Health   *handler.HealthHandler
	Category *handler.CategoryHandler
	Folder   *handler.FolderHandler
	Image    *handler.ImageHandler
	Upload   *handler.UploadHandler
	Contact  *handler.ContactHandler
	Admin    *handler.AdminHandler
}

// NewRouter собирает маршруты API и раздачу /uploads.
func NewRouter(cfg *config.Config, h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/", h.Health.Root)
	r.Get("/test", h.Health.Test)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.Category.List)
		r.Post("/", h.Category.Create)
	})
	r.Route("/folders", func(r chi.Router) {
		r.Get("/", h.Folder.List)
		r.Post("/", h.Folder.Create)
	})
	r.Route("/images", func(r chi.Router) {
		r.Get("/", h.Image.List)
		r.Post("/", h.Image.Create)
		r.Delete("/{id}", h.Image.Delete)
	})

	r.Post("/upload", h.Upload.Upload)
	r.Post("/contact", h.Contact.Submit)
	r.Post("/admin/seed", h.Admin.Seed)

	files := http.FileServer(noDirFileSystem{http.Dir(cfg.UploadDir)})
	r.Handle("/uploads/*", http.StripPrefix("/uploads", files))

	// CORS оборачивает роутер целиком, чтобы preflight OPTIONS не упирался в 405.
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
	}).Handler(r)
}

// noDirFileSystem отдаёт только файлы: листинг директорий закрыт.
type noDirFileSystem struct {
	fs http.FileSystem
}

func (n noDirFileSystem) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
