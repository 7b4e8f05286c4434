package usecase

import (
	"context"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
)

// ListParams — общие параметры выборки для списков.
// Sort: "field" по возрастанию или "-field" по убыванию; пустая строка — сортировка маршрута по умолчанию.
type ListParams struct {
	Limit int
	Sort  string
}

// FolderFilter — необязательные фильтры списка папок.
type FolderFilter struct {
	CategorySlug string
	ParentID     string
}

// ImageFilter — необязательные фильтры списка изображений.
type ImageFilter struct {
	CategorySlug string
	FolderID     string
}

// CategoryUseCase определяет бизнес-логику работы с категориями
type CategoryUseCase interface {
	// ListCategories возвращает категории, по умолчанию отсортированные по имени.
	ListCategories(ctx context.Context, params ListParams) ([]domain.Category, error)

	// CreateCategory проверяет данные и уникальность slug, затем сохраняет категорию.
	CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// FolderUseCase определяет бизнес-логику работы с папками
type FolderUseCase interface {
	ListFolders(ctx context.Context, filter FolderFilter, params ListParams) ([]domain.Folder, error)

	// CreateFolder проверяет, что категория и родительская папка существуют
	// и что родитель принадлежит той же категории.
	CreateFolder(ctx context.Context, folder domain.Folder) (*domain.Folder, error)
}

// ImageUseCase определяет бизнес-логику работы с записями изображений
type ImageUseCase interface {
	// ListImages возвращает изображения, по умолчанию новые первыми.
	ListImages(ctx context.Context, filter ImageFilter, params ListParams) ([]domain.Image, error)

	CreateImage(ctx context.Context, image domain.Image) (*domain.Image, error)

	// DeleteImage удаляет запись; файл из /uploads удаляется по возможности,
	// ошибки удаления файла не мешают удалению записи.
	DeleteImage(ctx context.Context, id string) error
}

// ContactUseCase сохраняет сообщения с контактной формы
type ContactUseCase interface {
	SubmitContact(ctx context.Context, message domain.ContactMessage) (*domain.ContactMessage, error)
}

// UploadUseCase обрабатывает загруженное изображение и сохраняет его
type UploadUseCase interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// SeedUseCase заполняет хранилище категориями по умолчанию
type SeedUseCase interface {
	// Seed проверяет ключ владельца и добавляет недостающие категории.
	Seed(ctx context.Context, ownerKey string) (*SeedResult, error)

	// SeedDefaults добавляет недостающие категории без проверки ключа (для CLI).
	SeedDefaults(ctx context.Context) (*SeedResult, error)
}

// StatusUseCase сообщает о состоянии хранилища для /test
type StatusUseCase interface {
	Status(ctx context.Context) StoreStatus
}
