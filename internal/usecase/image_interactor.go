package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
)

// UploadsPath — URL-префикс, по которому раздаются обработанные файлы.
const UploadsPath = "/uploads/"

var imageSortFields = []string{ports.FieldCreatedAt, ports.FieldUpdatedAt, "category_slug", "width", "height"}

// imageUseCase implements ImageUseCase
type imageUseCase struct {
	store       ports.DocumentStore
	fileStorage ports.FileStorage
	logger      *slog.Logger
}

func NewImageUseCase(store ports.DocumentStore, fileStorage ports.FileStorage, logger *slog.Logger) ImageUseCase {
	return &imageUseCase{store: store, fileStorage: fileStorage, logger: logger}
}

func (uc *imageUseCase) ListImages(ctx context.Context, filter ImageFilter, params ListParams) ([]domain.Image, error) {
	opts, err := listOptions(params, imageSortFields, ports.SortField{Field: ports.FieldCreatedAt, Desc: true})
	if err != nil {
		return nil, err
	}

	f := ports.Filter{}
	if filter.CategorySlug != "" {
		f["category_slug"] = filter.CategorySlug
	}
	if filter.FolderID != "" {
		f["folder_id"] = filter.FolderID
	}

	docs, err := uc.store.List(ctx, domain.CollectionImage, f, opts)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return decodeDocuments[domain.Image](docs)
}

// CreateImage регистрирует внешний URL: такие записи не владеют файлами в каталоге загрузок.
func (uc *imageUseCase) CreateImage(ctx context.Context, image domain.Image) (*domain.Image, error) {
	image.File = nil
	return createImage(ctx, uc.store, uc.logger, image)
}

// createImage используется и маршрутом /images, и загрузкой с метаданными.
func createImage(ctx context.Context, store ports.DocumentStore, logger *slog.Logger, image domain.Image) (*domain.Image, error) {
	if err := checkImage(ctx, store, &image); err != nil {
		return nil, err
	}

	docs, err := store.Create(ctx, domain.CollectionImage, image.Document())
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}

	created, err := decodeDocument[domain.Image](docs[0])
	if err != nil {
		return nil, err
	}
	logger.Info("image created", "id", created.ID, "category_slug", created.CategorySlug)
	return &created, nil
}

// checkImage нормализует и проверяет запись и её ссылки, ничего не записывая.
func checkImage(ctx context.Context, store ports.DocumentStore, image *domain.Image) error {
	image.FolderID = blankToNil(image.FolderID)
	image.Alt = blankToNil(image.Alt)
	if err := image.Validate(); err != nil {
		return domain.NewValidationError(err)
	}

	if err := requireCategory(ctx, store, image.CategorySlug); err != nil {
		return err
	}
	if image.FolderID != nil {
		if _, err := requireFolder(ctx, store, *image.FolderID, image.CategorySlug); err != nil {
			return err
		}
	}
	return nil
}

func (uc *imageUseCase) DeleteImage(ctx context.Context, id string) error {
	doc, err := findOne(ctx, uc.store, domain.CollectionImage, ports.Filter{ports.FieldID: id})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("image %q: %w", id, domain.ErrNotFound)
		}
		return err
	}

	image, err := decodeDocument[domain.Image](doc)
	if err != nil {
		return err
	}
	if image.File != nil && *image.File != "" {
		if err := uc.fileStorage.DeleteFile(ctx, *image.File); err != nil {
			uc.logger.Warn("failed to remove image file", "id", id, "file", *image.File, "error", err)
		}
	}

	n, err := uc.store.Delete(ctx, domain.CollectionImage, ports.Filter{ports.FieldID: id})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("image %q: %w", id, domain.ErrNotFound)
	}

	uc.logger.Info("image deleted", "id", id)
	return nil
}
