package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
)

var folderSortFields = []string{"name", "slug", "category_slug", ports.FieldCreatedAt, ports.FieldUpdatedAt}

// folderUseCase implements FolderUseCase
type folderUseCase struct {
	store  ports.DocumentStore
	logger *slog.Logger
}

func NewFolderUseCase(store ports.DocumentStore, logger *slog.Logger) FolderUseCase {
	return &folderUseCase{store: store, logger: logger}
}

func (uc *folderUseCase) ListFolders(ctx context.Context, filter FolderFilter, params ListParams) ([]domain.Folder, error) {
	opts, err := listOptions(params, folderSortFields, ports.SortField{Field: "name"})
	if err != nil {
		return nil, err
	}

	f := ports.Filter{}
	if filter.CategorySlug != "" {
		f["category_slug"] = filter.CategorySlug
	}
	if filter.ParentID != "" {
		f["parent_id"] = filter.ParentID
	}

	docs, err := uc.store.List(ctx, domain.CollectionFolder, f, opts)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return decodeDocuments[domain.Folder](docs)
}

func (uc *folderUseCase) CreateFolder(ctx context.Context, folder domain.Folder) (*domain.Folder, error) {
	folder.ParentID = blankToNil(folder.ParentID)
	folder.Description = blankToNil(folder.Description)
	if err := folder.Validate(); err != nil {
		return nil, domain.NewValidationError(err)
	}

	if err := requireCategory(ctx, uc.store, folder.CategorySlug); err != nil {
		return nil, err
	}
	if folder.ParentID != nil {
		if _, err := requireFolder(ctx, uc.store, *folder.ParentID, folder.CategorySlug); err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
	}

	docs, err := uc.store.Create(ctx, domain.CollectionFolder, folder.Document())
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	created, err := decodeDocument[domain.Folder](docs[0])
	if err != nil {
		return nil, err
	}
	uc.logger.Info("folder created", "id", created.ID, "slug", created.Slug, "category_slug", created.CategorySlug)
	return &created, nil
}
