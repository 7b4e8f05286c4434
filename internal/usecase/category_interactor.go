package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
)

var categorySortFields = []string{"name", "slug", ports.FieldCreatedAt, ports.FieldUpdatedAt}

// categoryUseCase implements CategoryUseCase
type categoryUseCase struct {
	store  ports.DocumentStore
	logger *slog.Logger
}

func NewCategoryUseCase(store ports.DocumentStore, logger *slog.Logger) CategoryUseCase {
	return &categoryUseCase{store: store, logger: logger}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, params ListParams) ([]domain.Category, error) {
	opts, err := listOptions(params, categorySortFields, ports.SortField{Field: "name"})
	if err != nil {
		return nil, err
	}

	docs, err := uc.store.List(ctx, domain.CollectionCategory, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return decodeDocuments[domain.Category](docs)
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	category.Description = blankToNil(category.Description)
	category.CoverURL = blankToNil(category.CoverURL)
	if err := category.Validate(); err != nil {
		return nil, domain.NewValidationError(err)
	}

	// Уникальный индекс всё равно поймает гонку, проверка даёт понятную ошибку раньше.
	_, err := findOne(ctx, uc.store, domain.CollectionCategory, ports.Filter{"slug": category.Slug})
	switch {
	case err == nil:
		return nil, fmt.Errorf("category slug %q: %w", category.Slug, domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	docs, err := uc.store.Create(ctx, domain.CollectionCategory, category.Document())
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, fmt.Errorf("category slug %q: %w", category.Slug, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	created, err := decodeDocument[domain.Category](docs[0])
	if err != nil {
		return nil, err
	}
	uc.logger.Info("category created", "id", created.ID, "slug", created.Slug)
	return &created, nil
}
