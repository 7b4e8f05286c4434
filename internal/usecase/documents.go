package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
)

// decodeDocument переносит документ хранилища в доменную структуру через JSON,
// так же как документы сериализуются в ответах API.
func decodeDocument[T any](doc ports.Document) (T, error) {
	var out T
	raw, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("encode document %s: %w", doc.ID(), err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode document %s: %w", doc.ID(), err)
	}
	return out, nil
}

func decodeDocuments[T any](docs []ports.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeDocument[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// parseSort разбирает "field" или "-field" и проверяет поле по списку разрешённых.
func parseSort(raw string, allowed []string, def ports.SortField) ([]ports.SortField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []ports.SortField{def}, nil
	}

	field := ports.SortField{Field: raw}
	if strings.HasPrefix(raw, "-") {
		field = ports.SortField{Field: raw[1:], Desc: true}
	}
	for _, a := range allowed {
		if a == field.Field {
			return []ports.SortField{field}, nil
		}
	}
	return nil, domain.NewValidationError(fmt.Errorf("sort: unsupported field %q (allowed: %s)", field.Field, strings.Join(allowed, ", ")))
}

func listOptions(params ListParams, allowed []string, def ports.SortField) (ports.ListOptions, error) {
	if params.Limit < 0 {
		return ports.ListOptions{}, domain.NewValidationError(fmt.Errorf("limit: must not be negative"))
	}
	sort, err := parseSort(params.Sort, allowed, def)
	if err != nil {
		return ports.ListOptions{}, err
	}
	return ports.ListOptions{Limit: params.Limit, Sort: sort}, nil
}

// findOne возвращает первый документ по фильтру или domain.ErrNotFound.
// Некорректный id считается ненайденным.
func findOne(ctx context.Context, store ports.DocumentStore, collection string, filter ports.Filter) (ports.Document, error) {
	docs, err := store.List(ctx, collection, filter, ports.ListOptions{Limit: 1})
	if err != nil {
		if errors.Is(err, ports.ErrInvalidID) {
			return nil, fmt.Errorf("%s: %w", collection, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: %w", collection, domain.ErrNotFound)
	}
	return docs[0], nil
}

func requireCategory(ctx context.Context, store ports.DocumentStore, slug string) error {
	if _, err := findOne(ctx, store, domain.CollectionCategory, ports.Filter{"slug": slug}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("category %q: %w", slug, domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// requireFolder проверяет, что папка существует и принадлежит категории.
func requireFolder(ctx context.Context, store ports.DocumentStore, id, categorySlug string) (*domain.Folder, error) {
	doc, err := findOne(ctx, store, domain.CollectionFolder, ports.Filter{ports.FieldID: id})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("folder %q: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	folder, err := decodeDocument[domain.Folder](doc)
	if err != nil {
		return nil, err
	}
	if folder.CategorySlug != categorySlug {
		return nil, domain.NewValidationError(fmt.Errorf("folder %q belongs to category %q, not %q", id, folder.CategorySlug, categorySlug))
	}
	return &folder, nil
}

// blankToNil превращает пустую строку в отсутствующее значение.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
