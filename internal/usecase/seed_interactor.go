package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
)

// SeedResult — число добавленных категорий и их общее количество после seed.
type SeedResult struct {
	Seeded          int `json:"seeded"`
	TotalCategories int `json:"total_categories"`
}

func strPtr(s string) *string { return &s }

// DefaultCategories — набор категорий, с которого начинается новый сайт.
func DefaultCategories() []domain.Category {
	return []domain.Category{
		{
			Name:        "Weddings",
			Slug:        "weddings",
			Description: strPtr("Timeless wedding stories"),
			CoverURL:    strPtr("https://images.unsplash.com/photo-1522673607200-164d1b6ce486?q=80&w=1600&auto=format&fit=crop"),
		},
		{
			Name:        "Portraits",
			Slug:        "portraits",
			Description: strPtr("Studio and environmental portraits"),
			CoverURL:    strPtr("https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?q=80&w=1600&auto=format&fit=crop"),
		},
		{
			Name:        "Events",
			Slug:        "events",
			Description: strPtr("Corporate and social events"),
			CoverURL:    strPtr("https://images.unsplash.com/photo-1531058020387-3be344556be6?q=80&w=1600&auto=format&fit=crop"),
		},
		{
			Name:        "Travel",
			Slug:        "travel",
			Description: strPtr("Places and stories from the road"),
			CoverURL:    strPtr("https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?q=80&w=1600&auto=format&fit=crop"),
		},
	}
}

// seedUseCase implements SeedUseCase
type seedUseCase struct {
	store   ports.DocumentStore
	checker ports.CredentialChecker
	logger  *slog.Logger
}

func NewSeedUseCase(store ports.DocumentStore, checker ports.CredentialChecker, logger *slog.Logger) SeedUseCase {
	return &seedUseCase{store: store, checker: checker, logger: logger}
}

func (uc *seedUseCase) Seed(ctx context.Context, ownerKey string) (*SeedResult, error) {
	if err := uc.checker.Check(ctx, ownerKey); err != nil {
		uc.logger.Warn("seed rejected", "reason", "invalid owner key")
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("check owner key: %w", err)
	}
	return uc.SeedDefaults(ctx)
}

func (uc *seedUseCase) SeedDefaults(ctx context.Context) (*SeedResult, error) {
	existing, err := uc.store.List(ctx, domain.CollectionCategory, nil, ports.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	slugs := make(map[string]struct{}, len(existing))
	for _, doc := range existing {
		if s, ok := doc["slug"].(string); ok {
			slugs[s] = struct{}{}
		}
	}

	var missing []ports.Document
	for _, c := range DefaultCategories() {
		if _, ok := slugs[c.Slug]; !ok {
			missing = append(missing, c.Document())
		}
	}

	if len(missing) == 0 {
		return uc.report(0, len(existing)), nil
	}

	_, err = uc.store.Create(ctx, domain.CollectionCategory, missing...)
	if err == nil {
		return uc.report(len(missing), len(existing)+len(missing)), nil
	}
	if !errors.Is(err, ports.ErrDuplicate) {
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	// Параллельный seed успел вставить часть категорий, а упорядоченная пакетная вставка
	// могла остановиться на середине. Дописываем оставшиеся по одной.
	uc.logger.Warn("concurrent seed detected, inserting categories one by one")
	for _, doc := range missing {
		if _, err := uc.store.Create(ctx, domain.CollectionCategory, doc); err != nil && !errors.Is(err, ports.ErrDuplicate) {
			return nil, fmt.Errorf("seed category %v: %w", doc["slug"], err)
		}
	}

	after, err := uc.store.List(ctx, domain.CollectionCategory, nil, ports.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	seeded := 0
	for _, doc := range after {
		s, _ := doc["slug"].(string)
		if _, had := slugs[s]; !had && isDefaultSlug(s) {
			seeded++
		}
	}
	return uc.report(seeded, len(after)), nil
}

func (uc *seedUseCase) report(seeded, total int) *SeedResult {
	result := &SeedResult{Seeded: seeded, TotalCategories: total}
	uc.logger.Info("categories seeded", "seeded", result.Seeded, "total_categories", result.TotalCategories)
	return result
}

func isDefaultSlug(slug string) bool {
	for _, c := range DefaultCategories() {
		if c.Slug == slug {
			return true
		}
	}
	return false
}
