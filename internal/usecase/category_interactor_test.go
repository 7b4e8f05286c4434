package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/logger"
)

func TestCreateCategory(t *testing.T) {
	store := newStore(t)
	uc := NewCategoryUseCase(store, logger.Discard())
	ctx := context.Background()

	created, err := uc.CreateCategory(ctx, domain.Category{Name: "Portraits", Slug: "portraits", Description: strp("")})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if created.ID == "" || created.Slug != "portraits" {
		t.Errorf("created = %+v", created)
	}
	if created.Description != nil {
		t.Errorf("blank description should be stored as null, got %q", *created.Description)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("timestamps = %v / %v", created.CreatedAt, created.UpdatedAt)
	}
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	store := newStore(t)
	uc := NewCategoryUseCase(store, logger.Discard())
	ctx := context.Background()

	if _, err := uc.CreateCategory(ctx, domain.Category{Name: "Portraits", Slug: "portraits"}); err != nil {
		t.Fatal(err)
	}
	_, err := uc.CreateCategory(ctx, domain.Category{Name: "Other name", Slug: "portraits", Description: strp("different")})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	list, err := uc.ListCategories(ctx, ListParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "Portraits" {
		t.Errorf("list = %+v", list)
	}
}

// Гонка двух создателей: предварительная проверка пройдена, но индекс ловит дубликат.
type racingStore struct {
	ports.DocumentStore
}

func (s racingStore) List(ctx context.Context, collection string, filter ports.Filter, opts ports.ListOptions) ([]ports.Document, error) {
	return nil, nil
}

func TestCreateCategoryUniqueIndexConflict(t *testing.T) {
	store := newStore(t)
	mustCreateCategory(t, store, "events")

	uc := NewCategoryUseCase(racingStore{store}, logger.Discard())
	_, err := uc.CreateCategory(context.Background(), domain.Category{Name: "Events", Slug: "events"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict from unique index, got %v", err)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	uc := NewCategoryUseCase(newStore(t), logger.Discard())
	for _, c := range []domain.Category{
		{Slug: "portraits"},
		{Name: "Portraits"},
		{Name: "Portraits", Slug: "Not A Slug"},
		{Name: "Portraits", Slug: "portraits", CoverURL: strp("not-a-url")},
	} {
		if _, err := uc.CreateCategory(context.Background(), c); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("CreateCategory(%+v) error = %v, want ErrValidation", c, err)
		}
	}
}

func TestListCategoriesSorting(t *testing.T) {
	store := newStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	uc := NewCategoryUseCase(store, logger.Discard())
	ctx := context.Background()
	for _, name := range []string{"Travel", "Events", "Portraits"} {
		if _, err := uc.CreateCategory(ctx, domain.Category{Name: name, Slug: strings.ToLower(name)}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		sort string
		want []string
	}{
		{"", []string{"events", "portraits", "travel"}},
		{"-name", []string{"travel", "portraits", "events"}},
		{"created_at", []string{"travel", "events", "portraits"}},
		{"-created_at", []string{"portraits", "events", "travel"}},
	}
	for _, tt := range tests {
		t.Run("sort="+tt.sort, func(t *testing.T) {
			list, err := uc.ListCategories(ctx, ListParams{Sort: tt.sort})
			if err != nil {
				t.Fatal(err)
			}
			if got := categorySlugs(list); !equalStrings(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}

	list, err := uc.ListCategories(ctx, ListParams{Limit: 2})
	if err != nil || len(list) != 2 {
		t.Errorf("limit: got %d, err %v", len(list), err)
	}

	if _, err := uc.ListCategories(ctx, ListParams{Sort: "cover_url"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unsupported sort error = %v", err)
	}
	if _, err := uc.ListCategories(ctx, ListParams{Limit: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative limit error = %v", err)
	}
}

func categorySlugs(list []domain.Category) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Slug)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
