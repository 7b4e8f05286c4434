package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/logger"
)

func TestCreateFolderReferences(t *testing.T) {
	store := newStore(t)
	mustCreateCategory(t, store, "events")
	mustCreateCategory(t, store, "travel")
	parent := mustCreateFolder(t, store, "smith-wedding", "events")

	uc := NewFolderUseCase(store, logger.Discard())
	ctx := context.Background()

	tests := []struct {
		name    string
		folder  domain.Folder
		wantErr error
	}{
		{
			name:   "nested in same category",
			folder: domain.Folder{Name: "Ceremony", Slug: "ceremony", CategorySlug: "events", ParentID: strp(parent.ID)},
		},
		{
			name:   "blank parent is root",
			folder: domain.Folder{Name: "Gala", Slug: "gala", CategorySlug: "events", ParentID: strp("")},
		},
		{
			name:    "unknown category",
			folder:  domain.Folder{Name: "Ceremony", Slug: "ceremony", CategorySlug: "weddings"},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "unknown parent",
			folder:  domain.Folder{Name: "Ceremony", Slug: "ceremony", CategorySlug: "events", ParentID: strp("00000000-0000-0000-0000-000000000000")},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "malformed parent id",
			folder:  domain.Folder{Name: "Ceremony", Slug: "ceremony", CategorySlug: "events", ParentID: strp("nope")},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "parent in another category",
			folder:  domain.Folder{Name: "Lisbon", Slug: "lisbon", CategorySlug: "travel", ParentID: strp(parent.ID)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "invalid payload",
			folder:  domain.Folder{Name: "", Slug: "x", CategorySlug: "events"},
			wantErr: domain.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := uc.CreateFolder(ctx, tt.folder)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateFolder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateFolder() error = %v", err)
			}
			if created.ID == "" {
				t.Error("created folder has no id")
			}
		})
	}
}

func TestListFoldersFilters(t *testing.T) {
	store := newStore(t)
	mustCreateCategory(t, store, "events")
	mustCreateCategory(t, store, "travel")
	parent := mustCreateFolder(t, store, "smith-wedding", "events")
	mustCreateFolder(t, store, "lisbon", "travel")

	uc := NewFolderUseCase(store, logger.Discard())
	ctx := context.Background()
	if _, err := uc.CreateFolder(ctx, domain.Folder{Name: "Ceremony", Slug: "ceremony", CategorySlug: "events", ParentID: strp(parent.ID)}); err != nil {
		t.Fatal(err)
	}

	all, err := uc.ListFolders(ctx, FolderFilter{}, ListParams{})
	if err != nil || len(all) != 3 {
		t.Fatalf("unfiltered list = %d, %v", len(all), err)
	}
	if all[0].Name != "Ceremony" {
		t.Errorf("default order should be by name, first = %s", all[0].Name)
	}

	events, err := uc.ListFolders(ctx, FolderFilter{CategorySlug: "events"}, ListParams{})
	if err != nil || len(events) != 2 {
		t.Fatalf("events list = %d, %v", len(events), err)
	}
	for _, f := range events {
		if f.CategorySlug != "events" {
			t.Errorf("unexpected category %s", f.CategorySlug)
		}
	}

	children, err := uc.ListFolders(ctx, FolderFilter{ParentID: parent.ID}, ListParams{})
	if err != nil || len(children) != 1 || children[0].Slug != "ceremony" {
		t.Errorf("children = %+v, %v", children, err)
	}
}
