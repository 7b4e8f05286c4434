package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CollectionFolder — имя коллекции папок в хранилище.
const CollectionFolder = "folder"

// Folder принадлежит категории и может быть вложен в другую папку через ParentID
// (в основном используется для событий).
type Folder struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	CategorySlug string    `json:"category_slug"`
	ParentID     *string   `json:"parent_id"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (f Folder) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&f.Slug, validation.Required, validation.Length(1, maxNameLength), slugRule),
		validation.Field(&f.CategorySlug, validation.Required, slugRule),
		validation.Field(&f.ParentID, validation.NilOrNotEmpty),
		validation.Field(&f.Description, validation.Length(0, maxDescriptionLength)),
	)
}

func (f Folder) Document() map[string]any {
	return map[string]any{
		"name":          f.Name,
		"slug":          f.Slug,
		"category_slug": f.CategorySlug,
		"parent_id":     f.ParentID,
		"description":   f.Description,
	}
}
