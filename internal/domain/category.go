package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CollectionCategory — имя коллекции категорий в хранилище.
const CollectionCategory = "category"

// Category — раздел портфолио (портреты, события, стрит...).
// Slug уникален среди всех категорий.
type Category struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CoverURL    *string   `json:"cover_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&c.Slug, validation.Required, validation.Length(1, maxNameLength), slugRule),
		validation.Field(&c.Description, validation.Length(0, maxDescriptionLength)),
		validation.Field(&c.CoverURL, is.RequestURL),
	)
}

// Document возвращает пользовательские поля для записи в хранилище.
func (c Category) Document() map[string]any {
	return map[string]any{
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"cover_url":   c.CoverURL,
	}
}
