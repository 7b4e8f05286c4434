package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CollectionImage — имя коллекции изображений в хранилище.
const CollectionImage = "image"

// Image — запись об опубликованной фотографии.
type Image struct {
	ID           string    `json:"id,omitempty"`
	URL          string    `json:"url"`
	Alt          *string   `json:"alt"`
	Width        *int      `json:"width"`
	Height       *int      `json:"height"`
	CategorySlug string    `json:"category_slug"`
	FolderID     *string   `json:"folder_id"`
	Tags         []string  `json:"tags"`
	// File — имя файла в каталоге загрузок; задаётся только при POST /upload.
	File         *string   `json:"file,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (i Image) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.URL, validation.Required, is.RequestURL),
		validation.Field(&i.Alt, validation.Length(0, maxDescriptionLength)),
		validation.Field(&i.Width, positiveRule),
		validation.Field(&i.Height, positiveRule),
		validation.Field(&i.CategorySlug, validation.Required, slugRule),
		validation.Field(&i.FolderID, validation.NilOrNotEmpty),
		validation.Field(&i.Tags, validation.Each(validation.Required, validation.Length(1, maxTagLength))),
		validation.Field(&i.File, validation.NilOrNotEmpty),
	)
}

func (i Image) Document() map[string]any {
	return map[string]any{
		"url":           i.URL,
		"alt":           i.Alt,
		"width":         i.Width,
		"height":        i.Height,
		"category_slug": i.CategorySlug,
		"folder_id":     i.FolderID,
		"tags":          i.Tags,
		"file":          i.File,
	}
}
