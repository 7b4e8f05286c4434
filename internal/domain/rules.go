package domain

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gosimple/slug"
)

const (
	maxNameLength        = 120
	maxDescriptionLength = 2000
	maxTagLength         = 50
)

// slugRule пропускает пустые значения: обязательность задаётся отдельно через Required.
var slugRule = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !slug.IsSlug(s) {
		return errors.New("must be a lowercase URL slug (letters, digits and dashes)")
	}
	return nil
})

// IsSlug сообщает, является ли строка допустимым slug.
func IsSlug(s string) bool {
	return slug.IsSlug(s)
}

// positiveRule проверяет необязательное целое: если значение задано, оно должно быть >= 1.
// validation.Min считает 0 пустым значением и пропускает его.
var positiveRule = validation.By(func(value any) error {
	p, _ := value.(*int)
	if p != nil && *p < 1 {
		return errors.New("must be no less than 1")
	}
	return nil
})
