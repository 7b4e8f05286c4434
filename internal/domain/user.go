package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// RoleOwner — единственная роль: владелец сайта.
const RoleOwner = "owner"

// User — владелец сайта. Ни один маршрут пока не работает с этой моделью.
type User struct {
	ID           string    `json:"id,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Email, validation.Required, is.EmailFormat),
		validation.Field(&u.PasswordHash, validation.Required),
		validation.Field(&u.Role, validation.In(RoleOwner)),
	)
}

// Settings — настройки сайта (например, главное изображение).
type Settings struct {
	HeroURL *string `json:"hero_url"`
}

func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.HeroURL, is.RequestURL),
	)
}
