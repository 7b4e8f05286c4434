package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CollectionContactMessage — имя коллекции сообщений с контактной формы.
const CollectionContactMessage = "contactmessage"

// ContactMessage — заявка с формы обратной связи, хранится для последующего ответа.
type ContactMessage struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Budget    *string   `json:"budget"`
	ShootType *string   `json:"shoot_type"` // Portrait, Event, Street, Other
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m ContactMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&m.Email, validation.Required, is.EmailFormat),
		validation.Field(&m.Message, validation.Required, validation.Length(1, 5000)),
		validation.Field(&m.Budget, validation.Length(0, maxNameLength)),
		validation.Field(&m.ShootType, validation.Length(0, maxNameLength)),
	)
}

func (m ContactMessage) Document() map[string]any {
	return map[string]any{
		"name":       m.Name,
		"email":      m.Email,
		"message":    m.Message,
		"budget":     m.Budget,
		"shoot_type": m.ShootType,
	}
}
