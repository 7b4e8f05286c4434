package payloads

import "time"

// Типы событий, которые публикует приложение.
const (
	EventContactReceived = "contact.received"
	EventImageUploaded   = "image.uploaded"
)

// Event — конверт события, отправляемый в очередь в виде JSON.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// ContactReceived — данные события о новом сообщении с контактной формы.
type ContactReceived struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	ShootType *string `json:"shoot_type,omitempty"`
}

// ImageUploaded — данные события о загруженном и обработанном изображении.
type ImageUploaded struct {
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	CategorySlug string `json:"category_slug,omitempty"`
	ImageID      string `json:"image_id,omitempty"`
}

// NewEvent собирает конверт с текущим временем.
func NewEvent(eventType string, data any) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
}
