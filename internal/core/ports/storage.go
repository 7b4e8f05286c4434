package ports

import (
	"context"
	"errors"
	"io"
)

// Служебные поля, которые хранилище проставляет само.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

var (
	// ErrInvalidID возвращается, когда фильтр по id содержит значение
	// в формате, который хранилище не может интерпретировать.
	ErrInvalidID = errors.New("invalid document id")
	// ErrDuplicate возвращается при нарушении уникального индекса.
	ErrDuplicate = errors.New("duplicate document")
)

// Document — запись коллекции. Идентификатор всегда лежит в поле "id" строкой.
type Document map[string]any

// ID возвращает строковый идентификатор документа.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Filter — фильтр по равенству полей верхнего уровня. Ключ "id" адресует
// идентификатор хранилища.
type Filter map[string]any

// SortField задаёт поле сортировки и направление.
type SortField struct {
	Field string
	Desc  bool
}

// ListOptions — параметры выборки. Limit <= 0 означает без ограничения.
type ListOptions struct {
	Limit int
	Sort  []SortField
}

// DocumentStore определяет методы для работы с документным хранилищем.
type DocumentStore interface {
	// Create вставляет один или несколько документов, проставляет created_at/updated_at
	// и возвращает вставленные документы с нормализованным id.
	Create(ctx context.Context, collection string, docs ...Document) ([]Document, error)

	// List возвращает документы, подходящие под фильтр.
	List(ctx context.Context, collection string, filter Filter, opts ListOptions) ([]Document, error)

	// Update применяет changes ко всем подходящим документам и обновляет updated_at.
	// Возвращает число изменённых документов.
	Update(ctx context.Context, collection string, filter Filter, changes Document) (int64, error)

	// Delete удаляет подходящие документы и возвращает их число.
	Delete(ctx context.Context, collection string, filter Filter) (int64, error)

	// Collections возвращает имена существующих коллекций.
	Collections(ctx context.Context) ([]string, error)

	// EnsureUniqueIndex создаёт (если ещё нет) уникальный индекс по полю коллекции.
	// Вставка дубликата после этого возвращает ErrDuplicate.
	EnsureUniqueIndex(ctx context.Context, collection, field string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем
// обработанных изображений.
type FileStorage interface {
	// SaveFile записывает содержимое под именем name и возвращает его размер.
	SaveFile(ctx context.Context, name string, content io.Reader) (int64, error)

	// DeleteFile удаляет файл. Отсутствующий файл — не ошибка.
	DeleteFile(ctx context.Context, name string) error
}
