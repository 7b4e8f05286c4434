// Package memory — документное хранилище в памяти процесса. Используется в тестах
// и при STORE_DRIVER=memory для локальной разработки.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string][]ports.Document
	unique      map[string][]string
	now         func() time.Time
	logger      *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		collections: make(map[string][]ports.Document),
		unique:      make(map[string][]string),
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// SetClock подменяет источник времени (для тестов сортировки по created_at).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Create(ctx context.Context, collection string, docs ...ports.Document) ([]ports.Document, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("create in %s: no documents", collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	prepared := make([]ports.Document, 0, len(docs))
	for _, doc := range docs {
		normalized, err := normalize(doc)
		if err != nil {
			return nil, fmt.Errorf("create in %s: %w", collection, err)
		}
		delete(normalized, ports.FieldID)
		normalized[ports.FieldID] = uuid.NewString()
		normalized[ports.FieldCreatedAt] = now
		normalized[ports.FieldUpdatedAt] = now

		if err := s.checkUnique(collection, normalized, prepared); err != nil {
			return nil, err
		}
		prepared = append(prepared, normalized)
	}

	s.collections[collection] = append(s.collections[collection], prepared...)

	out := make([]ports.Document, len(prepared))
	for i, doc := range prepared {
		out[i] = clone(doc)
	}

	s.logger.Debug("documents created", "collection", collection, "count", len(out))
	return out, nil
}

func (s *Store) List(ctx context.Context, collection string, filter ports.Filter, opts ports.ListOptions) ([]ports.Document, error) {
	match, err := s.matcher(filter)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	var out []ports.Document
	for _, doc := range s.collections[collection] {
		if match(doc) {
			out = append(out, clone(doc))
		}
	}
	s.mu.RUnlock()

	if len(opts.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, f := range opts.Sort {
				c := compare(out[i][f.Field], out[j][f.Field])
				if c == 0 {
					continue
				}
				if f.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	if out == nil {
		out = []ports.Document{}
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection string, filter ports.Filter, changes ports.Document) (int64, error) {
	match, err := s.matcher(filter)
	if err != nil {
		return 0, err
	}
	normalized, err := normalize(changes)
	if err != nil {
		return 0, fmt.Errorf("update in %s: %w", collection, err)
	}
	delete(normalized, ports.FieldID)
	delete(normalized, ports.FieldCreatedAt)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var modified int64
	for _, doc := range s.collections[collection] {
		if !match(doc) {
			continue
		}
		for k, v := range normalized {
			doc[k] = v
		}
		doc[ports.FieldUpdatedAt] = now
		modified++
	}
	return modified, nil
}

func (s *Store) Delete(ctx context.Context, collection string, filter ports.Filter) (int64, error) {
	match, err := s.matcher(filter)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	kept := docs[:0]
	var removed int64
	for _, doc := range docs {
		if match(doc) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	s.collections[collection] = kept
	return removed, nil
}

func (s *Store) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.unique[collection] {
		if f == field {
			return nil
		}
	}
	s.unique[collection] = append(s.unique[collection], field)
	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = nil
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

// checkUnique вызывается под блокировкой.
func (s *Store) checkUnique(collection string, doc ports.Document, pending []ports.Document) error {
	for _, field := range s.unique[collection] {
		value, ok := doc[field]
		if !ok || value == nil {
			continue
		}
		for _, docs := range [][]ports.Document{s.collections[collection], pending} {
			for _, existing := range docs {
				if reflect.DeepEqual(existing[field], value) {
					return fmt.Errorf("%s.%s=%v: %w", collection, field, value, ports.ErrDuplicate)
				}
			}
		}
	}
	return nil
}

func (s *Store) matcher(filter ports.Filter) (func(ports.Document) bool, error) {
	if id, ok := filter[ports.FieldID]; ok {
		str, _ := id.(string)
		if _, err := uuid.Parse(str); err != nil {
			return nil, fmt.Errorf("%q: %w", str, ports.ErrInvalidID)
		}
	}

	normalized, err := normalize(ports.Document(filter))
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	return func(doc ports.Document) bool {
		for k, want := range normalized {
			if !reflect.DeepEqual(doc[k], want) {
				return false
			}
		}
		return true
	}, nil
}

// normalize приводит значения к JSON-виду (указатели разыменованы, числа float64),
// чтобы поведение совпадало с хранилищами, которые сериализуют документы.
func normalize(doc ports.Document) (ports.Document, error) {
	if doc == nil {
		return ports.Document{}, nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out ports.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if out == nil {
		out = ports.Document{}
	}
	return out, nil
}

func clone(doc ports.Document) ports.Document {
	out := make(ports.Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = cloneValue(inner)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}

// compare упорядочивает значения одного типа; nil меньше любого значения.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}

	// Разные типы: сравниваем по строковому представлению, чтобы порядок был детерминирован.
	return compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}
