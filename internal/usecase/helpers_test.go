package usecase

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/database/memory"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/logger"
	"github.com/GoArmGo/PortfolioApp/internal/messaging/payloads"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(logger.Discard())
	if err := store.EnsureUniqueIndex(context.Background(), domain.CollectionCategory, "slug"); err != nil {
		t.Fatal(err)
	}
	return store
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []payloads.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event payloads.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memFiles struct {
	mu        sync.Mutex
	files     map[string][]byte
	saveErr   error
	deleteErr error
	deleted   []string
}

func newMemFiles() *memFiles {
	return &memFiles{files: make(map[string][]byte)}
}

func (m *memFiles) SaveFile(ctx context.Context, name string, content io.Reader) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
	return int64(len(data)), nil
}

func (m *memFiles) DeleteFile(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, name)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.files, name)
	return nil
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// failingStore возвращает ошибку на Create для выбранной коллекции.
type failingStore struct {
	ports.DocumentStore
	collection string
}

func (s failingStore) Create(ctx context.Context, collection string, docs ...ports.Document) ([]ports.Document, error) {
	if collection == s.collection {
		return nil, errors.New("store unavailable")
	}
	return s.DocumentStore.Create(ctx, collection, docs...)
}

func mustCreateCategory(t *testing.T, store ports.DocumentStore, slug string) {
	t.Helper()
	if _, err := NewCategoryUseCase(store, logger.Discard()).CreateCategory(context.Background(), domain.Category{Name: slug, Slug: slug}); err != nil {
		t.Fatalf("create category %s: %v", slug, err)
	}
}

func mustCreateFolder(t *testing.T, store ports.DocumentStore, slug, categorySlug string) *domain.Folder {
	t.Helper()
	f, err := NewFolderUseCase(store, logger.Discard()).CreateFolder(context.Background(), domain.Folder{Name: slug, Slug: slug, CategorySlug: categorySlug})
	if err != nil {
		t.Fatalf("create folder %s: %v", slug, err)
	}
	return f
}

func pngData(t *testing.T, w, h int, alpha bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	a := uint8(255)
	if alpha {
		a = 128
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: a})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func strp(s string) *string { return &s }
