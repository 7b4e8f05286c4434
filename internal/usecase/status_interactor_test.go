package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/logger"
)

type downStore struct {
	ports.DocumentStore
}

func (downStore) Ping(ctx context.Context) error {
	return errors.New(strings.Repeat("connection refused ", 10))
}

func TestStatus(t *testing.T) {
	store := newStore(t)
	mustCreateCategory(t, store, "portraits")

	got := NewStatusUseCase(store, "memory", logger.Discard()).Status(context.Background())
	if got.Backend != "running" || got.Database != "connected" || got.Driver != "memory" {
		t.Errorf("status = %+v", got)
	}
	if len(got.Collections) != 1 || got.Collections[0] != "category" {
		t.Errorf("collections = %v", got.Collections)
	}
}

func TestStatusDegradesOnStoreError(t *testing.T) {
	got := NewStatusUseCase(downStore{}, "mongo", logger.Discard()).Status(context.Background())
	if !strings.HasPrefix(got.Database, "error: connection refused") {
		t.Errorf("database = %q", got.Database)
	}
	if len(got.Database) > len("error: ")+maxStatusErrorLen {
		t.Errorf("error message not truncated: %d chars", len(got.Database))
	}
	if got.Collections == nil {
		t.Error("collections must be an empty list, not null")
	}
}
