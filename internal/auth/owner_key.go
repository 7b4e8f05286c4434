package auth

import (
	"context"
	"crypto/subtle"

	"github.com/GoArmGo/PortfolioApp/internal/domain"
)

// OwnerKeyChecker сверяет переданный ключ с секретом владельца из конфигурации.
// Пустой секрет запрещает доступ всем.
type OwnerKeyChecker struct {
	key []byte
}

func NewOwnerKeyChecker(key string) *OwnerKeyChecker {
	return &OwnerKeyChecker{key: []byte(key)}
}

func (c *OwnerKeyChecker) Check(ctx context.Context, credential string) error {
	if len(c.key) == 0 || subtle.ConstantTimeCompare(c.key, []byte(credential)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}
