package ports

import "context"

// CredentialChecker проверяет учётные данные для административных действий.
// Возвращает domain.ErrUnauthorized, если доступ запрещён.
type CredentialChecker interface {
	Check(ctx context.Context, credential string) error
}
