package domain

import "errors"

// Базовые категории ошибок сервисного слоя. Сервисы оборачивают их через
// fmt.Errorf("%w: ...") с пояснением, транспортный слой отображает в
// HTTP-статусы через errors.Is.
var (
	ErrValidation   = errors.New("ошибка валидации")
	ErrNotFound     = errors.New("не найдено")
	ErrConflict     = errors.New("конфликт")
	ErrForbidden    = errors.New("доступ запрещен")
	ErrInvalidState = errors.New("недопустимое состояние")
	ErrUnauthorized = errors.New("требуется авторизация")
)
