package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок. Транспортный слой выбирает код ответа по виду через errors.Is
var (
	// ErrValidation некорректные или неполные входные данные (4xx)
	ErrValidation = errors.New("validation error")

	// ErrConflict конфликт со свежим состоянием: слот занят, не хватает мест, дата заблокирована
	ErrConflict = errors.New("conflict")

	// ErrNotFound неизвестный тип, бронирование, слот или доп. услуга
	ErrNotFound = errors.New("not found")

	// ErrStorage сбой хранилища или транзакции, наружу уходит общее сообщение
	ErrStorage = errors.New("storage error")
)

// Error ошибка с сообщением для пользователя
// Kind один из Err* выше, Cause конкретная причина (сентинел пакета)
type Error struct {
	Kind    error
	Cause   error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap позволяет errors.Is находить и вид, и причину
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewValidationError ошибка валидации с сообщением
func NewValidationError(cause error, format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Cause: cause, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError конфликт с сообщением
func NewConflictError(cause error, format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Cause: cause, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError объект не найден
func NewNotFoundError(cause error, format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Cause: cause, Message: fmt.Sprintf(format, args...)}
}

// UserMessage возвращает сообщение для пользователя, если оно есть
func UserMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message, true
	}
	return "", false
}
