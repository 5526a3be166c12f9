package events

import "errors"

var (
	// ErrEncode не удалось сериализовать событие
	ErrEncode = errors.New("events: failed to encode event")

	// ErrPublish Redis не принял сообщение
	ErrPublish = errors.New("events: failed to publish event")
)
