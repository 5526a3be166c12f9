package notifications

import "context"

// Sender отправка письма
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
