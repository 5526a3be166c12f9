package mailer

import "errors"

var (
	// ErrDial не удалось подключиться к SMTP серверу
	ErrDial = errors.New("mailer: dial failed")

	// ErrSend сервер отклонил письмо или соединение оборвалось
	ErrSend = errors.New("mailer: send failed")

	// ErrNoRecipient адрес получателя пуст
	ErrNoRecipient = errors.New("mailer: empty recipient")
)
