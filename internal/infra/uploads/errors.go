package uploads

import "errors"

var (
	// ErrTooLarge файл больше допустимого размера
	ErrTooLarge = errors.New("uploads: file too large")

	// ErrUnsupportedType содержимое не является разрешённым изображением
	ErrUnsupportedType = errors.New("uploads: unsupported content type")

	// ErrEmpty пустой файл
	ErrEmpty = errors.New("uploads: empty file")

	// ErrWrite не удалось записать или удалить файл
	ErrWrite = errors.New("uploads: write failed")
)
