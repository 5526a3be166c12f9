package uploads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store локальное хранилище скриншотов оплаты
// Файлы лежат в dir, наружу отдаются по publicURL + "/" + имя
type Store struct {
	dir       string
	publicURL string
	maxBytes  int64
}

// NewStore создает каталог при необходимости
func NewStore(dir, publicURL string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create dir %s: %v", ErrWrite, dir, err)
	}
	return &Store{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
	}, nil
}

// Dir каталог с файлами
func (s *Store) Dir() string {
	return s.dir
}

// Save проверяет размер и тип содержимого и сохраняет файл под случайным именем
// Тип определяется по содержимому, заявленный клиентом тип не учитывается
func (s *Store) Save(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrWrite, err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", ErrWrite, name, err)
	}

	return s.publicURL + "/" + name, nil
}

// Delete удаляет файл по его URI, отсутствие файла не ошибка
func (s *Store) Delete(_ context.Context, uri string) error {
	if uri == "" {
		return nil
	}

	name := path.Base(strings.TrimPrefix(uri, s.publicURL))
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %v", ErrWrite, name, err)
	}
	return nil
}
