package memstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// ErrUploadRejected возвращается UploadStore, когда задан Reject
var ErrUploadRejected = errors.New("memstore: upload rejected")

// UploadStore хранилище скриншотов в памяти
type UploadStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	n      int
	Reject error // если задан, Save возвращает его
}

// NewUploadStore пустое хранилище файлов
func NewUploadStore() *UploadStore {
	return &UploadStore{files: make(map[string][]byte)}
}

func (u *UploadStore) Save(_ context.Context, r io.Reader) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.Reject != nil {
		return "", u.Reject
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.n++
	uri := fmt.Sprintf("/uploads/payments/%d.png", u.n)
	u.files[uri] = bytes.Clone(data)
	return uri, nil
}

func (u *UploadStore) Delete(_ context.Context, uri string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.files, uri)
	return nil
}

// Count количество сохранённых файлов
func (u *UploadStore) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.files)
}

// Has сохранён ли файл
func (u *UploadStore) Has(uri string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.files[uri]
	return ok
}

// Notifier записывает уведомления вместо отправки
type Notifier struct {
	mu      sync.Mutex
	Created []int64
	Changed map[int64]domain.BookingStatus
}

// NewNotifier пустой журнал уведомлений
func NewNotifier() *Notifier {
	return &Notifier{Changed: make(map[int64]domain.BookingStatus)}
}

func (n *Notifier) BookingCreated(b *domain.Booking, _ *domain.BookingType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Created = append(n.Created, b.ID)
}

func (n *Notifier) BookingStatusChanged(b *domain.Booking, _ *domain.BookingType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Changed[b.ID] = b.Status
}

// Publisher записывает события
type Publisher struct {
	mu     sync.Mutex
	Events []domain.BookingEvent
}

func (p *Publisher) Publish(_ context.Context, event domain.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

// Types типы опубликованных событий по порядку
func (p *Publisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.Type)
	}
	return out
}

// Clock фиксированные часы
type Clock struct {
	T time.Time
}

func (c Clock) Now() time.Time { return c.T }

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
