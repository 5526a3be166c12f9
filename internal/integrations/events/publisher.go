package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// Publisher публикует события бронирований в канал Redis
type Publisher struct {
	client  *redis.Client
	channel string
	log     Logger
}

// NewPublisher создает новый экземпляр издателя событий
func NewPublisher(client *redis.Client, channel string, log Logger) *Publisher {
	return &Publisher{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// Publish отправляет событие в канал
// Пустые ID и время события заполняются здесь
func (p *Publisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("%w: channel=%s: %v", ErrPublish, p.channel, err)
	}

	p.log.Info("Event published: type=%s, booking_id=%d, channel=%s", event.Type, event.BookingID, p.channel)
	return nil
}

// Subscribe читает события канала до отмены контекста
// Используется потоком доступности, чтобы не ждать следующего тика после изменения журнала
func (p *Publisher) Subscribe(ctx context.Context) <-chan domain.BookingEvent {
	out := make(chan domain.BookingEvent, 16)
	sub := p.client.Subscribe(ctx, p.channel)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.BookingEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					p.log.Warn("Failed to decode booking event: %v", err)
					continue
				}
				select {
				case out <- event:
				default:
				}
			}
		}
	}()

	return out
}
