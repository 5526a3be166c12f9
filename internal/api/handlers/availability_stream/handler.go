package availability_stream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	getAvailabilityHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/get_availability"
	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-HubBookingService/internal/usecase/get_availability"
)

const (
	writeTimeout = 10 * time.Second
)

type Handler struct {
	useCase      GetAvailabilityUseCase
	subscriber   EventSubscriber
	upgrader     websocket.Upgrader
	pollInterval time.Duration
	location     *time.Location
	logger       Logger
}

// NewHandler subscriber может быть nil, тогда обновления идут только по таймеру
// allowedOrigins пустой или с "*" пропускает любой Origin
func NewHandler(
	useCase GetAvailabilityUseCase,
	subscriber EventSubscriber,
	pollInterval time.Duration,
	allowedOrigins []string,
	location *time.Location,
	logger Logger,
) *Handler {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Handler{
		useCase:    useCase,
		subscriber: subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		pollInterval: pollInterval,
		location:     location,
		logger:       logger,
	}
}

// Handle GET /api/v1/types/{typeId}/availability/stream
// Query params те же, что у REST ручки. Снимок отправляется сразу,
// затем по таймеру и после каждого события журнала на даты диапазона
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, msg, err := getAvailabilityHandler.ParseRequest(r, h.location)
	if err != nil {
		h.logger.Warn("GET /types/{id}/availability/stream - Invalid request: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrader уже ответил клиенту
		h.logger.Warn("GET /types/{id}/availability/stream - Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	// Входящие сообщения не нужны, чтение только ловит закрытие соединения
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var events <-chan domain.BookingEvent
	if h.subscriber != nil {
		events = h.subscriber.Subscribe(ctx)
	}

	h.logger.Info("GET /types/{id}/availability/stream - Stream opened: type_id=%d, remote=%s", req.TypeID, r.RemoteAddr)

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		if !h.push(ctx, conn, req) {
			break
		}

		select {
		case <-ctx.Done():
			h.logger.Info("GET /types/{id}/availability/stream - Stream closed: type_id=%d", req.TypeID)
			return
		case <-ticker.C:
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !inRange(event, req, h.location) {
				continue
			}
		}
	}

	h.logger.Info("GET /types/{id}/availability/stream - Stream closed: type_id=%d", req.TypeID)
}

// push отправляет снимок, false означает что поток надо закрыть
func (h *Handler) push(ctx context.Context, conn *websocket.Conn, req *getAvailability.Request) bool {
	resp, err := h.useCase.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false
		}

		if msg, ok := domain.UserMessage(err); ok {
			h.write(conn, Message{Type: messageError, Error: msg})
			return false
		}

		// Временная ошибка хранилища, клиент получит следующий снимок
		h.logger.Error("GET /types/{id}/availability/stream - Failed to compute availability: type_id=%d, error=%v", req.TypeID, err)
		return true
	}

	data := getAvailabilityHandler.FromUseCaseResponse(resp)
	return h.write(conn, Message{Type: messageAvailability, Data: &data})
}

func (h *Handler) write(conn *websocket.Conn, msg Message) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn("GET /types/{id}/availability/stream - Write failed: %v", err)
		return false
	}
	return true
}

// inRange попадает ли дата события в запрошенный диапазон
// Тип события не сравнивается: изменения парного тура тоже меняют доступность
func inRange(event domain.BookingEvent, req *getAvailability.Request, loc *time.Location) bool {
	date, err := time.ParseInLocation(domain.DateFormat, event.BookingDate, loc)
	if err != nil {
		return true
	}
	to := req.To
	if to.IsZero() {
		to = req.From
	}
	return !date.Before(domain.DateOnly(req.From)) && !date.After(domain.DateOnly(to))
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
