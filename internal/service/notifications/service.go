package notifications

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// Service уведомления по бронированиям
// Отправка асинхронная, ошибка только логируется и на бронирование не влияет
type Service struct {
	sender        Sender
	operatorEmail string
	currency      string
	timeout       time.Duration
	logger        Logger
	wg            sync.WaitGroup
}

// NewService создает сервис уведомлений
// sender == nil отключает отправку
func NewService(sender Sender, operatorEmail, currency string, timeout time.Duration, logger Logger) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		sender:        sender,
		operatorEmail: operatorEmail,
		currency:      currency,
		timeout:       timeout,
		logger:        logger,
	}
}

// BookingCreated письмо оператору о новой заявке
func (s *Service) BookingCreated(b *domain.Booking, t *domain.BookingType) {
	subject := "New Booking Request - " + t.Name

	var body strings.Builder
	body.WriteString("A new booking request has been submitted.\n\n")
	body.WriteString("Customer Details:\n")
	fmt.Fprintf(&body, "Name: %s\nEmail: %s\nPhone: %s\n\n", b.CustomerName, b.CustomerEmail, b.CustomerPhone)
	body.WriteString(s.Breakdown(b, t))
	body.WriteString("\nPayment Information:\n")
	fmt.Fprintf(&body, "Transaction ID: %s\n", orNotProvided(b.TransactionID))
	fmt.Fprintf(&body, "Payment Screenshot: %s\n", orNotProvided(b.PaymentImage))
	if b.Notes != nil && *b.Notes != "" {
		fmt.Fprintf(&body, "\nAdditional Notes:\n%s\n", *b.Notes)
	}

	s.dispatch(s.operatorEmail, subject, body.String())
}

// BookingStatusChanged письмо клиенту при подтверждении или отклонении
func (s *Service) BookingStatusChanged(b *domain.Booking, t *domain.BookingType) {
	var subject, lead string
	switch b.Status {
	case domain.StatusApproved:
		subject = "Booking Confirmed - " + t.Name
		lead = "Great news! Your booking has been confirmed."
	case domain.StatusRejected:
		subject = "Booking Rejected - " + t.Name
		lead = "Unfortunately your booking request could not be accepted."
	default:
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n%s\n\n", b.CustomerName, lead)
	body.WriteString(s.Breakdown(b, t))
	if b.Status == domain.StatusApproved {
		body.WriteString("\nWe look forward to seeing you!\n")
	}

	s.dispatch(b.CustomerEmail, subject, body.String())
}

// Breakdown текстовая раскладка стоимости бронирования
func (s *Service) Breakdown(b *domain.Booking, t *domain.BookingType) string {
	var out strings.Builder
	out.WriteString("Booking Details:\n")
	fmt.Fprintf(&out, "Booking Type: %s\n", t.Name)
	fmt.Fprintf(&out, "Date: %s\n", b.BookingDate.Format("January 2, 2006"))

	switch cfg := t.Config.(type) {
	case domain.IndividualTourConfig:
		fmt.Fprintf(&out, "Tour Time: %s - %s\n", cfg.TourStart, cfg.TourEnd)
		fmt.Fprintf(&out, "Number of Tickets: %d x %s\n", b.TicketCount, s.money(cfg.TicketPrice))

	case domain.EventTourConfig:
		fmt.Fprintf(&out, "Tour Time: %s - %s\n", cfg.TourStart, cfg.TourEnd)
		fmt.Fprintf(&out, "Clusters: %d (up to %d members each)\n", b.TicketCount, cfg.MembersPerCluster)
		for i, h := range b.ClusterHours {
			line := fmt.Sprintf("- Cluster %d: %d hour(s)", i+1, h)
			if i < len(b.ClusterTimeRanges) {
				r := b.ClusterTimeRanges[i]
				line += fmt.Sprintf(" (%s - %s)", r.Start, r.End)
			}
			out.WriteString(line + "\n")
		}
		fmt.Fprintf(&out, "Rate: %s per cluster-hour x %d hour(s)\n",
			s.money(cfg.PricePerCluster), domain.TotalHours(b.ClusterHours))

	default:
		if len(b.Slots) > 0 {
			out.WriteString("Slots:\n")
			for _, slot := range b.Slots {
				fmt.Fprintf(&out, "- %s (%s - %s) - %s\n", slot.Name, slot.StartTime, slot.EndTime, s.money(slot.Price))
			}
		}
		if len(b.Addons) > 0 {
			out.WriteString("Add-ons:\n")
			for _, a := range b.Addons {
				fmt.Fprintf(&out, "- %s x %d - %s\n", a.AddonName, a.Quantity, s.money(a.LineTotal()))
			}
		}
	}

	fmt.Fprintf(&out, "Total Price: %s\n", s.money(b.TotalPrice))
	return out.String()
}

// Wait ждёт завершения отправок, вызывается при остановке сервиса
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) dispatch(to, subject, body string) {
	if s.sender == nil {
		return
	}
	if to == "" {
		s.logger.Warn("Notification skipped, empty recipient: subject=%q", subject)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.sender.Send(ctx, to, subject, body); err != nil {
			s.logger.Error("Notification failed: to=%s, subject=%q: %v", to, subject, err)
		}
	}()
}

func (s *Service) money(v float64) string {
	if s.currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%s %.2f", s.currency, v)
}

func orNotProvided(v *string) string {
	if v == nil || *v == "" {
		return "Not provided"
	}
	return *v
}
