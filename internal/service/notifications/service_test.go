package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/testkit/memstore"
	"github.com/m04kA/SMC-HubBookingService/pkg/ptr"
)

type mail struct {
	to, subject, body string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []mail
	fail error
}

func (r *recordingSender) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, mail{to: to, subject: subject, body: body})
	return nil
}

var date = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

func hallBooking() (*domain.Booking, *domain.BookingType) {
	bt := &domain.BookingType{ID: 1, Name: "Main Hall", Category: domain.CategoryHall, Config: domain.HallConfig{}}
	b := &domain.Booking{
		ID: 7, BookingTypeID: 1, BookingDate: date, CustomerName: "Alice", CustomerEmail: "alice@example.com",
		CustomerPhone: "+100", TotalPrice: 160, Status: domain.StatusPending, TransactionID: ptr.Ptr("TX-1"),
		Slots:  []domain.Slot{{Name: "Morning", StartTime: "10:00", EndTime: "12:00", Price: 100}},
		Addons: []domain.BookingAddon{{AddonName: "Projector", AddonPrice: 30, Quantity: 2}},
	}
	return b, bt
}

func TestBreakdown_Hall(t *testing.T) {
	svc := NewService(nil, "", "USD", 0, memstore.NopLogger{})
	b, bt := hallBooking()

	assert.Equal(t, "Booking Details:\n"+
		"Booking Type: Main Hall\n"+
		"Date: October 20, 2025\n"+
		"Slots:\n"+
		"- Morning (10:00 - 12:00) - USD 100.00\n"+
		"Add-ons:\n"+
		"- Projector x 2 - USD 60.00\n"+
		"Total Price: USD 160.00\n", svc.Breakdown(b, bt))
}

func TestBreakdown_EventTour(t *testing.T) {
	svc := NewService(nil, "", "", 0, memstore.NopLogger{})
	bt := &domain.BookingType{
		Name: "Group Tour", Category: domain.CategoryEventTour,
		Config: domain.EventTourConfig{TourStart: "09:00", TourEnd: "17:00", MembersPerCluster: 20, PricePerCluster: 50},
	}
	b := &domain.Booking{
		BookingDate: date, TicketCount: 2, ClusterHours: []int{3, 1}, TotalPrice: 200,
		ClusterTimeRanges: []domain.TimeRange{{Start: "09:00", End: "12:00"}},
	}

	assert.Equal(t, "Booking Details:\n"+
		"Booking Type: Group Tour\n"+
		"Date: October 20, 2025\n"+
		"Tour Time: 09:00 - 17:00\n"+
		"Clusters: 2 (up to 20 members each)\n"+
		"- Cluster 1: 3 hour(s) (09:00 - 12:00)\n"+
		"- Cluster 2: 1 hour(s)\n"+
		"Rate: 50.00 per cluster-hour x 4 hour(s)\n"+
		"Total Price: 200.00\n", svc.Breakdown(b, bt))
}

func TestBookingCreated_MailsOperator(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "ops@example.com", "", time.Second, memstore.NopLogger{})
	b, bt := hallBooking()

	svc.BookingCreated(b, bt)
	svc.Wait()

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ops@example.com", sender.sent[0].to)
	assert.Equal(t, "New Booking Request - Main Hall", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "Transaction ID: TX-1")
	assert.Contains(t, sender.sent[0].body, "Payment Screenshot: Not provided")
}

func TestBookingStatusChanged(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "ops@example.com", "", time.Second, memstore.NopLogger{})
	b, bt := hallBooking()

	// pending писем не порождает
	svc.BookingStatusChanged(b, bt)

	b.Status = domain.StatusApproved
	svc.BookingStatusChanged(b, bt)
	b.Status = domain.StatusRejected
	svc.BookingStatusChanged(b, bt)
	svc.Wait()

	require.Len(t, sender.sent, 2)
	subjects := []string{sender.sent[0].subject, sender.sent[1].subject}
	assert.ElementsMatch(t, []string{"Booking Confirmed - Main Hall", "Booking Rejected - Main Hall"}, subjects)
	assert.Equal(t, "alice@example.com", sender.sent[0].to)
}

func TestDispatch_FailureAndEmptyRecipient(t *testing.T) {
	sender := &recordingSender{fail: errors.New("smtp down")}
	svc := NewService(sender, "", "", time.Second, memstore.NopLogger{})
	b, bt := hallBooking()

	assert.NotPanics(t, func() {
		svc.BookingCreated(b, bt)
		b.Status = domain.StatusApproved
		svc.BookingStatusChanged(b, bt)
		svc.Wait()
	})
	assert.Empty(t, sender.sent)
}
