package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"quadra-service/api"
	"quadra-service/internal/models"
	"quadra-service/internal/schedule"
	"quadra-service/internal/storage"
	"quadra-service/pkg/response"
)

// fakeTx satisfies storage.Tx; the fake's writes never go through it, so
// only the commit/rollback counters matter.
type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error   { t.commits++; return nil }
func (t *fakeTx) Rollback() error { t.rollbacks++; return nil }

// fakeStore serves canned collections; mutations touch the slices directly.
type fakeStore struct {
	courts   []models.Court
	hours    []models.OperatingHours
	rules    []models.PricingRule
	classes  []models.RecurringClass
	bookings []models.SingleBooking

	lastTx *fakeTx
}

func (f *fakeStore) BeginTx(ctx context.Context) (storage.Tx, error) {
	f.lastTx = &fakeTx{}
	return f.lastTx, nil
}

func (f *fakeStore) CreateCourt(ctx context.Context, court *models.Court) (string, error) {
	f.courts = append(f.courts, *court)
	return court.ID, nil
}

func (f *fakeStore) GetCourt(ctx context.Context, id string) (*models.Court, error) {
	for i := range f.courts {
		if f.courts[i].ID == id {
			return &f.courts[i], nil
		}
	}
	return nil, response.ErrNotFound
}

func (f *fakeStore) ListCourts(ctx context.Context) ([]models.Court, error) {
	return f.courts, nil
}

func (f *fakeStore) UpdateCourt(ctx context.Context, court *models.Court) error {
	for i := range f.courts {
		if f.courts[i].ID == court.ID {
			f.courts[i] = *court
			return nil
		}
	}
	return response.ErrNotFound
}

func (f *fakeStore) CreateOperatingHours(ctx context.Context, hours *models.OperatingHours) (string, error) {
	f.hours = append(f.hours, *hours)
	return hours.ID, nil
}

func (f *fakeStore) GetOperatingHours(ctx context.Context, id string) (*models.OperatingHours, error) {
	for i := range f.hours {
		if f.hours[i].ID == id {
			return &f.hours[i], nil
		}
	}
	return nil, response.ErrNotFound
}

func (f *fakeStore) ListOperatingHours(ctx context.Context, courtID *string) ([]models.OperatingHours, error) {
	if courtID == nil {
		return f.hours, nil
	}
	var result []models.OperatingHours
	for _, h := range f.hours {
		if h.CourtID == *courtID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (f *fakeStore) UpdateOperatingHours(ctx context.Context, hours *models.OperatingHours) error {
	for i := range f.hours {
		if f.hours[i].ID == hours.ID {
			f.hours[i] = *hours
			return nil
		}
	}
	return response.ErrNotFound
}

func (f *fakeStore) CreatePricingRule(ctx context.Context, rule *models.PricingRule) (string, error) {
	f.rules = append(f.rules, *rule)
	return rule.ID, nil
}

func (f *fakeStore) GetPricingRule(ctx context.Context, id string) (*models.PricingRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == id {
			return &f.rules[i], nil
		}
	}
	return nil, response.ErrNotFound
}

func (f *fakeStore) ListPricingRules(ctx context.Context, courtID *string) ([]models.PricingRule, error) {
	if courtID == nil {
		return f.rules, nil
	}
	var result []models.PricingRule
	for _, rule := range f.rules {
		if rule.CourtID == *courtID {
			result = append(result, rule)
		}
	}
	return result, nil
}

func (f *fakeStore) UpdatePricingRule(ctx context.Context, rule *models.PricingRule) error {
	for i := range f.rules {
		if f.rules[i].ID == rule.ID {
			f.rules[i] = *rule
			return nil
		}
	}
	return response.ErrNotFound
}

func (f *fakeStore) CreateRecurringClass(ctx context.Context, tx storage.Tx, class *models.RecurringClass) (string, error) {
	f.classes = append(f.classes, *class)
	return class.ID, nil
}

func (f *fakeStore) GetRecurringClass(ctx context.Context, id string) (*models.RecurringClass, error) {
	for i := range f.classes {
		if f.classes[i].ID == id {
			return &f.classes[i], nil
		}
	}
	return nil, response.ErrNotFound
}

func (f *fakeStore) ListRecurringClasses(ctx context.Context, courtID *string, activeOnly bool) ([]models.RecurringClass, error) {
	var result []models.RecurringClass
	for _, c := range f.classes {
		if courtID != nil && c.CourtID != *courtID {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (f *fakeStore) DeactivateRecurringClass(ctx context.Context, id string) error {
	for i := range f.classes {
		if f.classes[i].ID == id {
			f.classes[i].IsActive = false
			return nil
		}
	}
	return response.ErrNotFound
}

func (f *fakeStore) CreateBooking(ctx context.Context, tx storage.Tx, booking *models.SingleBooking) (string, error) {
	f.bookings = append(f.bookings, *booking)
	return booking.ID, nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id string) (*models.SingleBooking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			return &f.bookings[i], nil
		}
	}
	return nil, response.ErrNotFound
}

func (f *fakeStore) ListBookings(ctx context.Context, courtID, from, to, status *string) ([]models.SingleBooking, error) {
	var result []models.SingleBooking
	for _, b := range f.bookings {
		if courtID != nil && b.CourtID != *courtID {
			continue
		}
		if from != nil && b.Date < *from {
			continue
		}
		if to != nil && b.Date > *to {
			continue
		}
		if status != nil && string(b.Status) != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID {
			f.bookings[i].Status = status
			return nil
		}
	}
	return response.ErrNotFound
}

func (f *fakeStore) UpdatePaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) error {
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID {
			f.bookings[i].PaymentStatus = status
			return nil
		}
	}
	return response.ErrNotFound
}

type fakeLocker struct {
	denied bool
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return !f.denied, nil
}

func (f *fakeLocker) Unlock(ctx context.Context, key string) error { return nil }

// futureDate returns a date at least a year out; the weekday is derived so
// fixtures can follow whatever day the date lands on.
func futureDate(t *testing.T) (string, int) {
	t.Helper()
	date := time.Now().AddDate(1, 0, 7).Format("2006-01-02")
	wd, err := schedule.Weekday(date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return date, wd
}

func newFixture(t *testing.T) (*fakeStore, *Service, string, int) {
	t.Helper()

	date, wd := futureDate(t)

	store := &fakeStore{
		courts: []models.Court{{ID: "court-1", Name: "Quadra 1", SportType: "beach_tennis", IsActive: true}},
		hours: []models.OperatingHours{
			{ID: "oh-1", CourtID: "court-1", DayOfWeek: wd, StartHour: 7, EndHour: 22, IsActive: true},
		},
		rules: []models.PricingRule{
			{ID: "pr-1", CourtID: "court-1", DurationHours: 1, Price: 120, IsActive: true},
			{ID: "pr-2", CourtID: "court-1", DurationHours: 2, Price: 200, IsActive: true},
		},
	}

	return store, NewService(store, &fakeLocker{}), date, wd
}

func TestGetPrice(t *testing.T) {
	_, service, _, _ := newFixture(t)

	price, err := service.GetPrice(context.Background(), "court-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 200 {
		t.Fatalf("expected 200, got %v", price)
	}

	if _, err := service.GetPrice(context.Background(), "court-1", 3); !errors.Is(err, response.ErrNoPricingRule) {
		t.Fatalf("expected ErrNoPricingRule, got %v", err)
	}
}

func TestCheckBookingConflict(t *testing.T) {
	store, service, date, _ := newFixture(t)

	conflict, err := service.CheckBookingConflict(context.Background(), &api.BookingConflictRequest{
		CourtID:       "court-1",
		Date:          date,
		StartTime:     "09:00",
		DurationHours: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict.HasConflict {
		t.Fatalf("expected free slot, got %+v", conflict)
	}

	store.bookings = append(store.bookings, models.SingleBooking{
		ID: "b-1", CourtID: "court-1", ClientName: "Ana",
		Date: date, StartTime: "09:00", EndTime: "10:00",
		DurationHours: 1, Status: models.BookingConfirmed,
	})

	conflict, err = service.CheckBookingConflict(context.Background(), &api.BookingConflictRequest{
		CourtID:       "court-1",
		Date:          date,
		StartTime:     "09:00",
		DurationHours: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflict.HasConflict || conflict.Label != "Ana" {
		t.Fatalf("expected conflict with Ana, got %+v", conflict)
	}
}

func TestCheckBookingConflict_OutsideOperatingHours(t *testing.T) {
	_, service, date, _ := newFixture(t)

	_, err := service.CheckBookingConflict(context.Background(), &api.BookingConflictRequest{
		CourtID:       "court-1",
		Date:          date,
		StartTime:     "06:00",
		DurationHours: 1,
	})
	if !errors.Is(err, response.ErrOutsideOperatingHours) {
		t.Fatalf("expected ErrOutsideOperatingHours, got %v", err)
	}

	// A two-hour booking starting on the last operating hour hangs over
	// closing time and must be rejected too.
	_, err = service.CheckBookingConflict(context.Background(), &api.BookingConflictRequest{
		CourtID:       "court-1",
		Date:          date,
		StartTime:     "21:00",
		DurationHours: 2,
	})
	if !errors.Is(err, response.ErrOutsideOperatingHours) {
		t.Fatalf("expected ErrOutsideOperatingHours for overhang, got %v", err)
	}
}

func TestCheckRecurringConflict_AgainstFutureBooking(t *testing.T) {
	store, service, date, wd := newFixture(t)

	store.bookings = append(store.bookings, models.SingleBooking{
		ID: "b-1", CourtID: "court-1", ClientName: "Bruno",
		Date: date, StartTime: "18:00", EndTime: "19:00",
		DurationHours: 1, Status: models.BookingPending,
	})

	conflict, err := service.CheckRecurringConflict(context.Background(), &api.RecurringConflictRequest{
		CourtID:       "court-1",
		DaysOfWeek:    []int{wd},
		StartTime:     "18:00",
		DurationHours: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflict.HasConflict || conflict.Label != "Bruno" {
		t.Fatalf("expected conflict with future booking, got %+v", conflict)
	}
}

func TestBookingStatusMachine(t *testing.T) {
	store, service, date, _ := newFixture(t)

	store.bookings = append(store.bookings, models.SingleBooking{
		ID: "b-1", CourtID: "court-1", ClientName: "Ana",
		Date: date, StartTime: "09:00", EndTime: "10:00",
		DurationHours: 1, Status: models.BookingPending, PaymentStatus: models.PaymentPending,
	})

	// pending -> completed is not allowed
	if _, err := service.CompleteBooking(context.Background(), "b-1"); !errors.Is(err, response.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	booking, err := service.ConfirmBooking(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != string(models.BookingConfirmed) {
		t.Fatalf("expected confirmed, got %s", booking.Status)
	}

	booking, err = service.CompleteBooking(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != string(models.BookingCompleted) {
		t.Fatalf("expected completed, got %s", booking.Status)
	}

	// completed is terminal
	if _, err := service.CancelBooking(context.Background(), "b-1"); !errors.Is(err, response.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from completed, got %v", err)
	}
}

func TestCancelBookingFreesSlot(t *testing.T) {
	store, service, date, _ := newFixture(t)

	store.bookings = append(store.bookings, models.SingleBooking{
		ID: "b-1", CourtID: "court-1", ClientName: "Ana",
		Date: date, StartTime: "09:00", EndTime: "10:00",
		DurationHours: 1, Status: models.BookingConfirmed,
	})

	booking, err := service.CancelBooking(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != string(models.BookingCancelled) {
		t.Fatalf("expected cancelled, got %s", booking.Status)
	}

	conflict, err := service.CheckBookingConflict(context.Background(), &api.BookingConflictRequest{
		CourtID:       "court-1",
		Date:          date,
		StartTime:     "09:00",
		DurationHours: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict.HasConflict {
		t.Fatalf("cancelled booking must free the slot, got %+v", conflict)
	}
}

func TestSetPaymentStatus(t *testing.T) {
	store, service, date, _ := newFixture(t)

	store.bookings = append(store.bookings, models.SingleBooking{
		ID: "b-1", CourtID: "court-1", ClientName: "Ana",
		Date: date, StartTime: "09:00", EndTime: "10:00",
		DurationHours: 1, Status: models.BookingConfirmed, PaymentStatus: models.PaymentPending,
	})

	booking, err := service.SetPaymentStatus(context.Background(), "b-1", models.PaymentPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.PaymentStatus != string(models.PaymentPaid) {
		t.Fatalf("expected paid, got %s", booking.PaymentStatus)
	}

	if _, err := service.SetPaymentStatus(context.Background(), "missing", models.PaymentPaid); !errors.Is(err, response.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSlotsForDate(t *testing.T) {
	store, service, date, wd := newFixture(t)

	store.classes = append(store.classes, models.RecurringClass{
		ID: "c-1", CourtID: "court-1", ClassType: "Beach Tennis",
		DaysOfWeek: []int64{int64(wd)}, StartTime: "07:00", EndTime: "08:00", IsActive: true,
	})

	slots, err := service.SlotsForDate(context.Background(), date, "court-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots for 07:00-22:00, got %d", len(slots))
	}
	if slots[0].Time != "07:00" || slots[0].IsAvailable {
		t.Fatalf("expected 07:00 busy, got %+v", slots[0])
	}
	if !slots[1].IsAvailable {
		t.Fatalf("expected 08:00 free, got %+v", slots[1])
	}
}

func TestCalendarForDate(t *testing.T) {
	store, service, date, wd := newFixture(t)

	store.classes = append(store.classes, models.RecurringClass{
		ID: "c-1", CourtID: "court-1", ClassType: "Beach Tennis",
		DaysOfWeek: []int64{int64(wd)}, StartTime: "07:00", EndTime: "08:00", IsActive: true,
	})
	store.bookings = append(store.bookings, models.SingleBooking{
		ID: "b-1", CourtID: "court-1", ClientName: "Maria",
		Date: date, StartTime: "18:00", EndTime: "19:00",
		DurationHours: 1, Status: models.BookingConfirmed,
	})

	slots, err := service.CalendarForDate(context.Background(), date, "court-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range slots {
		switch s.Time {
		case "07:00":
			if s.State != models.SlotRecurring || s.Label != "Beach Tennis" {
				t.Fatalf("expected 07:00 recurring, got %+v", s)
			}
		case "18:00":
			if s.State != models.SlotSingle || s.Label != "Maria" {
				t.Fatalf("expected 18:00 single/Maria, got %+v", s)
			}
		default:
			if s.State != models.SlotFree {
				t.Fatalf("expected %s free, got %+v", s.Time, s)
			}
		}
	}
}

func TestCreateBooking(t *testing.T) {
	store, service, date, _ := newFixture(t)

	booking, err := service.CreateBooking(context.Background(), &api.BookingRequest{
		CourtID:       "court-1",
		ClientName:    "Ana",
		Date:          date,
		StartTime:     "09:00",
		DurationHours: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Price != 200 {
		t.Fatalf("expected price filled from the 2h rule, got %v", booking.Price)
	}
	if booking.Status != string(models.BookingPending) {
		t.Fatalf("expected pending, got %s", booking.Status)
	}
	if booking.PaymentStatus != string(models.PaymentPending) {
		t.Fatalf("expected payment pending, got %s", booking.PaymentStatus)
	}
	if booking.EndTime != "11:00" {
		t.Fatalf("expected end 11:00, got %s", booking.EndTime)
	}

	if len(store.bookings) != 1 {
		t.Fatalf("expected 1 stored booking, got %d", len(store.bookings))
	}
	if store.lastTx == nil || store.lastTx.commits != 1 || store.lastTx.rollbacks != 0 {
		t.Fatalf("expected one commit and no rollback, got %+v", store.lastTx)
	}
}

func TestCreateBooking_Conflict(t *testing.T) {
	store, service, date, _ := newFixture(t)

	store.bookings = append(store.bookings, models.SingleBooking{
		ID: "b-1", CourtID: "court-1", ClientName: "Ana",
		Date: date, StartTime: "09:00", EndTime: "10:00",
		DurationHours: 1, Status: models.BookingConfirmed,
	})

	_, err := service.CreateBooking(context.Background(), &api.BookingRequest{
		CourtID:       "court-1",
		ClientName:    "Bruno",
		Date:          date,
		StartTime:     "09:00",
		DurationHours: 1,
	})
	if !errors.Is(err, response.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(store.bookings) != 1 {
		t.Fatalf("rejected booking must not be stored, got %d", len(store.bookings))
	}
}

func TestCreateBooking_LockDenied(t *testing.T) {
	store, _, date, _ := newFixture(t)
	service := NewService(store, &fakeLocker{denied: true})

	_, err := service.CreateBooking(context.Background(), &api.BookingRequest{
		CourtID:       "court-1",
		ClientName:    "Ana",
		Date:          date,
		StartTime:     "09:00",
		DurationHours: 1,
	})
	if !errors.Is(err, response.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if len(store.bookings) != 0 {
		t.Fatalf("locked-out booking must not be stored, got %d", len(store.bookings))
	}
}

func TestCreateBooking_NoPricingRule(t *testing.T) {
	store, service, date, _ := newFixture(t)

	_, err := service.CreateBooking(context.Background(), &api.BookingRequest{
		CourtID:       "court-1",
		ClientName:    "Ana",
		Date:          date,
		StartTime:     "09:00",
		DurationHours: 3,
	})
	if !errors.Is(err, response.ErrNoPricingRule) {
		t.Fatalf("expected ErrNoPricingRule, got %v", err)
	}
	if len(store.bookings) != 0 {
		t.Fatalf("unpriced booking must not be stored, got %d", len(store.bookings))
	}
}

func TestCreateRecurringClass(t *testing.T) {
	store, service, _, wd := newFixture(t)

	class, err := service.CreateRecurringClass(context.Background(), &api.RecurringClassRequest{
		CourtID:       "court-1",
		ClassType:     "Beach Tennis",
		Instructor:    "Carla",
		DaysOfWeek:    []int{wd},
		StartTime:     "07:00",
		DurationHours: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if class.EndTime != "08:00" {
		t.Fatalf("expected end 08:00, got %s", class.EndTime)
	}
	if !class.IsActive {
		t.Fatalf("expected class active, got %+v", class)
	}
	if len(class.DaysOfWeek) != 1 || class.DaysOfWeek[0] != wd {
		t.Fatalf("expected days [%d], got %v", wd, class.DaysOfWeek)
	}

	if len(store.classes) != 1 {
		t.Fatalf("expected 1 stored class, got %d", len(store.classes))
	}
	if store.lastTx == nil || store.lastTx.commits != 1 || store.lastTx.rollbacks != 0 {
		t.Fatalf("expected one commit and no rollback, got %+v", store.lastTx)
	}
}

func TestCreateRecurringClass_ConflictWithBooking(t *testing.T) {
	store, service, date, wd := newFixture(t)

	store.bookings = append(store.bookings, models.SingleBooking{
		ID: "b-1", CourtID: "court-1", ClientName: "Bruno",
		Date: date, StartTime: "18:00", EndTime: "19:00",
		DurationHours: 1, Status: models.BookingPending,
	})

	_, err := service.CreateRecurringClass(context.Background(), &api.RecurringClassRequest{
		CourtID:       "court-1",
		ClassType:     "Futevolei",
		DaysOfWeek:    []int{wd},
		StartTime:     "18:00",
		DurationHours: 1,
	})
	if !errors.Is(err, response.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(store.classes) != 0 {
		t.Fatalf("rejected class must not be stored, got %d", len(store.classes))
	}
}
