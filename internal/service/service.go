package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quadra-service/api"
	"quadra-service/internal/lock"
	"quadra-service/internal/models"
	"quadra-service/internal/schedule"
	"quadra-service/internal/storage"
	"quadra-service/pkg/response"

	"github.com/google/uuid"
)

type Service struct {
	store  Store
	locker lock.Locker
}

func NewService(store Store, locker lock.Locker) *Service {
	return &Service{store: store, locker: locker}
}

type Store interface {
	BeginTx(ctx context.Context) (storage.Tx, error)

	// Courts
	CreateCourt(ctx context.Context, court *models.Court) (string, error)
	GetCourt(ctx context.Context, id string) (*models.Court, error)
	ListCourts(ctx context.Context) ([]models.Court, error)
	UpdateCourt(ctx context.Context, court *models.Court) error

	// Operating hours
	CreateOperatingHours(ctx context.Context, hours *models.OperatingHours) (string, error)
	GetOperatingHours(ctx context.Context, id string) (*models.OperatingHours, error)
	ListOperatingHours(ctx context.Context, courtID *string) ([]models.OperatingHours, error)
	UpdateOperatingHours(ctx context.Context, hours *models.OperatingHours) error

	// Pricing rules
	CreatePricingRule(ctx context.Context, rule *models.PricingRule) (string, error)
	GetPricingRule(ctx context.Context, id string) (*models.PricingRule, error)
	ListPricingRules(ctx context.Context, courtID *string) ([]models.PricingRule, error)
	UpdatePricingRule(ctx context.Context, rule *models.PricingRule) error

	// Recurring classes
	CreateRecurringClass(ctx context.Context, tx storage.Tx, class *models.RecurringClass) (string, error)
	GetRecurringClass(ctx context.Context, id string) (*models.RecurringClass, error)
	ListRecurringClasses(ctx context.Context, courtID *string, activeOnly bool) ([]models.RecurringClass, error)
	DeactivateRecurringClass(ctx context.Context, id string) error

	// Bookings
	CreateBooking(ctx context.Context, tx storage.Tx, booking *models.SingleBooking) (string, error)
	GetBooking(ctx context.Context, id string) (*models.SingleBooking, error)
	ListBookings(ctx context.Context, courtID, from, to, status *string) ([]models.SingleBooking, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) error
}

// Courts

func (s *Service) CreateCourt(ctx context.Context, req *api.CourtRequest) (*api.CourtResponse, error) {
	const op = "service.CreateCourt"

	court := &models.Court{
		ID:        uuid.NewString(),
		Name:      req.Name,
		SportType: req.SportType,
		IsActive:  true,
	}
	if req.IsActive != nil {
		court.IsActive = *req.IsActive
	}

	id, err := s.store.CreateCourt(ctx, court)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetCourt(ctx, id)
}

func (s *Service) GetCourt(ctx context.Context, id string) (*api.CourtResponse, error) {
	const op = "service.GetCourt"

	court, err := s.store.GetCourt(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return courtResponse(court), nil
}

func (s *Service) ListCourts(ctx context.Context) ([]*api.CourtResponse, error) {
	const op = "service.ListCourts"

	courts, err := s.store.ListCourts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.CourtResponse, 0, len(courts))
	for i := range courts {
		result = append(result, courtResponse(&courts[i]))
	}

	return result, nil
}

func (s *Service) UpdateCourt(ctx context.Context, id string, req *api.CourtRequest) (*api.CourtResponse, error) {
	const op = "service.UpdateCourt"

	court, err := s.store.GetCourt(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	court.Name = req.Name
	court.SportType = req.SportType
	if req.IsActive != nil {
		court.IsActive = *req.IsActive
	}

	if err := s.store.UpdateCourt(ctx, court); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetCourt(ctx, id)
}

func courtResponse(court *models.Court) *api.CourtResponse {
	return &api.CourtResponse{
		ID:        court.ID,
		Name:      court.Name,
		SportType: court.SportType,
		IsActive:  court.IsActive,
	}
}

// Operating hours

func (s *Service) CreateOperatingHours(ctx context.Context, req *api.OperatingHoursRequest) (*api.OperatingHoursResponse, error) {
	const op = "service.CreateOperatingHours"

	if req.StartHour >= req.EndHour {
		return nil, fmt.Errorf("%s: start_hour must be before end_hour: %w", op, response.ErrBadRequest)
	}

	if _, err := s.store.GetCourt(ctx, req.CourtID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hours := &models.OperatingHours{
		ID:        uuid.NewString(),
		CourtID:   req.CourtID,
		DayOfWeek: *req.DayOfWeek,
		StartHour: req.StartHour,
		EndHour:   req.EndHour,
		IsActive:  true,
	}
	if req.IsActive != nil {
		hours.IsActive = *req.IsActive
	}

	id, err := s.store.CreateOperatingHours(ctx, hours)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.store.GetOperatingHours(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return operatingHoursResponse(created), nil
}

func (s *Service) ListOperatingHours(ctx context.Context, courtID *string) ([]*api.OperatingHoursResponse, error) {
	const op = "service.ListOperatingHours"

	hours, err := s.store.ListOperatingHours(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.OperatingHoursResponse, 0, len(hours))
	for i := range hours {
		result = append(result, operatingHoursResponse(&hours[i]))
	}

	return result, nil
}

func (s *Service) UpdateOperatingHours(ctx context.Context, id string, req *api.OperatingHoursRequest) (*api.OperatingHoursResponse, error) {
	const op = "service.UpdateOperatingHours"

	if req.StartHour >= req.EndHour {
		return nil, fmt.Errorf("%s: start_hour must be before end_hour: %w", op, response.ErrBadRequest)
	}

	hours, err := s.store.GetOperatingHours(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hours.DayOfWeek = *req.DayOfWeek
	hours.StartHour = req.StartHour
	hours.EndHour = req.EndHour
	if req.IsActive != nil {
		hours.IsActive = *req.IsActive
	}

	if err := s.store.UpdateOperatingHours(ctx, hours); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.store.GetOperatingHours(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return operatingHoursResponse(updated), nil
}

func operatingHoursResponse(hours *models.OperatingHours) *api.OperatingHoursResponse {
	return &api.OperatingHoursResponse{
		ID:        hours.ID,
		CourtID:   hours.CourtID,
		DayOfWeek: hours.DayOfWeek,
		StartHour: hours.StartHour,
		EndHour:   hours.EndHour,
		IsActive:  hours.IsActive,
	}
}

// Pricing rules

func (s *Service) CreatePricingRule(ctx context.Context, req *api.PricingRuleRequest) (*api.PricingRuleResponse, error) {
	const op = "service.CreatePricingRule"

	if _, err := s.store.GetCourt(ctx, req.CourtID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rule := &models.PricingRule{
		ID:            uuid.NewString(),
		CourtID:       req.CourtID,
		DurationHours: req.DurationHours,
		Price:         req.Price,
		IsActive:      true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	id, err := s.store.CreatePricingRule(ctx, rule)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.store.GetPricingRule(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pricingRuleResponse(created), nil
}

func (s *Service) ListPricingRules(ctx context.Context, courtID *string) ([]*api.PricingRuleResponse, error) {
	const op = "service.ListPricingRules"

	rules, err := s.store.ListPricingRules(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.PricingRuleResponse, 0, len(rules))
	for i := range rules {
		result = append(result, pricingRuleResponse(&rules[i]))
	}

	return result, nil
}

func (s *Service) UpdatePricingRule(ctx context.Context, id string, req *api.PricingRuleRequest) (*api.PricingRuleResponse, error) {
	const op = "service.UpdatePricingRule"

	rule, err := s.store.GetPricingRule(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rule.DurationHours = req.DurationHours
	rule.Price = req.Price
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.store.UpdatePricingRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.store.GetPricingRule(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pricingRuleResponse(updated), nil
}

// GetPrice resolves the active rule for (court, duration). A missing rule
// surfaces ErrNoPricingRule so the admin sees a configuration problem
// instead of a silently defaulted price.
func (s *Service) GetPrice(ctx context.Context, courtID string, durationHours int) (float64, error) {
	const op = "service.GetPrice"

	rules, err := s.store.ListPricingRules(ctx, &courtID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	price, err := schedule.Price(rules, courtID, durationHours)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return price, nil
}

func pricingRuleResponse(rule *models.PricingRule) *api.PricingRuleResponse {
	return &api.PricingRuleResponse{
		ID:            rule.ID,
		CourtID:       rule.CourtID,
		DurationHours: rule.DurationHours,
		Price:         rule.Price,
		IsActive:      rule.IsActive,
	}
}

// Recurring classes

// CheckRecurringConflict is the read-only half of the two-call UI flow: the
// front end calls it to show a reason before attempting to save.
func (s *Service) CheckRecurringConflict(ctx context.Context, req *api.RecurringConflictRequest) (*schedule.Conflict, error) {
	const op = "service.CheckRecurringConflict"

	endTime, err := schedule.CalculateEndTime(req.StartTime, req.DurationHours)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conflict, err := s.recurringConflict(ctx, req.CourtID, req.DaysOfWeek, req.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return conflict, nil
}

func (s *Service) recurringConflict(ctx context.Context, courtID string, weekdays []int, startTime, endTime string) (*schedule.Conflict, error) {
	hours, err := s.store.ListOperatingHours(ctx, &courtID)
	if err != nil {
		return nil, err
	}

	for _, wd := range weekdays {
		if err := validateRange(hours, courtID, wd, startTime, endTime); err != nil {
			return nil, err
		}
	}

	classes, err := s.store.ListRecurringClasses(ctx, &courtID, true)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	bookings, err := s.store.ListBookings(ctx, &courtID, &today, nil, nil)
	if err != nil {
		return nil, err
	}

	conflict := schedule.CheckRecurringConflict(classes, bookings, courtID, weekdays, startTime, endTime, time.Now())

	return &conflict, nil
}

func (s *Service) CreateRecurringClass(ctx context.Context, req *api.RecurringClassRequest) (*api.RecurringClassResponse, error) {
	const op = "service.CreateRecurringClass"

	endTime, err := schedule.CalculateEndTime(req.StartTime, req.DurationHours)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.store.GetCourt(ctx, req.CourtID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Serialize against other writers on the same court: the conflict check
	// and the insert must see the same set of commitments.
	lockKey := fmt.Sprintf("court:%s", req.CourtID)

	locked, err := s.locker.Lock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	conflict, err := s.recurringConflict(ctx, req.CourtID, req.DaysOfWeek, req.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if conflict.HasConflict {
		return nil, fmt.Errorf("%s: day %d is taken by %q: %w", op, conflict.Day, conflict.Label, response.ErrConflict)
	}

	days := make([]int64, 0, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		days = append(days, int64(d))
	}

	class := &models.RecurringClass{
		ID:         uuid.NewString(),
		CourtID:    req.CourtID,
		ClassType:  req.ClassType,
		Instructor: req.Instructor,
		DaysOfWeek: days,
		StartTime:  req.StartTime,
		EndTime:    endTime,
		IsActive:   true,
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	id, err := s.store.CreateRecurringClass(ctx, tx, class)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: create class: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetRecurringClass(ctx, id)
}

func (s *Service) GetRecurringClass(ctx context.Context, id string) (*api.RecurringClassResponse, error) {
	const op = "service.GetRecurringClass"

	class, err := s.store.GetRecurringClass(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return recurringClassResponse(class), nil
}

func (s *Service) ListRecurringClasses(ctx context.Context, courtID *string, activeOnly bool) ([]*api.RecurringClassResponse, error) {
	const op = "service.ListRecurringClasses"

	classes, err := s.store.ListRecurringClasses(ctx, courtID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.RecurringClassResponse, 0, len(classes))
	for i := range classes {
		result = append(result, recurringClassResponse(&classes[i]))
	}

	return result, nil
}

func (s *Service) DeactivateRecurringClass(ctx context.Context, id string) (*api.RecurringClassResponse, error) {
	const op = "service.DeactivateRecurringClass"

	err := s.store.DeactivateRecurringClass(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetRecurringClass(ctx, id)
}

func recurringClassResponse(class *models.RecurringClass) *api.RecurringClassResponse {
	days := make([]int, 0, len(class.DaysOfWeek))
	for _, d := range class.DaysOfWeek {
		days = append(days, int(d))
	}

	return &api.RecurringClassResponse{
		ID:         class.ID,
		CourtID:    class.CourtID,
		ClassType:  class.ClassType,
		Instructor: class.Instructor,
		DaysOfWeek: days,
		StartTime:  class.StartTime,
		EndTime:    class.EndTime,
		IsActive:   class.IsActive,
		CreatedAt:  class.CreatedAt,
	}
}

// Bookings

// CheckBookingConflict is the read-only pre-submit check for one-off
// bookings, mirroring CheckRecurringConflict.
func (s *Service) CheckBookingConflict(ctx context.Context, req *api.BookingConflictRequest) (*schedule.Conflict, error) {
	const op = "service.CheckBookingConflict"

	endTime, err := schedule.CalculateEndTime(req.StartTime, req.DurationHours)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conflict, err := s.bookingConflict(ctx, req.CourtID, req.Date, req.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return conflict, nil
}

func (s *Service) bookingConflict(ctx context.Context, courtID, date, startTime, endTime string) (*schedule.Conflict, error) {
	weekday, err := schedule.Weekday(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", response.ErrBadRequest, err)
	}

	hours, err := s.store.ListOperatingHours(ctx, &courtID)
	if err != nil {
		return nil, err
	}

	if err := validateRange(hours, courtID, weekday, startTime, endTime); err != nil {
		return nil, err
	}

	classes, err := s.store.ListRecurringClasses(ctx, &courtID, true)
	if err != nil {
		return nil, err
	}

	bookings, err := s.store.ListBookings(ctx, &courtID, &date, &date, nil)
	if err != nil {
		return nil, err
	}

	conflict, err := schedule.CheckTimeConflict(classes, bookings, courtID, date, startTime, endTime)
	if err != nil {
		return nil, err
	}

	return &conflict, nil
}

// validateRange requires every hourly mark of [startTime, endTime) to be a
// bookable start time, so a two-hour booking cannot hang over closing time
// or bridge a gap between two operating windows.
func validateRange(hours []models.OperatingHours, courtID string, weekday int, startTime, endTime string) error {
	start, err := schedule.ParseClock(startTime)
	if err != nil {
		return fmt.Errorf("%w: %s", response.ErrBadRequest, err)
	}
	end := start + 60
	if endTime != "" {
		if endTime == "24:00" {
			end = 24 * 60
		} else if end, err = schedule.ParseClock(endTime); err != nil {
			return fmt.Errorf("%w: %s", response.ErrBadRequest, err)
		}
	}

	for mark := start; mark < end; mark += 60 {
		if !schedule.IsTimeValidForDay(hours, courtID, weekday, schedule.FormatClock(mark)) {
			return response.ErrOutsideOperatingHours
		}
	}

	return nil
}

func (s *Service) CreateBooking(ctx context.Context, req *api.BookingRequest) (*api.BookingResponse, error) {
	const op = "service.CreateBooking"

	endTime, err := schedule.CalculateEndTime(req.StartTime, req.DurationHours)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.store.GetCourt(ctx, req.CourtID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	price, err := s.GetPrice(ctx, req.CourtID, req.DurationHours)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lockKey := fmt.Sprintf("court:%s:%s", req.CourtID, req.Date)

	locked, err := s.locker.Lock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	conflict, err := s.bookingConflict(ctx, req.CourtID, req.Date, req.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if conflict.HasConflict {
		return nil, fmt.Errorf("%s: slot is taken by %q: %w", op, conflict.Label, response.ErrConflict)
	}

	booking := &models.SingleBooking{
		ID:            uuid.NewString(),
		CourtID:       req.CourtID,
		UserID:        req.UserID,
		ClientName:    req.ClientName,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       endTime,
		DurationHours: req.DurationHours,
		Price:         price,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	id, err := s.store.CreateBooking(ctx, tx, booking)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: create booking: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetBooking(ctx, id)
}

func (s *Service) GetBooking(ctx context.Context, id string) (*api.BookingResponse, error) {
	const op = "service.GetBooking"

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookingResponse(booking), nil
}

func (s *Service) ListBookings(ctx context.Context, courtID, from, to, status *string) ([]*api.BookingResponse, error) {
	const op = "service.ListBookings"

	bookings, err := s.store.ListBookings(ctx, courtID, from, to, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.BookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, bookingResponse(&bookings[i]))
	}

	return result, nil
}

// canTransition encodes the booking status machine:
// pending -> confirmed -> completed, cancelled from pending or confirmed.
// Completed and cancelled are terminal.
func canTransition(from, to models.BookingStatus) bool {
	switch from {
	case models.BookingPending:
		return to == models.BookingConfirmed || to == models.BookingCancelled
	case models.BookingConfirmed:
		return to == models.BookingCompleted || to == models.BookingCancelled
	default:
		return false
	}
}

func (s *Service) transitionBooking(ctx context.Context, op, bookingID string, to models.BookingStatus) (*api.BookingResponse, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !canTransition(booking.Status, to) {
		return nil, fmt.Errorf("%s: %s -> %s: %w", op, booking.Status, to, response.ErrInvalidTransition)
	}

	if err := s.store.UpdateBookingStatus(ctx, bookingID, to); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetBooking(ctx, bookingID)
}

// CancelBooking is a status change, not a deletion: the row stays, the slot
// frees up because cancelled bookings no longer occupy.
func (s *Service) CancelBooking(ctx context.Context, bookingID string) (*api.BookingResponse, error) {
	return s.transitionBooking(ctx, "service.CancelBooking", bookingID, models.BookingCancelled)
}

func (s *Service) ConfirmBooking(ctx context.Context, bookingID string) (*api.BookingResponse, error) {
	return s.transitionBooking(ctx, "service.ConfirmBooking", bookingID, models.BookingConfirmed)
}

func (s *Service) CompleteBooking(ctx context.Context, bookingID string) (*api.BookingResponse, error) {
	return s.transitionBooking(ctx, "service.CompleteBooking", bookingID, models.BookingCompleted)
}

func (s *Service) SetPaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) (*api.BookingResponse, error) {
	const op = "service.SetPaymentStatus"

	if _, err := s.store.GetBooking(ctx, bookingID); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.UpdatePaymentStatus(ctx, bookingID, status); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetBooking(ctx, bookingID)
}

func bookingResponse(booking *models.SingleBooking) *api.BookingResponse {
	return &api.BookingResponse{
		ID:            booking.ID,
		CourtID:       booking.CourtID,
		UserID:        booking.UserID,
		ClientName:    booking.ClientName,
		Date:          booking.Date,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		DurationHours: booking.DurationHours,
		Price:         booking.Price,
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		CreatedAt:     booking.CreatedAt,
		UpdatedAt:     booking.UpdatedAt,
	}
}

// Availability

// ValidTimes lists the bookable start times for one court on one weekday.
func (s *Service) ValidTimes(ctx context.Context, courtID string, weekday int) ([]string, error) {
	const op = "service.ValidTimes"

	if _, err := s.store.GetCourt(ctx, courtID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hours, err := s.store.ListOperatingHours(ctx, &courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return schedule.ValidTimesForDay(hours, courtID, weekday), nil
}

// AllTimes lists the full hourly catalog across the court's week, used to
// size fixed calendar grids.
func (s *Service) AllTimes(ctx context.Context, courtID string) ([]string, error) {
	const op = "service.AllTimes"

	if _, err := s.store.GetCourt(ctx, courtID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hours, err := s.store.ListOperatingHours(ctx, &courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return schedule.AllValidTimes(hours, courtID), nil
}

// snapshot loads the four read-only collections the engine computes over.
// courtID empty means all courts.
func (s *Service) snapshot(ctx context.Context, date, courtID string) ([]models.Court, []models.OperatingHours, []models.RecurringClass, []models.SingleBooking, error) {
	var courtFilter *string
	if courtID != "" {
		if _, err := s.store.GetCourt(ctx, courtID); err != nil {
			return nil, nil, nil, nil, err
		}
		courtFilter = &courtID
	}

	courts, err := s.store.ListCourts(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	hours, err := s.store.ListOperatingHours(ctx, courtFilter)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	classes, err := s.store.ListRecurringClasses(ctx, courtFilter, true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	bookings, err := s.store.ListBookings(ctx, courtFilter, &date, &date, nil)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return courts, hours, classes, bookings, nil
}

// SlotsForDate returns free/busy descriptors for every valid hourly slot on
// a date. Empty courtID evaluates every active court (the student-facing
// "pick any court" flow).
func (s *Service) SlotsForDate(ctx context.Context, date, courtID string) ([]schedule.Slot, error) {
	const op = "service.SlotsForDate"

	courts, hours, classes, bookings, err := s.snapshot(ctx, date, courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slots, err := schedule.AvailableSlotsForDate(courts, hours, classes, bookings, date, courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, response.ErrBadRequest, err)
	}

	return slots, nil
}

// CalendarForDate returns the status-coded grid for the admin view: each
// slot tagged free, recurring (class type) or single (client name).
func (s *Service) CalendarForDate(ctx context.Context, date, courtID string) ([]schedule.CalendarSlot, error) {
	const op = "service.CalendarForDate"

	courts, hours, classes, bookings, err := s.snapshot(ctx, date, courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slots, err := schedule.CalendarSlotsForDate(courts, hours, classes, bookings, date, courtID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, response.ErrBadRequest, err)
	}

	return slots, nil
}
