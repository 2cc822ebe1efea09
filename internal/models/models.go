package models

import (
	"time"

	"github.com/lib/pq"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Occupies reports whether a booking in this status holds its slot.
// Cancelled bookings never occupy; everything else does.
func (s BookingStatus) Occupies() bool {
	return s != BookingCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type SlotState string

const (
	SlotFree      SlotState = "free"
	SlotRecurring SlotState = "recurring"
	SlotSingle    SlotState = "single"
)

type Court struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	SportType string `db:"sport_type"`
	IsActive  bool   `db:"is_active"`
}

// OperatingHours is one bookable window for a court on one weekday.
// A court may have several disjoint windows on the same day.
// DayOfWeek follows 0=Sunday..6=Saturday.
type OperatingHours struct {
	ID        string `db:"id"`
	CourtID   string `db:"court_id"`
	DayOfWeek int    `db:"day_of_week"`
	StartHour int    `db:"start_hour"`
	EndHour   int    `db:"end_hour"`
	IsActive  bool   `db:"is_active"`
}

type PricingRule struct {
	ID            string  `db:"id"`
	CourtID       string  `db:"court_id"`
	DurationHours int     `db:"duration_hours"`
	Price         float64 `db:"price"`
	IsActive      bool    `db:"is_active"`
}

// RecurringClass occupies a fixed time range on one or more weekdays,
// every week, until deactivated.
type RecurringClass struct {
	ID         string        `db:"id"`
	CourtID    string        `db:"court_id"`
	ClassType  string        `db:"class_type"`
	Instructor string        `db:"instructor"`
	DaysOfWeek pq.Int64Array `db:"days_of_week"`
	StartTime  string        `db:"start_time"`
	EndTime    string        `db:"end_time"`
	IsActive   bool          `db:"is_active"`
	CreatedAt  time.Time     `db:"created_at"`
}

// SingleBooking is a one-off reservation for one calendar date.
// Date is "2006-01-02", times are "HH:MM".
type SingleBooking struct {
	ID            string        `db:"id"`
	CourtID       string        `db:"court_id"`
	UserID        *string       `db:"user_id"`
	ClientName    string        `db:"client_name"`
	Date          string        `db:"date"`
	StartTime     string        `db:"start_time"`
	EndTime       string        `db:"end_time"`
	DurationHours int           `db:"duration_hours"`
	Price         float64       `db:"price"`
	Status        BookingStatus `db:"status"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}
