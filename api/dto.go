package api

import "time"

// Courts

type CourtRequest struct {
	Name      string `json:"name" validate:"required"`
	SportType string `json:"sport_type" validate:"required"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

type CourtResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SportType string `json:"sport_type"`
	IsActive  bool   `json:"is_active"`
}

// Operating hours

type OperatingHoursRequest struct {
	CourtID   string `json:"court_id" validate:"required"`
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartHour int    `json:"start_hour" validate:"min=0,max=23"`
	EndHour   int    `json:"end_hour" validate:"required,min=1,max=24"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

type OperatingHoursResponse struct {
	ID        string `json:"id"`
	CourtID   string `json:"court_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	IsActive  bool   `json:"is_active"`
}

// Pricing rules

type PricingRuleRequest struct {
	CourtID       string  `json:"court_id" validate:"required"`
	DurationHours int     `json:"duration_hours" validate:"required,min=1"`
	Price         float64 `json:"price" validate:"required,min=0"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

type PricingRuleResponse struct {
	ID            string  `json:"id"`
	CourtID       string  `json:"court_id"`
	DurationHours int     `json:"duration_hours"`
	Price         float64 `json:"price"`
	IsActive      bool    `json:"is_active"`
}

// Recurring classes

type RecurringClassRequest struct {
	CourtID       string `json:"court_id" validate:"required"`
	ClassType     string `json:"class_type" validate:"required"`
	Instructor    string `json:"instructor"`
	DaysOfWeek    []int  `json:"days_of_week" validate:"required,min=1,dive,min=0,max=6"`
	StartTime     string `json:"start_time" validate:"required"`
	DurationHours int    `json:"duration_hours" validate:"required,min=1"`
}

type RecurringClassResponse struct {
	ID         string    `json:"id"`
	CourtID    string    `json:"court_id"`
	ClassType  string    `json:"class_type"`
	Instructor string    `json:"instructor,omitempty"`
	DaysOfWeek []int     `json:"days_of_week"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type RecurringConflictRequest struct {
	CourtID       string `json:"court_id" validate:"required"`
	DaysOfWeek    []int  `json:"days_of_week" validate:"required,min=1,dive,min=0,max=6"`
	StartTime     string `json:"start_time" validate:"required"`
	DurationHours int    `json:"duration_hours" validate:"required,min=1"`
}

// Bookings

type BookingRequest struct {
	CourtID       string  `json:"court_id" validate:"required"`
	UserID        *string `json:"user_id,omitempty"`
	ClientName    string  `json:"client_name" validate:"required"`
	Date          string  `json:"date" validate:"required"`
	StartTime     string  `json:"start_time" validate:"required"`
	DurationHours int     `json:"duration_hours" validate:"required,min=1"`
}

type BookingResponse struct {
	ID            string    `json:"id"`
	CourtID       string    `json:"court_id"`
	UserID        *string   `json:"user_id,omitempty"`
	ClientName    string    `json:"client_name"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	DurationHours int       `json:"duration_hours"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingConflictRequest struct {
	CourtID       string `json:"court_id" validate:"required"`
	Date          string `json:"date" validate:"required"`
	StartTime     string `json:"start_time" validate:"required"`
	DurationHours int    `json:"duration_hours" validate:"required,min=1"`
}

type PaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded"`
}
