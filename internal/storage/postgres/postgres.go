package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"quadra-service/internal/models"
	"quadra-service/internal/storage"
	"quadra-service/pkg/response"

	"github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (storage.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// #### courts ####

func (s *Storage) CreateCourt(ctx context.Context, court *models.Court) (string, error) {
	const op = "storage.postgres.CreateCourt"

	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO courts (id, name, sport_type, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		court.ID, court.Name, court.SportType, court.IsActive,
	).Scan(&id)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, response.ErrConflict)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetCourt(ctx context.Context, id string) (*models.Court, error) {
	const op = "storage.postgres.GetCourt"

	var court models.Court
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, sport_type, is_active FROM courts WHERE id=$1`, id,
	).Scan(&court.ID, &court.Name, &court.SportType, &court.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &court, nil
}

func (s *Storage) ListCourts(ctx context.Context) ([]models.Court, error) {
	const op = "storage.postgres.ListCourts"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, sport_type, is_active FROM courts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var courts []models.Court
	for rows.Next() {
		var court models.Court
		if err := rows.Scan(&court.ID, &court.Name, &court.SportType, &court.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		courts = append(courts, court)
	}

	return courts, rows.Err()
}

func (s *Storage) UpdateCourt(ctx context.Context, court *models.Court) error {
	const op = "storage.postgres.UpdateCourt"

	res, err := s.db.ExecContext(ctx,
		`UPDATE courts SET name=$1, sport_type=$2, is_active=$3 WHERE id=$4`,
		court.Name, court.SportType, court.IsActive, court.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### operating_hours ####

func (s *Storage) CreateOperatingHours(ctx context.Context, hours *models.OperatingHours) (string, error) {
	const op = "storage.postgres.CreateOperatingHours"

	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO operating_hours (id, court_id, day_of_week, start_hour, end_hour, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		hours.ID, hours.CourtID, hours.DayOfWeek, hours.StartHour, hours.EndHour, hours.IsActive,
	).Scan(&id)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetOperatingHours(ctx context.Context, id string) (*models.OperatingHours, error) {
	const op = "storage.postgres.GetOperatingHours"

	var hours models.OperatingHours
	err := s.db.QueryRowContext(ctx,
		`SELECT id, court_id, day_of_week, start_hour, end_hour, is_active
		FROM operating_hours WHERE id=$1`, id,
	).Scan(&hours.ID, &hours.CourtID, &hours.DayOfWeek, &hours.StartHour, &hours.EndHour, &hours.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &hours, nil
}

func (s *Storage) ListOperatingHours(ctx context.Context, courtID *string) ([]models.OperatingHours, error) {
	const op = "storage.postgres.ListOperatingHours"

	query := `SELECT id, court_id, day_of_week, start_hour, end_hour, is_active
		FROM operating_hours`
	args := []any{}
	if courtID != nil {
		query += ` WHERE court_id=$1`
		args = append(args, *courtID)
	}
	query += ` ORDER BY court_id, day_of_week, start_hour`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.OperatingHours
	for rows.Next() {
		var hours models.OperatingHours
		if err := rows.Scan(&hours.ID, &hours.CourtID, &hours.DayOfWeek, &hours.StartHour, &hours.EndHour, &hours.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, hours)
	}

	return result, rows.Err()
}

func (s *Storage) UpdateOperatingHours(ctx context.Context, hours *models.OperatingHours) error {
	const op = "storage.postgres.UpdateOperatingHours"

	res, err := s.db.ExecContext(ctx,
		`UPDATE operating_hours
		SET day_of_week=$1, start_hour=$2, end_hour=$3, is_active=$4
		WHERE id=$5`,
		hours.DayOfWeek, hours.StartHour, hours.EndHour, hours.IsActive, hours.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### pricing_rules ####

func (s *Storage) CreatePricingRule(ctx context.Context, rule *models.PricingRule) (string, error) {
	const op = "storage.postgres.CreatePricingRule"

	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO pricing_rules (id, court_id, duration_hours, price, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		rule.ID, rule.CourtID, rule.DurationHours, rule.Price, rule.IsActive,
	).Scan(&id)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetPricingRule(ctx context.Context, id string) (*models.PricingRule, error) {
	const op = "storage.postgres.GetPricingRule"

	var rule models.PricingRule
	err := s.db.QueryRowContext(ctx,
		`SELECT id, court_id, duration_hours, price, is_active
		FROM pricing_rules WHERE id=$1`, id,
	).Scan(&rule.ID, &rule.CourtID, &rule.DurationHours, &rule.Price, &rule.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rule, nil
}

func (s *Storage) ListPricingRules(ctx context.Context, courtID *string) ([]models.PricingRule, error) {
	const op = "storage.postgres.ListPricingRules"

	query := `SELECT id, court_id, duration_hours, price, is_active FROM pricing_rules`
	args := []any{}
	if courtID != nil {
		query += ` WHERE court_id=$1`
		args = append(args, *courtID)
	}
	query += ` ORDER BY court_id, duration_hours`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.PricingRule
	for rows.Next() {
		var rule models.PricingRule
		if err := rows.Scan(&rule.ID, &rule.CourtID, &rule.DurationHours, &rule.Price, &rule.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, rule)
	}

	return result, rows.Err()
}

func (s *Storage) UpdatePricingRule(ctx context.Context, rule *models.PricingRule) error {
	const op = "storage.postgres.UpdatePricingRule"

	res, err := s.db.ExecContext(ctx,
		`UPDATE pricing_rules SET duration_hours=$1, price=$2, is_active=$3 WHERE id=$4`,
		rule.DurationHours, rule.Price, rule.IsActive, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### recurring_classes ####

func (s *Storage) CreateRecurringClass(ctx context.Context, tx storage.Tx, class *models.RecurringClass) (string, error) {
	const op = "storage.postgres.CreateRecurringClass"

	var id string
	err := tx.QueryRowContext(ctx,
		`INSERT INTO recurring_classes
		(id, court_id, class_type, instructor, days_of_week, start_time, end_time, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id`,
		class.ID, class.CourtID, class.ClassType, class.Instructor,
		class.DaysOfWeek, class.StartTime, class.EndTime, class.IsActive,
	).Scan(&id)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetRecurringClass(ctx context.Context, id string) (*models.RecurringClass, error) {
	const op = "storage.postgres.GetRecurringClass"

	var class models.RecurringClass
	err := s.db.QueryRowContext(ctx,
		`SELECT id, court_id, class_type, instructor, days_of_week, start_time, end_time, is_active, created_at
		FROM recurring_classes WHERE id=$1`, id,
	).Scan(
		&class.ID, &class.CourtID, &class.ClassType, &class.Instructor,
		&class.DaysOfWeek, &class.StartTime, &class.EndTime, &class.IsActive, &class.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &class, nil
}

func (s *Storage) ListRecurringClasses(ctx context.Context, courtID *string, activeOnly bool) ([]models.RecurringClass, error) {
	const op = "storage.postgres.ListRecurringClasses"

	query := `SELECT id, court_id, class_type, instructor, days_of_week, start_time, end_time, is_active, created_at
		FROM recurring_classes WHERE 1=1`
	args := []any{}
	if courtID != nil {
		args = append(args, *courtID)
		query += fmt.Sprintf(` AND court_id=$%d`, len(args))
	}
	if activeOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.RecurringClass
	for rows.Next() {
		var class models.RecurringClass
		if err := rows.Scan(
			&class.ID, &class.CourtID, &class.ClassType, &class.Instructor,
			&class.DaysOfWeek, &class.StartTime, &class.EndTime, &class.IsActive, &class.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, class)
	}

	return result, rows.Err()
}

func (s *Storage) DeactivateRecurringClass(ctx context.Context, id string) error {
	const op = "storage.postgres.DeactivateRecurringClass"

	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_classes SET is_active=false WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### single_bookings ####

func (s *Storage) CreateBooking(ctx context.Context, tx storage.Tx, booking *models.SingleBooking) (string, error) {
	const op = "storage.postgres.CreateBooking"

	var id string
	err := tx.QueryRowContext(ctx,
		`INSERT INTO single_bookings
		(id, court_id, user_id, client_name, date, start_time, end_time, duration_hours, price, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING id`,
		booking.ID, booking.CourtID, booking.UserID, booking.ClientName,
		booking.Date, booking.StartTime, booking.EndTime, booking.DurationHours,
		booking.Price, booking.Status, booking.PaymentStatus,
	).Scan(&id)
	if err != nil {
		if sqlErr, ok := err.(*pq.Error); ok {
			switch sqlErr.Code {
			case "23505":
				return "", fmt.Errorf("%s: %w", op, response.ErrConflict)
			case "23503":
				return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
			}
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetBooking(ctx context.Context, id string) (*models.SingleBooking, error) {
	const op = "storage.postgres.GetBooking"

	var booking models.SingleBooking
	err := s.db.QueryRowContext(ctx,
		`SELECT id, court_id, user_id, client_name, to_char(date, 'YYYY-MM-DD'), start_time, end_time, duration_hours, price, status, payment_status, created_at, updated_at
		FROM single_bookings WHERE id=$1`, id,
	).Scan(
		&booking.ID, &booking.CourtID, &booking.UserID, &booking.ClientName,
		&booking.Date, &booking.StartTime, &booking.EndTime, &booking.DurationHours,
		&booking.Price, &booking.Status, &booking.PaymentStatus,
		&booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &booking, nil
}

func (s *Storage) ListBookings(ctx context.Context, courtID, from, to, status *string) ([]models.SingleBooking, error) {
	const op = "storage.postgres.ListBookings"

	query := `SELECT id, court_id, user_id, client_name, to_char(date, 'YYYY-MM-DD'), start_time, end_time, duration_hours, price, status, payment_status, created_at, updated_at
		FROM single_bookings WHERE 1=1`
	args := []any{}

	if courtID != nil {
		args = append(args, *courtID)
		query += fmt.Sprintf(` AND court_id=$%d`, len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND date <= $%d`, len(args))
	}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(` AND status=$%d`, len(args))
	}
	query += ` ORDER BY date, start_time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.SingleBooking
	for rows.Next() {
		var booking models.SingleBooking
		if err := rows.Scan(
			&booking.ID, &booking.CourtID, &booking.UserID, &booking.ClientName,
			&booking.Date, &booking.StartTime, &booking.EndTime, &booking.DurationHours,
			&booking.Price, &booking.Status, &booking.PaymentStatus,
			&booking.CreatedAt, &booking.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, booking)
	}

	return result, rows.Err()
}

func (s *Storage) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	const op = "storage.postgres.UpdateBookingStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE single_bookings SET status=$1, updated_at=now() WHERE id=$2`,
		status, bookingID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) UpdatePaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) error {
	const op = "storage.postgres.UpdatePaymentStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE single_bookings SET payment_status=$1, updated_at=now() WHERE id=$2`,
		status, bookingID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}
