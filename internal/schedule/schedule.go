package schedule

import (
	"fmt"
	"sort"
	"time"

	"quadra-service/internal/models"
	"quadra-service/pkg/response"
)

// The engine is pure: every function computes over snapshot slices supplied
// by the caller and holds no state of its own. Times are "HH:MM" strings,
// dates "2006-01-02", weekdays 0=Sunday..6=Saturday.

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock is the inverse of ParseClock. 1440 renders as "24:00" so an
// end-of-day boundary keeps a printable label.
func FormatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// CalculateEndTime adds whole hours to an "HH:MM" start time. Durations that
// would run past midnight are rejected rather than wrapped.
func CalculateEndTime(startTime string, durationHours int) (string, error) {
	const op = "schedule.CalculateEndTime"

	if durationHours <= 0 {
		return "", fmt.Errorf("%s: %w", op, response.ErrInvalidDuration)
	}

	start, err := ParseClock(startTime)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	end := start + durationHours*60
	if end > minutesPerDay {
		return "", fmt.Errorf("%s: %w", op, response.ErrInvalidDuration)
	}

	return FormatClock(end), nil
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. The intervals are
// half-open, so a range ending at 08:00 does not collide with one starting
// at 08:00. Unparseable times never overlap.
func Overlaps(s1, e1, s2, e2 string) bool {
	a1, err := ParseClock(s1)
	if err != nil {
		return false
	}
	b1, err := ParseClock(e1)
	if err != nil {
		if e1 == "24:00" {
			b1 = minutesPerDay
		} else {
			return false
		}
	}
	a2, err := ParseClock(s2)
	if err != nil {
		return false
	}
	b2, err := ParseClock(e2)
	if err != nil {
		if e2 == "24:00" {
			b2 = minutesPerDay
		} else {
			return false
		}
	}

	return a1 < b2 && a2 < b1
}

// ValidTimesForDay returns the hourly start times bookable on one weekday:
// the union of the court's active operating windows, ascending, deduped.
// Empty means the court is closed that day.
func ValidTimesForDay(hours []models.OperatingHours, courtID string, weekday int) []string {
	marks := map[int]struct{}{}

	for _, h := range hours {
		if !h.IsActive || h.CourtID != courtID || h.DayOfWeek != weekday {
			continue
		}
		for hr := h.StartHour; hr < h.EndHour; hr++ {
			marks[hr] = struct{}{}
		}
	}

	result := make([]string, 0, len(marks))
	for hr := range marks {
		result = append(result, FormatClock(hr*60))
	}
	sort.Strings(result)

	return result
}

// IsTimeValidForDay reports whether t is one of the bookable start times for
// the court on the given weekday.
func IsTimeValidForDay(hours []models.OperatingHours, courtID string, weekday int, t string) bool {
	for _, valid := range ValidTimesForDay(hours, courtID, weekday) {
		if valid == t {
			return true
		}
	}

	return false
}

// AllValidTimes returns the full catalog of hourly start times across every
// weekday the court operates. Used to size fixed grids.
func AllValidTimes(hours []models.OperatingHours, courtID string) []string {
	marks := map[string]struct{}{}

	for wd := 0; wd <= 6; wd++ {
		for _, t := range ValidTimesForDay(hours, courtID, wd) {
			marks[t] = struct{}{}
		}
	}

	result := make([]string, 0, len(marks))
	for t := range marks {
		result = append(result, t)
	}
	sort.Strings(result)

	return result
}

// Weekday extracts the 0=Sunday..6=Saturday index from a "2006-01-02" date.
func Weekday(date string) (int, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}

	return int(d.Weekday()), nil
}

// Conflict describes the first collision found by a conflict check.
type Conflict struct {
	HasConflict bool             `json:"has_conflict"`
	Day         int              `json:"conflict_day,omitempty"`
	Type        models.SlotState `json:"conflict_type,omitempty"`
	Label       string           `json:"conflict_label,omitempty"`
}

// CheckRecurringConflict tests a candidate weekly class against existing
// commitments on the court. Weekdays are scanned in the order given; the
// first collision wins. Both active recurring classes and non-cancelled
// single bookings dated from or later are considered, so a one-off
// reservation blocks a new class on its weekday.
func CheckRecurringConflict(classes []models.RecurringClass, bookings []models.SingleBooking, courtID string, weekdays []int, startTime, endTime string, from time.Time) Conflict {
	fromDate := from.Format("2006-01-02")

	for _, wd := range weekdays {
		for _, c := range classes {
			if !c.IsActive || c.CourtID != courtID {
				continue
			}
			for _, d := range c.DaysOfWeek {
				if int(d) == wd && Overlaps(startTime, endTime, c.StartTime, c.EndTime) {
					return Conflict{HasConflict: true, Day: wd, Type: models.SlotRecurring, Label: c.ClassType}
				}
			}
		}

		for _, b := range bookings {
			if b.CourtID != courtID || !b.Status.Occupies() || b.Date < fromDate {
				continue
			}
			bwd, err := Weekday(b.Date)
			if err != nil || bwd != wd {
				continue
			}
			if Overlaps(startTime, endTime, b.StartTime, b.EndTime) {
				return Conflict{HasConflict: true, Day: wd, Type: models.SlotSingle, Label: b.ClientName}
			}
		}
	}

	return Conflict{}
}

// CheckTimeConflict tests a candidate one-off range on a specific date
// against the court's recurring classes on that date's weekday and its
// non-cancelled bookings on that exact date.
func CheckTimeConflict(classes []models.RecurringClass, bookings []models.SingleBooking, courtID, date, startTime, endTime string) (Conflict, error) {
	wd, err := Weekday(date)
	if err != nil {
		return Conflict{}, err
	}

	for _, c := range classes {
		if !c.IsActive || c.CourtID != courtID {
			continue
		}
		for _, d := range c.DaysOfWeek {
			if int(d) == wd && Overlaps(startTime, endTime, c.StartTime, c.EndTime) {
				return Conflict{HasConflict: true, Day: wd, Type: models.SlotRecurring, Label: c.ClassType}, nil
			}
		}
	}

	for _, b := range bookings {
		if b.CourtID != courtID || b.Date != date || !b.Status.Occupies() {
			continue
		}
		if Overlaps(startTime, endTime, b.StartTime, b.EndTime) {
			return Conflict{HasConflict: true, Day: wd, Type: models.SlotSingle, Label: b.ClientName}, nil
		}
	}

	return Conflict{}, nil
}

// Slot is one hourly window on one date for one court, tagged free or busy.
type Slot struct {
	CourtID     string `json:"court_id"`
	CourtName   string `json:"court_name"`
	Time        string `json:"time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// AvailableSlotsForDate computes free/busy for every valid hourly slot on a
// date. With courtID empty, every active court contributes one descriptor
// per slot; otherwise only the named court is evaluated.
func AvailableSlotsForDate(courts []models.Court, hours []models.OperatingHours, classes []models.RecurringClass, bookings []models.SingleBooking, date, courtID string) ([]Slot, error) {
	wd, err := Weekday(date)
	if err != nil {
		return nil, err
	}

	slots := []Slot{}

	for _, court := range courts {
		if !court.IsActive {
			continue
		}
		if courtID != "" && court.ID != courtID {
			continue
		}

		for _, t := range ValidTimesForDay(hours, court.ID, wd) {
			end, err := CalculateEndTime(t, 1)
			if err != nil {
				return nil, err
			}

			conflict, err := CheckTimeConflict(classes, bookings, court.ID, date, t, end)
			if err != nil {
				return nil, err
			}

			slots = append(slots, Slot{
				CourtID:     court.ID,
				CourtName:   court.Name,
				Time:        t,
				EndTime:     end,
				IsAvailable: !conflict.HasConflict,
			})
		}
	}

	return slots, nil
}

// CalendarSlot is the richer per-slot shape for the status-coded admin grid:
// free, held by a recurring class, or held by a single booking, with a
// display label (class type or client name).
type CalendarSlot struct {
	CourtID string           `json:"court_id"`
	Time    string           `json:"time"`
	EndTime string           `json:"end_time"`
	State   models.SlotState `json:"state"`
	Label   string           `json:"label,omitempty"`
}

// CalendarSlotsForDate classifies every valid hourly slot on a date.
// Recurring classes take precedence over single bookings when both match,
// mirroring the conflict-check scan order.
func CalendarSlotsForDate(courts []models.Court, hours []models.OperatingHours, classes []models.RecurringClass, bookings []models.SingleBooking, date, courtID string) ([]CalendarSlot, error) {
	wd, err := Weekday(date)
	if err != nil {
		return nil, err
	}

	slots := []CalendarSlot{}

	for _, court := range courts {
		if !court.IsActive {
			continue
		}
		if courtID != "" && court.ID != courtID {
			continue
		}

		for _, t := range ValidTimesForDay(hours, court.ID, wd) {
			end, err := CalculateEndTime(t, 1)
			if err != nil {
				return nil, err
			}

			slot := CalendarSlot{CourtID: court.ID, Time: t, EndTime: end, State: models.SlotFree}

			conflict, err := CheckTimeConflict(classes, bookings, court.ID, date, t, end)
			if err != nil {
				return nil, err
			}
			if conflict.HasConflict {
				slot.State = conflict.Type
				slot.Label = conflict.Label
			}

			slots = append(slots, slot)
		}
	}

	return slots, nil
}

// Price looks up the active pricing rule for (court, duration). A missing
// rule is a configuration error and is surfaced, never defaulted.
func Price(rules []models.PricingRule, courtID string, durationHours int) (float64, error) {
	const op = "schedule.Price"

	for _, r := range rules {
		if r.IsActive && r.CourtID == courtID && r.DurationHours == durationHours {
			return r.Price, nil
		}
	}

	return 0, fmt.Errorf("%s: %w", op, response.ErrNoPricingRule)
}
