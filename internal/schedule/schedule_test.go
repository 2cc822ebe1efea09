package schedule

import (
	"errors"
	"testing"
	"time"

	"quadra-service/internal/models"
	"quadra-service/pkg/response"
)

func weekdayHours(courtID string, days []int, start, end int) []models.OperatingHours {
	hours := make([]models.OperatingHours, 0, len(days))
	for _, d := range days {
		hours = append(hours, models.OperatingHours{
			ID:        "oh",
			CourtID:   courtID,
			DayOfWeek: d,
			StartHour: start,
			EndHour:   end,
			IsActive:  true,
		})
	}
	return hours
}

func TestValidTimesForDay_Coverage(t *testing.T) {
	hours := weekdayHours("court-1", []int{1}, 7, 22)

	times := ValidTimesForDay(hours, "court-1", 1)
	if len(times) != 15 {
		t.Fatalf("expected 15 hourly marks for 07:00-22:00, got %d", len(times))
	}
	if times[0] != "07:00" {
		t.Fatalf("expected first mark 07:00, got %s", times[0])
	}
	if times[len(times)-1] != "21:00" {
		t.Fatalf("expected last mark 21:00, got %s", times[len(times)-1])
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("marks not strictly ascending: %s after %s", times[i], times[i-1])
		}
	}
}

func TestValidTimesForDay_DisjointWindowsUnion(t *testing.T) {
	hours := []models.OperatingHours{
		{CourtID: "court-1", DayOfWeek: 2, StartHour: 7, EndHour: 12, IsActive: true},
		{CourtID: "court-1", DayOfWeek: 2, StartHour: 16, EndHour: 22, IsActive: true},
		{CourtID: "court-1", DayOfWeek: 2, StartHour: 10, EndHour: 14, IsActive: false},
	}

	times := ValidTimesForDay(hours, "court-1", 2)
	if len(times) != 11 {
		t.Fatalf("expected 11 marks from two windows, got %d", len(times))
	}
	for _, tm := range times {
		if tm >= "12:00" && tm < "16:00" {
			t.Fatalf("mark %s falls in the gap between windows", tm)
		}
	}
}

func TestValidTimesForDay_ClosedDay(t *testing.T) {
	hours := weekdayHours("court-1", []int{1, 2, 3}, 7, 22)

	if times := ValidTimesForDay(hours, "court-1", 0); len(times) != 0 {
		t.Fatalf("expected no marks on a closed day, got %v", times)
	}
	if IsTimeValidForDay(hours, "court-1", 0, "07:00") {
		t.Fatal("expected 07:00 invalid on a closed day")
	}
	if !IsTimeValidForDay(hours, "court-1", 2, "07:00") {
		t.Fatal("expected 07:00 valid on an open day")
	}
}

func TestAllValidTimes(t *testing.T) {
	hours := []models.OperatingHours{
		{CourtID: "court-1", DayOfWeek: 1, StartHour: 7, EndHour: 10, IsActive: true},
		{CourtID: "court-1", DayOfWeek: 6, StartHour: 8, EndHour: 12, IsActive: true},
	}

	times := AllValidTimes(hours, "court-1")
	want := []string{"07:00", "08:00", "09:00", "10:00", "11:00"}
	if len(times) != len(want) {
		t.Fatalf("expected %d catalog marks, got %d: %v", len(want), len(times), times)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Fatalf("catalog mark %d: expected %s, got %s", i, want[i], times[i])
		}
	}
}

func TestCalculateEndTime(t *testing.T) {
	end, err := CalculateEndTime("07:00", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != "08:00" {
		t.Fatalf("expected 08:00, got %s", end)
	}

	end, err = CalculateEndTime("18:30", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != "20:30" {
		t.Fatalf("expected 20:30, got %s", end)
	}

	if _, err := CalculateEndTime("23:00", 2); !errors.Is(err, response.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration past midnight, got %v", err)
	}
	if _, err := CalculateEndTime("07:00", 0); !errors.Is(err, response.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for zero duration, got %v", err)
	}
	if _, err := CalculateEndTime("7am", 1); err == nil {
		t.Fatal("expected error for malformed start time")
	}
}

func TestOverlaps_Symmetry(t *testing.T) {
	cases := [][4]string{
		{"09:00", "10:00", "09:00", "10:00"},
		{"09:00", "10:00", "09:30", "10:30"},
		{"09:00", "11:00", "10:00", "10:30"},
	}
	for _, c := range cases {
		if !Overlaps(c[0], c[1], c[2], c[3]) {
			t.Fatalf("expected overlap for %v", c)
		}
		if !Overlaps(c[2], c[3], c[0], c[1]) {
			t.Fatalf("overlap not symmetric for %v", c)
		}
	}
}

func TestOverlaps_HalfOpenAdjacency(t *testing.T) {
	if Overlaps("07:00", "08:00", "08:00", "09:00") {
		t.Fatal("adjacent ranges must not overlap")
	}
	if Overlaps("08:00", "09:00", "07:00", "08:00") {
		t.Fatal("adjacent ranges must not overlap (swapped)")
	}
}

func TestCheckTimeConflict_NoFalseNegative(t *testing.T) {
	bookings := []models.SingleBooking{{
		ID:         "b1",
		CourtID:    "court-1",
		ClientName: "Ana",
		Date:       "2025-06-10",
		StartTime:  "09:00",
		EndTime:    "10:00",
		Status:     models.BookingConfirmed,
	}}

	conflict, err := CheckTimeConflict(nil, bookings, "court-1", "2025-06-10", "09:00", "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflict.HasConflict || conflict.Type != models.SlotSingle || conflict.Label != "Ana" {
		t.Fatalf("expected single conflict with label Ana, got %+v", conflict)
	}

	conflict, err = CheckTimeConflict(nil, bookings, "court-1", "2025-06-10", "09:30", "10:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflict.HasConflict {
		t.Fatal("expected conflict for partially overlapping range")
	}

	conflict, err = CheckTimeConflict(nil, bookings, "court-1", "2025-06-10", "10:00", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict.HasConflict {
		t.Fatalf("adjacent range must not conflict, got %+v", conflict)
	}

	conflict, err = CheckTimeConflict(nil, bookings, "court-1", "2025-06-11", "09:00", "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict.HasConflict {
		t.Fatal("different date must not conflict")
	}

	conflict, err = CheckTimeConflict(nil, bookings, "court-2", "2025-06-10", "09:00", "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict.HasConflict {
		t.Fatal("different court must not conflict")
	}
}

func TestCheckRecurringConflict_FirstWeekdayWins(t *testing.T) {
	classes := []models.RecurringClass{{
		ID:         "c1",
		CourtID:    "court-1",
		ClassType:  "Beach Tennis",
		DaysOfWeek: []int64{1, 3},
		StartTime:  "07:00",
		EndTime:    "08:00",
		IsActive:   true,
	}}

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	conflict := CheckRecurringConflict(classes, nil, "court-1", []int{3, 1}, "07:00", "08:00", from)
	if !conflict.HasConflict {
		t.Fatal("expected conflict with existing class")
	}
	if conflict.Day != 3 {
		t.Fatalf("expected first weekday in input order (3) to win, got %d", conflict.Day)
	}
	if conflict.Label != "Beach Tennis" {
		t.Fatalf("expected label Beach Tennis, got %s", conflict.Label)
	}

	conflict = CheckRecurringConflict(classes, nil, "court-1", []int{2, 4}, "07:00", "08:00", from)
	if conflict.HasConflict {
		t.Fatalf("weekdays without the class must not conflict, got %+v", conflict)
	}

	conflict = CheckRecurringConflict(classes, nil, "court-1", []int{1}, "08:00", "09:00", from)
	if conflict.HasConflict {
		t.Fatal("adjacent time range must not conflict")
	}
}

func TestCheckRecurringConflict_ScansFutureBookings(t *testing.T) {
	// 2025-06-11 is a Wednesday (weekday 3).
	bookings := []models.SingleBooking{{
		ID:         "b1",
		CourtID:    "court-1",
		ClientName: "Bruno",
		Date:       "2025-06-11",
		StartTime:  "18:00",
		EndTime:    "19:00",
		Status:     models.BookingPending,
	}}

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	conflict := CheckRecurringConflict(nil, bookings, "court-1", []int{3}, "18:00", "19:00", from)
	if !conflict.HasConflict || conflict.Type != models.SlotSingle || conflict.Label != "Bruno" {
		t.Fatalf("expected conflict with future booking, got %+v", conflict)
	}

	// A booking already in the past does not block a new class.
	past := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	conflict = CheckRecurringConflict(nil, bookings, "court-1", []int{3}, "18:00", "19:00", past)
	if conflict.HasConflict {
		t.Fatalf("past booking must not conflict, got %+v", conflict)
	}

	bookings[0].Status = models.BookingCancelled
	conflict = CheckRecurringConflict(nil, bookings, "court-1", []int{3}, "18:00", "19:00", from)
	if conflict.HasConflict {
		t.Fatal("cancelled booking must not conflict")
	}
}

func TestAvailableSlotsForDate_RecurringToggle(t *testing.T) {
	courts := []models.Court{{ID: "court-1", Name: "Quadra 1", IsActive: true}}
	hours := weekdayHours("court-1", []int{1}, 7, 10)
	classes := []models.RecurringClass{{
		ID:         "c1",
		CourtID:    "court-1",
		ClassType:  "Beach Tennis",
		DaysOfWeek: []int64{1},
		StartTime:  "07:00",
		EndTime:    "08:00",
		IsActive:   true,
	}}

	// Two different future Mondays.
	for _, date := range []string{"2025-06-09", "2025-06-16"} {
		slots, err := AvailableSlotsForDate(courts, hours, classes, nil, date, "court-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 3 {
			t.Fatalf("expected 3 slots, got %d", len(slots))
		}
		if slots[0].Time != "07:00" || slots[0].IsAvailable {
			t.Fatalf("%s: expected 07:00 busy, got %+v", date, slots[0])
		}
		if !slots[1].IsAvailable || !slots[2].IsAvailable {
			t.Fatalf("%s: expected 08:00 and 09:00 free", date)
		}
	}

	classes[0].IsActive = false

	slots, err := AvailableSlotsForDate(courts, hours, classes, nil, "2025-06-09", "court-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if !s.IsAvailable {
			t.Fatalf("deactivated class must free every slot, %s still busy", s.Time)
		}
	}
}

func TestAvailableSlotsForDate_AllCourts(t *testing.T) {
	courts := []models.Court{
		{ID: "court-1", Name: "Quadra 1", IsActive: true},
		{ID: "court-2", Name: "Quadra 2", IsActive: true},
		{ID: "court-3", Name: "Quadra 3", IsActive: false},
	}
	hours := append(weekdayHours("court-1", []int{1}, 7, 9), weekdayHours("court-2", []int{1}, 7, 9)...)
	hours = append(hours, weekdayHours("court-3", []int{1}, 7, 9)...)

	slots, err := AvailableSlotsForDate(courts, hours, nil, nil, "2025-06-09", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 2 slots per active court, got %d", len(slots))
	}
	for _, s := range slots {
		if s.CourtID == "court-3" {
			t.Fatal("inactive court must not contribute slots")
		}
	}
}

func TestCalendarSlotsForDate_Scenario(t *testing.T) {
	// Court open Mon-Fri 07:00-22:00, "Beach Tennis" Mon/Wed/Fri at 07:00,
	// one confirmed booking on Wednesday 2025-06-11 at 18:00.
	courts := []models.Court{{ID: "court-1", Name: "Quadra 1", IsActive: true}}
	hours := weekdayHours("court-1", []int{1, 2, 3, 4, 5}, 7, 22)
	classes := []models.RecurringClass{{
		ID:         "c1",
		CourtID:    "court-1",
		ClassType:  "Beach Tennis",
		Instructor: "Carlos",
		DaysOfWeek: []int64{1, 3, 5},
		StartTime:  "07:00",
		EndTime:    "08:00",
		IsActive:   true,
	}}
	bookings := []models.SingleBooking{{
		ID:         "b1",
		CourtID:    "court-1",
		ClientName: "Maria",
		Date:       "2025-06-11",
		StartTime:  "18:00",
		EndTime:    "19:00",
		Status:     models.BookingConfirmed,
	}}

	slots, err := CalendarSlotsForDate(courts, hours, classes, bookings, "2025-06-11", "court-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots, got %d", len(slots))
	}

	for _, s := range slots {
		switch s.Time {
		case "07:00":
			if s.State != models.SlotRecurring || s.Label != "Beach Tennis" {
				t.Fatalf("expected 07:00 recurring/Beach Tennis, got %+v", s)
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

	// Cancelling the booking frees the 18:00 slot.
	bookings[0].Status = models.BookingCancelled

	slots, err = CalendarSlotsForDate(courts, hours, classes, bookings, "2025-06-11", "court-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.Time == "18:00" && s.State != models.SlotFree {
			t.Fatalf("expected 18:00 free after cancellation, got %+v", s)
		}
	}
}

func TestPrice(t *testing.T) {
	rules := []models.PricingRule{
		{ID: "p1", CourtID: "court-1", DurationHours: 1, Price: 120, IsActive: true},
		{ID: "p2", CourtID: "court-1", DurationHours: 2, Price: 200, IsActive: true},
		{ID: "p3", CourtID: "court-2", DurationHours: 1, Price: 90, IsActive: false},
	}

	first, err := Price(rules, "court-1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Price(rules, "court-1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second || first != 120 {
		t.Fatalf("expected deterministic 120, got %v then %v", first, second)
	}

	if _, err := Price(rules, "court-1", 3); !errors.Is(err, response.ErrNoPricingRule) {
		t.Fatalf("expected ErrNoPricingRule for unconfigured duration, got %v", err)
	}
	if _, err := Price(rules, "court-2", 1); !errors.Is(err, response.ErrNoPricingRule) {
		t.Fatalf("expected ErrNoPricingRule for inactive rule, got %v", err)
	}
}
