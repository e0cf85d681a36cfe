package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cal = NewCalendar(time.UTC)

func at(t *testing.T, date, hm string) time.Time {
	t.Helper()
	ts, err := cal.ToInstant(date, hm)
	require.NoError(t, err)
	return ts
}

func booking(t *testing.T, date, hm string, minutes int, resource string) BookingSlot {
	t.Helper()
	b, err := NewBookingSlot("", at(t, date, hm), minutes, resource, "svc-1")
	require.NoError(t, err)
	return b
}

func TestToInstant(t *testing.T) {
	ts, err := cal.ToInstant("2025-02-07", "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 7, 14, 30, 0, 0, time.UTC), ts)

	_, err = cal.ToInstant("2025-02-30", "14:30")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "date", pe.Field)

	_, err = cal.ToInstant("2025-02-07", "25:00")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "time", pe.Field)

	_, err = cal.ToInstant("2025-02-07", "1430")
	assert.True(t, IsParseError(err))
}

func TestToInstant_UsesCalendarLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	ts, err := NewCalendar(loc).ToInstant("2025-02-07", "09:00")
	require.NoError(t, err)
	assert.Equal(t, loc, ts.Location())
	assert.Equal(t, "09:00", FormatClock(ts))
}

func TestEndOf(t *testing.T) {
	start := at(t, "2025-02-07", "23:30")
	end := EndOf(start, 90)
	assert.Equal(t, time.Date(2025, 2, 8, 1, 0, 0, 0, time.UTC), end)
	assert.True(t, AddMinutes(start, -30).Before(start))
}

func TestNewTimeRange_RejectsEmpty(t *testing.T) {
	ts := at(t, "2025-02-07", "10:00")
	_, err := NewTimeRange(ts, ts)
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, err = NewTimeRange(ts, ts.Add(-time.Minute))
	assert.ErrorIs(t, err, ErrEmptyRange)
}

func TestOverlaps(t *testing.T) {
	base := at(t, "2025-02-07", "10:00")
	m := func(n int) time.Time { return AddMinutes(base, n) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", m(0), m(30), m(0), m(30), true},
		{"partial", m(0), m(30), m(15), m(45), true},
		{"contained", m(0), m(60), m(15), m(30), true},
		{"adjacent", m(0), m(30), m(30), m(60), false},
		{"disjoint", m(0), m(30), m(45), m(60), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd), "symmetry")
		})
	}
}

func TestOverlaps_AdjacencyAcrossDay(t *testing.T) {
	start := at(t, "2025-02-07", "08:00")
	for i := 0; i < 24*4; i++ {
		edge := AddMinutes(start, i*15)
		assert.False(t, Overlaps(edge.Add(-time.Hour), edge, edge, edge.Add(time.Hour)))
	}
}

func TestOccupiedSlots(t *testing.T) {
	got := OccupiedSlots(at(t, "2025-02-07", "14:00"), 90, 30)
	assert.Equal(t, []string{"14:00", "14:30", "15:00", "15:30"}, got)

	assert.Equal(t, []string{"14:00", "14:30"}, OccupiedSlots(at(t, "2025-02-07", "14:00"), 45, 30))
	assert.Nil(t, OccupiedSlots(at(t, "2025-02-07", "14:00"), 0, 30))
	assert.Nil(t, OccupiedSlots(at(t, "2025-02-07", "14:00"), 30, 0))
}

func TestOccupiedSlots_Cardinality(t *testing.T) {
	start := at(t, "2025-02-07", "08:00")
	for _, g := range []int{5, 10, 15, 20, 30, 60} {
		for k := 1; k <= 8; k++ {
			d := g * k
			assert.Len(t, OccupiedSlots(start, d, g), d/g+1, "d=%d g=%d", d, g)
		}
	}
}

func TestConflicts(t *testing.T) {
	a := booking(t, "2025-02-07", "14:00", 90, "barber-1")

	assert.True(t, Conflicts(a, booking(t, "2025-02-07", "14:30", 30, "barber-1")))
	assert.False(t, Conflicts(a, booking(t, "2025-02-07", "14:30", 30, "barber-2")))
	assert.True(t, Conflicts(a, booking(t, "2025-02-07", "14:30", 30, "")), "unscoped blocks everyone")
	assert.True(t, Conflicts(booking(t, "2025-02-07", "14:30", 30, ""), a))
	assert.False(t, Conflicts(a, booking(t, "2025-02-07", "15:30", 30, "barber-1")), "back to back")
}

func TestConflicts_DifferentResourcesNeverConflict(t *testing.T) {
	for i := 0; i < 10; i++ {
		a := booking(t, "2025-02-07", "10:00", 30+i*10, "barber-a")
		b := booking(t, "2025-02-07", "10:00", 30+i*5, "barber-b")
		assert.False(t, Conflicts(a, b))
		assert.False(t, Conflicts(b, a))
	}
}

func TestConflictsWithInterval(t *testing.T) {
	iv := IntervalConfig{StartTime: "12:00", EndTime: "13:00"}
	r, err := NewTimeRange(at(t, "2025-02-07", "11:30"), at(t, "2025-02-07", "12:00"))
	require.NoError(t, err)

	hit, err := cal.ConflictsWithInterval(r, iv, "2025-02-07")
	require.NoError(t, err)
	assert.False(t, hit)

	r.End = at(t, "2025-02-07", "12:01")
	hit, err = cal.ConflictsWithInterval(r, iv, "2025-02-07")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestIntervalValidate(t *testing.T) {
	assert.NoError(t, IntervalConfig{StartTime: "12:00", EndTime: "13:00"}.Validate())

	err := IntervalConfig{StartTime: "13:00", EndTime: "13:00"}.Validate()
	assert.True(t, IsConfigurationError(err))

	err = IntervalConfig{StartTime: "xx", EndTime: "13:00"}.Validate()
	assert.True(t, IsConfigurationError(err))

	assert.True(t, IsConfigurationError(BusinessHours{Open: "19:00", Close: "09:00"}.Validate()))
}

func TestCheckAvailability_Scenarios(t *testing.T) {
	existing := []BookingSlot{booking(t, "2025-02-07", "14:00", 90, "barber-1")}

	res, err := cal.CheckAvailability(Query{
		Date: "2025-02-07", Time: "14:00", DurationMinutes: 30, ResourceID: "barber-1",
	}, existing)
	require.NoError(t, err)
	assert.Equal(t, Result{
		Available:     false,
		Reason:        ReasonOccupied,
		Message:       "Occupied until 15:30",
		OccupiedUntil: "15:30",
	}, res)

	res, err = cal.CheckAvailability(Query{
		Date: "2025-02-07", Time: "14:00", DurationMinutes: 30, ResourceID: "barber-2",
	}, existing)
	require.NoError(t, err)
	assert.Equal(t, Available(), res)

	res, err = cal.CheckAvailability(Query{
		Date: "2025-02-07", Time: "12:30", DurationMinutes: 30,
		Interval: &IntervalConfig{StartTime: "12:00", EndTime: "13:00"},
	}, nil)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, ReasonInterval, res.Reason)
	assert.Equal(t, "Blocked interval 12:00-13:00", res.Message)
}

func TestCheckAvailability_IntervalBeforeBookings(t *testing.T) {
	existing := []BookingSlot{booking(t, "2025-02-07", "12:00", 60, "barber-1")}

	res, err := cal.CheckAvailability(Query{
		Date: "2025-02-07", Time: "12:00", DurationMinutes: 30, ResourceID: "barber-1",
		Interval: &IntervalConfig{StartTime: "12:00", EndTime: "13:00"},
	}, existing)
	require.NoError(t, err)
	assert.Equal(t, ReasonInterval, res.Reason)
}

func TestCheckAvailability_FirstConflictWins(t *testing.T) {
	existing := []BookingSlot{
		booking(t, "2025-02-07", "10:00", 30, ""),
		booking(t, "2025-02-07", "09:30", 120, ""),
	}

	res, err := cal.CheckAvailability(Query{Date: "2025-02-07", Time: "10:00", DurationMinutes: 30}, existing)
	require.NoError(t, err)
	assert.Equal(t, "10:30", res.OccupiedUntil)
}

func TestCheckAvailability_BusinessHours(t *testing.T) {
	hours := &BusinessHours{Open: "09:00", Close: "19:00"}

	tests := []struct {
		time     string
		duration int
		want     UnavailableReason
	}{
		{"08:30", 30, ReasonOutsideHours},
		{"19:00", 30, ReasonOutsideHours},
		{"18:30", 60, ReasonInsufficientTime},
		{"18:30", 30, ""},
		{"09:00", 30, ""},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			res, err := cal.CheckAvailability(Query{
				Date: "2025-02-07", Time: tt.time, DurationMinutes: tt.duration, Hours: hours,
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Reason)
			assert.Equal(t, tt.want == "", res.Available)
			if !res.Available {
				assert.NotEmpty(t, res.Message)
			}
		})
	}
}

func TestCheckAvailability_Errors(t *testing.T) {
	_, err := cal.CheckAvailability(Query{Date: "07/02/2025", Time: "10:00", DurationMinutes: 30}, nil)
	assert.True(t, IsParseError(err))

	_, err = cal.CheckAvailability(Query{Date: "2025-02-07", Time: "10:00", DurationMinutes: 0}, nil)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "duration", pe.Field)
}

func TestCheckAvailability_Idempotent(t *testing.T) {
	existing := []BookingSlot{
		booking(t, "2025-02-07", "10:00", 60, "barber-1"),
		booking(t, "2025-02-07", "11:00", 30, "barber-2"),
	}
	q := Query{Date: "2025-02-07", Time: "10:30", DurationMinutes: 45, ResourceID: "barber-1"}

	first, err := cal.CheckAvailability(q, existing)
	require.NoError(t, err)
	second, err := cal.CheckAvailability(q, existing)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBlockedSlots(t *testing.T) {
	existing := []BookingSlot{
		booking(t, "2025-02-07", "14:00", 90, "barber-1"),
		booking(t, "2025-02-07", "09:00", 30, "barber-2"),
	}
	iv := &IntervalConfig{StartTime: "12:00", EndTime: "13:00"}

	all, err := cal.BlockedSlots("2025-02-07", existing, iv, 30, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "12:00", "12:30", "14:00", "14:30", "15:00", "15:30"}, all)

	mine, err := cal.BlockedSlots("2025-02-07", existing, iv, 30, "barber-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"12:00", "12:30", "14:00", "14:30", "15:00", "15:30"}, mine)

	_, err = cal.BlockedSlots("2025-02-07", existing, iv, 0, "")
	assert.True(t, IsParseError(err))
}

func TestBlockedSlots_IntervalAlignedToGrid(t *testing.T) {
	iv := &IntervalConfig{StartTime: "12:10", EndTime: "13:00"}
	got, err := cal.BlockedSlots("2025-02-07", nil, iv, 30, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"12:30"}, got)
}

func TestCalendar_BookingsStoredInUTC(t *testing.T) {
	brt := NewCalendar(time.FixedZone("BRT", -3*60*60))

	// 13:00 UTC = 10:00 BRT
	b, err := NewBookingSlot("1", time.Date(2025, 2, 7, 13, 0, 0, 0, time.UTC), 60, "", "")
	require.NoError(t, err)

	res, err := brt.CheckAvailability(Query{Date: "2025-02-07", Time: "10:30", DurationMinutes: 30}, []BookingSlot{b})
	require.NoError(t, err)
	assert.Equal(t, "11:00", res.OccupiedUntil)

	slots, err := brt.BlockedSlots("2025-02-07", []BookingSlot{b}, nil, 30, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, slots)
	assert.Equal(t, "10:00", brt.Clock(b.Range.Start))
}

func TestBlockedSlots_UnalignedBookingUsesGridLabels(t *testing.T) {
	// 14:10-14:40 toca as células 14:00 e 14:30
	b := booking(t, "2025-02-07", "14:10", 30, "")

	slots, err := cal.BlockedSlots("2025-02-07", []BookingSlot{b}, nil, 30, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "14:30"}, slots)

	aligned := booking(t, "2025-02-07", "14:00", 90, "")
	slots, err = cal.BlockedSlots("2025-02-07", []BookingSlot{aligned}, nil, 30, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "14:30", "15:00", "15:30"}, slots)
}
