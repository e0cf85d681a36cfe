package availability

import (
	"strconv"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Calendar é o único calendário civil do sistema. Todas as conversões
// data + "HH:mm" acontecem nele; não há conversão entre zonas.
// O valor zero usa UTC.
type Calendar struct {
	Location *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	return Calendar{Location: loc}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// ParseDate retorna a meia-noite de date no calendário.
func (c Calendar) ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, c.loc())
	if err != nil {
		return time.Time{}, &ParseError{Field: "date", Value: date, Err: err}
	}
	return d, nil
}

// ParseClock valida um horário "HH:mm" do dia.
func ParseClock(hm string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil {
		return 0, 0, &ParseError{Field: "time", Value: hm, Err: err}
	}
	return t.Hour(), t.Minute(), nil
}

func (c Calendar) ToInstant(date, hm string) (time.Time, error) {
	d, err := c.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}

	h, m, err := ParseClock(hm)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, c.loc()), nil
}

func AddMinutes(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Minute)
}

func EndOf(start time.Time, durationMinutes int) time.Time {
	return AddMinutes(start, durationMinutes)
}

func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// Clock formata t como "HH:mm" no calendário, seja qual for a zona de t.
func (c Calendar) Clock(t time.Time) string {
	return FormatClock(t.In(c.loc()))
}

// FormatDate é o inverso de ParseDate, no calendário.
func (c Calendar) FormatDate(t time.Time) string {
	return t.In(c.loc()).Format(DateLayout)
}

// TimeRange é semiaberto: [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, &ParseError{
			Field: "range",
			Value: FormatClock(start) + "-" + FormatClock(end),
			Err:   ErrEmptyRange,
		}
	}
	return TimeRange{Start: start, End: end}, nil
}

func (r TimeRange) Overlaps(o TimeRange) bool {
	return Overlaps(r.Start, r.End, o.Start, o.End)
}

func (r TimeRange) Minutes() int {
	return int(r.End.Sub(r.Start) / time.Minute)
}

// slotRange monta o intervalo de um atendimento que começa em date+hm.
func (c Calendar) slotRange(date, hm string, durationMinutes int) (TimeRange, error) {
	if durationMinutes <= 0 {
		return TimeRange{}, &ParseError{
			Field: "duration",
			Value: strconv.Itoa(durationMinutes),
			Err:   ErrNonPositiveSpan,
		}
	}

	start, err := c.ToInstant(date, hm)
	if err != nil {
		return TimeRange{}, err
	}

	return TimeRange{Start: start, End: EndOf(start, durationMinutes)}, nil
}
