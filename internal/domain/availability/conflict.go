package availability

import "time"

// BookingSlot é um atendimento já persistido, tratado como valor imutável.
// ResourceID vazio significa sem barbeiro definido (bloqueia qualquer um).
type BookingSlot struct {
	ID              string    `json:"id,omitempty"`
	Range           TimeRange `json:"range"`
	ResourceID      string    `json:"resource_id,omitempty"`
	ServiceID       string    `json:"service_id,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
}

func NewBookingSlot(id string, start time.Time, durationMinutes int, resourceID, serviceID string) (BookingSlot, error) {
	r, err := NewTimeRange(start, EndOf(start, durationMinutes))
	if err != nil {
		return BookingSlot{}, err
	}
	return BookingSlot{
		ID:              id,
		Range:           r,
		ResourceID:      resourceID,
		ServiceID:       serviceID,
		DurationMinutes: durationMinutes,
	}, nil
}

// Conflicts: barbeiros diferentes nunca conflitam; caso contrário vale a
// sobreposição dos horários.
func Conflicts(a, b BookingSlot) bool {
	if a.ResourceID != "" && b.ResourceID != "" && a.ResourceID != b.ResourceID {
		return false
	}
	return a.Range.Overlaps(b.Range)
}

// ConflictsWithInterval aplica o bloqueio diário sobre r, independente de
// barbeiro.
func (c Calendar) ConflictsWithInterval(r TimeRange, iv IntervalConfig, date string) (bool, error) {
	ivRange, err := iv.rangeOn(c, date)
	if err != nil {
		return false, err
	}
	return r.Overlaps(ivRange), nil
}
