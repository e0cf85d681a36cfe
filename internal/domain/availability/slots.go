package availability

import (
	"sort"
	"time"
)

const DefaultGranularityMinutes = 30

// OccupiedSlots lista os rótulos "HH:mm" que um atendimento ocupa, a partir
// do início e de granularity em granularity, incluindo o rótulo do fim.
// 90min às 14:00 com grade de 30 → 14:00, 14:30, 15:00, 15:30.
func OccupiedSlots(start time.Time, durationMinutes, granularityMinutes int) []string {
	if durationMinutes <= 0 || granularityMinutes <= 0 {
		return nil
	}

	end := EndOf(start, durationMinutes)
	step := time.Duration(granularityMinutes) * time.Minute

	labels := make([]string, 0, durationMinutes/granularityMinutes+1)
	for cur := start; !cur.After(end); cur = cur.Add(step) {
		labels = append(labels, FormatClock(cur))
	}
	return labels
}

// intervalSlots lista os rótulos da grade (alinhada à meia-noite) que caem
// dentro de [start, end).
func intervalSlots(day time.Time, r TimeRange, granularityMinutes int) []string {
	step := time.Duration(granularityMinutes) * time.Minute

	offset := r.Start.Sub(day)
	aligned := day.Add((offset + step - 1) / step * step)

	var labels []string
	for cur := aligned; cur.Before(r.End); cur = cur.Add(step) {
		labels = append(labels, FormatClock(cur))
	}
	return labels
}

// gridFloor recua t até o rótulo da grade (alinhada à meia-noite do dia de t)
// que o contém.
func gridFloor(t time.Time, granularityMinutes int) time.Time {
	step := time.Duration(granularityMinutes) * time.Minute
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.Add(t.Sub(midnight) / step * step)
}

type slotSet map[string]struct{}

func (s slotSet) add(labels ...string) {
	for _, l := range labels {
		s[l] = struct{}{}
	}
}

func (s slotSet) sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
