package availability

import (
	"strconv"
	"time"
)

// Query descreve um pedido de horário. ResourceID vazio = qualquer barbeiro.
// Interval e Hours são opcionais.
type Query struct {
	Date            string
	Time            string
	DurationMinutes int
	ResourceID      string
	Interval        *IntervalConfig
	Hours           *BusinessHours
}

// CheckAvailability é puro: mesmas entradas, mesmo resultado. A ordem das
// regras importa (a primeira que casar vence):
//  1. expediente (OUTSIDE_HOURS / INSUFFICIENT_TIME)
//  2. intervalo bloqueado (INTERVAL)
//  3. atendimentos na ordem recebida (OCCUPIED; o primeiro define OccupiedUntil)
func (c Calendar) CheckAvailability(q Query, bookings []BookingSlot) (Result, error) {
	slot, err := c.slotRange(q.Date, q.Time, q.DurationMinutes)
	if err != nil {
		return Result{}, err
	}

	if q.Hours != nil {
		res, err := c.checkHours(slot, *q.Hours, q.Date)
		if err != nil || !res.Available {
			return res, err
		}
	}

	if q.Interval != nil {
		blocked, err := c.ConflictsWithInterval(slot, *q.Interval, q.Date)
		if err != nil {
			return Result{}, err
		}
		if blocked {
			return Unavailable(ReasonInterval, "Blocked interval "+q.Interval.String()), nil
		}
	}

	candidate := BookingSlot{
		Range:           slot,
		ResourceID:      q.ResourceID,
		DurationMinutes: q.DurationMinutes,
	}

	for _, b := range bookings {
		if Conflicts(candidate, b) {
			return Occupied(c.Clock(b.Range.End)), nil
		}
	}

	return Available(), nil
}

func (c Calendar) checkHours(slot TimeRange, h BusinessHours, date string) (Result, error) {
	open, err := c.ToInstant(date, h.Open)
	if err != nil {
		return Result{}, err
	}
	closing, err := c.ToInstant(date, h.Close)
	if err != nil {
		return Result{}, err
	}

	if slot.Start.Before(open) || !slot.Start.Before(closing) {
		return Unavailable(ReasonOutsideHours, "Outside business hours "+h.String()), nil
	}
	if slot.End.After(closing) {
		return Unavailable(ReasonInsufficientTime, "Not enough time before closing at "+h.Close), nil
	}
	return Available(), nil
}

// BlockedSlots devolve, ordenados, os rótulos bloqueados em date: os slots
// ocupados por cada atendimento mais a grade dentro do intervalo.
// Com resourceID, atendimentos de outros barbeiros são ignorados.
func (c Calendar) BlockedSlots(
	date string,
	bookings []BookingSlot,
	interval *IntervalConfig,
	granularityMinutes int,
	resourceID string,
) ([]string, error) {
	if granularityMinutes <= 0 {
		return nil, &ParseError{Field: "granularity", Value: strconv.Itoa(granularityMinutes), Err: ErrNonPositiveSpan}
	}

	day, err := c.ParseDate(date)
	if err != nil {
		return nil, err
	}

	set := slotSet{}

	if interval != nil {
		r, err := interval.rangeOn(c, date)
		if err != nil {
			return nil, err
		}
		set.add(intervalSlots(day, r, granularityMinutes)...)
	}

	for _, b := range bookings {
		if resourceID != "" && b.ResourceID != "" && b.ResourceID != resourceID {
			continue
		}
		// início fora da grade ocupa também o rótulo que o contém
		start := gridFloor(b.Range.Start.In(c.loc()), granularityMinutes)
		minutes := int(b.Range.End.Sub(start) / time.Minute)
		set.add(OccupiedSlots(start, minutes, granularityMinutes)...)
	}

	return set.sorted(), nil
}
