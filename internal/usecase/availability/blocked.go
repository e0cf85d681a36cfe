package availability

import "context"

// BlockedSlots devolve os rótulos "HH:mm" indisponíveis no dia, na grade
// configurada. resourceID vazio considera todos os barbeiros.
func (uc *Checker) BlockedSlots(ctx context.Context, date, resourceID string) ([]string, error) {
	if _, err := uc.cal.ParseDate(date); err != nil {
		return nil, err
	}

	g := uc.settings.GranularityMinutes
	iv := uc.settings.Interval

	if uc.cache == nil {
		bookings, err := uc.bookings.LoadBookings(ctx, date)
		if err != nil {
			return nil, err
		}
		return uc.cal.BlockedSlots(date, bookings, iv, g, resourceID)
	}

	tok := uc.cache.Snapshot(date, resourceID)

	bookings, err := uc.cachedBookings(ctx, date, tok)
	if err != nil {
		return nil, err
	}

	if slots, ok := uc.cache.GetBlockedSlots(date, bookings, iv, g, resourceID); ok {
		return slots, nil
	}

	slots, err := uc.cal.BlockedSlots(date, bookings, iv, g, resourceID)
	if err != nil {
		return nil, err
	}

	uc.cache.SetBlockedSlots(date, bookings, iv, g, resourceID, slots, tok)
	return slots, nil
}
