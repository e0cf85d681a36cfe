package slotcache

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
)

const (
	prefixAvailability = "avail"
	prefixBlocked      = "blocked"
	prefixBookings     = "bookings"

	anyResource = "any"
)

// resourceSegment separa "qualquer barbeiro" de um barbeiro chamado "any".
func resourceSegment(resourceID string) string {
	if resourceID == "" {
		return anyResource
	}
	return "r:" + url.PathEscape(resourceID)
}

func joinKey(parts ...string) string {
	return strings.Join(parts, "|")
}

func hashInterval(iv *availability.IntervalConfig) uint64 {
	if iv == nil {
		return 0
	}
	return xxhash.Sum64String(iv.StartTime + "-" + iv.EndTime)
}

func hashHours(h *availability.BusinessHours) uint64 {
	if h == nil {
		return 0
	}
	return xxhash.Sum64String(h.Open + "-" + h.Close)
}

var marshalBookings = json.Marshal

func hashBookings(bookings []availability.BookingSlot) (uint64, error) {
	raw, err := marshalBookings(bookings)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(raw), nil
}

func hex(v uint64) string {
	return strconv.FormatUint(v, 16)
}

// AvailabilityKey: (data, hora, duração, barbeiro|any, hash(intervalo)).
// O expediente também entra no hash porque muda o resultado.
func AvailabilityKey(q availability.Query) string {
	return joinKey(
		prefixAvailability,
		q.Date,
		q.Time,
		strconv.Itoa(q.DurationMinutes),
		resourceSegment(q.ResourceID),
		hex(hashInterval(q.Interval)),
		hex(hashHours(q.Hours)),
	)
}

// BlockedSlotsKey: (data, hash(lista de atendimentos), granularidade, barbeiro|any, hash(intervalo)).
func BlockedSlotsKey(
	date string,
	bookings []availability.BookingSlot,
	interval *availability.IntervalConfig,
	granularityMinutes int,
	resourceID string,
) (string, error) {
	h, err := hashBookings(bookings)
	if err != nil {
		return "", err
	}
	return joinKey(
		prefixBlocked,
		date,
		hex(h),
		strconv.Itoa(granularityMinutes),
		resourceSegment(resourceID),
		hex(hashInterval(interval)),
	), nil
}

func BookingsKey(date string) string {
	return joinKey(prefixBookings, date)
}
