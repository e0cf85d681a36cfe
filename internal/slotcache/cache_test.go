package slotcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 2, 7, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(clock *fakeClock) *Cache {
	return New(Options{Now: clock.Now})
}

func query(date, hm, resource string) availability.Query {
	return availability.Query{Date: date, Time: hm, DurationMinutes: 30, ResourceID: resource}
}

func TestStore_TTL(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[string]("test", time.Minute, clock.Now, nil)

	s.set("k", "v")
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	clock.Advance(59 * time.Second)
	_, ok = s.Get("k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = s.Get("k")
	assert.False(t, ok, "expired exactly at ttl")
	assert.Equal(t, 0, s.Len(), "lazy removal on read")

	st := s.Stats()
	assert.Equal(t, uint64(2), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
}

func TestStore_CustomTTLAndOverwrite(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[int]("test", time.Minute, clock.Now, nil)

	s.SetTagged("k", 1, 10*time.Second, "", "")
	clock.Advance(10 * time.Second)
	_, ok := s.Get("k")
	assert.False(t, ok)

	s.set("k", 2)
	s.set("k", 3)
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestStore_Sweep(t *testing.T) {
	clock := newFakeClock()
	s := NewStore[int]("test", time.Minute, clock.Now, nil)

	s.set("a", 1)
	clock.Advance(30 * time.Second)
	s.set("b", 2)
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, uint64(1), s.Stats().Swept)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore("test", time.Minute, nil, cloneSlice[string])

	in := []string{"10:00", "10:30"}
	s.set("k", in)
	in[0] = "changed"

	out, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "10:00", out[0])

	out[1] = "changed"
	again, _ := s.Get("k")
	assert.Equal(t, "10:30", again[1])
}

func TestCache_AvailabilityCoherence(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	q := query("2025-02-07", "14:00", "barber-1")

	_, ok := c.GetAvailability(q)
	assert.False(t, ok)

	require.True(t, c.SetAvailability(q, availability.Available(), c.Snapshot(q.Date, q.ResourceID)))
	got, ok := c.GetAvailability(q)
	require.True(t, ok)
	assert.Equal(t, availability.Available(), got)

	clock.Advance(DefaultAvailabilityTTL)
	_, ok = c.GetAvailability(q)
	assert.False(t, ok)
}

func TestCache_KeysDistinguishInputs(t *testing.T) {
	c := newTestCache(newFakeClock())
	q := query("2025-02-07", "14:00", "")
	tok := c.Snapshot(q.Date, "")
	c.SetAvailability(q, availability.Available(), tok)

	variants := []availability.Query{
		query("2025-02-08", "14:00", ""),
		query("2025-02-07", "14:30", ""),
		query("2025-02-07", "14:00", "any"),
		query("2025-02-07", "14:00", "barber-1"),
		{Date: "2025-02-07", Time: "14:00", DurationMinutes: 60},
		{Date: "2025-02-07", Time: "14:00", DurationMinutes: 30, Interval: &availability.IntervalConfig{StartTime: "12:00", EndTime: "13:00"}},
		{Date: "2025-02-07", Time: "14:00", DurationMinutes: 30, Hours: &availability.BusinessHours{Open: "09:00", Close: "19:00"}},
	}
	for _, v := range variants {
		_, ok := c.GetAvailability(v)
		assert.False(t, ok, "%+v", v)
	}
}

func TestCache_InvalidateDateIsExact(t *testing.T) {
	c := newTestCache(newFakeClock())
	bookings := []availability.BookingSlot{{ID: "1", ResourceID: "barber-1", DurationMinutes: 30}}

	for _, date := range []string{"2025-02-07", "2025-02-08"} {
		tok := c.Snapshot(date, "barber-1")
		c.SetAvailability(query(date, "10:00", "barber-1"), availability.Available(), tok)
		c.SetAvailability(query(date, "10:00", ""), availability.Available(), tok)
		c.SetBlockedSlots(date, bookings, nil, 30, "", []string{"10:00"}, tok)
		c.SetBookings(date, bookings, tok)
	}

	c.InvalidateDate("2025-02-07")

	_, ok := c.GetAvailability(query("2025-02-07", "10:00", "barber-1"))
	assert.False(t, ok)
	_, ok = c.GetAvailability(query("2025-02-07", "10:00", ""))
	assert.False(t, ok)
	_, ok = c.GetBlockedSlots("2025-02-07", bookings, nil, 30, "")
	assert.False(t, ok)
	_, ok = c.GetBookings("2025-02-07")
	assert.False(t, ok)

	_, ok = c.GetAvailability(query("2025-02-08", "10:00", "barber-1"))
	assert.True(t, ok)
	_, ok = c.GetAvailability(query("2025-02-08", "10:00", ""))
	assert.True(t, ok)
	_, ok = c.GetBlockedSlots("2025-02-08", bookings, nil, 30, "")
	assert.True(t, ok)
	_, ok = c.GetBookings("2025-02-08")
	assert.True(t, ok)
}

func TestCache_InvalidateResource(t *testing.T) {
	c := newTestCache(newFakeClock())
	date := "2025-02-07"

	for _, r := range []string{"barber-1", "barber-2", ""} {
		c.SetAvailability(query(date, "10:00", r), availability.Available(), c.Snapshot(date, r))
	}

	c.InvalidateResource("barber-1")

	_, ok := c.GetAvailability(query(date, "10:00", "barber-1"))
	assert.False(t, ok)
	_, ok = c.GetAvailability(query(date, "10:00", "barber-2"))
	assert.True(t, ok)
	_, ok = c.GetAvailability(query(date, "10:00", ""))
	assert.True(t, ok, "unscoped entries survive")
}

func TestCache_DropsWriteStartedBeforeInvalidation(t *testing.T) {
	c := newTestCache(newFakeClock())
	q := query("2025-02-07", "14:00", "barber-1")

	tok := c.Snapshot(q.Date, q.ResourceID)
	c.InvalidateDate(q.Date)

	assert.False(t, c.SetAvailability(q, availability.Available(), tok))
	_, ok := c.GetAvailability(q)
	assert.False(t, ok)

	tok = c.Snapshot(q.Date, q.ResourceID)
	c.InvalidateResource("barber-1")
	assert.False(t, c.SetAvailability(q, availability.Available(), tok))

	tok = c.Snapshot(q.Date, q.ResourceID)
	c.InvalidateResource("barber-9")
	assert.True(t, c.SetAvailability(q, availability.Available(), tok), "other resources do not interfere")

	assert.Equal(t, uint64(2), c.Stats().StaleWritesDropped)
}

func TestCache_InvalidateMatching(t *testing.T) {
	c := newTestCache(newFakeClock())
	for _, d := range []string{"2025-02-07", "2025-02-08", "2025-03-01"} {
		c.SetAvailability(query(d, "10:00", ""), availability.Available(), c.Snapshot(d, ""))
		c.SetBookings(d, nil, c.Snapshot(d, ""))
	}

	removed, err := c.InvalidateMatching("avail|2025-02-*")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, ok := c.GetAvailability(query("2025-03-01", "10:00", ""))
	assert.True(t, ok)
	_, ok = c.GetBookings("2025-02-07")
	assert.True(t, ok)

	_, err = c.InvalidateMatching("[")
	assert.Error(t, err)
}

func TestCache_Clear(t *testing.T) {
	c := newTestCache(newFakeClock())
	tok := c.Snapshot("2025-02-07", "")
	c.SetAvailability(query("2025-02-07", "10:00", ""), availability.Available(), tok)
	c.SetBookings("2025-02-07", nil, tok)

	c.Clear()

	st := c.Stats()
	assert.Zero(t, st.Availability.Size)
	assert.Zero(t, st.Bookings.Size)
	assert.False(t, c.SetAvailability(query("2025-02-07", "10:00", ""), availability.Available(), tok))
}

func TestCache_HashFailureIsMiss(t *testing.T) {
	orig := marshalBookings
	marshalBookings = func(any) ([]byte, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { marshalBookings = orig })

	c := newTestCache(newFakeClock())
	assert.False(t, c.SetBlockedSlots("2025-02-07", nil, nil, 30, "", []string{"10:00"}, c.Snapshot("2025-02-07", "")))

	_, ok := c.GetBlockedSlots("2025-02-07", nil, nil, 30, "")
	assert.False(t, ok)
	assert.Equal(t, uint64(2), c.Stats().Faults)
}

func TestCache_BlockedSlotsKeyedByBookings(t *testing.T) {
	c := newTestCache(newFakeClock())
	date := "2025-02-07"
	before := []availability.BookingSlot{{ID: "1", DurationMinutes: 30}}
	after := append(cloneSlice(before), availability.BookingSlot{ID: "2", DurationMinutes: 60})

	c.SetBlockedSlots(date, before, nil, 30, "", []string{"10:00"}, c.Snapshot(date, ""))

	_, ok := c.GetBlockedSlots(date, after, nil, 30, "")
	assert.False(t, ok)
	_, ok = c.GetBlockedSlots(date, before, nil, 15, "")
	assert.False(t, ok)
	got, ok := c.GetBlockedSlots(date, before, nil, 30, "")
	require.True(t, ok)
	assert.Equal(t, []string{"10:00"}, got)
}

func TestCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	date := "2025-02-07"
	tok := c.Snapshot(date, "")

	c.SetAvailability(query(date, "10:00", ""), availability.Available(), tok)
	c.SetBlockedSlots(date, nil, nil, 30, "", []string{"10:00"}, tok)
	c.SetBookings(date, nil, tok)

	clock.Advance(DefaultBlockedSlotsTTL)
	assert.Equal(t, 1, c.Sweep())

	clock.Advance(DefaultAvailabilityTTL)
	assert.Equal(t, 1, c.Sweep())

	clock.Advance(DefaultBookingsTTL)
	assert.Equal(t, 1, c.Sweep())
}

func TestCache_RunSweeperStopsOnCancel(t *testing.T) {
	c := newTestCache(newFakeClock())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.RunSweeper(ctx, 5*time.Millisecond) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(Options{})
	dates := []string{"2025-02-07", "2025-02-08", "2025-02-09"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				d := dates[(i+j)%len(dates)]
				q := query(d, "10:00", "barber-1")
				if _, ok := c.GetAvailability(q); !ok {
					c.SetAvailability(q, availability.Available(), c.Snapshot(d, "barber-1"))
				}
				switch j % 50 {
				case 0:
					c.InvalidateDate(d)
				case 25:
					c.InvalidateResource("barber-1")
				}
				c.Sweep()
			}
		}(i)
	}
	wg.Wait()

	c.InvalidateDate("2025-02-07")
	_, ok := c.GetAvailability(query("2025-02-07", "10:00", "barber-1"))
	assert.False(t, ok)
}
