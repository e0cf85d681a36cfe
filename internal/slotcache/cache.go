package slotcache

import (
	"fmt"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
)

const (
	DefaultAvailabilityTTL = 5 * time.Minute
	DefaultBlockedSlotsTTL = 2 * time.Minute
	DefaultBookingsTTL     = 10 * time.Minute
)

type Options struct {
	AvailabilityTTL time.Duration
	BlockedSlotsTTL time.Duration
	BookingsTTL     time.Duration

	Now    func() time.Time
	Logger *zap.Logger
}

// Cache agrupa os três stores (disponibilidade, slots bloqueados e
// atendimentos do dia). Nenhum método devolve erro: falha interna vira miss.
type Cache struct {
	availability *Store[availability.Result]
	blocked      *Store[[]string]
	bookings     *Store[[]availability.BookingSlot]

	log *zap.Logger

	// gerações por data e por barbeiro; invalidar incrementa, e gravações
	// com Token antigo são descartadas.
	genMu   sync.RWMutex
	epoch   uint64
	dateGen map[string]uint64
	resGen  map[string]uint64

	faults        atomic.Uint64
	invalidations atomic.Uint64
	staleDropped  atomic.Uint64
}

func New(opts Options) *Cache {
	if opts.AvailabilityTTL <= 0 {
		opts.AvailabilityTTL = DefaultAvailabilityTTL
	}
	if opts.BlockedSlotsTTL <= 0 {
		opts.BlockedSlotsTTL = DefaultBlockedSlotsTTL
	}
	if opts.BookingsTTL <= 0 {
		opts.BookingsTTL = DefaultBookingsTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Cache{
		availability: NewStore[availability.Result]("availability", opts.AvailabilityTTL, opts.Now, nil),
		blocked:      NewStore("blocked_slots", opts.BlockedSlotsTTL, opts.Now, cloneSlice[string]),
		bookings:     NewStore("bookings", opts.BookingsTTL, opts.Now, cloneSlice[availability.BookingSlot]),
		log:          opts.Logger.Named("slotcache"),
		dateGen:      make(map[string]uint64),
		resGen:       make(map[string]uint64),
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Token captura as gerações vistas antes de carregar dados.
type Token struct {
	epoch    uint64
	date     uint64
	resource uint64
}

func (c *Cache) Snapshot(date, resourceID string) Token {
	c.genMu.RLock()
	defer c.genMu.RUnlock()

	return Token{
		epoch:    c.epoch,
		date:     c.dateGen[date],
		resource: c.resGen[resourceID],
	}
}

// guarded executa write só se nada foi invalidado desde o Token.
// Segura genMu em leitura para a escrita não cruzar uma invalidação.
// Sem barbeiro, a geração de barbeiro não é comparada.
func (c *Cache) guarded(date, resourceID string, tok Token, write func()) bool {
	c.genMu.RLock()
	defer c.genMu.RUnlock()

	current := Token{epoch: c.epoch, date: c.dateGen[date], resource: tok.resource}
	if resourceID != "" {
		current.resource = c.resGen[resourceID]
	}
	if current != tok {
		c.staleDropped.Add(1)
		return false
	}

	write()
	return true
}

func (c *Cache) fault(store, key string, err error) {
	c.faults.Add(1)
	c.log.Warn("cache fault, treating as miss",
		zap.String("store", store),
		zap.String("key", key),
		zap.Error(err),
	)
}

// recoverFault converte pânico interno em miss.
func (c *Cache) recoverFault(store, key string, ok *bool) {
	if r := recover(); r != nil {
		c.fault(store, key, fmt.Errorf("panic: %v", r))
		if ok != nil {
			*ok = false
		}
	}
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (c *Cache) GetAvailability(q availability.Query) (res availability.Result, ok bool) {
	key := AvailabilityKey(q)
	defer c.recoverFault(c.availability.Name(), key, &ok)
	return c.availability.Get(key)
}

func (c *Cache) SetAvailability(q availability.Query, res availability.Result, tok Token) bool {
	key := AvailabilityKey(q)
	ok := true
	defer c.recoverFault(c.availability.Name(), key, &ok)

	stored := c.guarded(q.Date, q.ResourceID, tok, func() {
		c.availability.SetTagged(key, res, 0, q.Date, q.ResourceID)
	})
	return stored && ok
}

// --------------------------------------------------
// Blocked slots
// --------------------------------------------------

func (c *Cache) GetBlockedSlots(
	date string,
	bookings []availability.BookingSlot,
	interval *availability.IntervalConfig,
	granularityMinutes int,
	resourceID string,
) (slots []string, ok bool) {
	key, err := BlockedSlotsKey(date, bookings, interval, granularityMinutes, resourceID)
	if err != nil {
		c.fault(c.blocked.Name(), date, err)
		return nil, false
	}
	defer c.recoverFault(c.blocked.Name(), key, &ok)
	return c.blocked.Get(key)
}

func (c *Cache) SetBlockedSlots(
	date string,
	bookings []availability.BookingSlot,
	interval *availability.IntervalConfig,
	granularityMinutes int,
	resourceID string,
	slots []string,
	tok Token,
) bool {
	key, err := BlockedSlotsKey(date, bookings, interval, granularityMinutes, resourceID)
	if err != nil {
		c.fault(c.blocked.Name(), date, err)
		return false
	}
	return c.guarded(date, resourceID, tok, func() {
		c.blocked.SetTagged(key, slots, 0, date, resourceID)
	})
}

// --------------------------------------------------
// Bookings by date
// --------------------------------------------------

func (c *Cache) GetBookings(date string) (bookings []availability.BookingSlot, ok bool) {
	key := BookingsKey(date)
	defer c.recoverFault(c.bookings.Name(), key, &ok)
	return c.bookings.Get(key)
}

// SetBookings é chamado pela camada que carrega os atendimentos do banco.
func (c *Cache) SetBookings(date string, bookings []availability.BookingSlot, tok Token) bool {
	key := BookingsKey(date)
	return c.guarded(date, "", tok, func() {
		c.bookings.SetTagged(key, bookings, 0, date, "")
	})
}

// --------------------------------------------------
// Invalidation
// --------------------------------------------------

// InvalidateDate remove tudo que foi derivado de date. Ao retornar, nenhum
// Get pode ver valor anterior e nenhuma gravação iniciada antes pode entrar.
func (c *Cache) InvalidateDate(date string) {
	c.genMu.Lock()
	defer c.genMu.Unlock()

	c.dateGen[date]++
	c.invalidations.Add(1)

	removed := c.bookings.DeleteDate(date) +
		c.availability.DeleteDate(date) +
		c.blocked.DeleteDate(date)

	c.log.Debug("invalidated date", zap.String("date", date), zap.Int("removed", removed))
}

// InvalidateResource remove as entradas ligadas ao barbeiro. Entradas de
// "qualquer barbeiro" e de outros barbeiros ficam.
func (c *Cache) InvalidateResource(resourceID string) {
	if resourceID == "" {
		return
	}

	c.genMu.Lock()
	defer c.genMu.Unlock()

	c.resGen[resourceID]++
	c.invalidations.Add(1)

	removed := c.availability.DeleteResource(resourceID) +
		c.blocked.DeleteResource(resourceID)

	c.log.Debug("invalidated resource", zap.String("resource", resourceID), zap.Int("removed", removed))
}

// InvalidateMatching remove, dos três stores, as chaves que casam com o
// glob (sintaxe de path.Match), ex.: "avail|2025-02-*".
func (c *Cache) InvalidateMatching(pattern string) (int, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, err
	}

	match := func(key string) bool {
		ok, _ := path.Match(pattern, key)
		return ok
	}

	c.genMu.Lock()
	defer c.genMu.Unlock()

	c.epoch++
	c.invalidations.Add(1)

	return c.availability.DeleteMatching(match) +
		c.blocked.DeleteMatching(match) +
		c.bookings.DeleteMatching(match), nil
}

func (c *Cache) Clear() {
	c.genMu.Lock()
	defer c.genMu.Unlock()

	c.epoch++
	c.invalidations.Add(1)

	c.availability.Clear()
	c.blocked.Clear()
	c.bookings.Clear()
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

type Stats struct {
	Availability       StoreStats `json:"availability"`
	BlockedSlots       StoreStats `json:"blocked_slots"`
	Bookings           StoreStats `json:"bookings"`
	Faults             uint64     `json:"faults"`
	Invalidations      uint64     `json:"invalidations"`
	StaleWritesDropped uint64     `json:"stale_writes_dropped"`
}

func (c *Cache) Stats() Stats {
	return Stats{
		Availability:       c.availability.Stats(),
		BlockedSlots:       c.blocked.Stats(),
		Bookings:           c.bookings.Stats(),
		Faults:             c.faults.Load(),
		Invalidations:      c.invalidations.Load(),
		StaleWritesDropped: c.staleDropped.Load(),
	}
}
