package availability

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/slotcache"
)

// ======================================================
// SETTINGS
// ======================================================

type Settings struct {
	Interval           *domain.IntervalConfig
	Hours              *domain.BusinessHours
	GranularityMinutes int
}

// ======================================================
// INPUT
// ======================================================

type CheckInput struct {
	Date            string
	Time            string
	DurationMinutes int
	ResourceID      string
}

// ======================================================
// USE CASE
// ======================================================

// Checker envolve o cálculo puro com o cache. cache e resources podem ser
// nil: sem cache tudo é recalculado, sem diretório todo barbeiro é válido.
// Dois misses simultâneos na mesma chave calculam os dois; não há trava
// por chave.
type Checker struct {
	cal       domain.Calendar
	cache     *slotcache.Cache
	bookings  BookingLoader
	resources ResourceDirectory
	settings  Settings
	log       *zap.Logger
}

func NewChecker(
	cal domain.Calendar,
	cache *slotcache.Cache,
	bookings BookingLoader,
	resources ResourceDirectory,
	settings Settings,
	log *zap.Logger,
) *Checker {
	if settings.GranularityMinutes <= 0 {
		settings.GranularityMinutes = domain.DefaultGranularityMinutes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{
		cal:       cal,
		cache:     cache,
		bookings:  bookings,
		resources: resources,
		settings:  settings,
		log:       log.Named("availability"),
	}
}

func (uc *Checker) query(in CheckInput) domain.Query {
	return domain.Query{
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: in.DurationMinutes,
		ResourceID:      in.ResourceID,
		Interval:        uc.settings.Interval,
		Hours:           uc.settings.Hours,
	}
}

// Execute responde "dá para agendar?" usando o cache quando houver.
func (uc *Checker) Execute(ctx context.Context, in CheckInput) (domain.Result, error) {
	if _, err := uc.cal.ToInstant(in.Date, in.Time); err != nil {
		return domain.Result{}, err
	}
	if res, ok, err := uc.checkResource(ctx, in.ResourceID); err != nil || !ok {
		return res, err
	}

	q := uc.query(in)

	if uc.cache == nil {
		bookings, err := uc.bookings.LoadBookings(ctx, in.Date)
		if err != nil {
			return domain.Result{}, err
		}
		return uc.cal.CheckAvailability(q, bookings)
	}

	if res, ok := uc.cache.GetAvailability(q); ok {
		uc.log.Debug("availability cache hit", zap.String("date", q.Date), zap.String("time", q.Time))
		return res, nil
	}

	// o token vem antes da leitura dos atendimentos: se alguém invalidar a
	// data no meio do cálculo, o resultado não é gravado.
	tok := uc.cache.Snapshot(q.Date, q.ResourceID)

	bookings, err := uc.cachedBookings(ctx, q.Date, tok)
	if err != nil {
		return domain.Result{}, err
	}

	res, err := uc.cal.CheckAvailability(q, bookings)
	if err != nil {
		return domain.Result{}, err
	}

	uc.cache.SetAvailability(q, res, tok)
	return res, nil
}

// Verify é usado antes de gravar um agendamento: não lê nenhum cache e
// carrega a agenda direto do banco. excludeID remove o próprio atendimento
// da lista (remarcação).
func (uc *Checker) Verify(ctx context.Context, in CheckInput, excludeID string) (domain.Result, error) {
	if _, err := uc.cal.ToInstant(in.Date, in.Time); err != nil {
		return domain.Result{}, err
	}
	if res, ok, err := uc.checkResource(ctx, in.ResourceID); err != nil || !ok {
		return res, err
	}

	bookings, err := uc.bookings.LoadBookings(ctx, in.Date)
	if err != nil {
		return domain.Result{}, err
	}

	if excludeID != "" {
		kept := bookings[:0:0]
		for _, b := range bookings {
			if b.ID != excludeID {
				kept = append(kept, b)
			}
		}
		bookings = kept
	}

	return uc.cal.CheckAvailability(uc.query(in), bookings)
}

func (uc *Checker) checkResource(ctx context.Context, resourceID string) (domain.Result, bool, error) {
	if uc.resources == nil || resourceID == "" {
		return domain.Result{}, true, nil
	}

	active, err := uc.resources.ResourceActive(ctx, resourceID)
	if err != nil {
		return domain.Result{}, false, err
	}
	if !active {
		return domain.ResourceUnavailable(), false, nil
	}
	return domain.Result{}, true, nil
}

// Bookings devolve a agenda do dia, passando pelo cache.
func (uc *Checker) Bookings(ctx context.Context, date string) ([]domain.BookingSlot, error) {
	if _, err := uc.cal.ParseDate(date); err != nil {
		return nil, err
	}
	if uc.cache == nil {
		return uc.bookings.LoadBookings(ctx, date)
	}
	return uc.cachedBookings(ctx, date, uc.cache.Snapshot(date, ""))
}

func (uc *Checker) cachedBookings(ctx context.Context, date string, tok slotcache.Token) ([]domain.BookingSlot, error) {
	if bookings, ok := uc.cache.GetBookings(date); ok {
		return bookings, nil
	}

	bookings, err := uc.bookings.LoadBookings(ctx, date)
	if err != nil {
		return nil, err
	}

	uc.cache.SetBookings(date, bookings, tok)
	return bookings, nil
}
