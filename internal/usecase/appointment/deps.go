package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	ucAvailability "github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// SlotVerifier confere o horário direto no banco, sem cache.
type SlotVerifier interface {
	Verify(ctx context.Context, in ucAvailability.CheckInput, excludeID string) (availability.Result, error)
}

// Invalidator é chamado logo depois de persistir qualquer mudança na agenda.
type Invalidator interface {
	InvalidateDate(date string)
	InvalidateResource(resourceID string)
}

type AuditSink interface {
	Dispatch(ev audit.Event)
}

// Deps agrupa o que todos os casos de uso de agendamento compartilham.
type Deps struct {
	Calendar    availability.Calendar
	Verifier    SlotVerifier
	Invalidator Invalidator
	Audit       AuditSink
	Now         func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now().In(d.calendarLocation())
	}
	return d.Now()
}

func (d Deps) calendarLocation() *time.Location {
	if d.Calendar.Location == nil {
		return time.UTC
	}
	return d.Calendar.Location
}

// bookingDates lista os dias cuja agenda inclui o atendimento: o do início e,
// quando ele passa da meia-noite, os seguintes até o fim (exclusivo).
func (d Deps) bookingDates(ap *models.Appointment) []string {
	first := d.Calendar.FormatDate(ap.StartTime)
	last := first
	if ap.EndTime.After(ap.StartTime) {
		last = d.Calendar.FormatDate(ap.EndTime.Add(-time.Nanosecond))
	}

	dates := []string{first}
	day, err := d.Calendar.ParseDate(first)
	if err != nil {
		return dates
	}
	for cur := first; cur != last && len(dates) < maxSpannedDays; {
		day = day.AddDate(0, 0, 1)
		cur = d.Calendar.FormatDate(day)
		dates = append(dates, cur)
	}
	return dates
}

const maxSpannedDays = 7

func (d Deps) invalidate(resourceID string, dates ...string) {
	if d.Invalidator == nil {
		return
	}
	seen := make(map[string]bool, len(dates))
	for _, date := range dates {
		if seen[date] {
			continue
		}
		seen[date] = true
		d.Invalidator.InvalidateDate(date)
	}
	if resourceID != "" {
		d.Invalidator.InvalidateResource(resourceID)
	}
}

func (d Deps) dispatch(ev audit.Event) {
	if d.Audit != nil {
		d.Audit.Dispatch(ev)
	}
}

// SlotUnavailableError carrega o motivo para a UI.
type SlotUnavailableError struct {
	Result availability.Result
}

func (e *SlotUnavailableError) Error() string {
	return "slot unavailable: " + string(e.Result.Reason) + ": " + e.Result.Message
}
