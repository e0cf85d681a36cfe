package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	ucAvailability "github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

type RescheduleAppointmentInput struct {
	AppointmentID uint
	Date          string
	Time          string
	ActorID       *uint
}

type RescheduleAppointment struct {
	repo domain.Repository
	deps Deps
}

func NewRescheduleAppointment(
	repo domain.Repository,
	deps Deps,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo: repo,
		deps: deps,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	start, err := uc.deps.Calendar.ToInstant(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	if start.Before(uc.deps.now()) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	oldDate := uc.deps.Calendar.FormatDate(ap.StartTime)
	oldDates := uc.deps.bookingDates(ap)
	resourceID := domain.ResourceID(ap.BarberID)
	duration := int(ap.EndTime.Sub(ap.StartTime).Minutes())

	// o próprio atendimento não pode bloquear a remarcação
	res, err := uc.deps.Verifier.Verify(ctx, ucAvailability.CheckInput{
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: duration,
		ResourceID:      resourceID,
	}, domain.BookingID(ap.ID))
	if err != nil {
		return nil, err
	}
	if !res.Available {
		return nil, &SlotUnavailableError{Result: res}
	}

	if err := domain.Reschedule(ap, start); err != nil {
		return nil, err
	}

	if err := uc.repo.RescheduleAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.deps.invalidate(resourceID, append(oldDates, uc.deps.bookingDates(ap)...)...)

	uc.deps.dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"from": oldDate, "to": in.Date + " " + in.Time},
	})

	return ap, nil
}
