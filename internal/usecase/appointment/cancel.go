package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type CancelAppointment struct {
	repo domain.Repository
	deps Deps
}

func NewCancelAppointment(
	repo domain.Repository,
	deps Deps,
) *CancelAppointment {
	return &CancelAppointment{
		repo: repo,
		deps: deps,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, uc.deps.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.deps.invalidate(domain.ResourceID(ap.BarberID), uc.deps.bookingDates(ap)...)

	uc.deps.dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
