package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	ucAvailability "github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarberID  uint
	ProductID uint

	ClientName  string
	ClientPhone string

	Date  string
	Time  string
	Notes string

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo       domain.Repository
	deps       Deps
	minAdvance time.Duration
}

func NewCreateAppointment(
	repo domain.Repository,
	deps Deps,
	minAdvance time.Duration,
) *CreateAppointment {
	return &CreateAppointment{
		repo:       repo,
		deps:       deps,
		minAdvance: minAdvance,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Data / hora no calendário do sistema
	// --------------------------------------------------
	start, err := uc.deps.Calendar.ToInstant(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Antecedência mínima
	// --------------------------------------------------
	if start.Before(uc.deps.now().Add(uc.minAdvance)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 3️⃣ Barbeiro e serviço
	// --------------------------------------------------
	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
		return nil, err
	}

	product, err := uc.repo.GetProduct(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Disponibilidade (sem cache)
	// --------------------------------------------------
	resourceID := domain.ResourceID(in.BarberID)

	res, err := uc.deps.Verifier.Verify(ctx, ucAvailability.CheckInput{
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: product.DurationMin,
		ResourceID:      resourceID,
	}, "")
	if err != nil {
		return nil, err
	}
	if !res.Available {
		return nil, &SlotUnavailableError{Result: res}
	}

	// --------------------------------------------------
	// 5️⃣ Criação (conflito revalidado com lock no banco)
	// --------------------------------------------------
	ap := &models.Appointment{
		BarberID:        in.BarberID,
		BarberProductID: product.ID,
		ClientName:      in.ClientName,
		ClientPhone:     in.ClientPhone,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(product.DurationMin) * time.Minute),
		Status:          string(domain.StatusScheduled),
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Cache + auditoria
	// --------------------------------------------------
	uc.deps.invalidate(resourceID, uc.deps.bookingDates(ap)...)

	uc.deps.dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
