package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	ucAvailability "github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// BookingSource adapta o repositório gorm às portas do motor de
// disponibilidade.
type BookingSource struct {
	repo domain.Repository
	cal  availability.Calendar
}

func NewBookingSource(repo domain.Repository, cal availability.Calendar) *BookingSource {
	return &BookingSource{repo: repo, cal: cal}
}

func (s *BookingSource) LoadBookings(ctx context.Context, date string) ([]availability.BookingSlot, error) {
	dayStart, err := s.cal.ParseDate(date)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	apps, err := s.repo.ListAppointmentsForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := make([]availability.BookingSlot, 0, len(apps))
	for _, ap := range apps {
		slot, err := domain.ToBookingSlot(ap)
		if err != nil {
			// registro corrompido (fim <= início): não ocupa nada
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (s *BookingSource) ResourceActive(ctx context.Context, resourceID string) (bool, error) {
	id, err := domain.ParseResourceID(resourceID)
	if err != nil {
		return false, nil
	}

	barber, err := s.repo.GetBarber(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return barber.Active, nil
}

var (
	_ ucAvailability.BookingLoader     = (*BookingSource)(nil)
	_ ucAvailability.ResourceDirectory = (*BookingSource)(nil)
)
