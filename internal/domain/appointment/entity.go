package appointment

import (
	"strconv"
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// Reschedule move o atendimento mantendo a duração.
func Reschedule(ap *models.Appointment, start time.Time) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	duration := ap.EndTime.Sub(ap.StartTime)
	ap.StartTime = start
	ap.EndTime = start.Add(duration)
	return nil
}

// ===============================
// Engine mapping
// ===============================

func ResourceID(barberID uint) string {
	if barberID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(barberID), 10)
}

func ParseResourceID(resourceID string) (uint, error) {
	id, err := strconv.ParseUint(resourceID, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func BookingID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ToBookingSlot converte o registro persistido no valor usado pelo motor.
func ToBookingSlot(ap models.Appointment) (availability.BookingSlot, error) {
	return availability.NewBookingSlot(
		BookingID(ap.ID),
		ap.StartTime,
		int(ap.EndTime.Sub(ap.StartTime)/time.Minute),
		ResourceID(ap.BarberID),
		strconv.FormatUint(uint64(ap.BarberProductID), 10),
	)
}
