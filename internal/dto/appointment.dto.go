package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

// AppointmentDTO traz data e hora já no calendário da barbearia, no mesmo
// formato aceito pela checagem de disponibilidade.
type AppointmentDTO struct {
	ID          uint      `json:"id"`
	BarberID    uint      `json:"barber_id"`
	ProductID   uint      `json:"product_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	Notes       string    `json:"notes,omitempty"`
}

func FromAppointment(ap *models.Appointment, cal availability.Calendar) AppointmentDTO {
	return AppointmentDTO{
		ID:          ap.ID,
		BarberID:    ap.BarberID,
		ProductID:   ap.BarberProductID,
		Date:        cal.FormatDate(ap.StartTime),
		Time:        cal.Clock(ap.StartTime),
		StartTime:   ap.StartTime,
		EndTime:     ap.EndTime,
		Status:      ap.Status,
		ClientName:  ap.ClientName,
		ClientPhone: ap.ClientPhone,
		Notes:       ap.Notes,
	}
}
