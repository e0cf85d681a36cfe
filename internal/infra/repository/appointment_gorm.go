package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).First(&barber, id).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

// --------------------------------------------------
// Product
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProduct(
	ctx context.Context,
	productID uint,
) (*models.BarberProduct, error) {

	var product models.BarberProduct
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = true", productID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// CreateAppointment e RescheduleAppointment travam a linha do barbeiro antes
// de conferir conflitos: o lock em linhas de atendimento não pega nada quando
// o horário está vazio, e duas transações passariam juntas.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBarber(tx, ap.BarberID).Error; err != nil {
			return barberLockError(err)
		}

		if err := assertNoConflict(tx, ap.BarberID, ap.StartTime, ap.EndTime, 0); err != nil {
			return err
		}

		return tx.Create(ap).Error
	})
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBarber(tx, ap.BarberID).Error; err != nil {
			return barberLockError(err)
		}

		if err := assertNoConflict(tx, ap.BarberID, ap.StartTime, ap.EndTime, ap.ID); err != nil {
			return err
		}

		return tx.Save(ap).Error
	})
}

func lockBarber(tx *gorm.DB, barberID uint) *gorm.DB {
	var barber models.Barber
	return tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&barber, barberID)
}

func barberLockError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness("barber_not_found")
	}
	return err
}

// excludeID > 0 ignora o próprio atendimento (remarcação).
func assertNoConflict(
	tx *gorm.DB,
	barberID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) error {

	q := tx.
		Model(&models.Appointment{}).
		Where(
			"barber_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			barberID,
			string(domain.StatusScheduled),
			end,
			start,
		)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

// --------------------------------------------------
// Appointment (Cancel / Complete / Reschedule)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

// ListAppointmentsForDay traz os atendimentos ativos que tocam [start, end),
// inclusive o que começou no dia anterior e invade este.
func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "barber_id", "barber_product_id", "start_time", "end_time").
		Where(
			"status = ? AND start_time < ? AND end_time > ?",
			string(domain.StatusScheduled), end, start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
