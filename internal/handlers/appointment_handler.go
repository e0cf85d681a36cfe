package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/dto"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/middleware"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-availability/internal/usecase/appointment"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type (
	appointmentCreator interface {
		Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error)
	}
	appointmentRescheduler interface {
		Execute(ctx context.Context, in ucAppointment.RescheduleAppointmentInput) (*models.Appointment, error)
	}
	appointmentTransition interface {
		Execute(ctx context.Context, appointmentID uint, actorID *uint) (*models.Appointment, error)
	}
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     appointmentCreator
	reschedule appointmentRescheduler
	cancel     appointmentTransition
	complete   appointmentTransition
	cal        availability.Calendar
	log        *zap.Logger
}

func NewAppointmentHandler(
	create appointmentCreator,
	reschedule appointmentRescheduler,
	cancel appointmentTransition,
	complete appointmentTransition,
	cal availability.Calendar,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		reschedule: reschedule,
		cancel:     cancel,
		complete:   complete,
		cal:        cal,
		log:        log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID    uint   `json:"barber_id" binding:"required"`
	ProductID   uint   `json:"product_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Notes       string `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarberID:    req.BarberID,
		ProductID:   req.ProductID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		ActorID:     middleware.ActorID(c),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromAppointment(ap, h.cal))
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		ActorID:       middleware.ActorID(c),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAppointment(ap, h.cal))
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cancel)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete)
}

func (h *AppointmentHandler) transition(c *gin.Context, uc appointmentTransition) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := uc.Execute(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAppointment(ap, h.cal))
}

func appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_appointment_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}
