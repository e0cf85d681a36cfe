package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/httpresp"
	ucAvailability "github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityService interface {
	Execute(ctx context.Context, in ucAvailability.CheckInput) (availability.Result, error)
	BlockedSlots(ctx context.Context, date, resourceID string) ([]string, error)
	Bookings(ctx context.Context, date string) ([]availability.BookingSlot, error)
}

type AvailabilityHandler struct {
	svc AvailabilityService
	log *zap.Logger
}

func NewAvailabilityHandler(svc AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, log: log}
}

// ======================================================
// RESPONSES
// ======================================================

type BlockedSlotsResponse struct {
	Date       string   `json:"date"`
	ResourceID string   `json:"barber_id,omitempty"`
	Slots      []string `json:"slots"`
}

type BookingResponse struct {
	ID         string    `json:"id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ResourceID string    `json:"barber_id,omitempty"`
	ServiceID  string    `json:"service_id,omitempty"`
	Duration   int       `json:"duration_min"`
}

// ======================================================
// CHECK
// ======================================================

// GET /api/availability?date=2025-02-07&time=10:00&duration=30&barber_id=7
func (h *AvailabilityHandler) Check(c *gin.Context) {
	date := c.Query("date")
	hm := c.Query("time")
	if date == "" || hm == "" {
		httperr.BadRequest(c, "invalid_request", "date e time são obrigatórios.")
		return
	}

	duration, err := strconv.Atoi(c.DefaultQuery("duration", "30"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Duração inválida.")
		return
	}

	res, err := h.svc.Execute(c.Request.Context(), ucAvailability.CheckInput{
		Date:            date,
		Time:            hm,
		DurationMinutes: duration,
		ResourceID:      c.Query("barber_id"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// BLOCKED SLOTS
// ======================================================

// GET /api/availability/blocked?date=2025-02-07[&barber_id=7]
func (h *AvailabilityHandler) Blocked(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "invalid_request", "date é obrigatório.")
		return
	}
	resourceID := c.Query("barber_id")

	slots, err := h.svc.BlockedSlots(c.Request.Context(), date, resourceID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}

	c.JSON(http.StatusOK, BlockedSlotsResponse{
		Date:       date,
		ResourceID: resourceID,
		Slots:      slots,
	})
}

// ======================================================
// BOOKINGS
// ======================================================

// GET /api/availability/bookings?date=2025-02-07
func (h *AvailabilityHandler) Bookings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "invalid_request", "date é obrigatório.")
		return
	}

	bookings, err := h.svc.Bookings(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingResponse{
			ID:         b.ID,
			Start:      b.Range.Start,
			End:        b.Range.End,
			ResourceID: b.ResourceID,
			ServiceID:  b.ServiceID,
			Duration:   b.DurationMinutes,
		})
	}

	httpresp.List(c, out)
}
