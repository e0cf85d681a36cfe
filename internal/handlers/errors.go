package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	ucAppointment "github.com/BruksfildServices01/barber-availability/internal/usecase/appointment"
)

var businessMessages = map[string]struct {
	status  int
	message string
}{
	"time_conflict":         {http.StatusConflict, "Conflito de horário."},
	"too_soon":              {http.StatusBadRequest, "Horário inválido."},
	"invalid_state":         {http.StatusConflict, "Estado do agendamento não permite a operação."},
	"appointment_not_found": {http.StatusNotFound, "Agendamento não encontrado."},
	"service_not_found":     {http.StatusBadRequest, "Serviço não encontrado."},
	"barber_not_found":      {http.StatusBadRequest, "Barbeiro não encontrado."},
}

// writeError traduz os erros dos casos de uso para a resposta HTTP.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var slotErr *ucAppointment.SlotUnavailableError
	if errors.As(err, &slotErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error_code":   "slot_unavailable",
			"message":      slotErr.Result.Message,
			"availability": slotErr.Result,
		})
		return
	}

	if availability.IsParseError(err) {
		httperr.BadRequest(c, "invalid_date_or_time", err.Error())
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		if m, ok := businessMessages[be.Code]; ok {
			httperr.Write(c, m.status, be.Code, m.message)
			return
		}
		httperr.BadRequest(c, be.Code, be.Code)
		return
	}

	if availability.IsConfigurationError(err) {
		log.Error("configuration error", zap.Error(err))
		httperr.Internal(c, "configuration_error", "Configuração inválida.")
		return
	}

	log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	httperr.Internal(c, "internal_error", "Erro interno.")
}
