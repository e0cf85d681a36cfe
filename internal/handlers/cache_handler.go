package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/slotcache"
)

// CacheHandler expõe operação manual do cache de disponibilidade.
// Invalidações por data, barbeiro e limpeza total passam pelo invalidator,
// que propaga para as outras réplicas quando há Redis.
type CacheHandler struct {
	cache       *slotcache.Cache
	invalidator slotcache.Invalidator
	cal         availability.Calendar
	log         *zap.Logger
}

func NewCacheHandler(
	cache *slotcache.Cache,
	invalidator slotcache.Invalidator,
	cal availability.Calendar,
	log *zap.Logger,
) *CacheHandler {
	if invalidator == nil {
		invalidator = cache
	}
	return &CacheHandler{
		cache:       cache,
		invalidator: invalidator,
		cal:         cal,
		log:         log,
	}
}

// GET /api/admin/cache/stats
func (h *CacheHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}

// DELETE /api/admin/cache
func (h *CacheHandler) Clear(c *gin.Context) {
	h.invalidator.Clear()
	h.log.Info("cache cleared manually")
	c.Status(http.StatusNoContent)
}

// DELETE /api/admin/cache/dates/:date
func (h *CacheHandler) InvalidateDate(c *gin.Context) {
	date := c.Param("date")
	if _, err := h.cal.ParseDate(date); err != nil {
		writeError(c, h.log, err)
		return
	}

	h.invalidator.InvalidateDate(date)
	c.Status(http.StatusNoContent)
}

// DELETE /api/admin/cache/barbers/:id
func (h *CacheHandler) InvalidateResource(c *gin.Context) {
	h.invalidator.InvalidateResource(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// DELETE /api/admin/cache/keys?pattern=avail|2025-02-*
// Só local: padrões não são propagados.
func (h *CacheHandler) InvalidateMatching(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		httperr.BadRequest(c, "invalid_request", "pattern é obrigatório.")
		return
	}

	removed, err := h.cache.InvalidateMatching(pattern)
	if err != nil {
		httperr.BadRequest(c, "invalid_pattern", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
