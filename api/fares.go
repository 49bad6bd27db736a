package api

import (
	"net/http"

	"github.com/Domenick1991/flightsearch/internal/service/fares"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FareHandler serves fare administration. Every route requires a session.
type FareHandler struct {
	service fares.FareUseCase
	logger  *zap.SugaredLogger
}

func NewFareHandler(service fares.FareUseCase, logger *zap.SugaredLogger) *FareHandler {
	return &FareHandler{service: service, logger: orNop(logger)}
}

func (h *FareHandler) Register(private *gin.RouterGroup) {
	private.GET("/fares/airline/:code", h.listByAirline)
	private.GET("/fares/:id", h.get)
	private.POST("/fares", h.create)
	private.PUT("/fares/:id", h.update)
	private.DELETE("/fares/:id", h.delete)
}

func (h *FareHandler) listByAirline(c *gin.Context) {
	list, err := h.service.ListByAirline(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FareHandler) get(c *gin.Context) {
	fare, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, fare)
}

func (h *FareHandler) create(c *gin.Context) {
	var input fares.FareInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	fare, err := h.service.Create(c.Request.Context(), CurrentUser(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, fare)
}

func (h *FareHandler) update(c *gin.Context) {
	var input fares.FareInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	fare, err := h.service.Update(c.Request.Context(), CurrentUser(c), c.Param("id"), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, fare)
}

func (h *FareHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
