package api

import (
	"net/http"

	"github.com/Domenick1991/flightsearch/internal/service/flights"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FlightHandler struct {
	service flights.FlightUseCase
	logger  *zap.SugaredLogger
}

func NewFlightHandler(service flights.FlightUseCase, logger *zap.SugaredLogger) *FlightHandler {
	return &FlightHandler{service: service, logger: orNop(logger)}
}

func (h *FlightHandler) Register(public, private *gin.RouterGroup) {
	public.GET("/flights", h.list)
	public.GET("/flights/:id", h.get)
	public.GET("/flights/airline/:code", h.listByAirline)

	private.POST("/flights", h.create)
	private.PUT("/flights/:id", h.update)
	private.DELETE("/flights/:id", h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) listByAirline(c *gin.Context) {
	list, err := h.service.ListByAirline(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) create(c *gin.Context) {
	var input flights.FlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	flight, err := h.service.Create(c.Request.Context(), CurrentUser(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) update(c *gin.Context) {
	var input flights.FlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	flight, err := h.service.Update(c.Request.Context(), CurrentUser(c), c.Param("id"), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
