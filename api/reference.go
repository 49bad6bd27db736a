package api

import (
	"net/http"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/service/catalog"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReferenceHandler struct {
	service catalog.CatalogUseCase
	logger  *zap.SugaredLogger
}

func NewReferenceHandler(service catalog.CatalogUseCase, logger *zap.SugaredLogger) *ReferenceHandler {
	return &ReferenceHandler{service: service, logger: orNop(logger)}
}

func (h *ReferenceHandler) Register(public, private *gin.RouterGroup) {
	public.GET("/airports", h.listAirports)
	public.GET("/airports/:code", h.getAirport)
	public.GET("/airlines", h.listAirlines)
	public.GET("/airlines/:code", h.getAirline)

	private.POST("/airports", h.createAirport)
	private.POST("/airlines", h.createAirline)
}

func (h *ReferenceHandler) listAirports(c *gin.Context) {
	list, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ReferenceHandler) getAirport(c *gin.Context) {
	airport, err := h.service.GetAirport(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

func (h *ReferenceHandler) createAirport(c *gin.Context) {
	var input domain.Airport
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	airport, err := h.service.CreateAirport(c.Request.Context(), CurrentUser(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, airport)
}

func (h *ReferenceHandler) listAirlines(c *gin.Context) {
	list, err := h.service.ListAirlines(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ReferenceHandler) getAirline(c *gin.Context) {
	airline, err := h.service.GetAirline(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

func (h *ReferenceHandler) createAirline(c *gin.Context) {
	var input domain.Airline
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	airline, err := h.service.CreateAirline(c.Request.Context(), CurrentUser(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, airline)
}
