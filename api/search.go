package api

import (
	"net/http"

	"github.com/Domenick1991/flightsearch/internal/service/search"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	service search.SearchUseCase
	logger  *zap.SugaredLogger
}

type searchRequest struct {
	SourceAirport      string `json:"sourceAirport" form:"sourceAirport" binding:"required,len=3"`
	DestinationAirport string `json:"destinationAirport" form:"destinationAirport" binding:"required,len=3"`
	DepartureTime      string `json:"departureTime" form:"departureTime"`
}

func NewSearchHandler(service search.SearchUseCase, logger *zap.SugaredLogger) *SearchHandler {
	return &SearchHandler{service: service, logger: orNop(logger)}
}

func (h *SearchHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/planning", h.searchQuery)
	router.GET("/search/flights", h.searchQuery)
	router.POST("/search/flights", h.searchBody)
}

func (h *SearchHandler) searchQuery(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	h.run(c, req)
}

func (h *SearchHandler) searchBody(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	h.run(c, req)
}

func (h *SearchHandler) run(c *gin.Context, req searchRequest) {
	departure, err := search.ParseDepartureTime(req.DepartureTime)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	result, err := h.service.Search(c.Request.Context(), req.SourceAirport, req.DestinationAirport, departure)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func orNop(logger *zap.SugaredLogger) *zap.SugaredLogger {
	if logger == nil {
		return zap.NewNop().Sugar()
	}
	return logger
}
