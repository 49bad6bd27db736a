package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/service/auth"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service auth.AuthUseCase
	logger  *zap.SugaredLogger
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type loginResponse struct {
	SessionID           string      `json:"sessionId"`
	ExpiresAt           string      `json:"expiresAt"`
	Role                domain.Role `json:"role"`
	AssignedAirlineCode string      `json:"assignedAirlineCode,omitempty"`
}

func NewAuthHandler(service auth.AuthUseCase, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{service: service, logger: orNop(logger)}
}

func (h *AuthHandler) Register(public, private *gin.RouterGroup) {
	public.POST("/auth/login", h.login)

	private.POST("/auth/logout", h.logout)
	private.GET("/auth/me", h.me)
	private.POST("/auth/register", h.register)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	result, err := h.service.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header(SessionHeader, result.Session.ID)
	c.JSON(http.StatusOK, loginResponse{
		SessionID:           result.Session.ID,
		ExpiresAt:           result.Session.ExpiresAt.Format(time.RFC3339),
		Role:                result.User.Role,
		AssignedAirlineCode: result.User.AssignedAirlineCode,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetString(ctxSessionKey)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) register(c *gin.Context) {
	var input auth.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, validation.Wrap(err))
		return
	}
	user, err := h.service.Register(c.Request.Context(), CurrentUser(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
