package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/server/http/dto"
	"github.com/ordesk/ordesk/internal/server/http/middleware"
)

// AuthHandler processes staff and courier logins and staff provisioning.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// StaffLogin handles POST /api/t/:slug/staff/login.
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.StaffLogin(c.Request.Context(), c.Param("slug"), req.Login, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// CourierLogin handles POST /api/t/:slug/courier/login.
func (h *AuthHandler) CourierLogin(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.CourierLogin(c.Request.Context(), c.Param("slug"), req.Login, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// CreateStaff handles POST /api/staff/accounts.
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var req dto.StaffCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	account, err := h.facade.CreateStaff(c.Request.Context(), CurrentActor(c), req.Login, req.Password, model.ActorRole(req.Role))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.StaffResponse{
		ID:    account.ID.String(),
		Login: account.Login,
		Role:  string(account.Role),
	})
}
