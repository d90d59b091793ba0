package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/server/http/dto"
	"github.com/ordesk/ordesk/internal/usecase"
)

// TenantHandler manages tenant bootstrap, the public card, and the profile.
type TenantHandler struct {
	facade      TenantFacade
	operatorKey string
}

// NewTenantHandler constructs TenantHandler.
func NewTenantHandler(facade TenantFacade, operatorKey string) *TenantHandler {
	return &TenantHandler{facade: facade, operatorKey: operatorKey}
}

// Create handles POST /api/tenants. The endpoint is the platform operator's
// bootstrap surface, guarded by the shared operator key, not actor tokens.
func (h *TenantHandler) Create(c *gin.Context) {
	key := c.GetHeader("X-Operator-Key")
	if h.operatorKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.operatorKey)) != 1 {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req dto.TenantCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant, err := h.facade.CreateTenant(c.Request.Context(), usecase.TenantDraft{
		Slug:             req.Slug,
		Name:             req.Name,
		PaidThrough:      req.PaidThrough,
		Phone:            req.Phone,
		Address:          req.Address,
		OriginLat:        req.OriginLat,
		OriginLng:        req.OriginLng,
		DispatchRadiusKm: req.DispatchRadiusKm,
		OwnerLogin:       req.OwnerLogin,
		OwnerPassword:    req.OwnerPassword,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTenantResponse(tenant))
}

// Card handles GET /api/t/:slug/card, the public storefront identity.
func (h *TenantHandler) Card(c *gin.Context) {
	tenant, err := h.facade.ResolveSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TenantCardResponse{
		Slug:    tenant.Slug,
		Name:    tenant.Name,
		Phone:   tenant.Phone,
		Address: tenant.Address,
	})
}

// Profile handles GET /api/staff/tenant.
func (h *TenantHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, toTenantResponse(CurrentTenant(c)))
}

// Patch handles PATCH /api/staff/tenant.
func (h *TenantHandler) Patch(c *gin.Context) {
	var req dto.TenantPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	updated, err := h.facade.PatchTenant(c.Request.Context(), tenant.ID, model.TenantPatch{
		Name:             req.Name,
		Phone:            req.Phone,
		Address:          req.Address,
		OriginLat:        req.OriginLat,
		OriginLng:        req.OriginLng,
		DispatchRadiusKm: req.DispatchRadiusKm,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTenantResponse(updated))
}

func toTenantResponse(tenant *model.Tenant) dto.TenantResponse {
	return dto.TenantResponse{
		ID:               tenant.ID.String(),
		Slug:             tenant.Slug,
		Name:             tenant.Name,
		Status:           string(tenant.Status),
		PaidThrough:      tenant.PaidThrough,
		Phone:            tenant.Phone,
		Address:          tenant.Address,
		OriginLat:        tenant.OriginLat,
		OriginLng:        tenant.OriginLng,
		DispatchRadiusKm: tenant.DispatchRadiusKm,
	}
}
