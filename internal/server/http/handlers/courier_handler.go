package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/server/http/dto"
	"github.com/ordesk/ordesk/internal/usecase"
)

// CourierHandler manages courier onboarding and self-service endpoints.
type CourierHandler struct {
	facade CourierFacade
}

// NewCourierHandler constructs CourierHandler.
func NewCourierHandler(facade CourierFacade) *CourierHandler {
	return &CourierHandler{facade: facade}
}

// Register handles POST /api/staff/couriers.
func (h *CourierHandler) Register(c *gin.Context) {
	var req dto.CourierCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	courier, err := h.facade.RegisterCourier(c.Request.Context(), tenant.ID, usecase.CourierDraft{
		Login:        req.Login,
		Password:     req.Password,
		Name:         req.Name,
		Phone:        req.Phone,
		Vehicle:      req.Vehicle,
		PaymentModel: req.PaymentModel,
		PushHandle:   req.PushHandle,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCourierResponse(courier))
}

// List handles GET /api/staff/couriers.
func (h *CourierHandler) List(c *gin.Context) {
	tenant := CurrentTenant(c)
	couriers, err := h.facade.ListCouriers(c.Request.Context(), tenant.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(couriers) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.CourierResponse, 0, len(couriers))
	for i := range couriers {
		response = append(response, toCourierResponse(&couriers[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Patch handles PATCH /api/staff/couriers/:id.
func (h *CourierHandler) Patch(c *gin.Context) {
	courierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.CourierPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	courier, err := h.facade.PatchCourier(c.Request.Context(), tenant.ID, courierID, model.CourierPatch{
		Name:         req.Name,
		Phone:        req.Phone,
		Vehicle:      req.Vehicle,
		PaymentModel: req.PaymentModel,
		PushHandle:   req.PushHandle,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourierResponse(courier))
}

// Me handles GET /api/courier/me.
func (h *CourierHandler) Me(c *gin.Context) {
	tenant := CurrentTenant(c)
	actor := CurrentActor(c)

	courier, err := h.facade.GetCourier(c.Request.Context(), tenant.ID, actor.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourierResponse(courier))
}

// Availability handles POST /api/courier/availability.
func (h *CourierHandler) Availability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	courier, err := h.facade.ToggleAvailability(c.Request.Context(), tenant.ID, CurrentActor(c), model.CourierStatus(req.Status))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourierResponse(courier))
}

// Location handles POST /api/courier/location.
func (h *CourierHandler) Location(c *gin.Context) {
	var req dto.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	courier, err := h.facade.UpdateCourierLocation(c.Request.Context(), tenant.ID, CurrentActor(c), req.Lat, req.Lng)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourierResponse(courier))
}

func toCourierResponse(courier *model.Courier) dto.CourierResponse {
	return dto.CourierResponse{
		ID:           courier.ID.String(),
		Login:        courier.Login,
		Name:         courier.Name,
		Phone:        courier.Phone,
		Vehicle:      courier.Vehicle,
		PaymentModel: courier.PaymentModel,
		Status:       string(courier.Status),
		PushCapable:  courier.PushCapable,
		Lat:          courier.Lat,
		Lng:          courier.Lng,
	}
}
