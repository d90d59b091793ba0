package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/server/http/dto"
)

// DispatchHandler manages the courier-facing offer and claim endpoints.
type DispatchHandler struct {
	facade DispatchFacade
}

// NewDispatchHandler constructs DispatchHandler.
func NewDispatchHandler(facade DispatchFacade) *DispatchHandler {
	return &DispatchHandler{facade: facade}
}

// Offers handles GET /api/courier/offers. Offers past their expiry are
// already filtered out.
func (h *DispatchHandler) Offers(c *gin.Context) {
	tenant := CurrentTenant(c)
	actor := CurrentActor(c)

	offers, err := h.facade.OffersForCourier(c.Request.Context(), tenant.ID, actor.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(offers) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OfferResponse, 0, len(offers))
	for _, offer := range offers {
		response = append(response, dto.OfferResponse{
			ID:        offer.ID.String(),
			OrderID:   offer.OrderID.String(),
			ExpiresAt: offer.ExpiresAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Pool handles GET /api/courier/pool, the open marketplace of ready
// unassigned orders.
func (h *DispatchHandler) Pool(c *gin.Context) {
	tenant := CurrentTenant(c)

	orders, err := h.facade.UnassignedOrders(c.Request.Context(), tenant.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toCourierOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Accept handles POST /api/courier/offers/:id/accept. A losing concurrent
// acceptance surfaces 409 or 410 and must not be retried.
func (h *DispatchHandler) Accept(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	actor := CurrentActor(c)
	order, err := h.facade.AcceptOffer(c.Request.Context(), tenant.ID, offerID, actor.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourierOrderResponse(*order))
}

// Claim handles POST /api/courier/pool/:id/claim, a direct claim from the
// unassigned pool.
func (h *DispatchHandler) Claim(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	actor := CurrentActor(c)
	order, err := h.facade.ClaimUnassigned(c.Request.Context(), tenant.ID, orderID, actor.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourierOrderResponse(*order))
}
