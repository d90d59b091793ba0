package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	tenants TenantFacade
	orders  OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(tenants TenantFacade, orders OrderFacade) *OrderHandler {
	return &OrderHandler{tenants: tenants, orders: orders}
}

// CreatePublic handles POST /api/t/:slug/orders, the storefront intake.
// The response carries the delivery code for the customer; the pickup code
// never leaves the store side.
func (h *OrderHandler) CreatePublic(c *gin.Context) {
	tenant, err := h.tenants.ResolveSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req dto.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), tenant.ID, draftFromRequest(req, model.OrderOriginStorefront))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OrderCreatedResponse{
		ID:           order.ID.String(),
		Status:       string(order.Status),
		DeliveryCode: order.DeliveryCode,
	})
}

// Create handles POST /api/staff/orders, manual intake by store staff.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	order, err := h.orders.CreateOrder(c.Request.Context(), tenant.ID, draftFromRequest(req, model.OrderOriginManual))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/staff/orders with an optional status filter.
func (h *OrderHandler) List(c *gin.Context) {
	var statuses []model.OrderStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := model.OrderStatus(strings.TrimSpace(s)).Normalize()
			if !status.Valid() {
				c.Status(http.StatusBadRequest)
				return
			}
			statuses = append(statuses, status)
		}
	}

	tenant := CurrentTenant(c)
	orders, err := h.orders.ListOrders(c.Request.Context(), tenant.ID, statuses)
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
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/staff/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	order, err := h.orders.GetOrder(c.Request.Context(), tenant.ID, orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Transition handles POST /api/staff/orders/:id/transition and its courier
// counterpart POST /api/courier/orders/:id/transition.
func (h *OrderHandler) Transition(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.OrderTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	actor := CurrentActor(c)
	order, err := h.orders.TransitionOrder(
		c.Request.Context(),
		tenant.ID,
		orderID,
		model.OrderStatus(req.Status),
		actor,
		req.Code,
		req.Force,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if actor.Role == model.RoleCourier {
		c.JSON(http.StatusOK, toCourierOrderResponse(*order))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Audit handles GET /api/staff/orders/:id/audit.
func (h *OrderHandler) Audit(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	trail, err := h.orders.OrderAuditTrail(c.Request.Context(), tenant.ID, orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]dto.OrderAuditResponse, 0, len(trail))
	for _, entry := range trail {
		response = append(response, dto.OrderAuditResponse{
			ActorID:    entry.ActorID.String(),
			ActorRole:  string(entry.ActorRole),
			FromStatus: string(entry.FromStatus),
			ToStatus:   string(entry.ToStatus),
			Forced:     entry.Forced,
			At:         entry.At,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Stream handles GET /api/staff/orders/stream, a server-sent event feed of
// order snapshots for the tenant. The subscription lives as long as the
// request does.
func (h *OrderHandler) Stream(c *gin.Context) {
	tenant := CurrentTenant(c)
	sub := h.orders.SubscribeOrders(tenant.ID)
	defer sub.Cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case order, ok := <-sub.Updates():
			if !ok {
				return false
			}
			c.SSEvent("order", toOrderResponse(order))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func draftFromRequest(req dto.OrderCreateRequest, origin model.OrderOrigin) model.OrderDraft {
	return model.OrderDraft{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		Items:         req.Items,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Origin:        origin,
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            order.ID.String(),
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Address:       order.Address,
		Items:         order.Items,
		Amount:        order.Amount,
		PaymentMethod: order.PaymentMethod,
		Status:        string(order.Status),
		PickupCode:    order.PickupCode,
		DeliveryCode:  order.DeliveryCode,
		Origin:        string(order.Origin),
		CreatedAt:     order.CreatedAt,
		AssignedAt:    order.AssignedAt,
		PickedUpAt:    order.PickedUpAt,
		CompletedAt:   order.CompletedAt,
	}
	if order.CourierID != nil {
		resp.CourierID = order.CourierID.String()
	}
	return resp
}

// toCourierOrderResponse is the order view handed to couriers. Handoff
// codes and the customer phone never reach the courier: the customer and
// the store read the codes out to the courier at handoff.
func toCourierOrderResponse(order model.Order) dto.OrderResponse {
	order.PickupCode = ""
	order.DeliveryCode = ""
	order.CustomerPhone = ""
	return toOrderResponse(order)
}
