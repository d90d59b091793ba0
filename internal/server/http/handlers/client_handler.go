package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/server/http/dto"
)

// ClientHandler exposes the loyalty view over customer records.
type ClientHandler struct {
	facade ClientFacade
}

// NewClientHandler constructs ClientHandler.
func NewClientHandler(facade ClientFacade) *ClientHandler {
	return &ClientHandler{facade: facade}
}

// Lookup handles GET /api/staff/clients/lookup?phone=...
func (h *ClientHandler) Lookup(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	tenant := CurrentTenant(c)
	client, err := h.facade.LookupClient(c.Request.Context(), tenant.ID, phone)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(*client))
}

// Top handles GET /api/staff/clients/top?limit=N.
func (h *ClientHandler) Top(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	tenant := CurrentTenant(c)
	clients, err := h.facade.TopClients(c.Request.Context(), tenant.ID, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(clients) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.ClientResponse, 0, len(clients))
	for _, client := range clients {
		response = append(response, toClientResponse(client))
	}
	c.JSON(http.StatusOK, response)
}

func toClientResponse(client model.Client) dto.ClientResponse {
	return dto.ClientResponse{
		Name:        client.Name,
		Phone:       client.Phone,
		Address:     client.Address,
		OrderCount:  client.OrderCount,
		LastOrderAt: client.LastOrderAt,
	}
}
