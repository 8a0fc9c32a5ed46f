package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"packaging_cell/internal/service"

	"github.com/gin-gonic/gin"
)

type upsertOrderRequest struct {
	BagCount *int `json:"bag_count" binding:"required,min=0" example:"7"`
}

// @Summary      Fetch order
// @Description  Looks up the expected bag count and makes the order current for verification.
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  service.OrderSnapshot
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]interface{}  "error, order"
// @Router       /api/v1/orders/{id}/fetch [post]
// @Security     BearerAuth
func (h *Handler) fetchOrder(c *gin.Context) {
	id := c.Param("id")
	snap, err := h.services.Orders.Fetch(c.Request.Context(), id)
	if errors.Is(err, service.ErrOrderNotFound) {
		// snapshot is still replaced; the verdict turns UNKNOWN
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "order": snap})
		return
	}
	if err != nil {
		h.respondError(c, "order_fetch_failed", err, "order_id", id)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Create or update order
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Order ID"
// @Param        payload  body      upsertOrderRequest  true  "Expected bag count"
// @Success      200      {object}  map[string]interface{}  "order_id, bag_count"
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /api/v1/admin/orders/{id} [put]
// @Security     BearerAuth
func (h *Handler) upsertOrder(c *gin.Context) {
	var req upsertOrderRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	id := c.Param("id")
	if err := h.services.Orders.Upsert(c.Request.Context(), id, *req.BagCount); err != nil {
		h.respondError(c, "order_upsert_failed", err, "order_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "bag_count": *req.BagCount})
}

// @Summary      Seed demo orders
// @Description  Loads the demo orders. Without force the table is only seeded when empty.
// @Tags         admin
// @Produce      json
// @Param        force  query     bool  false  "Overwrite existing rows"
// @Success      200    {object}  map[string]bool  "seeded"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /api/v1/admin/orders/seed [post]
// @Security     BearerAuth
func (h *Handler) seedOrders(c *gin.Context) {
	force := false
	if qs := c.Query("force"); qs != "" {
		v, err := strconv.ParseBool(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'force'; use true or false"})
			return
		}
		force = v
	}
	seeded, err := h.services.Orders.Seed(c.Request.Context(), force)
	if err != nil {
		h.respondError(c, "order_seed_failed", err, "force", force)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seeded": seeded})
}

// @Summary      Reset orders
// @Description  Deletes all orders and clears the current order.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/admin/orders/reset [post]
// @Security     BearerAuth
func (h *Handler) resetOrders(c *gin.Context) {
	if err := h.services.Orders.Reset(c.Request.Context()); err != nil {
		h.respondError(c, "order_reset_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
