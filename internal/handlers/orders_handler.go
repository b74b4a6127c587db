package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/order-fulfillment-pipeline/internal/intake"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/orders"
	"github.com/imrishuroy/order-fulfillment-pipeline/internal/validation"
)

// HandlerConfig groups dependencies for the orders API.
type HandlerConfig struct {
	Orchestrator *intake.Orchestrator
	Orders       *orders.Store
}

// RegisterOrdersRoutes registers the intake front door and the read-only
// order lookup.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
			return
		}

		// shape check at the edge; intake re-validates structurally after
		// attaching the order id
		var req validation.CreateOrderRequest
		if err := validation.UnmarshalAndValidate(body, &req, v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		receipt, err := cfg.Orchestrator.Submit(ctx, body)
		if err != nil {
			var ie *intake.Error
			if errors.As(err, &ie) && ie.Kind == intake.ErrorValidation {
				c.JSON(http.StatusBadRequest, gin.H{"error": ie.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order not accepted: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":            "Order received",
			"order_id":           receipt.OrderID,
			"tracking_reference": receipt.TrackingReference,
		})
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		order, err := cfg.Orders.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})
}
