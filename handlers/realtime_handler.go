package handlers

import (
	"io"
	"log"
	"net/http"

	"khabee/models"
	"khabee/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StreamKitchenOrdersHandler pushes order-changed signals for one kitchen
// over SSE. Events carry the order id only; clients re-query the order list
// on every signal, so duplicates and reordering are harmless. The
// subscription lives exactly as long as the request.
func StreamKitchenOrdersHandler(c *gin.Context, db *gorm.DB, notifier *realtime.Notifier) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	kitchen, err := loadOwnedKitchen(c, db, userID.(uint))
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	signals, err := notifier.Subscribe(c.Request.Context(), kitchen.ID)
	if err != nil {
		log.Printf("failed to subscribe to order signals: %v\n", err)
		fail(c, http.StatusInternalServerError, "realtime channel unavailable")
		return
	}

	subscriberID := uuid.NewString()
	log.Printf("subscriber %s streaming kitchen %d\n", subscriberID, kitchen.ID)

	connected := false
	c.Stream(func(w io.Writer) bool {
		if !connected {
			connected = true
			c.SSEvent("connected", gin.H{"subscriber": subscriberID})
			return true
		}
		sig, ok := <-signals
		if !ok {
			return false
		}
		c.SSEvent("changed", gin.H{"orderId": sig.OrderID})
		return true
	})
}

// StreamOrderHandler pushes change signals for a single order, for the
// customer tracking view. Signals for other orders of the same kitchen are
// filtered out.
func StreamOrderHandler(c *gin.Context, db *gorm.DB, notifier *realtime.Notifier) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var order models.Order
	err := db.Preload("Kitchen").First(&order, "id = ?", c.Param("orderID")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "order not found")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to load order")
		return
	}

	if order.UserID != userID.(uint) && order.Kitchen.OwnerID != userID.(uint) {
		fail(c, http.StatusForbidden, "order belongs to another user")
		return
	}

	signals, err := notifier.Subscribe(c.Request.Context(), order.KitchenID)
	if err != nil {
		log.Printf("failed to subscribe to order signals: %v\n", err)
		fail(c, http.StatusInternalServerError, "realtime channel unavailable")
		return
	}

	subscriberID := uuid.NewString()
	log.Printf("subscriber %s streaming order %d\n", subscriberID, order.ID)

	connected := false
	c.Stream(func(w io.Writer) bool {
		if !connected {
			connected = true
			c.SSEvent("connected", gin.H{"subscriber": subscriberID})
			return true
		}
		for {
			sig, ok := <-signals
			if !ok {
				return false
			}
			if sig.OrderID != order.ID {
				continue
			}
			c.SSEvent("changed", gin.H{"orderId": sig.OrderID})
			return true
		}
	})
}
