package handlers

import (
	"fmt"
	"net/http"

	"khabee/models"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// GetOrderQRCodeHandler renders a pickup code for an order as a PNG.
// Available to the customer who placed it and to the kitchen owner.
func GetOrderQRCodeHandler(c *gin.Context, db *gorm.DB) {
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

	png, err := qrcode.Encode(fmt.Sprintf("khabee:order:%d", order.ID), qrcode.Medium, 256)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to generate pickup code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
