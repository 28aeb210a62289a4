package handlers

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"

	"khabee/models"
	"khabee/realtime"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	deliveryFee = 50.0
	taxRate     = 0.05
)

type OrderItemRequest struct {
	MenuItemID uint    `json:"menuItemId" binding:"required"`
	Quantity   uint    `json:"quantity" binding:"required"`
	Price      float64 `json:"price"`
}

type PlaceOrderRequest struct {
	Items               []OrderItemRequest `json:"items"`
	DeliveryAddress     string             `json:"deliveryAddress"`
	SpecialInstructions string             `json:"specialInstructions"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// orderTotals computes the charge from the prices supplied by the caller.
// Line prices are snapshots and are never re-read from the current menu.
func orderTotals(items []OrderItemRequest) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = round2(subtotal)
	tax = round2(subtotal * taxRate)
	total = round2(subtotal + deliveryFee + tax)
	return subtotal, tax, total
}

// placeOrder validates the submitted cart and persists the order with its
// line items as one transaction. Carts spanning more than one kitchen are
// rejected instead of being silently attributed to the first item's kitchen.
func placeOrder(ctx context.Context, db *gorm.DB, userID uint, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.MenuItemID)
	}

	var menuItems []models.MenuItem
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&menuItems).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to resolve menu items", ErrPersistence)
	}

	kitchenByItem := make(map[uint]uint, len(menuItems))
	for _, item := range menuItems {
		kitchenByItem[item.ID] = item.KitchenID
	}

	kitchenID, ok := kitchenByItem[req.Items[0].MenuItemID]
	if !ok {
		return nil, fmt.Errorf("%w: invalid menu item", ErrNotFound)
	}
	for _, item := range req.Items {
		itemKitchen, ok := kitchenByItem[item.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: invalid menu item", ErrNotFound)
		}
		if itemKitchen != kitchenID {
			return nil, fmt.Errorf("%w: all items must belong to one kitchen", ErrValidation)
		}
	}

	_, _, total := orderTotals(req.Items)

	newOrder := models.Order{
		UserID:              userID,
		KitchenID:           kitchenID,
		TotalPrice:          total,
		Status:              models.StatusPending,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
	}
	for _, item := range req.Items {
		newOrder.Items = append(newOrder.Items, models.OrderItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%w: failed to open transaction", ErrPersistence)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&newOrder).Error; err != nil {
		tx.Rollback()
		log.Printf("failed to place order: %v\n", err)
		return nil, fmt.Errorf("%w: failed to place order", ErrPersistence)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: failed to commit order", ErrPersistence)
	}

	var created models.Order
	err := db.WithContext(ctx).
		Preload("Items.MenuItem").
		Preload("Kitchen").
		Preload("User").
		First(&created, newOrder.ID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load created order", ErrPersistence)
	}

	return &created, nil
}

func PlaceOrderHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client, notifier *realtime.Notifier) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var orderReq PlaceOrderRequest
	if err := c.ShouldBindJSON(&orderReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid order payload")
		return
	}

	order, err := placeOrder(c, db, userID.(uint), orderReq)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	invalidateKitchenCaches(c, rdb, order.KitchenID)

	if err := notifier.Publish(c, order.ID, order.KitchenID); err != nil {
		// Clients catch up on their next query; the order itself is placed.
		log.Printf("failed to publish order signal: %v\n", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"orderId": order.ID,
		"order":   orderView(order, true, true),
	})
}

// orderView shapes one order with its nested detail. The kitchen and user
// summaries are included per caller: customers see the kitchen, owners see
// the customer.
func orderView(order *models.Order, withKitchen, withUser bool) gin.H {
	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, gin.H{
			"menuItemId": item.MenuItemID,
			"name":       item.MenuItem.Name,
			"image":      item.MenuItem.Image,
			"quantity":   item.Quantity,
			"price":      item.Price,
		})
	}

	view := gin.H{
		"id":                  order.ID,
		"status":              order.Status,
		"totalPrice":          order.TotalPrice,
		"deliveryAddress":     order.DeliveryAddress,
		"specialInstructions": order.SpecialInstructions,
		"createdAt":           order.CreatedAt,
		"items":               items,
	}
	if withKitchen {
		view["kitchen"] = gin.H{
			"id":   order.Kitchen.ID,
			"name": order.Kitchen.Name,
			"logo": order.Kitchen.Logo,
		}
	}
	if withUser {
		view["user"] = gin.H{
			"id":    order.User.ID,
			"name":  order.User.Name,
			"phone": order.User.Phone,
		}
	}
	return view
}

// GetUserOrdersHandler lists the session user's orders, newest first. Fails
// soft: retrieval errors return an empty list with success=false so callers
// can tell "unable to determine" from "no orders".
func GetUserOrdersHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var orders []models.Order
	err := db.
		Where("user_id = ?", userID).
		Preload("Items.MenuItem").
		Preload("Kitchen").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		log.Printf("failed to fetch user orders: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to fetch orders",
			"orders":  []gin.H{},
		})
		return
	}

	orderList := make([]gin.H, 0, len(orders))
	for i := range orders {
		orderList = append(orderList, orderView(&orders[i], true, false))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orderList,
	})
}

// GetKitchenOrdersHandler lists a kitchen's orders for its owner, newest
// first, with customer summaries instead of kitchen summaries.
func GetKitchenOrdersHandler(c *gin.Context, db *gorm.DB) {
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

	var orders []models.Order
	err = db.
		Where("kitchen_id = ?", kitchen.ID).
		Preload("Items.MenuItem").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		log.Printf("failed to fetch kitchen orders: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to fetch orders",
			"orders":  []gin.H{},
		})
		return
	}

	orderList := make([]gin.H, 0, len(orders))
	for i := range orders {
		orderList = append(orderList, orderView(&orders[i], false, true))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orderList,
	})
}

// updateOrderStatus overwrites the status unconditionally. There is no
// transition table: the endpoint is owner-gated and any status may follow any
// other, including values this build does not know.
func updateOrderStatus(ctx context.Context, db *gorm.DB, userID uint, orderID string, status string) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).Preload("Kitchen").First(&order, "id = ?", orderID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to load order", ErrPersistence)
	}

	if order.Kitchen.OwnerID != userID {
		return nil, fmt.Errorf("%w: order belongs to another kitchen", ErrUnauthorized)
	}

	if err := db.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		log.Printf("failed to update order status: %v\n", err)
		return nil, fmt.Errorf("%w: failed to update order status", ErrPersistence)
	}

	var updated models.Order
	err = db.WithContext(ctx).
		Preload("Items.MenuItem").
		Preload("Kitchen").
		Preload("User").
		First(&updated, order.ID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load updated order", ErrPersistence)
	}

	return &updated, nil
}

func UpdateOrderStatusHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client, notifier *realtime.Notifier) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var statusReq struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&statusReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid status payload")
		return
	}

	order, err := updateOrderStatus(c, db, userID.(uint), c.Param("orderID"), statusReq.Status)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	invalidateKitchenCaches(c, rdb, order.KitchenID)

	if err := notifier.Publish(c, order.ID, order.KitchenID); err != nil {
		log.Printf("failed to publish order signal: %v\n", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   orderView(order, true, true),
	})
}
