package handlers

import (
	"fmt"
	"log"
	"net/http"

	"khabee/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AddMenuItemHandler creates a menu item in a kitchen the session user owns.
func AddMenuItemHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
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

	var itemReq struct {
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price" binding:"required"`
		Description string  `json:"description"`
		Image       string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&itemReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid menu item payload")
		return
	}

	newItem := models.MenuItem{
		KitchenID:   kitchen.ID,
		Name:        itemReq.Name,
		Price:       itemReq.Price,
		Description: itemReq.Description,
		Image:       itemReq.Image,
	}
	if err := db.Create(&newItem).Error; err != nil {
		log.Printf("failed to create menu item: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to create menu item")
		return
	}

	invalidateKitchenCaches(c, rdb, kitchen.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"menuItem": gin.H{
			"id":          newItem.ID,
			"name":        newItem.Name,
			"price":       newItem.Price,
			"description": newItem.Description,
			"image":       newItem.Image,
		},
	})
}

// loadOwnedMenuItem resolves the menuItemID path parameter and checks that
// the session user owns the kitchen it belongs to.
func loadOwnedMenuItem(c *gin.Context, db *gorm.DB, userID uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := db.Preload("Kitchen").First(&item, "id = ?", c.Param("menuItemID")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: menu item not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to load menu item", ErrPersistence)
	}
	if item.Kitchen.OwnerID != userID {
		return nil, fmt.Errorf("%w: menu item belongs to another owner", ErrUnauthorized)
	}
	return &item, nil
}

func UpdateMenuItemHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	item, err := loadOwnedMenuItem(c, db, userID.(uint))
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	var itemReq struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		Image       *string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&itemReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid menu item payload")
		return
	}

	updates := map[string]interface{}{}
	if itemReq.Name != nil {
		updates["name"] = *itemReq.Name
	}
	if itemReq.Price != nil {
		updates["price"] = *itemReq.Price
	}
	if itemReq.Description != nil {
		updates["description"] = *itemReq.Description
	}
	if itemReq.Image != nil {
		updates["image"] = *itemReq.Image
	}

	if len(updates) > 0 {
		if err := db.Model(item).Updates(updates).Error; err != nil {
			log.Printf("failed to update menu item: %v\n", err)
			fail(c, http.StatusInternalServerError, "failed to update menu item")
			return
		}
		invalidateKitchenCaches(c, rdb, item.KitchenID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"menuItem": gin.H{
			"id":          item.ID,
			"name":        item.Name,
			"price":       item.Price,
			"description": item.Description,
			"image":       item.Image,
		},
	})
}

func DeleteMenuItemHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	item, err := loadOwnedMenuItem(c, db, userID.(uint))
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}

	if err := db.Delete(item).Error; err != nil {
		log.Printf("failed to delete menu item: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to delete menu item")
		return
	}

	invalidateKitchenCaches(c, rdb, item.KitchenID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
