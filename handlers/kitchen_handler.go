package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"khabee/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type kitchenSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Logo          string `json:"logo"`
	Address       string `json:"address"`
	MenuItemCount int64  `json:"menuItemCount"`
	OrderCount    int64  `json:"orderCount"`
}

// GetKitchenListHandler serves the home page: all kitchens with menu and
// order counts, cached in redis for five minutes.
func GetKitchenListHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	var cached []kitchenSummary
	if cacheGet(c, rdb, kitchenListCacheKey, &cached) {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"kitchens": cached,
		})
		return
	}

	var kitchens []models.Kitchen
	if err := db.Order("name ASC").Find(&kitchens).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch kitchens")
		return
	}

	summaries := make([]kitchenSummary, 0, len(kitchens))
	for _, kitchen := range kitchens {
		summary := kitchenSummary{
			ID:          kitchen.ID,
			Name:        kitchen.Name,
			Description: kitchen.Description,
			Logo:        kitchen.Logo,
			Address:     kitchen.Address,
		}
		err := db.Model(&models.MenuItem{}).Where("kitchen_id = ?", kitchen.ID).Count(&summary.MenuItemCount).Error
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to fetch kitchens")
			return
		}
		err = db.Model(&models.Order{}).Where("kitchen_id = ?", kitchen.ID).Count(&summary.OrderCount).Error
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to fetch kitchens")
			return
		}
		summaries = append(summaries, summary)
	}

	cacheSet(c, rdb, kitchenListCacheKey, summaries, kitchenListCacheTTL)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"kitchens": summaries,
	})
}

type kitchenPage struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Logo        string     `json:"logo"`
	Address     string     `json:"address"`
	OrderCount  int64      `json:"orderCount"`
	MenuItems   []menuView `json:"menuItems"`
}

type menuView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// GetKitchenHandler serves one kitchen page with its menu sorted by name,
// cached for three minutes.
func GetKitchenHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	// Canonicalize the id so the read path and invalidation agree on the
	// cache key; "07" and "7" must not cache under different entries.
	kitchenID, err := strconv.ParseUint(c.Param("kitchenID"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid kitchen id")
		return
	}
	cacheKey := fmt.Sprintf(kitchenCacheKeyFmt, kitchenID)

	var cached kitchenPage
	if cacheGet(c, rdb, cacheKey, &cached) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"kitchen": cached,
		})
		return
	}

	var kitchen models.Kitchen
	err = db.
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("menu_items.name ASC")
		}).
		First(&kitchen, "id = ?", kitchenID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "kitchen not found")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to fetch kitchen")
		return
	}

	page := kitchenPage{
		ID:          kitchen.ID,
		Name:        kitchen.Name,
		Description: kitchen.Description,
		Logo:        kitchen.Logo,
		Address:     kitchen.Address,
		MenuItems:   make([]menuView, 0, len(kitchen.MenuItems)),
	}
	err = db.Model(&models.Order{}).Where("kitchen_id = ?", kitchen.ID).Count(&page.OrderCount).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch kitchen")
		return
	}
	for _, item := range kitchen.MenuItems {
		page.MenuItems = append(page.MenuItems, menuView{
			ID:          item.ID,
			Name:        item.Name,
			Price:       item.Price,
			Description: item.Description,
			Image:       item.Image,
		})
	}

	cacheSet(c, rdb, cacheKey, page, kitchenCacheTTL)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"kitchen": page,
	})
}

// loadOwnedKitchen resolves the kitchenID path parameter and checks that the
// session user owns it.
func loadOwnedKitchen(c *gin.Context, db *gorm.DB, userID uint) (*models.Kitchen, error) {
	var kitchen models.Kitchen
	err := db.First(&kitchen, "id = ?", c.Param("kitchenID")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: kitchen not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to load kitchen", ErrPersistence)
	}
	if kitchen.OwnerID != userID {
		return nil, fmt.Errorf("%w: kitchen belongs to another owner", ErrUnauthorized)
	}
	return &kitchen, nil
}

// UpdateKitchenHandler lets the owner edit the kitchen profile.
func UpdateKitchenHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
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

	var kitchenReq struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Logo        *string `json:"logo"`
		Address     *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&kitchenReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid kitchen payload")
		return
	}

	updates := map[string]interface{}{}
	if kitchenReq.Name != nil {
		updates["name"] = *kitchenReq.Name
	}
	if kitchenReq.Description != nil {
		updates["description"] = *kitchenReq.Description
	}
	if kitchenReq.Logo != nil {
		updates["logo"] = *kitchenReq.Logo
	}
	if kitchenReq.Address != nil {
		updates["address"] = *kitchenReq.Address
	}

	if len(updates) > 0 {
		if err := db.Model(kitchen).Updates(updates).Error; err != nil {
			log.Printf("failed to update kitchen: %v\n", err)
			fail(c, http.StatusInternalServerError, "failed to update kitchen")
			return
		}
		invalidateKitchenCaches(c, rdb, kitchen.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"kitchen": gin.H{
			"id":          kitchen.ID,
			"name":        kitchen.Name,
			"description": kitchen.Description,
			"logo":        kitchen.Logo,
			"address":     kitchen.Address,
		},
	})
}
