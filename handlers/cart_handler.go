package handlers

import (
	"fmt"
	"log"
	"net/http"

	"khabee/cart"

	"github.com/gin-gonic/gin"
)

// cartOwner keys the storage entry by the session user. The cart endpoints
// sit behind the login gate, so the id is always present.
func cartOwner(c *gin.Context) (string, bool) {
	userID, ok := c.Get("UserID")
	if !ok {
		return "", false
	}
	return fmt.Sprint(userID), true
}

func GetCartHandler(c *gin.Context, storage cart.Storage) {
	owner, ok := cartOwner(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	userCart, err := storage.Load(c, owner)
	if err != nil {
		log.Printf("failed to load cart: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to load cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"items":     userCart.Items,
		"total":     userCart.Total(),
		"itemCount": userCart.ItemCount(),
	})
}

// AddToCartHandler adds one unit of a menu item. The submitted price and
// name are stored as-is; they are the client's snapshot, not re-priced here.
func AddToCartHandler(c *gin.Context, storage cart.Storage) {
	owner, ok := cartOwner(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var itemReq struct {
		ID    uint    `json:"id" binding:"required"`
		Name  string  `json:"name" binding:"required"`
		Price float64 `json:"price"`
		Image string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&itemReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid cart item payload")
		return
	}

	userCart, err := storage.Load(c, owner)
	if err != nil {
		log.Printf("failed to load cart: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to load cart")
		return
	}

	userCart.AddItem(cart.Item{
		ID:    itemReq.ID,
		Name:  itemReq.Name,
		Price: itemReq.Price,
		Image: itemReq.Image,
	})

	if err := storage.Save(c, owner, userCart); err != nil {
		log.Printf("failed to save cart: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to save cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"items":     userCart.Items,
		"itemCount": userCart.ItemCount(),
	})
}

func UpdateCartItemHandler(c *gin.Context, storage cart.Storage) {
	owner, ok := cartOwner(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var updateReq struct {
		ID       uint `json:"id" binding:"required"`
		Quantity int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid cart update payload")
		return
	}

	userCart, err := storage.Load(c, owner)
	if err != nil {
		log.Printf("failed to load cart: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to load cart")
		return
	}

	userCart.UpdateQuantity(updateReq.ID, updateReq.Quantity)

	if err := storage.Save(c, owner, userCart); err != nil {
		log.Printf("failed to save cart: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to save cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"items":     userCart.Items,
		"itemCount": userCart.ItemCount(),
	})
}

func RemoveCartItemHandler(c *gin.Context, storage cart.Storage) {
	owner, ok := cartOwner(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var itemID uint
	if _, err := fmt.Sscanf(c.Param("itemID"), "%d", &itemID); err != nil {
		fail(c, http.StatusBadRequest, "invalid item id")
		return
	}

	userCart, err := storage.Load(c, owner)
	if err != nil {
		log.Printf("failed to load cart: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to load cart")
		return
	}

	userCart.RemoveItem(itemID)

	if err := storage.Save(c, owner, userCart); err != nil {
		log.Printf("failed to save cart: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to save cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"items":     userCart.Items,
		"itemCount": userCart.ItemCount(),
	})
}

func ClearCartHandler(c *gin.Context, storage cart.Storage) {
	owner, ok := cartOwner(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	if err := storage.Clear(c, owner); err != nil {
		log.Printf("failed to clear cart: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"items":     []cart.Item{},
		"itemCount": 0,
	})
}
