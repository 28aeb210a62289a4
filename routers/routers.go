package routers

import (
	"net/http"

	"khabee/cart"
	"khabee/handlers"
	"khabee/middleware"
	"khabee/realtime"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRouters(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		c.Next()
	})
	err := router.SetTrustedProxies(nil)
	if err != nil {
		return nil
	}

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	notifier := realtime.NewNotifier(rdb)
	cartStorage := cart.NewRedisStorage(rdb)

	// Soft auth on every request; handlers and the login gate decide what
	// actually requires a session.
	router.Use(middleware.AuthMiddleware(db))
	{
		// Browse kitchens and menus
		router.GET("/api/v1/kitchens", func(context *gin.Context) {
			handlers.GetKitchenListHandler(context, db, rdb)
		})
		router.GET("/api/v1/kitchens/:kitchenID", func(context *gin.Context) {
			handlers.GetKitchenHandler(context, db, rdb)
		})

		// Phone/OTP login
		router.POST("/api/v1/auth/otp", func(context *gin.Context) {
			handlers.RequestOTPHandler(context, rdb)
		})
		router.POST("/api/v1/auth/verify", func(context *gin.Context) {
			handlers.VerifyOTPHandler(context, db, rdb)
		})

		//// Cart and orders require a session
		loginRequired := router.Group("/api/v1")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			loginRequired.GET("/cart", func(context *gin.Context) {
				handlers.GetCartHandler(context, cartStorage)
			})
			loginRequired.POST("/cart", func(context *gin.Context) {
				handlers.AddToCartHandler(context, cartStorage)
			})
			loginRequired.PATCH("/cart", func(context *gin.Context) {
				handlers.UpdateCartItemHandler(context, cartStorage)
			})
			loginRequired.DELETE("/cart/:itemID", func(context *gin.Context) {
				handlers.RemoveCartItemHandler(context, cartStorage)
			})
			loginRequired.DELETE("/cart", func(context *gin.Context) {
				handlers.ClearCartHandler(context, cartStorage)
			})

			loginRequired.POST("/orders", func(context *gin.Context) {
				handlers.PlaceOrderHandler(context, db, rdb, notifier)
			})
			loginRequired.GET("/user/orders", func(context *gin.Context) {
				handlers.GetUserOrdersHandler(context, db)
			})
			loginRequired.GET("/orders/:orderID/qrcode", func(context *gin.Context) {
				handlers.GetOrderQRCodeHandler(context, db)
			})
			loginRequired.GET("/orders/:orderID/stream", func(context *gin.Context) {
				handlers.StreamOrderHandler(context, db, notifier)
			})

			loginRequired.GET("/user/profile", func(context *gin.Context) {
				handlers.GetUserProfileHandler(context, db)
			})
			loginRequired.PATCH("/user/profile", func(context *gin.Context) {
				handlers.UpdateUserProfileHandler(context, db)
			})
			loginRequired.POST("/user/logout", func(context *gin.Context) {
				handlers.LogOutHandler(context, db)
			})
		}

		//// Kitchen management requires the owner role; per-kitchen ownership
		//// is checked in the handlers
		ownerRequired := router.Group("/api/v1")
		ownerRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckKitchenOwnerMiddleware())
		{
			ownerRequired.GET("/kitchens/:kitchenID/orders", func(context *gin.Context) {
				handlers.GetKitchenOrdersHandler(context, db)
			})
			ownerRequired.GET("/kitchens/:kitchenID/orders/stream", func(context *gin.Context) {
				handlers.StreamKitchenOrdersHandler(context, db, notifier)
			})
			ownerRequired.PATCH("/orders/:orderID/status", func(context *gin.Context) {
				handlers.UpdateOrderStatusHandler(context, db, rdb, notifier)
			})
			ownerRequired.PATCH("/kitchens/:kitchenID", func(context *gin.Context) {
				handlers.UpdateKitchenHandler(context, db, rdb)
			})
			ownerRequired.POST("/kitchens/:kitchenID/menu", func(context *gin.Context) {
				handlers.AddMenuItemHandler(context, db, rdb)
			})
			ownerRequired.PATCH("/menu/:menuItemID", func(context *gin.Context) {
				handlers.UpdateMenuItemHandler(context, db, rdb)
			})
			ownerRequired.DELETE("/menu/:menuItemID", func(context *gin.Context) {
				handlers.DeleteMenuItemHandler(context, db, rdb)
			})
		}
	}

	return router
}
