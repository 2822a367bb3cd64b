package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/controllers"
	"github.com/dragonpos/restaurant-pos/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	dishCtrl := controllers.NewDishController(db)
	taxCtrl := controllers.NewTaxController(db)
	tableCtrl := controllers.NewTableController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)
	api.GET("/users", middlewares.RequireRole("admin"), userCtrl.GetAllUsers)

	// CATEGORIES
	api.GET("/categories", categoryCtrl.GetAllCategories)
	api.POST("/categories", categoryCtrl.CreateCategory)
	api.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
	api.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	api.DELETE("/categories/:cat_id", middlewares.RequireRole("admin"), categoryCtrl.DeleteCategory)

	// DISHES
	api.GET("/dishes", dishCtrl.GetAllDishes)
	api.POST("/dishes", dishCtrl.CreateDish)
	api.GET("/dishes/:dish_id", dishCtrl.GetDishByID)
	api.PATCH("/dishes/:dish_id", dishCtrl.UpdateDish)
	api.PATCH("/dishes/:dish_id/availability", dishCtrl.ToggleAvailability)
	api.DELETE("/dishes/:dish_id", middlewares.RequireRole("admin"), dishCtrl.DeleteDish)

	// TAXES
	api.GET("/taxes", taxCtrl.GetAllTaxes)
	api.POST("/taxes", middlewares.RequireRole("admin"), taxCtrl.CreateTax)
	api.PATCH("/taxes/:tax_id", middlewares.RequireRole("admin"), taxCtrl.UpdateTax)
	api.DELETE("/taxes/:tax_id", middlewares.RequireRole("admin"), taxCtrl.DeleteTax)

	// TABLES
	api.GET("/tables", tableCtrl.GetAllTables)
	api.GET("/tables/by-status", tableCtrl.FindTablesByStatus)
	api.POST("/tables", middlewares.RequireRole("admin"), tableCtrl.CreateTable)
	api.GET("/tables/:table_id", tableCtrl.GetTableByID)
	api.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	api.DELETE("/tables/:table_id", middlewares.RequireRole("admin"), tableCtrl.DeleteTable)
	api.POST("/tables/reset", middlewares.RequireRole("admin"), tableCtrl.ResetTables)

	// ORDERS
	api.GET("/orders", orderCtrl.GetAllOrders)
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	api.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	api.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	api.GET("/orders/:order_id/bill", orderCtrl.GetOrderBill)
	api.GET("/orders/table/:table_id", orderCtrl.GetOrdersByTable)

	// PAYMENTS
	api.POST("/payments", paymentCtrl.RecordPayment)
	api.GET("/payments/:order_id", paymentCtrl.GetPaymentStatus)
	api.POST("/payments/upi-link", paymentCtrl.GenerateUPILink)

	return r
}
