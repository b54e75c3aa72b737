package routes

import (
	"donlouis-backend/config"
	"donlouis-backend/controllers"
	"donlouis-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(settings *config.Settings) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	adminLimiter := utils.NewKeyedLimiter(settings.AdminLoginRate, settings.AdminLoginBurst)
	loginIPLimiter := utils.NewKeyedLimiter(settings.LoginRate, settings.LoginIPBurst)
	loginLimiter := utils.NewKeyedLimiter(settings.LoginRate, settings.LoginBurst)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login",
			loginIPLimiter.Middleware(),
			loginLimiter.MiddlewareBy(controllers.LoginKey),
			controllers.Login)
		auth.POST("/admin/login", adminLimiter.Middleware(), controllers.AdminLogin)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
		auth.PUT("/profile", controllers.UpdateProfile)
	}

	api := r.Group("/api")
	api.Use(utils.OptionalAuth())
	{
		api.GET("/status", controllers.GetStoreStatus)
		api.GET("/zones", controllers.GetZones)
		api.GET("/categories", controllers.GetCategories)
		api.GET("/menu", controllers.GetMenu)
		api.GET("/promos", controllers.GetActivePromos)
		api.GET("/rewards", controllers.GetRewards)
		api.GET("/settings", controllers.GetSettings)

		orders := api.Group("/orders")
		{
			orders.POST("/quote", controllers.QuoteOrder)
			orders.POST("", controllers.Checkout)
			orders.GET("/:id", controllers.GetOrder)
			orders.GET("/:id/stream", controllers.StreamOrder)
			orders.POST("/:id/rating", controllers.RateOrder)
		}

		me := api.Group("/me", utils.AuthMiddleware(), utils.RequireRole(utils.RoleCustomer))
		{
			me.GET("/loyalty", controllers.GetLoyalty)
			me.GET("/orders", controllers.MyOrders)
			me.GET("/orders/active", controllers.MyActiveOrder)
			me.GET("/addresses", controllers.GetAddresses)
			me.PUT("/addresses", controllers.SaveAddress)
			me.DELETE("/addresses/:label", controllers.DeleteAddress)
			me.POST("/rewards/:id/claim", controllers.ClaimReward)
			me.GET("/spin", controllers.GetSpinStatus)
			me.POST("/spin", controllers.Spin)
		}
	}

	admin := r.Group("/api/admin")
	admin.Use(utils.AuthMiddleware(), utils.RequireRole(utils.RoleAdmin))
	{
		admin.GET("/session", controllers.GetAdminSession)

		// Order routes
		admin.GET("/orders", controllers.AdminListOrders)
		admin.GET("/orders/stream", controllers.StreamAdminOrders)
		admin.GET("/orders/:id/transitions", controllers.GetOrderTransitions)
		admin.GET("/orders/:id/history", controllers.GetOrderHistory)
		admin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)

		reportController := controllers.ReportController{}
		admin.GET("/stats", reportController.GetStats)
		admin.GET("/reports/revenue", reportController.GetRevenueReport)

		// Catalog routes
		admin.GET("/menu", controllers.GetMenu)
		admin.POST("/categories", controllers.CreateCategory)
		admin.PUT("/categories/:id", controllers.UpdateCategory)
		admin.DELETE("/categories/:id", controllers.DeleteCategory)
		admin.POST("/items", controllers.CreateMenuItem)
		admin.PUT("/items/:id", controllers.UpdateMenuItem)
		admin.DELETE("/items/:id", controllers.DeleteMenuItem)
		admin.POST("/items/:id/image", controllers.UploadMenuItemImage)

		admin.GET("/promos", controllers.GetAllPromos)
		admin.POST("/promos", controllers.CreatePromo)
		admin.PUT("/promos/:id", controllers.UpdatePromo)
		admin.DELETE("/promos/:id", controllers.DeletePromo)
		admin.POST("/promos/:id/image", controllers.UploadPromoImage)

		admin.POST("/rewards", controllers.CreateReward)
		admin.PUT("/rewards/:id", controllers.UpdateReward)
		admin.DELETE("/rewards/:id", controllers.DeleteReward)

		admin.GET("/customers", controllers.GetCustomers)
		admin.PUT("/customers/:id/pin", controllers.ResetCustomerPin)

		admin.PUT("/settings/:key", controllers.UpdateSetting)
		admin.POST("/settings/logo", controllers.UploadLogo)

		ai := admin.Group("/ai")
		{
			ai.POST("/edit-image", controllers.EditImage)
			ai.POST("/promo-suggestion", controllers.SuggestPromo)
			ai.POST("/promo-image", controllers.GeneratePromoImage)
		}
	}

	return r
}
