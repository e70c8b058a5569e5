package router

import (
	"net/http"

	"spendtrack/api"
	"spendtrack/config"
	_ "spendtrack/docs"
	"spendtrack/middleware"
	"spendtrack/repository"
	"spendtrack/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter wires middleware, handlers and route groups
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware(cfg.Server.CORSOrigins))

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	expenseService := service.NewExpenseService(db, expenseRepo)

	authHandler := api.NewAuthHandler(cfg, authService)
	userHandler := api.NewUserHandler(userService, expenseService)
	categoryHandler := api.NewCategoryHandler(categoryService)
	expenseHandler := api.NewExpenseHandler(expenseService)
	exportHandler := api.NewExportHandler(expenseService)

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIRateLimit())
	{
		// no login required; stricter limiter against credential guessing
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", middleware.Validate(api.RegisterRules), authHandler.Register)
			auth.POST("/login", middleware.Validate(api.LoginRules), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		// account creation is open, same as registration
		v1.POST("/users", middleware.Validate(api.UserCreateRules), userHandler.Create)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			users := authorized.Group("/users")
			{
				users.GET("", middleware.AdminOnly(), userHandler.List)
				users.GET("/:id", middleware.OwnerOrAdmin(), userHandler.Get)
				users.PUT("/:id", middleware.OwnerOrAdmin(), middleware.Validate(api.UserUpdateRules), userHandler.Update)
				users.DELETE("/:id", middleware.AdminOnly(), userHandler.Delete)
				users.GET("/:id/expenses", middleware.OwnerOrAdmin(), userHandler.GetExpenses)
			}

			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.GET("/:id", categoryHandler.Get)
				categories.POST("", middleware.Validate(api.CategoryWriteRules), categoryHandler.Create)
				categories.PUT("/:id", middleware.Validate(api.CategoryWriteRules), categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			expenses := authorized.Group("/expenses")
			{
				expenses.GET("", middleware.AdminOnly(), expenseHandler.List)
				expenses.GET("/:id", expenseHandler.Get)
				expenses.POST("", middleware.Validate(api.ExpenseWriteRules), expenseHandler.Create)
				expenses.PUT("/:id", middleware.Validate(api.ExpenseWriteRules), expenseHandler.Update)
				expenses.DELETE("/:id", expenseHandler.Delete)
				expenses.POST("/:id/categories/:categoryId", expenseHandler.AddCategory)
				expenses.DELETE("/:id/categories/:categoryId", expenseHandler.RemoveCategory)
			}

			export := authorized.Group("/export")
			export.Use(middleware.AdminOnly())
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware allows the configured origins with credentials
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
