package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"autoapply/config"
	"autoapply/controllers"
	"autoapply/database"
	"autoapply/middleware"
	"autoapply/models"
	"autoapply/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using process environment")
	}

	cfg := config.GetAppConfig()

	var userModel *models.UserModel
	var applicationModel *models.ApplicationModel
	db, err := database.Connect(
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode,
	)
	if err != nil {
		log.Printf("Warning: database unavailable, running without persistence: %v", err)
	} else {
		if err := database.EnsureSchema(db); err != nil {
			log.Fatalf("Failed to prepare database schema: %v", err)
		}
		userModel = models.NewUserModel(db)
		applicationModel = models.NewApplicationModel(db)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret)

	router := services.NewPlatformRouter(services.RouterConfig{
		Headless:         cfg.Browser.Headless,
		CaptchaAPIKey:    cfg.Captcha.APIKey,
		ScreenshotDir:    cfg.ScreenshotDir,
		MaxFormSteps:     cfg.Browser.MaxFormSteps,
		AttemptTimeout:   cfg.Browser.AttemptTimeout,
		LinkedInEmail:    cfg.LinkedIn.Email,
		LinkedInPassword: cfg.LinkedIn.Password,
	})
	defer router.ReleaseAll()

	autoApply := controllers.NewAutoApplyController(router, applicationModel)

	r := gin.Default()
	r.Use(cors.Default())
	r.Static("/static", "./static")

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	if userModel != nil {
		auth := controllers.NewAuthController(userModel, jwtService)
		authLimiter := middleware.NewRateLimiter(5, 1*time.Minute)
		api.POST("/auth/register", authLimiter.Limit(), auth.Register)
		api.POST("/auth/login", authLimiter.Limit(), auth.Login)
	}

	applyLimiter := middleware.NewRateLimiter(10, 1*time.Minute)
	protected := api.Group("/auto-apply", middleware.AuthRequired(jwtService), applyLimiter.Limit())
	protected.POST("", autoApply.Apply)
	protected.POST("/batch", autoApply.ApplyBatch)
	protected.GET("/history", autoApply.History)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
