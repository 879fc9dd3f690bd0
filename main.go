package main

import (
	"log"
	"net/http"
	"os"

	"asso-cms/config"
	"asso-cms/handlers"
	"asso-cms/middleware"
	"asso-cms/models"
	"asso-cms/repositories"
	"asso-cms/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.LoadJWT()
	if err := config.CheckJWTSecret(); err != nil {
		log.Printf("WARNING: JWT_SECRET missing or shorter than %d bytes, logins will fail", config.MinJWTSecretLen)
	}

	// Initialize database and mail transport
	db := config.InitDB()
	mailer := config.InitMailer()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	resetTokenRepo := repositories.NewResetTokenRepository(db)
	contactRepo := repositories.NewContactRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	resetService := services.NewPasswordResetService(userRepo, resetTokenRepo, mailer, config.WebBaseURL())
	articleService := services.NewArticleService(articleRepo, tagRepo)
	userService := services.NewUserService(userRepo, resetTokenRepo)
	contactService := services.NewContactService(contactRepo, mailer, config.ContactInbox())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, resetService)
	articleHandler := handlers.NewArticleHandler(articleService)
	userHandler := handlers.NewUserHandler(userService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/verify-reset-token", authHandler.VerifyResetToken)

			auth.GET("/profile", middleware.RequireAuth(), authHandler.GetProfile)
			auth.PUT("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)
		}

		// Actualités: reads are public, writes need an authenticated
		// administrator or editor. Editors may only touch their own
		// articles, enforced in the service.
		actualites := api.Group("/actualites")
		{
			actualites.GET("", middleware.OptionalAuth(), articleHandler.GetArticles)
			actualites.GET("/:id", middleware.OptionalAuth(), articleHandler.GetArticle)

			protected := actualites.Group("")
			protected.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin, models.RoleEditor))
			{
				protected.POST("", articleHandler.CreateArticle)
				protected.PUT("/:id", articleHandler.UpdateArticle)
				protected.DELETE("/:id", articleHandler.DeleteArticle)
			}
		}

		// User management is administrator-only.
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Contact form
		api.POST("/contact", contactHandler.SubmitMessage)
		api.GET("/contact", middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin), contactHandler.GetMessages)

		// Tags in use across articles
		api.GET("/tags", articleHandler.GetTags)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
