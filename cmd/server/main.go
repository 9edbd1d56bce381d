package main

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/lgr"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/handlers"
	"github.com/taskdeck/taskdeck/internal/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.Debug {
		lgr.Setup(lgr.Debug, lgr.CallerFile, lgr.Msec)
	} else {
		lgr.Setup(lgr.Msec)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Remote API client
	client := api.New(cfg)

	// Local snapshot cache; the app still works without it
	store, err := cache.Open(cfg)
	if err != nil {
		lgr.Printf("[WARN] cache disabled: %v", err)
		store = nil
	}

	// Initialize Gin router
	r := gin.Default()

	// Cookie-backed session holds the remote bearer token
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(client, store)
	taskHandler := handlers.NewTaskHandler(client, store)
	userHandler := handlers.NewUserHandler(client, store)
	dashboardHandler := handlers.NewDashboardHandler(client, client)

	// Health check endpoint, proxies the remote service's health
	r.GET("/health", authHandler.Health)

	// API routes
	apiGroup := r.Group("/api")
	{
		// Auth routes (public)
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := apiGroup.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/bulk-status", taskHandler.BulkStatus)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
		}

		// User administration routes (protected)
		users := apiGroup.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", userHandler.ListUsers)
			users.PUT("/:id", userHandler.UpdateUser)
			users.POST("/:id/status", userHandler.ToggleStatus)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Dashboard (protected)
		apiGroup.GET("/dashboard/stats", middleware.RequireAuth(), dashboardHandler.Stats)
	}

	// Start server
	lgr.Printf("[INFO] server starting on %s, backend %s", cfg.ListenAddr, cfg.APIBaseURL)
	if err := r.Run(cfg.ListenAddr); err != nil {
		lgr.Fatalf("[ERROR] failed to start server: %v", err)
	}
}
