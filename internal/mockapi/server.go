// Package mockapi is an in-memory implementation of the MealTrackr backend
// contract, used by the CLI's dev mode and the test suite.
package mockapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Config holds mock server configuration.
type Config struct {
	JWTSecret string
	// Seed preloads a starter food catalog.
	Seed bool
}

// Server serves the backend REST contract from memory.
type Server struct {
	store *Store
	auth  *AuthService
}

// New creates a mock server.
func New(cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "mock-secret"
	}
	store := NewStore()
	if cfg.Seed {
		store.Seed()
	}
	return &Server{
		store: store,
		auth:  NewAuthService(store, cfg.JWTSecret),
	}
}

// Store exposes the backing store, mainly for tests that need to inspect it.
func (s *Server) Store() *Store {
	return s.store
}

// Router builds the gin engine with all routes registered under /api/v1.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
		auth.POST("/logout", AuthMiddleware(s.auth), s.handleLogout)
		auth.GET("/profile", AuthMiddleware(s.auth), s.handleGetProfile)
		auth.PUT("/profile", AuthMiddleware(s.auth), s.handleUpdateProfile)
	}

	foods := api.Group("/foods")
	{
		foods.GET("", s.handleListFoods)
		foods.GET("/search", s.handleListFoods)
		foods.POST("", AuthMiddleware(s.auth), s.handleCreateFood)
	}

	api.GET("/locales", s.handleListLocales)

	meals := api.Group("/meals", AuthMiddleware(s.auth))
	{
		meals.GET("", s.handleListMeals)
		meals.POST("", s.handleCreateMeal)
		meals.DELETE("/:mealId/foods/:foodId", s.handleDeleteMealFood)
	}

	nutrition := api.Group("/nutrition", AuthMiddleware(s.auth))
	{
		nutrition.GET("/daily", s.handleDailySummary)
		nutrition.GET("/weekly", s.handleWeeklySummary)
		nutrition.GET("/monthly", s.handleMonthlySummary)
	}

	return r
}

// currentUser resolves the authenticated user set by the middleware.
func (s *Server) currentUser(c *gin.Context) (*User, bool) {
	id, exists := c.Get("user_id")
	if !exists {
		return nil, false
	}
	return s.store.userByID(id.(string))
}
