package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mealtrackr/mealtrackr/config"
	"github.com/mealtrackr/mealtrackr/internal/mockapi"
)

func main() {
	_ = godotenv.Load()

	if config.IsProduction() {
		fmt.Fprintln(os.Stderr, "mockserver: refusing to run in production")
		os.Exit(1)
	}
	gin.SetMode(gin.DebugMode)

	port := os.Getenv("MOCKSERVER_PORT")
	if port == "" {
		port = "8080"
	}

	server := mockapi.New(mockapi.Config{
		JWTSecret: os.Getenv("MOCKSERVER_JWT_SECRET"),
		Seed:      true,
	})

	fmt.Printf("mock MealTrackr API listening on :%s (base path /api/v1)\n", port)
	if err := server.Router().Run(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "mockserver: %v\n", err)
		os.Exit(1)
	}
}
