package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealtrackr/mealtrackr/internal/types"
)

func (s *Server) handleListFoods(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	foods, total := s.store.listFoods(
		c.Query("query"),
		c.Query("category"),
		c.DefaultQuery("sort", "name"),
		c.DefaultQuery("order", "asc"),
		page, limit,
	)

	c.JSON(http.StatusOK, gin.H{"data": types.FoodListData{Foods: foods, TotalCount: total}})
}

func (s *Server) handleCreateFood(c *gin.Context) {
	var req types.CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Calories < 0 || req.Proteins < 0 || req.Carbs < 0 || req.Fats < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nutrient values must be non-negative"})
		return
	}

	food := types.Food{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Category: req.Category,
		Calories: req.Calories,
		Proteins: req.Proteins,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		IsPublic: req.IsPublic,
		LocaleID: req.LocaleID,
	}
	s.store.addFood(food)

	c.JSON(http.StatusCreated, gin.H{"data": food})
}

func (s *Server) handleListLocales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"locales": s.store.listLocales()}})
}
