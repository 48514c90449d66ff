package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealtrackr/mealtrackr/internal/types"
)

// mealView is the canonical GET /meals shape. Older deployments emitted
// "type" and "food_items" instead; the client normalizes both.
type mealView struct {
	ID       string               `json:"id"`
	MealType string               `json:"meal_type"`
	LogDate  string               `json:"log_date"`
	Foods    []types.RawMealFood  `json:"foods"`
}

func (s *Server) handleListMeals(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	meals := s.store.mealsInRange(user.ID, c.Query("startDate"), c.Query("endDate"))
	views := make([]mealView, 0, len(meals))
	for _, m := range meals {
		views = append(views, mealView{
			ID:       m.ID,
			MealType: m.Type,
			LogDate:  m.LogDate,
			Foods:    m.Foods,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"meals": views}})
}

func (s *Server) handleCreateMeal(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req types.CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Foods) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a meal needs at least one food"})
		return
	}

	meal := &Meal{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Type:    req.Type,
		LogDate: req.LogDate,
	}
	for _, f := range req.Foods {
		meal.Foods = append(meal.Foods, types.RawMealFood{
			FoodID:      f.FoodID,
			Name:        f.Name,
			ServingQty:  f.ServingQty,
			ServingUnit: f.ServingUnit,
			Calories:    f.Calories,
		})
	}
	s.store.addMeal(meal)

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"meal_id": meal.ID}})
}

func (s *Server) handleDeleteMealFood(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	if !s.store.removeMealFood(user.ID, c.Param("mealId"), c.Param("foodId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal food not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "deleted"}})
}
