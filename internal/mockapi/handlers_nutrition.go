package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealtrackr/mealtrackr/internal/types"
)

const dateLayout = "2006-01-02"

// dailyTotals sums one day's consumption. Calories come from the logged
// line (per 100g, scaled by quantity); macros come from the catalog record
// when it still exists.
func (s *Server) dailyTotals(userID, date string) (calories, protein, carbs, fat float64) {
	for _, meal := range s.store.mealsInRange(userID, date, date) {
		for _, f := range meal.Foods {
			scale := f.ServingQty / 100
			calories += f.Calories * scale
			if food, ok := s.store.foodByID(f.FoodID); ok {
				protein += food.Proteins * scale
				carbs += food.Carbs * scale
				fat += food.Fats * scale
			}
		}
	}
	return calories, protein, carbs, fat
}

func (s *Server) handleDailySummary(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	date := c.DefaultQuery("date", time.Now().Format(dateLayout))
	if _, err := time.Parse(dateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	calories, protein, carbs, fat := s.dailyTotals(user.ID, date)
	c.JSON(http.StatusOK, types.DailySummary{
		Calories:         calories,
		Protein:          protein,
		Carbs:            carbs,
		Fat:              fat,
		DailyCalorieGoal: user.DailyCalorieGoal,
	})
}

func (s *Server) handleWeeklySummary(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	start, err := time.Parse(dateLayout, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	end, err := time.Parse(dateLayout, c.Query("endDate"))
	if err != nil || end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	var days []types.WeeklyDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		calories, _, _, _ := s.dailyTotals(user.ID, date)
		days = append(days, types.WeeklyDay{Date: date, TotalCalories: calories})
	}

	c.JSON(http.StatusOK, types.WeeklySummary{Summary: days})
}

func (s *Server) handleMonthlySummary(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	weekCount := (daysInMonth + 6) / 7

	weeks := make([]types.MonthlyWeek, weekCount)
	for i := range weeks {
		weeks[i].WeekNumber = i + 1
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		calories, _, _, _ := s.dailyTotals(user.ID, date)
		weeks[(day-1)/7].TotalCalories += calories
	}

	c.JSON(http.StatusOK, types.MonthlySummary{Summary: weeks})
}
