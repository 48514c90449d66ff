package types

// DailySummary is the response of GET /nutrition/daily
type DailySummary struct {
	Calories         float64 `json:"calories"`
	Protein          float64 `json:"protein"`
	Carbs            float64 `json:"carbs"`
	Fat              float64 `json:"fat"`
	DailyCalorieGoal float64 `json:"daily_calorie_goal"`
}

// WeeklyDay is one day of a weekly summary
type WeeklyDay struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories"`
}

// WeeklySummary is the response of GET /nutrition/weekly
type WeeklySummary struct {
	Summary []WeeklyDay `json:"summary"`
}

// MonthlyWeek is one week of a monthly summary
type MonthlyWeek struct {
	WeekNumber    int     `json:"week_number"`
	TotalCalories float64 `json:"total_calories"`
}

// MonthlySummary is the response of GET /nutrition/monthly
type MonthlySummary struct {
	Summary []MonthlyWeek `json:"summary"`
}
