package types

// MealFood is a food line inside a meal creation request
type MealFood struct {
	FoodID      string  `json:"food_id"`
	Name        string  `json:"name"`
	ServingQty  float64 `json:"serving_qty"`
	ServingUnit string  `json:"serving_unit"`
	Calories    float64 `json:"calories"`
}

// CreateMealRequest represents the request body for logging a meal
type CreateMealRequest struct {
	Type     string            `json:"type" binding:"required"`
	LogDate  string            `json:"log_date" binding:"required"`
	Foods    []MealFood        `json:"foods" binding:"required"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreateMealResponse wraps the assigned meal id in the backend's data envelope
type CreateMealResponse struct {
	Data struct {
		MealID string `json:"meal_id"`
	} `json:"data"`
}

// RawMeal is a meal as returned by GET /meals. Older backend versions disagree
// on field names, so both spellings of the type and the food list are decoded
// and reconciled by the caller.
type RawMeal struct {
	ID        string       `json:"id"`
	MealType  string       `json:"meal_type"`
	AltType   string       `json:"type"`
	LogDate   string       `json:"log_date"`
	Foods     []RawMealFood `json:"foods"`
	FoodItems []RawMealFood `json:"food_items"`
}

// RawMealFood is a logged food line inside a RawMeal
type RawMealFood struct {
	FoodID      string  `json:"food_id"`
	Name        string  `json:"name"`
	ServingQty  float64 `json:"serving_qty"`
	ServingUnit string  `json:"serving_unit"`
	Calories    float64 `json:"calories"`
}
