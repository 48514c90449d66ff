package types

// Food represents an immutable catalog record. Nutrient values are per 100g.
type Food struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	IsPublic bool    `json:"is_public"`
	LocaleID string  `json:"location_id,omitempty"`
}

// CreateFoodRequest represents the request body for adding a food to the catalog
type CreateFoodRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	IsPublic bool    `json:"is_public"`
	LocaleID string  `json:"location_id,omitempty"`
}

// FoodListData is the data portion of food listing/search responses
type FoodListData struct {
	Foods      []Food `json:"foods"`
	TotalCount int    `json:"totalCount"`
}

// FoodListResponse wraps a food page in the backend's data envelope
type FoodListResponse struct {
	Data FoodListData `json:"data"`
}

// FoodResponse wraps a single food in the backend's data envelope
type FoodResponse struct {
	Data Food `json:"data"`
}

// Locale represents a regional food database
type Locale struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LocaleListResponse wraps the locale list in the backend's data envelope
type LocaleListResponse struct {
	Data struct {
		Locales []Locale `json:"locales"`
	} `json:"data"`
}
