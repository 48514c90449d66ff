package types

// UserProfile represents the authenticated user's profile as served by the backend
type UserProfile struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	DailyCalorieGoal float64 `json:"daily_calorie_goal"`
	ProteinGoal      float64 `json:"protein_goal"`
	CarbGoal         float64 `json:"carb_goal"`
	FatGoal          float64 `json:"fat_goal"`
}

// LoginRequest represents the request body for logging in.
// The backend accepts either an email address or a username in the first field.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username         string  `json:"username" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	Password         string  `json:"password" binding:"required,min=6"`
	DailyCalorieGoal float64 `json:"daily_calorie_goal,omitempty"`
	ProteinGoal      float64 `json:"protein_goal,omitempty"`
	CarbGoal         float64 `json:"carb_goal,omitempty"`
	FatGoal          float64 `json:"fat_goal,omitempty"`
}

// UpdateProfileRequest represents a partial profile update.
// Pointer fields distinguish "leave unchanged" from explicit zero values.
type UpdateProfileRequest struct {
	Username         string   `json:"username,omitempty"`
	Email            string   `json:"email,omitempty"`
	DailyCalorieGoal *float64 `json:"daily_calorie_goal,omitempty"`
	ProteinGoal      *float64 `json:"protein_goal,omitempty"`
	CarbGoal         *float64 `json:"carb_goal,omitempty"`
	FatGoal          *float64 `json:"fat_goal,omitempty"`
}

// AuthPayload is the data portion of login/register responses
type AuthPayload struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user,omitempty"`
}

// AuthResponse wraps the auth payload in the backend's data envelope
type AuthResponse struct {
	Data AuthPayload `json:"data"`
}

// ProfileResponse wraps a profile in the backend's data envelope
type ProfileResponse struct {
	Data UserProfile `json:"data"`
}
