package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealtrackr/mealtrackr/internal/types"
)

func profileOf(u *User) types.UserProfile {
	return types.UserProfile{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		DailyCalorieGoal: u.DailyCalorieGoal,
		ProteinGoal:      u.ProteinGoal,
		CarbGoal:         u.CarbGoal,
		FatGoal:          u.FatGoal,
	}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.auth.Register(req.Username, req.Email, req.Password,
		req.DailyCalorieGoal, req.ProteinGoal, req.CarbGoal, req.FatGoal)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile := profileOf(user)
	c.JSON(http.StatusCreated, gin.H{"data": types.AuthPayload{Token: token, User: &profile}})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.auth.Login(req.EmailOrUsername, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile := profileOf(user)
	c.JSON(http.StatusOK, gin.H{"data": types.AuthPayload{Token: token, User: &profile}})
}

func (s *Server) handleLogout(c *gin.Context) {
	// Tokens are stateless; the client discards its copy.
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "logged out"}})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profileOf(user)})
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.mu.Lock()
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.DailyCalorieGoal != nil {
		user.DailyCalorieGoal = *req.DailyCalorieGoal
	}
	if req.ProteinGoal != nil {
		user.ProteinGoal = *req.ProteinGoal
	}
	if req.CarbGoal != nil {
		user.CarbGoal = *req.CarbGoal
	}
	if req.FatGoal != nil {
		user.FatGoal = *req.FatGoal
	}
	s.store.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"data": profileOf(user)})
}
