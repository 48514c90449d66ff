package mockapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenClaims is the decoded identity carried by a bearer token.
type TokenClaims struct {
	UserID string
}

// AuthService issues and validates HS256 bearer tokens and checks passwords.
type AuthService struct {
	store     *Store
	jwtSecret string
}

// NewAuthService creates an auth service bound to the store.
func NewAuthService(store *Store, jwtSecret string) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(username, email, password string, calorieGoal, proteinGoal, carbGoal, fatGoal float64) (*User, error) {
	if _, exists := s.store.userByIdentifier(email); exists {
		return nil, errors.New("user already exists")
	}
	if _, exists := s.store.userByIdentifier(username); exists {
		return nil, errors.New("user already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:               uuid.NewString(),
		Username:         username,
		Email:            email,
		PasswordHash:     hashed,
		DailyCalorieGoal: calorieGoal,
		ProteinGoal:      proteinGoal,
		CarbGoal:         carbGoal,
		FatGoal:          fatGoal,
	}
	s.store.createUser(user)
	return user, nil
}

// Login verifies credentials against either email or username.
func (s *AuthService) Login(identifier, password string) (*User, error) {
	user, ok := s.store.userByIdentifier(identifier)
	if !ok {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return user, nil
}

// GenerateToken issues a signed token for the user.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(string)
		if !ok {
			return nil, errors.New("invalid token claims")
		}
		return &TokenClaims{UserID: userID}, nil
	}

	return nil, errors.New("invalid token")
}
