package mockapi

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mealtrackr/mealtrackr/internal/types"
)

// User is a registered account with its hashed password and goals.
type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     []byte
	DailyCalorieGoal float64
	ProteinGoal      float64
	CarbGoal         float64
	FatGoal          float64
}

// Meal is one logged meal with its food lines.
type Meal struct {
	ID      string
	UserID  string
	Type    string
	LogDate string
	Foods   []types.RawMealFood
}

// Store is the mock backend's in-memory database.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*User // by id
	foods   []types.Food
	meals   map[string]*Meal // by id
	locales []types.Locale
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]*User),
		meals: make(map[string]*Meal),
	}
}

// Seed loads a starter food catalog and locale list.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locales = []types.Locale{
		{ID: "us", Name: "United States"},
		{ID: "uk", Name: "United Kingdom"},
	}
	seed := []struct {
		name, category          string
		cal, protein, carbs, fat float64
	}{
		{"Apple", "Fruits", 52, 0.3, 13.8, 0.2},
		{"Banana", "Fruits", 89, 1.1, 22.8, 0.3},
		{"Chicken Breast", "Meat", 165, 31.0, 0, 3.6},
		{"White Rice", "Grains", 130, 2.7, 28.2, 0.3},
		{"Broccoli", "Vegetables", 34, 2.8, 6.6, 0.4},
		{"Whole Egg", "Eggs", 155, 13.0, 1.1, 11.0},
		{"Greek Yogurt", "Dairy", 59, 10.0, 3.6, 0.4},
		{"Oats", "Grains", 389, 16.9, 66.3, 6.9},
	}
	for _, f := range seed {
		s.foods = append(s.foods, types.Food{
			ID:       uuid.NewString(),
			Name:     f.name,
			Category: f.category,
			Calories: f.cal,
			Proteins: f.protein,
			Carbs:    f.carbs,
			Fats:     f.fat,
			IsPublic: true,
			LocaleID: "us",
		})
	}
}

func (s *Store) createUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) userByID(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// userByIdentifier matches either email or username, case-insensitively.
func (s *Store) userByIdentifier(identifier string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(identifier)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == needle || strings.ToLower(u.Username) == needle {
			return u, true
		}
	}
	return nil, false
}

func (s *Store) addFood(f types.Food) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods = append(s.foods, f)
}

func (s *Store) foodByID(id string) (types.Food, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.foods {
		if f.ID == id {
			return f, true
		}
	}
	return types.Food{}, false
}

// listFoods filters, sorts and paginates the catalog.
func (s *Store) listFoods(query, category, sortField, order string, page, limit int) ([]types.Food, int) {
	s.mu.RLock()
	matched := make([]types.Food, 0, len(s.foods))
	q := strings.ToLower(query)
	for _, f := range s.foods {
		if q != "" && !strings.Contains(strings.ToLower(f.Name), q) {
			continue
		}
		if category != "" && !strings.EqualFold(f.Category, category) {
			continue
		}
		matched = append(matched, f)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch sortField {
		case "calories":
			less = matched[i].Calories < matched[j].Calories
		default:
			less = strings.ToLower(matched[i].Name) < strings.ToLower(matched[j].Name)
		}
		if order == "desc" {
			return !less
		}
		return less
	})

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []types.Food{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func (s *Store) addMeal(m *Meal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals[m.ID] = m
}

// mealsInRange returns a user's meals with log dates in [start, end].
func (s *Store) mealsInRange(userID, start, end string) []*Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Meal
	for _, m := range s.meals {
		if m.UserID != userID {
			continue
		}
		if (start != "" && m.LogDate < start) || (end != "" && m.LogDate > end) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// removeMealFood deletes one food line from a meal, dropping the meal when
// it was the last line. Reports whether anything was removed.
func (s *Store) removeMealFood(userID, mealID, foodID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meals[mealID]
	if !ok || m.UserID != userID {
		return false
	}
	for i, f := range m.Foods {
		if f.FoodID == foodID {
			m.Foods = append(m.Foods[:i], m.Foods[i+1:]...)
			if len(m.Foods) == 0 {
				delete(s.meals, mealID)
			}
			return true
		}
	}
	return false
}

func (s *Store) listLocales() []types.Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Locale, len(s.locales))
	copy(out, s.locales)
	return out
}
