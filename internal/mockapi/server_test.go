package mockapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealtrackr/mealtrackr/internal/mockapi"
	"github.com/mealtrackr/mealtrackr/internal/types"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(mockapi.New(mockapi.Config{Seed: true}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerAndLogin(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	var resp types.AuthResponse
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", types.RegisterRequest{
		Username: "tester",
		Email:    "t@example.com",
		Password: "password123",
	}, &resp)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestRegisterLoginProfile(t *testing.T) {
	srv := setupServer(t)
	token := registerAndLogin(t, srv)

	var profile types.ProfileResponse
	code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/profile", token, nil, &profile)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "tester", profile.Data.Username)

	// Login again with the username instead of the email.
	var login types.AuthResponse
	code = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", types.LoginRequest{
		EmailOrUsername: "tester",
		Password:        "password123",
	}, &login)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, login.Data.Token)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := setupServer(t)
	registerAndLogin(t, srv)

	var out map[string]interface{}
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", types.LoginRequest{
		EmailOrUsername: "t@example.com",
		Password:        "wrong",
	}, &out)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", out["error"])
}

func TestProfileRequiresToken(t *testing.T) {
	srv := setupServer(t)
	code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/profile", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFoodSearchAndPagination(t *testing.T) {
	srv := setupServer(t)

	var page types.FoodListResponse
	code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/foods/search?query=apple&page=1&limit=10&sort=name&order=asc", "", nil, &page)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, page.Data.Foods, 1)
	assert.Equal(t, "Apple", page.Data.Foods[0].Name)

	var small types.FoodListResponse
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/foods?page=1&limit=3", "", nil, &small)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, small.Data.Foods, 3)
	assert.Equal(t, 8, small.Data.TotalCount)
}

func TestCreateFoodRequiresAuth(t *testing.T) {
	srv := setupServer(t)

	req := types.CreateFoodRequest{Name: "Quark", Category: "Dairy", Calories: 67}
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/foods", "", req, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	token := registerAndLogin(t, srv)
	var created types.FoodResponse
	code = doJSON(t, http.MethodPost, srv.URL+"/api/v1/foods", token, req, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "Quark", created.Data.Name)
}

func TestMealLifecycleAndSummaries(t *testing.T) {
	srv := setupServer(t)
	token := registerAndLogin(t, srv)

	var created types.CreateMealResponse
	code := doJSON(t, http.MethodPost, srv.URL+"/api/v1/meals", token, types.CreateMealRequest{
		Type:    "breakfast",
		LogDate: "2026-08-27",
		Foods: []types.MealFood{{
			FoodID: "food-1", Name: "Apple", ServingQty: 150, ServingUnit: "g", Calories: 52,
		}},
	}, &created)
	require.Equal(t, http.StatusCreated, code)
	mealID := created.Data.MealID
	require.NotEmpty(t, mealID)

	var meals struct {
		Data struct {
			Meals []types.RawMeal `json:"meals"`
		} `json:"data"`
	}
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/meals?startDate=2026-08-27&endDate=2026-08-27", token, nil, &meals)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, meals.Data.Meals, 1)
	assert.Equal(t, "breakfast", meals.Data.Meals[0].MealType)

	var daily types.DailySummary
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/nutrition/daily?date=2026-08-27", token, nil, &daily)
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 78.0, daily.Calories, 0.001)

	var weekly types.WeeklySummary
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/nutrition/weekly?startDate=2026-08-24&endDate=2026-08-30", token, nil, &weekly)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, weekly.Summary, 7)
	assert.InDelta(t, 78.0, weekly.Summary[3].TotalCalories, 0.001)

	var monthly types.MonthlySummary
	code = doJSON(t, http.MethodGet, srv.URL+"/api/v1/nutrition/monthly?month=8&year=2026", token, nil, &monthly)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, monthly.Summary)
	// The 27th falls in week 4 of August.
	assert.InDelta(t, 78.0, monthly.Summary[3].TotalCalories, 0.001)

	code = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/meals/%s/foods/food-1", srv.URL, mealID), token, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/meals/%s/foods/food-1", srv.URL, mealID), token, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLocales(t *testing.T) {
	srv := setupServer(t)

	var locales types.LocaleListResponse
	code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/locales", "", nil, &locales)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, locales.Data.Locales)
}
