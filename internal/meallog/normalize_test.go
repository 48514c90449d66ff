package meallog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealtrackr/mealtrackr/internal/meallog"
)

func TestLoadForDateNormalizesFieldVariants(t *testing.T) {
	// One meal in the modern shape, one in the legacy shape.
	payload := `{"data":{"meals":[
		{"id":"m1","meal_type":"breakfast","log_date":"2026-08-27",
		 "foods":[{"food_id":"f1","name":"Oats","serving_qty":40,"serving_unit":"g","calories":389}]},
		{"id":"m2","type":"dinner","log_date":"2026-08-27",
		 "food_items":[{"food_id":"f2","name":"Rice","serving_qty":180,"serving_unit":"g","calories":130}]}
	]}}`
	r := newRawReconciler(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(payload))
	}))

	require.NoError(t, r.LoadForDate(context.Background(), "2026-08-27"))

	breakfast := r.Entries(meallog.Breakfast)
	require.Len(t, breakfast, 1)
	assert.Equal(t, "Oats", breakfast[0].Name)
	assert.Equal(t, "m1:f1", breakfast[0].ID)
	assert.True(t, breakfast[0].ServerSaved)

	dinner := r.Entries(meallog.Dinner)
	require.Len(t, dinner, 1)
	assert.Equal(t, "Rice", dinner[0].Name)
}

func TestLoadForDateAcceptsBareArray(t *testing.T) {
	payload := `[{"id":"m1","meal_type":"snack",
		"foods":[{"food_id":"f1","name":"Banana","serving_qty":120,"calories":89}]}]`
	r := newRawReconciler(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(payload))
	}))

	require.NoError(t, r.LoadForDate(context.Background(), "2026-08-27"))
	assert.Len(t, r.Entries(meallog.Snack), 1)
}

func TestLoadForDateUnknownTypeDefaultsToLunch(t *testing.T) {
	payload := `{"data":{"meals":[
		{"id":"m1","meal_type":"brunch",
		 "foods":[{"food_id":"f1","name":"Toast","serving_qty":50,"calories":265}]}
	]}}`
	r := newRawReconciler(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(payload))
	}))

	require.NoError(t, r.LoadForDate(context.Background(), "2026-08-27"))
	assert.Len(t, r.Entries(meallog.Lunch), 1)
	assert.Empty(t, r.Entries(meallog.Breakfast))
}

func TestLoadForDateDeduplicatesWithinBucket(t *testing.T) {
	// Identical (food, calories, quantity) lines across two meals in the
	// same bucket collapse to one entry.
	payload := `{"data":{"meals":[
		{"id":"m1","meal_type":"lunch",
		 "foods":[{"food_id":"f1","name":"Apple","serving_qty":150,"calories":52}]},
		{"id":"m2","meal_type":"lunch",
		 "foods":[{"food_id":"f1","name":"Apple","serving_qty":150,"calories":52},
		          {"food_id":"f1","name":"Apple","serving_qty":80,"calories":52}]}
	]}}`
	r := newRawReconciler(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(payload))
	}))

	require.NoError(t, r.LoadForDate(context.Background(), "2026-08-27"))

	entries := r.Entries(meallog.Lunch)
	require.Len(t, entries, 2, "duplicate collapses, different quantity stays")
	assert.Equal(t, 119.6, r.TotalCalories()) // 78.0 + 41.6
}

func TestLoadForDateNotFoundMeansEmptyDay(t *testing.T) {
	r := newRawReconciler(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	}))

	require.NoError(t, r.LoadForDate(context.Background(), "2026-08-27"))
	for _, mt := range meallog.MealTypes {
		assert.Empty(t, r.Entries(mt))
	}
}

func TestLoadForDateDropsStaleResponse(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		date := req.URL.Query().Get("startDate")
		if date == "2026-08-01" {
			once.Do(func() { close(firstArrived) })
			<-releaseFirst // hold the older response until the newer one landed
			w.Write([]byte(`{"data":{"meals":[
				{"id":"m-old","meal_type":"lunch",
				 "foods":[{"food_id":"f-old","name":"Stale","serving_qty":100,"calories":999}]}]}}`))
			return
		}
		w.Write([]byte(`{"data":{"meals":[
			{"id":"m-new","meal_type":"lunch",
			 "foods":[{"food_id":"f-new","name":"Fresh","serving_qty":100,"calories":10}]}]}}`))
	}))
	t.Cleanup(srv.Close)

	r := newRawReconcilerForURL(t, srv.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.LoadForDate(context.Background(), "2026-08-01")
	}()

	<-firstArrived
	require.NoError(t, r.LoadForDate(context.Background(), "2026-08-02"))
	close(releaseFirst)
	wg.Wait()

	entries := r.Entries(meallog.Lunch)
	require.Len(t, entries, 1)
	assert.Equal(t, "Fresh", entries[0].Name, "stale response must not overwrite fresher state")
	assert.Equal(t, "2026-08-02", r.Date())
}
