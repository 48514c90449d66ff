package meallog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/mealtrackr/mealtrackr/internal/apiclient"
	"github.com/mealtrackr/mealtrackr/internal/types"
)

// LoadForDate replaces the buckets with the server's meals for one day.
// Each call gets a generation stamp; a response that lands after a newer
// load has been issued is dropped instead of overwriting fresher state.
func (r *Reconciler) LoadForDate(ctx context.Context, date string) error {
	r.mu.Lock()
	r.loadGen++
	gen := r.loadGen
	r.mu.Unlock()

	query := url.Values{}
	query.Set("startDate", date)
	query.Set("endDate", date)

	var raw json.RawMessage
	if err := r.client.Get(ctx, "/meals", query, &raw); err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			raw = nil // empty day, not an error
		} else {
			return fmt.Errorf("load meals for %s: %w", date, err)
		}
	}

	meals, err := decodeMeals(raw)
	if err != nil {
		return fmt.Errorf("load meals for %s: %w", date, err)
	}
	buckets := bucketize(meals)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.loadGen {
		r.log.WithField("date", date).Debug("dropping stale meal load response")
		return nil
	}
	r.buckets = buckets
	r.date = date
	return nil
}

// decodeMeals accepts the shapes the backend has been observed to emit:
// a bare array, {"data": [...]}, {"data": {"meals": [...]}} or
// {"meals": [...]}.
func decodeMeals(raw json.RawMessage) ([]types.RawMeal, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var meals []types.RawMeal
	if err := json.Unmarshal(raw, &meals); err == nil {
		return meals, nil
	}

	var dataList struct {
		Data []types.RawMeal `json:"data"`
	}
	if err := json.Unmarshal(raw, &dataList); err == nil && dataList.Data != nil {
		return dataList.Data, nil
	}

	var nested struct {
		Data struct {
			Meals []types.RawMeal `json:"meals"`
		} `json:"data"`
		Meals []types.RawMeal `json:"meals"`
	}
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("unrecognized meals payload: %w", err)
	}
	if nested.Data.Meals != nil {
		return nested.Data.Meals, nil
	}
	return nested.Meals, nil
}

// bucketize normalizes raw meals into canonical buckets, resolving the
// meal_type/type and foods/food_items field variants and dropping duplicate
// (food, calories, quantity) lines within a bucket.
func bucketize(meals []types.RawMeal) map[MealType][]*Entry {
	buckets := emptyBuckets()
	type dupKey struct {
		foodID   string
		calories float64
		quantity float64
	}
	seen := make(map[MealType]map[dupKey]bool, len(MealTypes))
	for _, t := range MealTypes {
		seen[t] = make(map[dupKey]bool)
	}

	for _, meal := range meals {
		typ := meal.MealType
		if typ == "" {
			typ = meal.AltType
		}
		bucket := NormalizeMealType(typ)

		foods := meal.Foods
		if len(foods) == 0 {
			foods = meal.FoodItems
		}

		for _, f := range foods {
			key := dupKey{foodID: f.FoodID, calories: f.Calories, quantity: f.ServingQty}
			if seen[bucket][key] {
				continue
			}
			seen[bucket][key] = true

			buckets[bucket] = append(buckets[bucket], &Entry{
				ID:            compositeID(meal.ID, f.FoodID),
				MealID:        meal.ID,
				FoodID:        f.FoodID,
				Name:          f.Name,
				Calories:      f.Calories,
				QuantityGrams: f.ServingQty,
				MealType:      bucket,
				ServerSaved:   true,
			})
		}
	}
	return buckets
}
