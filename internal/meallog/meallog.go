// Package meallog keeps the day's logged foods in per-meal buckets and
// reconciles optimistic local entries with what the backend has confirmed.
package meallog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mealtrackr/mealtrackr/internal/apiclient"
	"github.com/mealtrackr/mealtrackr/internal/types"
)

// MealType is one of the four daily buckets.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes lists the buckets in display order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

// ParseMealType validates user-supplied meal types. Unlike NormalizeMealType
// it rejects unknown values: new input should not rely on the lenient path.
func ParseMealType(s string) (MealType, error) {
	switch MealType(strings.ToLower(strings.TrimSpace(s))) {
	case Breakfast:
		return Breakfast, nil
	case Lunch:
		return Lunch, nil
	case Dinner:
		return Dinner, nil
	case Snack:
		return Snack, nil
	}
	return "", fmt.Errorf("%w: unknown meal type %q", ErrValidation, s)
}

// NormalizeMealType maps backend meal-type strings onto a bucket. Unknown
// values land in lunch.
func NormalizeMealType(s string) MealType {
	if t, err := ParseMealType(s); err == nil {
		return t
	}
	return Lunch
}

var (
	// ErrValidation marks bad input caught before any network call.
	ErrValidation = errors.New("validation")
	// ErrDuplicateEntry is returned when an identical (food, calories,
	// quantity) line already exists in the bucket.
	ErrDuplicateEntry = errors.New("duplicate entry in meal")
	// ErrEntryNotFound is returned when the composite id matches nothing.
	ErrEntryNotFound = errors.New("entry not found")
)

// FoodRef identifies a catalog food being logged. Calories are per 100g.
type FoodRef struct {
	ID       string
	Name     string
	Calories float64
}

// Entry is one logged food line. Until the backend confirms the save the
// entry carries a temporary id and ServerSaved is false.
type Entry struct {
	ID            string
	MealID        string
	FoodID        string
	Name          string
	Calories      float64 // per 100g
	QuantityGrams float64
	MealType      MealType
	ServerSaved   bool
	SaveFailed    bool
}

// Calories consumed by this entry, given its quantity.
func (e Entry) ConsumedCalories() float64 {
	return e.Calories * e.QuantityGrams / 100
}

const localIDPrefix = "local"

func newLocalID(foodID string) string {
	return localIDPrefix + ":" + foodID + ":" + uuid.NewString()[:8]
}

func compositeID(mealID, foodID string) string {
	return mealID + ":" + foodID
}

// splitCompositeID recovers (mealID, foodID) from a confirmed entry id.
func splitCompositeID(id string) (mealID, foodID string, ok bool) {
	parts := strings.SplitN(id, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || parts[0] == localIDPrefix {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Reconciler owns the buckets for the currently displayed date.
type Reconciler struct {
	client *apiclient.Client
	log    *logrus.Entry

	mu      sync.RWMutex
	buckets map[MealType][]*Entry
	date    string
	loadGen uint64
}

// New creates a reconciler with four empty buckets.
func New(client *apiclient.Client, logger *logrus.Logger) *Reconciler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reconciler{
		client:  client,
		log:     logger.WithField("component", "meallog"),
		buckets: emptyBuckets(),
		date:    time.Now().Format("2006-01-02"),
	}
}

func emptyBuckets() map[MealType][]*Entry {
	b := make(map[MealType][]*Entry, len(MealTypes))
	for _, t := range MealTypes {
		b[t] = nil
	}
	return b
}

// Date returns the date the buckets currently represent (YYYY-MM-DD).
func (r *Reconciler) Date() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.date
}

// AddEntry appends a pending entry to the bucket before any network call,
// then persists it. On success the entry is promoted to its server-assigned
// composite id; on failure it stays in the bucket flagged SaveFailed and the
// error is returned for the caller to surface.
func (r *Reconciler) AddEntry(ctx context.Context, mealType MealType, food FoodRef, quantityGrams float64) (Entry, error) {
	if _, err := ParseMealType(string(mealType)); err != nil {
		return Entry{}, err
	}
	if food.ID == "" {
		return Entry{}, fmt.Errorf("%w: food id is required", ErrValidation)
	}
	if quantityGrams <= 0 {
		return Entry{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	entry := &Entry{
		ID:            newLocalID(food.ID),
		FoodID:        food.ID,
		Name:          food.Name,
		Calories:      food.Calories,
		QuantityGrams: quantityGrams,
		MealType:      mealType,
	}

	r.mu.Lock()
	for _, e := range r.buckets[mealType] {
		if e.FoodID == entry.FoodID && e.Calories == entry.Calories && e.QuantityGrams == entry.QuantityGrams {
			r.mu.Unlock()
			return Entry{}, ErrDuplicateEntry
		}
	}
	r.buckets[mealType] = append(r.buckets[mealType], entry)
	date := r.date
	r.mu.Unlock()

	if err := r.persist(ctx, entry, date); err != nil {
		return r.snapshot(entry), err
	}
	return r.snapshot(entry), nil
}

// RetryEntry re-issues the persist call for an entry whose save failed.
func (r *Reconciler) RetryEntry(ctx context.Context, mealType MealType, id string) (Entry, error) {
	r.mu.RLock()
	entry := r.find(mealType, id)
	date := r.date
	r.mu.RUnlock()

	if entry == nil {
		return Entry{}, ErrEntryNotFound
	}
	if entry.ServerSaved {
		return r.snapshot(entry), nil
	}
	if err := r.persist(ctx, entry, date); err != nil {
		return r.snapshot(entry), err
	}
	return r.snapshot(entry), nil
}

func (r *Reconciler) persist(ctx context.Context, entry *Entry, date string) error {
	var resp types.CreateMealResponse
	err := r.client.Post(ctx, "/meals", types.CreateMealRequest{
		Type:    string(entry.MealType),
		LogDate: date,
		Foods: []types.MealFood{{
			FoodID:      entry.FoodID,
			Name:        entry.Name,
			ServingQty:  entry.QuantityGrams,
			ServingUnit: "g",
			Calories:    entry.Calories,
		}},
		Metadata: map[string]string{"source": "cli"},
	}, &resp)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		entry.SaveFailed = true
		r.log.WithError(err).WithField("food", entry.Name).Warn("failed to save entry")
		return fmt.Errorf("save %s: %w", entry.Name, err)
	}

	entry.MealID = resp.Data.MealID
	entry.ID = compositeID(resp.Data.MealID, entry.FoodID)
	entry.ServerSaved = true
	entry.SaveFailed = false
	return nil
}

// RemoveEntry deletes an entry. Pending entries are removed from memory only;
// confirmed entries are removed after exactly one successful delete call, and
// stay in place when that call fails.
func (r *Reconciler) RemoveEntry(ctx context.Context, mealType MealType, id string) error {
	r.mu.Lock()
	entry := r.find(mealType, id)
	if entry == nil {
		r.mu.Unlock()
		return ErrEntryNotFound
	}
	if !entry.ServerSaved {
		r.removeLocked(mealType, id)
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	mealID, foodID, ok := splitCompositeID(entry.ID)
	if !ok {
		return fmt.Errorf("malformed entry id %q", entry.ID)
	}
	if err := r.client.Delete(ctx, "/meals/"+mealID+"/foods/"+foodID); err != nil {
		r.log.WithError(err).WithField("food", entry.Name).Warn("failed to delete entry")
		return fmt.Errorf("delete %s: %w", entry.Name, err)
	}

	r.mu.Lock()
	r.removeLocked(mealType, id)
	r.mu.Unlock()
	return nil
}

// Entries returns a copy of one bucket.
func (r *Reconciler) Entries(mealType MealType) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.buckets[mealType]))
	for _, e := range r.buckets[mealType] {
		out = append(out, *e)
	}
	return out
}

// TotalCalories sums calories*quantity/100 across all buckets, rounded to
// one decimal place.
func (r *Reconciler) TotalCalories() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total float64
	for _, bucket := range r.buckets {
		for _, e := range bucket {
			total += e.ConsumedCalories()
		}
	}
	return math.Round(total*10) / 10
}

// ResetAll empties every bucket with no server-side effect. Used on logout.
func (r *Reconciler) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets = emptyBuckets()
}

func (r *Reconciler) find(mealType MealType, id string) *Entry {
	for _, e := range r.buckets[mealType] {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (r *Reconciler) removeLocked(mealType MealType, id string) {
	bucket := r.buckets[mealType]
	for i, e := range bucket {
		if e.ID == id {
			r.buckets[mealType] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

func (r *Reconciler) snapshot(entry *Entry) Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return *entry
}
