// Package catalog is a paginated, filtered, searchable read view over the
// food catalog, plus the create form's validation.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mealtrackr/mealtrackr/internal/apiclient"
	"github.com/mealtrackr/mealtrackr/internal/types"
)

// DefaultDebounce is how long typing must pause before a search fires.
const DefaultDebounce = 500 * time.Millisecond

// DefaultPageSize matches the backend's default page size.
const DefaultPageSize = 20

// AllCategories is the wildcard entry prepended to the category filter.
const AllCategories = "All"

// ErrValidation marks create-form input rejected before any network call.
var ErrValidation = errors.New("validation")

// Page is one page of catalog results.
type Page struct {
	Foods      []types.Food
	TotalCount int
	Page       int
	PageSize   int
}

// Config holds browser configuration.
type Config struct {
	Client   *apiclient.Client
	Logger   *logrus.Logger
	Debounce time.Duration

	// OnResults receives the page produced by a debounced search. Optional.
	OnResults func(Page, error)
}

// Browser holds the catalog view state: query, category filter, pagination
// and the current page of results.
type Browser struct {
	client    *apiclient.Client
	log       *logrus.Entry
	debounce  time.Duration
	onResults func(Page, error)

	mu         sync.Mutex
	timer      *time.Timer
	gen        uint64
	query      string
	category   string
	page       int
	pageSize   int
	foods      []types.Food
	totalCount int
}

// New creates a catalog browser on page 1 with no filters.
func New(cfg Config) *Browser {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	return &Browser{
		client:    cfg.Client,
		log:       logger.WithField("component", "catalog"),
		debounce:  debounce,
		onResults: cfg.OnResults,
		page:      1,
		pageSize:  DefaultPageSize,
	}
}

// SetCategory filters by category and resets to page 1. AllCategories (or
// "") clears the filter.
func (b *Browser) SetCategory(category string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if category == AllCategories {
		category = ""
	}
	b.category = category
	b.page = 1
}

// SetPage moves to the given 1-based page.
func (b *Browser) SetPage(page int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if page < 1 {
		page = 1
	}
	b.page = page
}

// SetQueryNow records the search text without scheduling a fetch. Used by
// callers that fetch explicitly right after, where debouncing has no point.
func (b *Browser) SetQueryNow(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.query = query
	b.page = 1
}

// SetQuery records the search text and schedules a fetch after the debounce
// interval, replacing any fetch still pending. Five keystrokes inside the
// interval issue exactly one request, for the final string.
func (b *Browser) SetQuery(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.query = query
	b.page = 1
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, func() {
		page, err := b.Fetch(context.Background())
		if b.onResults != nil {
			b.onResults(page, err)
		}
	})
}

// Fetch issues the listing (or search, when a query is set) request
// immediately with the current view state. A malformed or missing item list
// in the response yields an empty page rather than an error; a response that
// lands after a newer fetch was issued is dropped.
func (b *Browser) Fetch(ctx context.Context) (Page, error) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	query, category, page, pageSize := b.query, b.category, b.page, b.pageSize
	b.mu.Unlock()

	path := "/foods"
	params := url.Values{}
	if query != "" {
		path = "/foods/search"
		params.Set("query", query)
	}
	if category != "" {
		params.Set("category", category)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("sort", "name")
	params.Set("order", "asc")

	var raw json.RawMessage
	if err := b.client.Get(ctx, path, params, &raw); err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			raw = nil // empty catalog, not an error
		} else {
			return Page{}, fmt.Errorf("fetch foods: %w", err)
		}
	}

	foods, total := coerceFoodList(raw)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		b.log.WithField("query", query).Debug("dropping stale catalog response")
		return Page{Foods: foods, TotalCount: total, Page: page, PageSize: pageSize}, nil
	}
	b.foods = foods
	b.totalCount = total
	return Page{Foods: foods, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

// Current returns the last fetched page.
func (b *Browser) Current() Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	foods := make([]types.Food, len(b.foods))
	copy(foods, b.foods)
	return Page{Foods: foods, TotalCount: b.totalCount, Page: b.page, PageSize: b.pageSize}
}

// Categories derives the filter bar's options from the current page of
// results: the unique categories observed, behind an "All" wildcard.
func (b *Browser) Categories() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, f := range b.foods {
		if f.Category == "" || seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		out = append(out, f.Category)
	}
	return out
}

// coerceFoodList defensively extracts foods from whatever shape came back.
// Anything unrecognizable becomes an empty list.
func coerceFoodList(raw json.RawMessage) ([]types.Food, int) {
	if len(raw) == 0 {
		return []types.Food{}, 0
	}

	var envelope types.FoodListResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data.Foods != nil {
		return envelope.Data.Foods, envelope.Data.TotalCount
	}

	var bare types.FoodListData
	if err := json.Unmarshal(raw, &bare); err == nil && bare.Foods != nil {
		return bare.Foods, bare.TotalCount
	}

	var list []types.Food
	if err := json.Unmarshal(raw, &list); err == nil && list != nil {
		return list, len(list)
	}

	return []types.Food{}, 0
}

// CreateParams carries the create form's raw field values. Numeric fields
// arrive as strings and are coerced here, before submission.
type CreateParams struct {
	Name     string
	Category string
	Calories string
	Proteins string
	Carbs    string
	Fats     string
	IsPublic bool
	LocaleID string
}

// Create validates and submits a new catalog food. On success the item is
// prepended to the current in-memory page without a refetch.
func (b *Browser) Create(ctx context.Context, params CreateParams) (types.Food, error) {
	if strings.TrimSpace(params.Name) == "" {
		return types.Food{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(params.Category) == "" {
		return types.Food{}, fmt.Errorf("%w: category is required", ErrValidation)
	}

	req := types.CreateFoodRequest{
		Name:     strings.TrimSpace(params.Name),
		Category: strings.TrimSpace(params.Category),
		IsPublic: params.IsPublic,
		LocaleID: params.LocaleID,
	}
	for _, field := range []struct {
		name  string
		raw   string
		value *float64
	}{
		{"calories", params.Calories, &req.Calories},
		{"proteins", params.Proteins, &req.Proteins},
		{"carbs", params.Carbs, &req.Carbs},
		{"fats", params.Fats, &req.Fats},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(field.raw), 64)
		if err != nil || v < 0 {
			return types.Food{}, fmt.Errorf("%w: %s must be a non-negative number", ErrValidation, field.name)
		}
		*field.value = v
	}

	var resp types.FoodResponse
	if err := b.client.Post(ctx, "/foods", req, &resp); err != nil {
		return types.Food{}, fmt.Errorf("create food: %w", err)
	}

	b.mu.Lock()
	b.foods = append([]types.Food{resp.Data}, b.foods...)
	b.totalCount++
	b.mu.Unlock()
	return resp.Data, nil
}

// Locales fetches the available regional food databases.
func (b *Browser) Locales(ctx context.Context) ([]types.Locale, error) {
	var resp types.LocaleListResponse
	if err := b.client.Get(ctx, "/locales", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch locales: %w", err)
	}
	return resp.Data.Locales, nil
}
