// Package nutrition fetches the dashboard's daily, weekly and monthly
// summaries and normalizes them for display.
package nutrition

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mealtrackr/mealtrackr/internal/apiclient"
	"github.com/mealtrackr/mealtrackr/internal/types"
)

// Summary is the dashboard's fixed shape: one day, the day's week and the
// day's month broken down by week. Missing numeric fields are zero.
type Summary struct {
	Daily   types.DailySummary
	Weekly  []types.WeeklyDay
	Monthly []types.MonthlyWeek
}

// Aggregator fetches nutrition summaries.
type Aggregator struct {
	client *apiclient.Client
	log    *logrus.Entry
}

// New creates an aggregator.
func New(client *apiclient.Client, logger *logrus.Logger) *Aggregator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Aggregator{
		client: client,
		log:    logger.WithField("component", "nutrition"),
	}
}

// Fetch issues the three summary requests in parallel and waits for all of
// them. A failure in any one fails the whole fetch; callers needing partial
// results must fan out themselves.
func (a *Aggregator) Fetch(ctx context.Context, date time.Time) (Summary, error) {
	var summary Summary

	weekStart, weekEnd := weekBounds(date)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := url.Values{}
		query.Set("date", date.Format("2006-01-02"))
		if err := a.client.Get(ctx, "/nutrition/daily", query, &summary.Daily); err != nil {
			return fmt.Errorf("daily summary: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		query := url.Values{}
		query.Set("startDate", weekStart.Format("2006-01-02"))
		query.Set("endDate", weekEnd.Format("2006-01-02"))
		var weekly types.WeeklySummary
		if err := a.client.Get(ctx, "/nutrition/weekly", query, &weekly); err != nil {
			return fmt.Errorf("weekly summary: %w", err)
		}
		summary.Weekly = weekly.Summary
		return nil
	})

	g.Go(func() error {
		query := url.Values{}
		query.Set("month", strconv.Itoa(int(date.Month())))
		query.Set("year", strconv.Itoa(date.Year()))
		var monthly types.MonthlySummary
		if err := a.client.Get(ctx, "/nutrition/monthly", query, &monthly); err != nil {
			return fmt.Errorf("monthly summary: %w", err)
		}
		summary.Monthly = monthly.Summary
		return nil
	})

	if err := g.Wait(); err != nil {
		a.log.WithError(err).Warn("summary fetch failed")
		return Summary{}, err
	}

	if summary.Weekly == nil {
		summary.Weekly = []types.WeeklyDay{}
	}
	if summary.Monthly == nil {
		summary.Monthly = []types.MonthlyWeek{}
	}
	return summary, nil
}

// weekBounds returns the Monday and Sunday of the week containing date.
func weekBounds(date time.Time) (time.Time, time.Time) {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	start := date.AddDate(0, 0, 1-weekday)
	return start, start.AddDate(0, 0, 6)
}
