// Package review drives the spaced-repetition side of the tracker: finding
// problems due for review, aggregating progress stats, and rescheduling a
// problem after a review.
package review

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/neelbansal/leetion/internal/notion"
)

// API is the client surface the review service needs.
type API interface {
	QueryDatabase(ctx context.Context, databaseID string, req notion.QueryRequest) ([]notion.Page, error)
	UpdatePageProperties(ctx context.Context, pageID string, properties map[string]notion.Property) error
}

// Service runs read-only review queries and reschedules. It is independent
// of any in-flight sync.
type Service struct {
	api        API
	databaseID string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService creates a review service for one database.
func NewService(api API, databaseID string, logger zerolog.Logger) *Service {
	return &Service{api: api, databaseID: databaseID, logger: logger, now: time.Now}
}

const dayFormat = "2006-01-02"

// DueProblem is one problem whose review date has arrived.
type DueProblem struct {
	PageID     string
	Title      string
	Number     int
	Difficulty string
	DueDate    string
}

// Due returns the problems whose spaced-repetition date is on or before the
// given day.
func (s *Service) Due(ctx context.Context, today time.Time) ([]DueProblem, error) {
	day := today.Format(dayFormat)
	pages, err := s.api.QueryDatabase(ctx, s.databaseID, notion.QueryRequest{
		Filter: notion.PropertyFilter{
			Property: notion.ColSpacedRepetition,
			Date:     &notion.DateFilter{OnOrBefore: day},
		},
	})
	if err != nil {
		return nil, err
	}

	due := make([]DueProblem, 0, len(pages))
	for _, p := range pages {
		props := p.Properties
		due = append(due, DueProblem{
			PageID:     p.ID,
			Title:      props[notion.ColQuestion].PlainString(),
			Number:     int(props[notion.ColNumber].NumberValue()),
			Difficulty: props[notion.ColLevel].SelectName(),
			DueDate:    props[notion.ColSpacedRepetition].DateStart(),
		})
	}
	return due, nil
}

// Stats summarizes tracked problems by difficulty plus the due count.
type Stats struct {
	Total        int
	Easy         int
	Medium       int
	Hard         int
	DueForReview int
}

// Stats aggregates over the database's pages.
func (s *Service) Stats(ctx context.Context, today time.Time) (Stats, error) {
	pages, err := s.api.QueryDatabase(ctx, s.databaseID, notion.QueryRequest{})
	if err != nil {
		return Stats{}, err
	}

	day := today.Format(dayFormat)
	stats := Stats{Total: len(pages)}
	for _, p := range pages {
		props := p.Properties
		switch props[notion.ColLevel].SelectName() {
		case "Easy":
			stats.Easy++
		case "Medium":
			stats.Medium++
		case "Hard":
			stats.Hard++
		}
		if review := props[notion.ColSpacedRepetition].DateStart(); review != "" && review <= day {
			stats.DueForReview++
		}
	}
	return stats, nil
}

// Reschedule pushes a page's review date out by days from now and optionally
// records the new attempt count. It returns the scheduled day.
func (s *Service) Reschedule(ctx context.Context, pageID string, days, attempts int) (time.Time, error) {
	review := s.now().AddDate(0, 0, days)
	props := map[string]notion.Property{
		notion.ColSpacedRepetition: {Date: &notion.DateValue{Start: review.Format(dayFormat)}},
	}
	if attempts > 0 {
		a := float64(attempts)
		props[notion.ColAttempts] = notion.Property{Number: &a}
	}
	if err := s.api.UpdatePageProperties(ctx, pageID, props); err != nil {
		return time.Time{}, err
	}
	s.logger.Info().Str("page_id", pageID).Str("review", review.Format(dayFormat)).Msg("rescheduled review")
	return review, nil
}

// Params tunes the review interval growth.
type Params struct {
	// BaseDays is the interval after the first successful attempt.
	BaseDays int
	// Growth multiplies the interval per additional attempt.
	Growth float64
	// MaxDays caps the interval.
	MaxDays int
}

// DefaultParams doubles a 30-day base, capped at one year.
func DefaultParams() Params {
	return Params{BaseDays: 30, Growth: 2.0, MaxDays: 365}
}

// NextInterval returns the review interval in days after the given attempt
// count. Attempt counts below one are treated as one.
func (p Params) NextInterval(attempts int) int {
	if attempts < 1 {
		attempts = 1
	}
	days := float64(p.BaseDays) * math.Pow(p.Growth, float64(attempts-1))
	if capped := float64(p.MaxDays); days > capped {
		days = capped
	}
	return int(math.Round(days))
}
