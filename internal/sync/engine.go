// Package sync reconciles problem records against their Notion pages: it
// plans which existing blocks to delete and which intended blocks to create,
// then executes the plan with batched deletes and ordered appends.
//
// One sync is a single logical flow of control. Concurrent syncs of the same
// problem number are not coordinated; the last writes to land win.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/neelbansal/leetion/internal/domain"
	"github.com/neelbansal/leetion/internal/notes"
	"github.com/neelbansal/leetion/internal/notion"
)

// API is the client surface the engine drives.
type API interface {
	GetDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	UpdateDatabase(ctx context.Context, databaseID string, properties map[string]notion.SchemaProperty) error
	QueryDatabase(ctx context.Context, databaseID string, req notion.QueryRequest) ([]notion.Page, error)
	BlockChildren(ctx context.Context, blockID string) ([]notion.Block, error)
	AppendBlockChildren(ctx context.Context, blockID string, children []notion.Block) error
	DeleteBlock(ctx context.Context, blockID string) error
	CreatePage(ctx context.Context, databaseID string, properties map[string]notion.Property, children []notion.Block) (string, error)
	UpdatePageProperties(ctx context.Context, pageID string, properties map[string]notion.Property) error
}

const (
	deleteBatchSize = 25
	deletePause     = 350 * time.Millisecond
)

// Engine executes problem syncs against one database. It holds only
// read-only configuration; build one per invocation or share freely.
type Engine struct {
	api                  API
	databaseID           string
	logger               zerolog.Logger
	spacedRepetitionDays int

	appendBatchSize int
	pause           func(context.Context, time.Duration) error
	now             func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSpacedRepetitionDays sets the review interval stamped on synced pages.
// Zero disables the spaced-repetition date.
func WithSpacedRepetitionDays(days int) Option {
	return func(e *Engine) { e.spacedRepetitionDays = days }
}

// NewEngine creates an engine for one database.
func NewEngine(api API, databaseID string, opts ...Option) *Engine {
	e := &Engine{
		api:             api,
		databaseID:      databaseID,
		logger:          zerolog.Nop(),
		appendBatchSize: notion.AppendBlockLimit,
		pause:           sleep,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result reports a completed sync.
type Result struct {
	PageID         string
	Updated        bool
	ContentUpdated bool
}

// SyncProblem saves or updates one problem. Properties are always written;
// page content is only rebuilt when the record carries something to write
// (snapshots, code, notes, or a question to save), so a metadata-only save
// never wipes an existing page. Content changes go
// through the reconciliation plan, which preserves the Question section when
// the record does not ask to rewrite it.
func (e *Engine) SyncProblem(ctx context.Context, record domain.ProblemRecord, existingPageID string) (Result, error) {
	if err := record.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid record: %w", err)
	}

	// Best effort: a failed schema check must not abort the save.
	if res := notion.EnsureSchema(ctx, e.api, e.databaseID); res.Err != nil {
		e.logger.Warn().Err(res.Err).Msg("schema check failed, continuing")
	} else if len(res.Created) > 0 {
		e.logger.Info().Strs("columns", res.Created).Msg("created missing database columns")
	}

	record.Code = notion.CleanCode(record.Code)
	for i := range record.Snapshots {
		record.Snapshots[i].Code = notion.CleanCode(record.Snapshots[i].Code)
	}

	isNew := existingPageID == ""
	props := notion.BuildProperties(record, isNew, e.spacedRepetitionDays, e.now())
	intended := BuildPageBlocks(record)
	hasContent := len(record.Snapshots) > 0 || record.HasNotes() ||
		strings.TrimSpace(record.Code) != "" ||
		(record.SaveQuestion && record.Question != nil)

	if isNew {
		pageID, err := e.createPage(ctx, props, intended)
		if err != nil {
			return Result{}, err
		}
		e.logger.Info().Int("problem", record.Number).Str("page_id", pageID).Msg("created page")
		return Result{PageID: pageID, ContentUpdated: hasContent}, nil
	}

	if err := e.api.UpdatePageProperties(ctx, existingPageID, props); err != nil {
		return Result{}, err
	}

	if !hasContent {
		e.logger.Debug().Int("problem", record.Number).Msg("no snapshots or notes, preserving page content")
		return Result{PageID: existingPageID, Updated: true}, nil
	}

	plan := e.planUpdate(ctx, existingPageID, intended, record)
	if err := e.execute(ctx, existingPageID, plan); err != nil {
		return Result{}, err
	}
	e.logger.Info().
		Int("problem", record.Number).
		Int("deleted", len(plan.Delete)).
		Int("created", len(plan.Create)).
		Msg("updated page content")
	return Result{PageID: existingPageID, Updated: true, ContentUpdated: true}, nil
}

// planUpdate fetches the existing block tree and computes the reconciliation
// plan. A fetch failure degrades to append-only: creating without deleting is
// recoverable by hand, a wrong deletion is not.
func (e *Engine) planUpdate(ctx context.Context, pageID string, intended []notion.Block, record domain.ProblemRecord) Plan {
	existing, err := e.api.BlockChildren(ctx, pageID)
	if err != nil {
		e.logger.Warn().Err(err).Str("page_id", pageID).Msg("fetching existing blocks failed, appending without deleting")
		return Plan{Create: intended}
	}

	// A record with snapshots but no notes keeps the page's previous notes.
	if !record.HasNotes() {
		if prior := ExtractContent(existing).Notes; strings.TrimSpace(prior) != "" {
			intended = append(intended, notion.NewHeading(headingNotes))
			intended = append(intended, notes.ToBlocks(prior)...)
		}
	}

	return ComputePlan(existing, intended, record.SaveQuestion)
}

func (e *Engine) execute(ctx context.Context, pageID string, plan Plan) error {
	e.deleteBlocks(ctx, plan.Delete)
	return e.appendBlocks(ctx, pageID, plan.Create)
}

// deleteBlocks issues deletes in parallel batches with a pacing pause
// between batches. Individual failures are logged and skipped: deletes are
// independent calls and a partial failure must not block the rest.
func (e *Engine) deleteBlocks(ctx context.Context, blocks []notion.Block) {
	for start := 0; start < len(blocks); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(blocks))

		var wg gosync.WaitGroup
		for _, b := range blocks[start:end] {
			if b.ID == "" {
				continue
			}
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if err := e.api.DeleteBlock(ctx, id); err != nil {
					e.logger.Warn().Err(err).Str("block_id", id).Msg("delete block failed")
				}
			}(b.ID)
		}
		wg.Wait()

		if end < len(blocks) {
			if err := e.pause(ctx, deletePause); err != nil {
				return
			}
		}
	}
}

// appendBlocks submits creates sequentially in API-sized batches; block
// order is semantically meaningful, so batches never run in parallel.
func (e *Engine) appendBlocks(ctx context.Context, pageID string, blocks []notion.Block) error {
	for start := 0; start < len(blocks); start += e.appendBatchSize {
		end := min(start+e.appendBatchSize, len(blocks))
		if err := e.api.AppendBlockChildren(ctx, pageID, blocks[start:end]); err != nil {
			return fmt.Errorf("append blocks %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// createPage creates the page with the first batch of blocks inline and
// appends any remainder through the ordered append path.
func (e *Engine) createPage(ctx context.Context, props map[string]notion.Property, blocks []notion.Block) (string, error) {
	inline := blocks
	var rest []notion.Block
	if len(blocks) > e.appendBatchSize {
		inline, rest = blocks[:e.appendBatchSize], blocks[e.appendBatchSize:]
	}
	pageID, err := e.api.CreatePage(ctx, e.databaseID, props, inline)
	if err != nil {
		return "", err
	}
	if err := e.appendBlocks(ctx, pageID, rest); err != nil {
		return "", err
	}
	return pageID, nil
}

// Existing is what CheckExisting recovers for an already-tracked problem.
type Existing struct {
	Exists          bool
	PageID          string
	Title           string
	Tags            []string
	Expertise       string
	Remark          string
	AltMethods      []string
	Done            bool
	Notes           string
	Solutions       []Solution
	TimeComplexity  string
	SpaceComplexity string
	Attempts        int
}

// CheckExisting looks up the page tracking a problem number and extracts its
// saved fields and content. At most one page per number is assumed; the
// first match wins. Lookup failures report not-found rather than erroring,
// so a flaky check never blocks a save.
func (e *Engine) CheckExisting(ctx context.Context, problemNumber int) (Existing, error) {
	if problemNumber == 0 {
		return Existing{}, nil
	}

	number := float64(problemNumber)
	pages, err := e.api.QueryDatabase(ctx, e.databaseID, notion.QueryRequest{
		Filter: notion.PropertyFilter{
			Property: notion.ColNumber,
			Number:   &notion.NumberFilter{Equals: &number},
		},
		PageSize: 1,
	})
	if err != nil {
		e.logger.Warn().Err(err).Int("problem", problemNumber).Msg("check existing failed")
		return Existing{}, nil
	}
	if len(pages) == 0 {
		return Existing{}, nil
	}

	page := pages[0]
	props := page.Properties

	var content PageContent
	if blocks, err := e.api.BlockChildren(ctx, page.ID); err == nil {
		content = ExtractContent(blocks)
	} else {
		e.logger.Warn().Err(err).Str("page_id", page.ID).Msg("fetching page content failed")
	}

	attempts := int(props[notion.ColAttempts].NumberValue())
	if attempts == 0 {
		attempts = 1
	}

	return Existing{
		Exists:          true,
		PageID:          page.ID,
		Title:           props[notion.ColQuestion].PlainString(),
		Tags:            props[notion.ColTag].MultiSelectNames(),
		Expertise:       props[notion.ColExpertise].SelectName(),
		Remark:          props[notion.ColRemark].PlainString(),
		AltMethods:      props[notion.ColAltMethods].MultiSelectNames(),
		Done:            props[notion.ColDone].CheckboxValue(),
		Notes:           content.Notes,
		Solutions:       content.Solutions,
		TimeComplexity:  props[notion.ColTimeComplexity].SelectName(),
		SpaceComplexity: props[notion.ColSpaceComplexity].SelectName(),
		Attempts:        attempts,
	}, nil
}

// VerifyConnection checks that the API key and database are usable and
// returns the database's display name. Failures come back as the actionable
// guidance strings shown to the user.
func (e *Engine) VerifyConnection(ctx context.Context) (string, error) {
	db, err := e.api.GetDatabase(ctx, e.databaseID)
	if err != nil {
		return "", errors.New(notion.GuidanceFor(err))
	}
	name := notion.JoinPlain(db.Title)
	if name == "" {
		name = "User's Leetion Template"
	}
	return name, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
