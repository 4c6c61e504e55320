package notion

import (
	"context"
	"sort"
)

// SchemaProperty describes one database column. Exactly one config payload is
// set, selected by Type. An empty struct payload marshals to "{}" as the API
// expects for config-free column types.
type SchemaProperty struct {
	Type        string        `json:"type,omitempty"`
	Title       *struct{}     `json:"title,omitempty"`
	Number      *NumberConfig `json:"number,omitempty"`
	Select      *SelectConfig `json:"select,omitempty"`
	MultiSelect *SelectConfig `json:"multi_select,omitempty"`
	Checkbox    *struct{}     `json:"checkbox,omitempty"`
	Date        *struct{}     `json:"date,omitempty"`
	URL         *struct{}     `json:"url,omitempty"`
	RichText    *struct{}     `json:"rich_text,omitempty"`
}

// NumberConfig configures a number column.
type NumberConfig struct {
	Format string `json:"format,omitempty"`
}

// SelectConfig configures a select or multi_select column.
type SelectConfig struct {
	Options []SelectOption `json:"options"`
}

// SelectOption is one choice of a select column.
type SelectOption struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Column names of the tracker template.
const (
	ColQuestion         = "Question"
	ColNumber           = "S No."
	ColLevel            = "Level"
	ColTag              = "Tag"
	ColExpertise        = "My Expertise"
	ColDone             = "Done"
	ColFirstAttempt     = "Date (of first attempt)"
	ColQuestionLink     = "Question Link"
	ColRemark           = "Remark"
	ColAltMethods       = "Alternative Method Tags"
	ColSpacedRepetition = "Spaced Repetition"
	ColTimeComplexity   = "Time Complexity"
	ColSpaceComplexity  = "Space Complexity"
	ColAttempts         = "Attempts"
)

func complexityOptions(includeFactorial bool) []SelectOption {
	opts := []SelectOption{
		{Name: "O(1)", Color: "green"},
		{Name: "O(log n)", Color: "green"},
		{Name: "O(n)", Color: "blue"},
		{Name: "O(n log n)", Color: "blue"},
		{Name: "O(n²)", Color: "yellow"},
		{Name: "O(n³)", Color: "orange"},
		{Name: "O(2^n)", Color: "red"},
	}
	if includeFactorial {
		opts = append(opts, SelectOption{Name: "O(n!)", Color: "red"})
	}
	return opts
}

// DatabaseSchema returns the full required column set of the tracker
// template. Columns are only ever added, never modified or removed.
func DatabaseSchema() map[string]SchemaProperty {
	return map[string]SchemaProperty{
		ColQuestion: {Type: "title", Title: &struct{}{}},
		ColNumber:   {Type: "number", Number: &NumberConfig{Format: "number"}},
		ColLevel: {Type: "select", Select: &SelectConfig{Options: []SelectOption{
			{Name: "Easy", Color: "green"},
			{Name: "Medium", Color: "yellow"},
			{Name: "Hard", Color: "red"},
		}}},
		ColTag: {Type: "multi_select", MultiSelect: &SelectConfig{Options: []SelectOption{}}},
		ColExpertise: {Type: "select", Select: &SelectConfig{Options: []SelectOption{
			{Name: "Low", Color: "red"},
			{Name: "Medium", Color: "yellow"},
			{Name: "High", Color: "green"},
		}}},
		ColDone:             {Type: "checkbox", Checkbox: &struct{}{}},
		ColFirstAttempt:     {Type: "date", Date: &struct{}{}},
		ColQuestionLink:     {Type: "url", URL: &struct{}{}},
		ColRemark:           {Type: "rich_text", RichText: &struct{}{}},
		ColAltMethods:       {Type: "multi_select", MultiSelect: &SelectConfig{Options: []SelectOption{}}},
		ColSpacedRepetition: {Type: "date", Date: &struct{}{}},
		ColTimeComplexity:   {Type: "select", Select: &SelectConfig{Options: complexityOptions(true)}},
		ColSpaceComplexity:  {Type: "select", Select: &SelectConfig{Options: complexityOptions(false)}},
		ColAttempts:         {Type: "number", Number: &NumberConfig{Format: "number"}},
	}
}

// SchemaResult reports a best-effort schema check: either the columns
// created (none when the schema was already complete) or the error that
// stopped the check. Callers proceed with their sync either way and let any
// per-field write failure surface naturally.
type SchemaResult struct {
	Created []string
	Err     error
}

// SchemaAPI is the client surface EnsureSchema needs.
type SchemaAPI interface {
	GetDatabase(ctx context.Context, databaseID string) (*Database, error)
	UpdateDatabase(ctx context.Context, databaseID string, properties map[string]SchemaProperty) error
}

// EnsureSchema idempotently creates whichever required columns the database
// is missing, in a single batched update. Existing columns are left alone.
func EnsureSchema(ctx context.Context, api SchemaAPI, databaseID string) SchemaResult {
	db, err := api.GetDatabase(ctx, databaseID)
	if err != nil {
		return SchemaResult{Err: err}
	}

	missing := make(map[string]SchemaProperty)
	var names []string
	for name, prop := range DatabaseSchema() {
		if _, ok := db.Properties[name]; !ok {
			missing[name] = prop
			names = append(names, name)
		}
	}
	if len(missing) == 0 {
		return SchemaResult{}
	}
	sort.Strings(names)

	if err := api.UpdateDatabase(ctx, databaseID, missing); err != nil {
		return SchemaResult{Err: err}
	}
	return SchemaResult{Created: names}
}
