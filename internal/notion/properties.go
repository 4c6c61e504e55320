package notion

import (
	"time"

	"github.com/neelbansal/leetion/internal/domain"
)

// Property is one page property value, both as written on create/update and
// as read back from query results.
type Property struct {
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	URL         string         `json:"url,omitempty"`
}

// DateValue is a date property payload. Dates are date-only, no time part.
type DateValue struct {
	Start string `json:"start"`
}

// Page is the subset of a page object the sync reads.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// SelectName returns the selected option's name, or "".
func (p Property) SelectName() string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

// MultiSelectNames returns the selected option names.
func (p Property) MultiSelectNames() []string {
	names := make([]string, 0, len(p.MultiSelect))
	for _, opt := range p.MultiSelect {
		names = append(names, opt.Name)
	}
	return names
}

// PlainString returns the property's plain text, covering both title and
// rich_text properties.
func (p Property) PlainString() string {
	if len(p.Title) > 0 {
		return JoinPlain(p.Title)
	}
	return JoinPlain(p.RichText)
}

// NumberValue returns the number property's value, or 0.
func (p Property) NumberValue() float64 {
	if p.Number == nil {
		return 0
	}
	return *p.Number
}

// CheckboxValue returns the checkbox state, or false.
func (p Property) CheckboxValue() bool {
	return p.Checkbox != nil && *p.Checkbox
}

// DateStart returns the date property's start day, or "".
func (p Property) DateStart() string {
	if p.Date == nil {
		return ""
	}
	return p.Date.Start
}

const dayFormat = "2006-01-02"

// BuildProperties maps a problem record onto the tracker's column values.
// Optional fields are omitted when absent so existing column values survive a
// properties-only update. The first-attempt date is only stamped on page
// creation; the spaced-repetition date is set when days > 0.
func BuildProperties(r domain.ProblemRecord, isNew bool, spacedRepetitionDays int, now time.Time) map[string]Property {
	title := r.Title
	if title == "" {
		title = "Untitled Problem"
	}
	done := r.Done
	props := map[string]Property{
		ColQuestion: {Title: []RichText{Text(title)}},
		ColDone:     {Checkbox: &done},
	}

	if r.Number != 0 {
		n := float64(r.Number)
		props[ColNumber] = Property{Number: &n}
	}
	if r.URL != "" {
		props[ColQuestionLink] = Property{URL: r.URL}
	}
	if len(r.Tags) > 0 {
		props[ColTag] = Property{MultiSelect: selectOptions(r.Tags)}
	}
	if r.Difficulty != "" {
		props[ColLevel] = Property{Select: &SelectOption{Name: string(r.Difficulty)}}
	}
	if r.Expertise != "" {
		props[ColExpertise] = Property{Select: &SelectOption{Name: string(r.Expertise)}}
	}
	if r.Remark != "" {
		props[ColRemark] = Property{RichText: []RichText{Text(r.Remark)}}
	}
	if len(r.AltMethods) > 0 {
		props[ColAltMethods] = Property{MultiSelect: selectOptions(r.AltMethods)}
	}
	if isNew {
		props[ColFirstAttempt] = Property{Date: &DateValue{Start: now.Format(dayFormat)}}
	}
	if r.TimeComplexity != "" {
		props[ColTimeComplexity] = Property{Select: &SelectOption{Name: r.TimeComplexity}}
	}
	if r.SpaceComplexity != "" {
		props[ColSpaceComplexity] = Property{Select: &SelectOption{Name: r.SpaceComplexity}}
	}
	if r.Attempts > 0 {
		a := float64(r.Attempts)
		props[ColAttempts] = Property{Number: &a}
	}
	if spacedRepetitionDays > 0 {
		review := now.AddDate(0, 0, spacedRepetitionDays)
		props[ColSpacedRepetition] = Property{Date: &DateValue{Start: review.Format(dayFormat)}}
	}

	return props
}

func selectOptions(names []string) []SelectOption {
	opts := make([]SelectOption, 0, len(names))
	for _, n := range names {
		opts = append(opts, SelectOption{Name: n})
	}
	return opts
}
