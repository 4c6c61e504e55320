package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Difficulty is the problem's difficulty level as shown on the practice site.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Expertise is the user's self-assessed comfort with the problem.
type Expertise string

const (
	ExpertiseLow    Expertise = "Low"
	ExpertiseMedium Expertise = "Medium"
	ExpertiseHigh   Expertise = "High"
)

// SnapshotType distinguishes saved solution code from captured question code
// (e.g. the starter template), which is excluded from the Solution(s) section.
type SnapshotType string

const (
	SnapshotSolution SnapshotType = "solution"
	SnapshotQuestion SnapshotType = "question"
)

// Snapshot is a saved copy of solution code at a point in time. Snapshots are
// immutable once created; the only mutation is deletion by the user.
type Snapshot struct {
	ID        string       `json:"id"`
	Code      string       `json:"code"`
	Language  string       `json:"language"`
	Timestamp time.Time    `json:"timestamp"`
	Type      SnapshotType `json:"type,omitempty"`
}

// Example is one worked input/output example from the question statement.
type Example struct {
	Number      int    `json:"number"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// QuestionContent is the scraped problem statement.
type QuestionContent struct {
	Description string    `json:"description"`
	Examples    []Example `json:"examples,omitempty"`
	Constraints []string  `json:"constraints,omitempty"`
}

// ProblemRecord is one practice problem's full state to persist. It is
// transient: built fresh per sync call from caller-supplied data plus any
// locally cached snapshots and notes.
type ProblemRecord struct {
	Number          int              `json:"number" validate:"required,min=1"`
	Title           string           `json:"title"`
	URL             string           `json:"url" validate:"omitempty,url"`
	Difficulty      Difficulty       `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
	Language        string           `json:"language,omitempty"`
	Code            string           `json:"code,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Expertise       Expertise        `json:"expertise,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Remark          string           `json:"remark,omitempty"`
	AltMethods      []string         `json:"altMethods,omitempty"`
	Done            bool             `json:"done"`
	TimeComplexity  string           `json:"timeComplexity,omitempty" validate:"omitempty,complexity"`
	SpaceComplexity string           `json:"spaceComplexity,omitempty" validate:"omitempty,complexity"`
	Attempts        int              `json:"attempts,omitempty" validate:"omitempty,min=1"`
	Snapshots       []Snapshot       `json:"snapshots,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Question        *QuestionContent `json:"questionContent,omitempty"`
	SaveQuestion    bool             `json:"saveQuestion,omitempty"`
}

// Complexities is the accepted option set for the complexity columns.
var Complexities = []string{
	"O(1)", "O(log n)", "O(n)", "O(n log n)", "O(n²)", "O(n³)", "O(2^n)", "O(n!)",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("complexity", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, c := range Complexities {
			if s == c {
				return true
			}
		}
		return false
	})
	return v
}

// Validate checks a record before it is synced.
func (r ProblemRecord) Validate() error {
	return validate.Struct(r)
}

// SolutionSnapshots returns the snapshots that belong in the Solution(s)
// section, in insertion order.
func (r ProblemRecord) SolutionSnapshots() []Snapshot {
	out := make([]Snapshot, 0, len(r.Snapshots))
	for _, s := range r.Snapshots {
		if s.Type == SnapshotQuestion {
			continue
		}
		out = append(out, s)
	}
	return out
}

// HasNotes reports whether the record carries non-blank notes.
func (r ProblemRecord) HasNotes() bool {
	return strings.TrimSpace(r.Notes) != ""
}
