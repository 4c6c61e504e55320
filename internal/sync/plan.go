package sync

import (
	"github.com/neelbansal/leetion/internal/notion"
)

// Section headings of the page template. Section boundaries are inferred
// purely from H2 blocks whose text matches these exactly.
const (
	headingQuestion    = "Question"
	headingSolutions   = "Solution(s)"
	headingNotes       = "Notes"
	headingConstraints = "Constraints"
)

// Plan is a reconciliation outcome: the existing blocks to delete and the
// intended blocks to create. There is no in-place block edit; content changes
// are always delete-then-recreate.
type Plan struct {
	Delete []notion.Block
	Create []notion.Block
}

// sectionIndex returns the index of the first H2 block whose text equals
// title exactly, or -1. No normalization, no partial match.
func sectionIndex(blocks []notion.Block, title string) int {
	for i, b := range blocks {
		if b.Type == notion.TypeHeading2 && b.Plain() == title {
			return i
		}
	}
	return -1
}

// ComputePlan decides which existing blocks to delete and which intended
// blocks to create.
//
// When preserveQuestion is set and the existing page has a Question heading
// followed (later) by a Solution(s) heading, everything before the Solution(s)
// heading is left untouched: the plan deletes existing blocks from that
// heading onward and creates the intended blocks from the intended
// Solution(s) heading onward. In every other case, including an intended tree
// with no Solution(s) heading, the whole page is replaced.
func ComputePlan(existing, intended []notion.Block, preserveQuestion bool) Plan {
	if preserveQuestion {
		qIdx := sectionIndex(existing, headingQuestion)
		sIdx := sectionIndex(existing, headingSolutions)
		if qIdx >= 0 && sIdx >= 0 && sIdx > qIdx {
			if split := sectionIndex(intended, headingSolutions); split >= 0 {
				return Plan{Delete: existing[sIdx:], Create: intended[split:]}
			}
		}
	}
	return Plan{Delete: existing, Create: intended}
}
