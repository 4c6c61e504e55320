package sync

import (
	"fmt"
	"strings"

	"github.com/neelbansal/leetion/internal/domain"
	"github.com/neelbansal/leetion/internal/notes"
	"github.com/neelbansal/leetion/internal/notion"
)

const solutionDateFormat = "Jan 2, 2006"

// BuildPageBlocks assembles the intended block tree for a record: optional
// Question section, Solution(s) section, optional Notes section. A section
// whose builder produces nothing is omitted entirely, heading included.
func BuildPageBlocks(r domain.ProblemRecord) []notion.Block {
	var blocks []notion.Block
	blocks = append(blocks, buildQuestionSection(r)...)
	blocks = append(blocks, buildSolutionSection(r)...)
	if r.HasNotes() {
		blocks = append(blocks, notion.NewHeading(headingNotes))
		blocks = append(blocks, notes.ToBlocks(r.Notes)...)
	}
	return blocks
}

func buildQuestionSection(r domain.ProblemRecord) []notion.Block {
	if !r.SaveQuestion || r.Question == nil {
		return nil
	}
	body := questionBody(r.Question)
	if len(body) == 0 {
		return nil
	}
	return append([]notion.Block{notion.NewHeading(headingQuestion)}, body...)
}

func questionBody(q *domain.QuestionContent) []notion.Block {
	var blocks []notion.Block

	if desc := strings.TrimSpace(q.Description); desc != "" {
		for _, chunk := range notion.ChunkText(desc, notion.RunLimit) {
			blocks = append(blocks, notion.NewRichParagraph(chunk))
		}
	}

	for i, ex := range q.Examples {
		n := ex.Number
		if n == 0 {
			n = i + 1
		}
		blocks = append(blocks,
			notion.NewBoldParagraph(fmt.Sprintf("Example %d:", n)),
			notion.NewParagraph("Input:"),
			notion.NewCodeBlock(ex.Input, "plain text", ""),
			notion.NewParagraph("Output:"),
			notion.NewCodeBlock(ex.Output, "plain text", ""),
		)
		if ex.Explanation != "" {
			blocks = append(blocks,
				notion.NewParagraph("Explanation:"),
				notion.NewQuote(ex.Explanation),
			)
		}
		blocks = append(blocks, notion.NewParagraph(""))
	}

	if len(q.Constraints) > 0 {
		blocks = append(blocks, notion.NewSubheading(headingConstraints))
		for _, c := range q.Constraints {
			blocks = append(blocks, notion.NewBulletedItem(c))
		}
	}

	return blocks
}

func buildSolutionSection(r domain.ProblemRecord) []notion.Block {
	snaps := r.SolutionSnapshots()
	if len(snaps) == 0 {
		// Records written by older clients carry only the live editor code.
		if strings.TrimSpace(r.Code) == "" {
			return nil
		}
		blocks := []notion.Block{notion.NewHeading(headingSolutions)}
		for _, chunk := range notion.ChunkCode(r.Code, notion.CodeChunkLimit) {
			blocks = append(blocks, notion.NewCodeBlock(chunk, notion.LanguageTag(r.Language), r.Language))
		}
		return blocks
	}

	blocks := []notion.Block{notion.NewHeading(headingSolutions)}
	for i, snap := range snaps {
		label := fmt.Sprintf("%s - Solution %d (%s)",
			snap.Language, i+1, snap.Timestamp.Format(solutionDateFormat))
		blocks = append(blocks, notion.NewSubheading(label))
		for _, chunk := range notion.ChunkCode(snap.Code, notion.CodeChunkLimit) {
			blocks = append(blocks, notion.NewCodeBlock(chunk, notion.LanguageTag(snap.Language), snap.Language))
		}
	}
	return blocks
}
