package notion

import (
	"regexp"
	"strings"
)

// markupPattern matches the supported inline markup. Alternatives are checked
// in precedence order: bold+italic, bold, italic, italic (underscore).
var markupPattern = regexp.MustCompile(`\*\*\*(.+?)\*\*\*|\*\*(.+?)\*\*|\*(.+?)\*|_(.+?)_`)

// ParseRichText converts one line of marked-up text into styled runs.
// Matches are non-overlapping, left to right; unmatched spans become plain
// runs. Empty or whitespace-only input yields no runs; markup-free input
// yields a single plain run with the full text.
func ParseRichText(text string) []RichText {
	if strings.TrimSpace(text) == "" {
		return []RichText{}
	}

	matches := markupPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return capRuns([]RichText{Text(text)})
	}

	var runs []RichText
	last := 0
	for _, m := range matches {
		if m[0] > last {
			runs = append(runs, plainRun(text[last:m[0]]))
		}

		var content string
		var bold, italic bool
		switch {
		case m[2] >= 0: // ***text***
			content, bold, italic = text[m[2]:m[3]], true, true
		case m[4] >= 0: // **text**
			content, bold = text[m[4]:m[5]], true
		case m[6] >= 0: // *text*
			content, italic = text[m[6]:m[7]], true
		case m[8] >= 0: // _text_
			content, italic = text[m[8]:m[9]], true
		}
		if content != "" {
			run := Text(content)
			run.Annotations = &Annotations{Bold: bold, Italic: italic}
			runs = append(runs, run)
		}

		last = m[1]
	}
	if last < len(text) {
		runs = append(runs, plainRun(text[last:]))
	}

	if len(runs) == 0 {
		return capRuns([]RichText{Text(text)})
	}
	return capRuns(runs)
}

func plainRun(content string) RichText {
	run := Text(content)
	run.Annotations = &Annotations{}
	return run
}

// capRuns splits any run whose content exceeds RunLimit into several runs
// carrying the same annotations, so a block never holds an over-limit run.
func capRuns(runs []RichText) []RichText {
	capped := make([]RichText, 0, len(runs))
	for _, r := range runs {
		if len(r.Text.Content) <= RunLimit {
			capped = append(capped, r)
			continue
		}
		for _, chunk := range ChunkText(r.Text.Content, RunLimit) {
			part := r
			part.Text.Content = chunk
			capped = append(capped, part)
		}
	}
	return capped
}
