package sync

import (
	"strings"

	"github.com/neelbansal/leetion/internal/notion"
)

// Solution is one code block recovered from a page's Solution(s) section.
type Solution struct {
	Language string
	Caption  string
	Code     string
}

// PageContent is what a page's existing blocks yield on re-read: the Notes
// section reconstructed as markdown-ish text, and the saved solutions.
type PageContent struct {
	Notes     string
	Solutions []Solution
}

// ExtractContent walks a page's blocks once, tracking the current section by
// H2 heading text. Notes paragraphs and list items are rejoined into text;
// code blocks under Solution(s) are collected with their language and
// caption.
func ExtractContent(blocks []notion.Block) PageContent {
	var content PageContent
	var notes strings.Builder
	section := ""

	appendNote := func(prefix, text string) {
		if text == "" {
			return
		}
		if notes.Len() > 0 {
			notes.WriteByte('\n')
		}
		notes.WriteString(prefix)
		notes.WriteString(text)
	}

	for _, b := range blocks {
		if b.Type == notion.TypeHeading2 {
			section = strings.ToLower(b.Plain())
			continue
		}

		switch section {
		case "notes":
			switch b.Type {
			case notion.TypeParagraph:
				appendNote("", b.Plain())
			case notion.TypeBulletedItem:
				appendNote("- ", b.Plain())
			case notion.TypeNumberedItem:
				appendNote("1. ", b.Plain())
			}
		case "solution(s)":
			if b.Type != notion.TypeCode || b.Code == nil {
				continue
			}
			code := b.Plain()
			if code == "" {
				continue
			}
			lang := notion.NormalizeLanguageTag(b.Code.Language)
			if lang == "" {
				lang = "plain text"
			}
			caption := ""
			if len(b.Code.Caption) > 0 {
				caption = b.Code.Caption[0].Plain()
			}
			content.Solutions = append(content.Solutions, Solution{
				Language: lang,
				Caption:  caption,
				Code:     code,
			})
		}
	}

	content.Notes = notes.String()
	return content
}
