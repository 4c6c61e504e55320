package notion

import "strings"

// Block types used by the page template.
const (
	TypeHeading1     = "heading_1"
	TypeHeading2     = "heading_2"
	TypeHeading3     = "heading_3"
	TypeParagraph    = "paragraph"
	TypeBulletedItem = "bulleted_list_item"
	TypeNumberedItem = "numbered_list_item"
	TypeQuote        = "quote"
	TypeCode         = "code"
)

// TextContent is the literal text of a rich text run.
type TextContent struct {
	Content string `json:"content"`
}

// Annotations are the style flags on a rich text run.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color,omitempty"`
}

// RichText is one styled text run. Content must not exceed RunLimit; longer
// text is pre-split by the chunkers before a run is built.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        TextContent  `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
}

// Text builds a plain unstyled run.
func Text(content string) RichText {
	return RichText{Type: "text", Text: TextContent{Content: content}}
}

// Plain returns the run's text, preferring the server-populated plain_text.
func (r RichText) Plain() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	return r.Text.Content
}

// JoinPlain concatenates the plain text of a run sequence.
func JoinPlain(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Plain())
	}
	return b.String()
}

// RichTextValue is the content payload shared by headings, paragraphs, list
// items and quotes.
type RichTextValue struct {
	RichText []RichText `json:"rich_text"`
}

// CodeValue is the content payload of a code block.
type CodeValue struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
	Caption  []RichText `json:"caption"`
}

// Block is one node in a page's ordered content sequence. Exactly one of the
// typed payloads is set, selected by Type. ID is assigned by the server and
// absent before creation.
type Block struct {
	Object       string         `json:"object,omitempty"`
	ID           string         `json:"id,omitempty"`
	Type         string         `json:"type"`
	Heading1     *RichTextValue `json:"heading_1,omitempty"`
	Heading2     *RichTextValue `json:"heading_2,omitempty"`
	Heading3     *RichTextValue `json:"heading_3,omitempty"`
	Paragraph    *RichTextValue `json:"paragraph,omitempty"`
	BulletedItem *RichTextValue `json:"bulleted_list_item,omitempty"`
	NumberedItem *RichTextValue `json:"numbered_list_item,omitempty"`
	Quote        *RichTextValue `json:"quote,omitempty"`
	Code         *CodeValue     `json:"code,omitempty"`
}

// Runs returns the block's rich text runs, whatever its type.
func (b Block) Runs() []RichText {
	switch b.Type {
	case TypeHeading1:
		if b.Heading1 != nil {
			return b.Heading1.RichText
		}
	case TypeHeading2:
		if b.Heading2 != nil {
			return b.Heading2.RichText
		}
	case TypeHeading3:
		if b.Heading3 != nil {
			return b.Heading3.RichText
		}
	case TypeParagraph:
		if b.Paragraph != nil {
			return b.Paragraph.RichText
		}
	case TypeBulletedItem:
		if b.BulletedItem != nil {
			return b.BulletedItem.RichText
		}
	case TypeNumberedItem:
		if b.NumberedItem != nil {
			return b.NumberedItem.RichText
		}
	case TypeQuote:
		if b.Quote != nil {
			return b.Quote.RichText
		}
	case TypeCode:
		if b.Code != nil {
			return b.Code.RichText
		}
	}
	return nil
}

// Plain returns the block's concatenated plain text.
func (b Block) Plain() string {
	return JoinPlain(b.Runs())
}

// NewHeading builds the H2 section heading used for the page template's
// Question / Solution(s) / Notes sections. The text is emitted verbatim:
// section detection matches it exactly on re-read.
func NewHeading(text string) Block {
	return Block{
		Object:   "block",
		Type:     TypeHeading2,
		Heading2: &RichTextValue{RichText: []RichText{Text(text)}},
	}
}

// NewSubheading builds an H3 heading with a single plain run.
func NewSubheading(text string) Block {
	return Block{
		Object:   "block",
		Type:     TypeHeading3,
		Heading3: &RichTextValue{RichText: []RichText{Text(text)}},
	}
}

// NewHeading1 builds an H1 heading from marked-up text.
func NewHeading1(text string) Block {
	return Block{
		Object:   "block",
		Type:     TypeHeading1,
		Heading1: &RichTextValue{RichText: ParseRichText(text)},
	}
}

// NewHeading2 builds an H2 heading from marked-up text.
func NewHeading2(text string) Block {
	return Block{
		Object:   "block",
		Type:     TypeHeading2,
		Heading2: &RichTextValue{RichText: ParseRichText(text)},
	}
}

// NewHeading3 builds an H3 heading from marked-up text.
func NewHeading3(text string) Block {
	return Block{
		Object:   "block",
		Type:     TypeHeading3,
		Heading3: &RichTextValue{RichText: ParseRichText(text)},
	}
}

// NewParagraph builds a plain paragraph. Blank text yields a structurally
// valid empty paragraph (used as a spacer).
func NewParagraph(text string) Block {
	runs := []RichText{}
	if strings.TrimSpace(text) != "" {
		runs = capRuns([]RichText{Text(text)})
	}
	return Block{
		Object:    "block",
		Type:      TypeParagraph,
		Paragraph: &RichTextValue{RichText: runs},
	}
}

// NewRichParagraph builds a paragraph whose runs come from the markup parser.
func NewRichParagraph(text string) Block {
	return Block{
		Object:    "block",
		Type:      TypeParagraph,
		Paragraph: &RichTextValue{RichText: ParseRichText(text)},
	}
}

// NewBoldParagraph builds a paragraph with a single bold run.
func NewBoldParagraph(text string) Block {
	run := Text(text)
	run.Annotations = &Annotations{Bold: true}
	return Block{
		Object:    "block",
		Type:      TypeParagraph,
		Paragraph: &RichTextValue{RichText: []RichText{run}},
	}
}

// NewBulletedItem builds a bulleted list item from marked-up text.
func NewBulletedItem(text string) Block {
	return Block{
		Object:       "block",
		Type:         TypeBulletedItem,
		BulletedItem: &RichTextValue{RichText: ParseRichText(text)},
	}
}

// NewNumberedItem builds a numbered list item from marked-up text.
func NewNumberedItem(text string) Block {
	return Block{
		Object:       "block",
		Type:         TypeNumberedItem,
		NumberedItem: &RichTextValue{RichText: ParseRichText(text)},
	}
}

// NewQuote builds a quote block from marked-up text.
func NewQuote(text string) Block {
	return Block{
		Object: "block",
		Type:   TypeQuote,
		Quote:  &RichTextValue{RichText: ParseRichText(text)},
	}
}

// NewCodeBlock builds a code block. The caption carries the editor's original
// language name so it can be recovered on re-read. Code past the run limit is
// spread over several runs of the same block.
func NewCodeBlock(code, language, caption string) Block {
	captionRuns := []RichText{}
	if caption != "" {
		captionRuns = []RichText{Text(caption)}
	}
	return Block{
		Object: "block",
		Type:   TypeCode,
		Code: &CodeValue{
			RichText: capRuns([]RichText{Text(code)}),
			Language: language,
			Caption:  captionRuns,
		},
	}
}

// languageTags maps editor language names to Notion code-block language tags.
var languageTags = map[string]string{
	"Python":        "python",
	"Python3":       "python",
	"JavaScript":    "javascript",
	"TypeScript":    "typescript",
	"Java":          "java",
	"C++":           "c++",
	"C":             "c",
	"C#":            "c#",
	"Ruby":          "ruby",
	"Swift":         "swift",
	"Go":            "go",
	"Kotlin":        "kotlin",
	"Rust":          "rust",
	"Scala":         "scala",
	"PHP":           "php",
	"Dart":          "dart",
	"Racket":        "racket",
	"Erlang":        "erlang",
	"Elixir":        "elixir",
	"MySQL":         "sql",
	"MS SQL Server": "sql",
	"Oracle":        "sql",
	"PostgreSQL":    "sql",
	"Pandas":        "python",
	"React":         "javascript",
}

// LanguageTag returns the code-block language tag for an editor language,
// falling back to "plain text".
func LanguageTag(language string) string {
	if tag, ok := languageTags[language]; ok {
		return tag
	}
	return "plain text"
}

// NormalizeLanguageTag fixes language tags written by old versions.
func NormalizeLanguageTag(tag string) string {
	switch tag {
	case "cpp":
		return "c++"
	case "csharp":
		return "c#"
	}
	return tag
}

// CleanCode replaces the non-breaking space variants and strips the
// zero-width characters that editor DOMs leak into copied code.
func CleanCode(code string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u00A0' || r == '\u1680' || r == '\u180E' ||
			r == '\u202F' || r == '\u205F' || r == '\u3000' || r == '\u00B7':
			return ' '
		case r >= '\u2000' && r <= '\u200A':
			return ' '
		case r == '\u200B' || r == '\u200C' || r == '\u200D' || r == '\uFEFF':
			return -1
		}
		return r
	}, code)
}
