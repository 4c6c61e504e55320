package notion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanCode(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain code untouched",
			in:   "def f():\n    return 1",
			want: "def f():\n    return 1",
		},
		{
			name: "non-breaking spaces become spaces",
			in:   "a\u00A0=\u00A01",
			want: "a = 1",
		},
		{
			name: "en space range becomes spaces",
			in:   "a\u2003b\u2009c",
			want: "a b c",
		},
		{
			name: "zero-width characters removed",
			in:   "a\u200B\u200Cb\u200D\uFEFF",
			want: "ab",
		},
		{
			name: "middle dot becomes space",
			in:   "x\u00B7y",
			want: "x y",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanCode(tc.in))
		})
	}
}

func TestLanguageTag(t *testing.T) {
	assert.Equal(t, "python", LanguageTag("Python3"))
	assert.Equal(t, "sql", LanguageTag("MySQL"))
	assert.Equal(t, "javascript", LanguageTag("React"))
	assert.Equal(t, "c++", LanguageTag("C++"))
	assert.Equal(t, "plain text", LanguageTag("Brainfuck"))
	assert.Equal(t, "plain text", LanguageTag(""))
}

func TestNormalizeLanguageTag(t *testing.T) {
	assert.Equal(t, "c++", NormalizeLanguageTag("cpp"))
	assert.Equal(t, "c#", NormalizeLanguageTag("csharp"))
	assert.Equal(t, "python", NormalizeLanguageTag("python"))
}

func TestBlockRuns(t *testing.T) {
	blocks := []Block{
		NewHeading("Solution(s)"),
		NewSubheading("Python3 - Solution 1"),
		NewParagraph("some text"),
		NewBulletedItem("a point"),
		NewNumberedItem("a step"),
		NewQuote("a quote"),
		NewCodeBlock("print(1)", "python", "Python3"),
	}
	want := []string{
		"Solution(s)",
		"Python3 - Solution 1",
		"some text",
		"a point",
		"a step",
		"a quote",
		"print(1)",
	}
	require.Len(t, blocks, len(want))
	for i, b := range blocks {
		assert.Equal(t, want[i], b.Plain())
	}
}

func TestNewParagraphBlank(t *testing.T) {
	b := NewParagraph("   ")
	require.NotNil(t, b.Paragraph)
	assert.Empty(t, b.Paragraph.RichText)
}

func TestBuildersCapRunLength(t *testing.T) {
	long := strings.Repeat("x", RunLimit*2+50)

	for name, block := range map[string]Block{
		"bulleted item": NewBulletedItem(long),
		"quote":         NewQuote(long),
		"paragraph":     NewParagraph(long),
		"code":          NewCodeBlock(long, "plain text", ""),
	} {
		runs := block.Runs()
		require.Greater(t, len(runs), 1, name)
		for i, run := range runs {
			assert.LessOrEqual(t, len(run.Text.Content), RunLimit, "%s run %d", name, i)
		}
		assert.Equal(t, long, block.Plain(), name)
	}
}

func TestNewCodeBlockCaption(t *testing.T) {
	b := NewCodeBlock("code", "python", "Python3")
	require.NotNil(t, b.Code)
	require.Len(t, b.Code.Caption, 1)
	assert.Equal(t, "Python3", b.Code.Caption[0].Plain())

	noCaption := NewCodeBlock("code", "go", "")
	assert.Empty(t, noCaption.Code.Caption)
}
