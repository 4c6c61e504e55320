package notion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCode(t *testing.T) {
	testCases := []struct {
		name  string
		code  string
		limit int
		want  []string
	}{
		{
			name:  "empty input yields one empty chunk",
			code:  "",
			limit: 10,
			want:  []string{""},
		},
		{
			name:  "short code is one chunk",
			code:  "a\nb\n",
			limit: 10,
			want:  []string{"a\nb\n"},
		},
		{
			name:  "splits only at line boundaries",
			code:  "a\nb\nc\n",
			limit: 4,
			want:  []string{"a\nb\n", "c\n"},
		},
		{
			name:  "oversized line becomes its own chunk",
			code:  "short\n" + strings.Repeat("x", 20) + "\nshort\n",
			limit: 10,
			want:  []string{"short\n", strings.Repeat("x", 20) + "\n", "short\n"},
		},
		{
			name:  "no trailing newline",
			code:  "aa\nbb",
			limit: 3,
			want:  []string{"aa\n", "bb"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChunkCode(tc.code, tc.limit)
			require.Equal(t, tc.want, got)
			assert.Equal(t, tc.code, strings.Join(got, ""))
		})
	}
}

func TestChunkText(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name:  "empty input yields one empty chunk",
			text:  "",
			limit: 10,
			want:  []string{""},
		},
		{
			name:  "short text is one chunk",
			text:  "hello",
			limit: 10,
			want:  []string{"hello"},
		},
		{
			name:  "prefers newline break",
			text:  "abcdefg\nhij klmnop",
			limit: 10,
			want:  []string{"abcdefg\n", "hij klmnop"},
		},
		{
			name:  "falls back to space break",
			text:  "hello world foo",
			limit: 10,
			want:  []string{"hello ", "world foo"},
		},
		{
			name:  "break before midpoint is rejected",
			text:  "ab " + strings.Repeat("x", 12),
			limit: 10,
			want:  []string{"ab xxxxxxx", "xxxxx"},
		},
		{
			name:  "hard cut with no break characters",
			text:  strings.Repeat("y", 25),
			limit: 10,
			want:  []string{strings.Repeat("y", 10), strings.Repeat("y", 10), strings.Repeat("y", 5)},
		},
		{
			name:  "hard cut backs up to a rune boundary",
			text:  "日本語の文",
			limit: 7,
			want:  []string{"日本", "語の", "文"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChunkText(tc.text, tc.limit)
			require.Equal(t, tc.want, got)
			assert.Equal(t, tc.text, strings.Join(got, ""))
		})
	}
}

func TestChunkTextKeepsRunesIntact(t *testing.T) {
	// Spaceless multibyte prose always takes the hard-cut path; every chunk
	// must still be valid UTF-8 or the text is corrupted once marshalled.
	text := strings.Repeat("界", 2000)
	chunks := ChunkText(text, RunLimit)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d splits a rune", i)
		assert.LessOrEqual(t, len(chunk), RunLimit)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkTextRespectsLimit(t *testing.T) {
	// A long run of prose with mixed break opportunities: every chunk stays
	// within the limit and concatenation reproduces the input.
	text := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 200)
	chunks := ChunkText(text, RunLimit)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), RunLimit, "chunk %d over limit", i)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}
