package notion

import (
	"strings"
	"unicode/utf8"
)

const (
	// CodeChunkLimit bounds each code block's text.
	CodeChunkLimit = 1900
	// RunLimit bounds a single rich text run's content.
	RunLimit = 2000
)

// ChunkCode splits code into chunks of at most limit characters, breaking
// only at line boundaries. A single line longer than the limit becomes its
// own chunk rather than being cut mid-line. Concatenating the chunks
// reconstructs the input exactly.
func ChunkCode(code string, limit int) []string {
	lines := strings.SplitAfter(code, "\n")
	var chunks []string
	var current strings.Builder
	for _, line := range lines {
		if current.Len() > 0 && current.Len()+len(line) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 || len(chunks) == 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// ChunkText splits free text into chunks of at most limit bytes. Each split
// prefers the last newline in the window, then the last space, as long as the
// break falls at or past the window's midpoint; otherwise it cuts hard at the
// limit, backed up to a rune boundary so multibyte text survives intact.
// Concatenating the chunks reconstructs the input exactly.
func ChunkText(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		window := text[:limit]
		cut := strings.LastIndexByte(window, '\n')
		if cut < limit/2 {
			cut = strings.LastIndexByte(window, ' ')
		}
		if cut < limit/2 {
			cut = limit - 1
			for cut > 0 && !utf8.RuneStart(text[cut+1]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut+1])
		text = text[cut+1:]
	}
	if len(text) > 0 || len(chunks) == 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
