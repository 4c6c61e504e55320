// Package notes converts markdown-like free text into page content blocks.
package notes

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/neelbansal/leetion/internal/notion"
)

var (
	headingMarker  = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)
	bulletMarker   = regexp.MustCompile(`^[-*]\s+(.+)$`)
	numberedMarker = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
)

// ToBlocks parses note text line by line. Heading and list marker lines emit
// their block immediately; consecutive plain lines accumulate and flush as a
// single paragraph (chunked if long) so prose is not shredded into
// one-per-line paragraphs. A blank line flushes the buffer and leaves an
// empty paragraph as a spacer. Empty input yields no blocks.
func ToBlocks(text string) []notion.Block {
	var blocks []notion.Block
	var buffer []string

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		joined := strings.Join(buffer, "\n")
		buffer = nil
		for _, chunk := range notion.ChunkText(joined, notion.RunLimit) {
			blocks = append(blocks, notion.NewRichParagraph(chunk))
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			flush()
			blocks = append(blocks, notion.NewParagraph(""))
			continue
		}

		if m := headingMarker.FindStringSubmatch(line); m != nil {
			flush()
			switch len(m[1]) {
			case 1:
				blocks = append(blocks, notion.NewHeading1(m[2]))
			case 2:
				blocks = append(blocks, notion.NewHeading2(m[2]))
			default:
				blocks = append(blocks, notion.NewHeading3(m[2]))
			}
			continue
		}
		if m := bulletMarker.FindStringSubmatch(line); m != nil {
			flush()
			blocks = append(blocks, notion.NewBulletedItem(m[1]))
			continue
		}
		if m := numberedMarker.FindStringSubmatch(line); m != nil {
			flush()
			blocks = append(blocks, notion.NewNumberedItem(m[1]))
			continue
		}

		buffer = append(buffer, line)
	}
	flush()

	return blocks
}
