// Package outline extracts the second-level heading structure of a chapter
// for sub-tables-of-contents. It is a deliberate line scanner, not a markdown
// parser: only "## " lines outside fenced code blocks are recognized. The
// same scan drives both ToC sub-entries and the anchors injected into the
// rendered body, so the two always agree on ordinals.
package outline

import (
	"fmt"
	"strings"

	"github.com/pioh/bookforge/internal/catalog"
)

// Heading is one second-level heading with its zero-based position among all
// second-level headings of the chapter. Boilerplate headings keep their
// ordinal even though they are filtered from tables of contents.
type Heading struct {
	Text    string
	Ordinal int
}

// boilerplateHeadings are service headings repeated in every chapter; they
// never appear in generated sub-tables-of-contents.
var boilerplateHeadings = map[string]struct{}{
	"введение":                 {},
	"ключевые термины":         {},
	"контрольные вопросы":      {},
	"резюме":                   {},
	"связь с другими темами":   {},
	"связь с другими главами":  {},
}

// ScanHeadings returns every second-level heading of the chapter content in
// document order. Lines inside ``` or ~~~ fences are ignored.
func ScanHeadings(content string) []Heading {
	var headings []Heading
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimRight(line, " \t\r")
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			headings = append(headings, Heading{
				Text:    strings.TrimSpace(trimmed[3:]),
				Ordinal: len(headings),
			})
		}
	}
	return headings
}

// Boilerplate reports whether a heading title is on the denylist. Matching is
// case-insensitive.
func Boilerplate(title string) bool {
	_, ok := boilerplateHeadings[strings.ToLower(strings.TrimSpace(title))]
	return ok
}

// HeadingAnchor returns the in-document anchor for the heading with the given
// ordinal inside the chapter.
func HeadingAnchor(ch *catalog.Chapter, ordinal int) string {
	return fmt.Sprintf("%s_h2_%d", ch.Anchor(), ordinal)
}
