// Package resolver rewrites in-text chapter mentions ("Глава X.Y" in any
// grammatical case) into hyperlinks addressed for one of three targets: the
// markdown book export, the documentation site, or the single combined
// document. Text that is already part of a link is never linked twice.
package resolver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pioh/bookforge/internal/catalog"
)

// Scheme selects how a resolved mention is addressed.
type Scheme int

const (
	// Book links point at sibling "SS_CC_slug.md" files.
	Book Scheme = iota
	// Site links are absolute from the site root, e.g. "/book/SS_CC_slug.md".
	Site
	// Document links are in-document anchors of the form "#chapter_SS_CC".
	Document
)

// Mention shapes. Go's regexp has no lookaround, so the adjacency guards from
// the rule set are applied as byte checks around each match instead.
var (
	boldMention    = regexp.MustCompile(`\*\*([Гг]лав[аеуы]) (\d+)\.(\d+)\*\*`)
	bracketMention = regexp.MustCompile(`\[([Гг]лав[аеуы]) (\d+)\.(\d+)\]`)
	plainMention   = regexp.MustCompile(`([Гг]лав[аеуы]) (\d+)\.(\d+)`)

	linkedBoldMention = regexp.MustCompile(`\[\*\*([Гг]лав[аеуы]) (\d+)\.(\d+)\*\*\]\([^)]*\)`)
	linkedMention     = regexp.MustCompile(`\[([Гг]лав[аеуы]) (\d+)\.(\d+)\]\([^)]*\)`)
)

// Resolver rewrites chapter mentions against a fixed catalog. It performs no
// I/O and keeps no state between calls.
type Resolver struct {
	catalog  *catalog.Catalog
	siteBase string
}

// New creates a resolver. siteBase is the site-root prefix for the Site
// scheme; empty means "/book".
func New(cat *catalog.Catalog, siteBase string) *Resolver {
	if siteBase == "" {
		siteBase = "/book"
	}
	return &Resolver{catalog: cat, siteBase: strings.TrimSuffix(siteBase, "/")}
}

// Link returns the scheme-specific address of a chapter. Table-of-contents
// composers use this directly; Resolve uses it for every rewritten mention.
func (r *Resolver) Link(ch *catalog.Chapter, scheme Scheme) string {
	switch scheme {
	case Site:
		return r.siteBase + "/" + ch.Filename
	case Document:
		return "#" + ch.Anchor()
	default:
		return ch.Filename
	}
}

// Resolve rewrites every chapter mention in text into a hyperlink addressed
// per scheme. Mentions of chapters absent from the catalog are left
// byte-for-byte unchanged. The three rules run in a fixed order over the
// previous rule's output; adjacency guards keep each rule from re-matching
// text inside a link produced earlier, so the pass is idempotent.
func (r *Resolver) Resolve(text string, scheme Scheme) string {
	if scheme == Document {
		// Only the document scheme retargets mentions that are already
		// linked: the combined document has no per-chapter files to point at.
		text = r.retarget(text, linkedBoldMention, "[**", "**]")
		text = r.retarget(text, linkedMention, "[", "]")
	}

	// Rule 1: **Глава X.Y** not followed by "]".
	text = r.rewrite(text, boldMention, func(src string, m []int) bool {
		return !followedBy(src, m[1], ']')
	}, func(word, target string) string {
		return "[**" + word + "**](" + target + ")"
	}, scheme)

	// Rule 2: [Глава X.Y] not followed by "(".
	text = r.rewrite(text, bracketMention, func(src string, m []int) bool {
		return !followedBy(src, m[1], '(')
	}, func(word, target string) string {
		return "[" + word + "](" + target + ")"
	}, scheme)

	// Rule 3: a plain mention, not preceded by "[" or "*" and not followed
	// by "]".
	text = r.rewrite(text, plainMention, func(src string, m []int) bool {
		return !precededBy(src, m[0], '[', '*') && !followedBy(src, m[1], ']')
	}, func(word, target string) string {
		return "[" + word + "](" + target + ")"
	}, scheme)

	return text
}

// rewrite applies one mention rule: every guarded match whose (section,
// chapter) key exists in the catalog is replaced by build(word, target).
// word is the matched mention text ("главе 2.1"), preserving the original
// case form and unpadded digits.
func (r *Resolver) rewrite(text string, re *regexp.Regexp, guard func(string, []int) bool, build func(word, target string) string, scheme Scheme) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if !guard(text, m) {
			continue
		}
		target, ok := r.target(text[m[4]:m[5]], text[m[6]:m[7]], scheme)
		if !ok {
			continue
		}
		word := text[m[2]:m[3]] + " " + text[m[4]:m[5]] + "." + text[m[6]:m[7]]
		b.WriteString(text[last:m[0]])
		b.WriteString(build(word, target))
		last = m[1]
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// retarget rewrites an already-linked mention, discarding its original link
// target in favor of the in-document anchor. open and close are the wrappers
// put back around the mention text.
func (r *Resolver) retarget(text string, re *regexp.Regexp, open, closing string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		target, ok := r.target(text[m[4]:m[5]], text[m[6]:m[7]], Document)
		if !ok {
			continue
		}
		word := text[m[2]:m[3]] + " " + text[m[4]:m[5]] + "." + text[m[6]:m[7]]
		b.WriteString(text[last:m[0]])
		b.WriteString(open + word + closing + "(" + target + ")")
		last = m[1]
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// target resolves the textual "X.Y" pair against the catalog. Lookup is
// zero-padded; unknown keys report ok=false and the caller keeps the
// original text.
func (r *Resolver) target(section, chapter string, scheme Scheme) (string, bool) {
	s, err := strconv.Atoi(section)
	if err != nil {
		return "", false
	}
	c, err := strconv.Atoi(chapter)
	if err != nil {
		return "", false
	}
	ch, ok := r.catalog.Lookup(s, c)
	if !ok {
		return "", false
	}
	return r.Link(ch, scheme), true
}

func followedBy(src string, pos int, b byte) bool {
	return pos < len(src) && src[pos] == b
}

func precededBy(src string, pos int, bytes ...byte) bool {
	if pos == 0 {
		return false
	}
	for _, b := range bytes {
		if src[pos-1] == b {
			return true
		}
	}
	return false
}
