package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	docx "github.com/fumiama/go-docx"

	"github.com/pioh/bookforge/internal/catalog"
)

var (
	imageMarkdown = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkMarkdown  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	orderedItem   = regexp.MustCompile(`^\d+\. `)
)

// DocxRenderer writes the simplified rich-text edition: a single document
// with all chapters translated line by line from markdown. Content is not
// hyperlinked and no cross-reference rewriting happens; links are flattened
// to their text.
type DocxRenderer struct{}

// NewDocxRenderer creates the DOCX renderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// Name implements Renderer.
func (r *DocxRenderer) Name() string { return "docx" }

// Render implements Renderer.
func (r *DocxRenderer) Render(ctx *Context) error {
	out := ctx.Config.Output.Docx

	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph()
	title.Justification("center")
	title.AddText(ctx.Config.Book.Title).Size("40").Bold()
	if ctx.Config.Book.Subtitle != "" {
		subtitle := w.AddParagraph()
		subtitle.Justification("center")
		subtitle.AddText(ctx.Config.Book.Subtitle).Size("24")
	}

	for _, ch := range ctx.Catalog.Chapters() {
		r.writeChapter(w, ch)
	}

	path := filepath.Join(ctx.Root, out.File)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write docx '%s': %w", path, err)
	}
	return nil
}

func (r *DocxRenderer) writeChapter(w *docx.Docx, ch *catalog.Chapter) {
	w.AddParagraph() // spacing between chapters

	inFence := false
	for _, line := range strings.Split(ch.Content, "\n") {
		trimmed := strings.TrimRight(line, " \t\r")

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			w.AddParagraph().AddText(line).Size("16").Shade("clear", "auto", "F5F5F5")
			continue
		}
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "#### "):
			w.AddParagraph().AddText(flattenInline(trimmed[5:])).Size("22").Bold()
		case strings.HasPrefix(trimmed, "### "):
			w.AddParagraph().AddText(flattenInline(trimmed[4:])).Size("24").Bold()
		case strings.HasPrefix(trimmed, "## "):
			w.AddParagraph().AddText(flattenInline(trimmed[3:])).Size("28").Bold()
		case strings.HasPrefix(trimmed, "# "):
			w.AddParagraph().AddText(flattenInline(trimmed[2:])).Size("32").Bold()
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			writeSpans(w.AddParagraph(), "•  "+stripMarkup(trimmed[2:]))
		case orderedItem.MatchString(trimmed):
			writeSpans(w.AddParagraph(), stripMarkup(trimmed))
		case trimmed == "---":
			// Horizontal rules carry no content in the simplified edition.
		default:
			writeSpans(w.AddParagraph(), stripMarkup(trimmed))
		}
	}
}

// writeSpans splits a line on "**" markers and emits alternating regular and
// bold runs.
func writeSpans(p *docx.Paragraph, line string) {
	parts := strings.Split(line, "**")
	for i, part := range parts {
		if part == "" {
			continue
		}
		run := p.AddText(part)
		if i%2 == 1 {
			run.Bold()
		}
	}
}

// stripMarkup flattens links to their text, drops images and removes inline
// code backticks. Bold markers survive for writeSpans.
func stripMarkup(line string) string {
	line = imageMarkdown.ReplaceAllString(line, "")
	line = linkMarkdown.ReplaceAllString(line, "$1")
	return strings.ReplaceAll(line, "`", "")
}

// flattenInline is stripMarkup plus bold-marker removal, for headings that
// are styled as a whole.
func flattenInline(line string) string {
	return strings.ReplaceAll(stripMarkup(line), "**", "")
}
