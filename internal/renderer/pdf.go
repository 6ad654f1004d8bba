package renderer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gtext "github.com/yuin/goldmark/text"

	"github.com/pioh/bookforge/internal/catalog"
	"github.com/pioh/bookforge/internal/config"
	"github.com/pioh/bookforge/internal/outline"
	"github.com/pioh/bookforge/internal/resolver"
	"github.com/pioh/bookforge/internal/utils"
)

const (
	pdfBodySize   = 10
	pdfLineHt     = 5 // mm
	pdfCodeSize   = 8
	pdfTocSize    = 10
	pdfTocSubSize = 9
)

// dejavu system locations tried when [output.pdf] does not name font files.
var defaultFontCandidates = map[string][]string{
	"regular": {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	},
	"bold": {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf",
	},
	"mono": {
		"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
		"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
		"/usr/share/fonts/dejavu/DejaVuSansMono.ttf",
	},
}

// pdfFonts holds resolved TTF paths. The core PDF fonts carry no Cyrillic
// glyphs, so UTF-8 fonts are mandatory for this output.
type pdfFonts struct {
	Regular string
	Bold    string
	Mono    string
}

// ResolvePdfFonts locates the TTF files for the PDF output, preferring the
// configured paths and falling back to common DejaVu locations. A missing
// font is an environment error: it is reported before anything is written.
func ResolvePdfFonts(out *config.PdfOutput) (*pdfFonts, error) {
	fonts := &pdfFonts{}
	for _, f := range []struct {
		kind       string
		configured string
		dest       *string
	}{
		{"regular", out.Font, &fonts.Regular},
		{"bold", out.FontBold, &fonts.Bold},
		{"mono", out.FontMono, &fonts.Mono},
	} {
		if f.configured != "" {
			if !utils.FileExists(f.configured) {
				return nil, fmt.Errorf("pdf %s font '%s' not found", f.kind, f.configured)
			}
			*f.dest = f.configured
			continue
		}
		for _, candidate := range defaultFontCandidates[f.kind] {
			if utils.FileExists(candidate) {
				*f.dest = candidate
				break
			}
		}
		if *f.dest == "" {
			return nil, fmt.Errorf("no %s font found; set [output.pdf] font paths in book.toml", f.kind)
		}
	}
	return fonts, nil
}

// PdfRenderer concatenates all chapters into one paginated PDF with a title
// page, a generated table of contents, embedded bookmarks and working
// in-document links. Chapter content is resolved with the document scheme and
// composed from the goldmark AST.
type PdfRenderer struct{}

// NewPdfRenderer creates the PDF renderer.
func NewPdfRenderer() *PdfRenderer {
	return &PdfRenderer{}
}

// Name implements Renderer.
func (r *PdfRenderer) Name() string { return "pdf" }

// Render implements Renderer.
func (r *PdfRenderer) Render(ctx *Context) error {
	out := ctx.Config.Output.Pdf
	fonts, err := ResolvePdfFonts(out)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ctx.Config.Book.Title, true)
	pdf.SetCreator("bookforge", true)
	pdf.AddUTF8Font("main", "", fonts.Regular)
	pdf.AddUTF8Font("main", "B", fonts.Bold)
	pdf.AddUTF8Font("mono", "", fonts.Mono)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("main", "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	doc := &pdfDoc{
		pdf: pdf,
		ctx: ctx,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		links: make(map[string]int),
	}

	doc.titlePage()
	doc.tocPages()
	for _, ch := range ctx.Catalog.Chapters() {
		doc.chapter(ch)
	}

	if pdf.Err() {
		return fmt.Errorf("failed to compose pdf: %w", pdf.Error())
	}
	path := filepath.Join(ctx.Root, out.File)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf '%s': %w", path, err)
	}
	return nil
}

// pdfDoc carries the composition state for one document.
type pdfDoc struct {
	pdf   *gofpdf.Fpdf
	ctx   *Context
	md    goldmark.Markdown
	links map[string]int // anchor name -> gofpdf link id
}

// linkID returns the gofpdf link id for an anchor, allocating it on first use
// so the ToC can reference targets that are only positioned later.
func (d *pdfDoc) linkID(anchor string) int {
	id, ok := d.links[anchor]
	if !ok {
		id = d.pdf.AddLink()
		d.links[anchor] = id
	}
	return id
}

// anchorHere binds an anchor to the current page and position.
func (d *pdfDoc) anchorHere(anchor string) {
	d.pdf.SetLink(d.linkID(anchor), -1, -1)
}

func (d *pdfDoc) titlePage() {
	d.pdf.AddPage()
	d.pdf.SetY(80)
	d.pdf.SetFont("main", "B", 20)
	d.pdf.MultiCell(0, 10, d.ctx.Config.Book.Title, "", "C", false)
	if d.ctx.Config.Book.Subtitle != "" {
		d.pdf.Ln(8)
		d.pdf.SetFont("main", "", 12)
		d.pdf.MultiCell(0, 7, d.ctx.Config.Book.Subtitle, "", "C", false)
	}
	d.pdf.Ln(40)
	d.pdf.SetFont("main", "", 12)
	d.pdf.CellFormat(0, 7, fmt.Sprintf("%d", d.ctx.Now.Year()), "", 1, "C", false, 0, "")
}

// tocPages emits the table of contents: section lines, chapter entries and
// surviving second-level heading sub-entries, all linked into the document.
func (d *pdfDoc) tocPages() {
	d.pdf.AddPage()
	d.pdf.SetFont("main", "B", 14)
	d.pdf.CellFormat(0, 10, "ОГЛАВЛЕНИЕ", "", 1, "C", false, 0, "")
	d.pdf.Ln(2)

	leftMargin, _, _, _ := d.pdf.GetMargins()
	for _, sec := range d.ctx.Catalog.Sections {
		d.pdf.Ln(2)
		d.pdf.SetFont("main", "B", 11)
		d.pdf.MultiCell(0, 6, fmt.Sprintf("Раздел %d: %s", sec.Number, sec.Name), "", "L", false)

		for _, ch := range sec.Chapters {
			d.pdf.SetX(leftMargin + 4)
			d.pdf.SetFont("main", "", pdfTocSize)
			d.pdf.Write(pdfLineHt, ch.DisplayNumber()+". ")
			d.linkColor()
			d.pdf.WriteLinkID(pdfLineHt, ch.Title, d.linkID(ch.Anchor()))
			d.textColor()
			d.pdf.Ln(pdfLineHt)

			for _, h := range outline.ScanHeadings(ch.Content) {
				if outline.Boilerplate(h.Text) {
					continue
				}
				d.pdf.SetX(leftMargin + 10)
				d.pdf.SetFont("main", "", pdfTocSubSize)
				d.linkColor()
				d.pdf.WriteLinkID(4.5, headingLabel(h.Text), d.linkID(outline.HeadingAnchor(ch, h.Ordinal)))
				d.textColor()
				d.pdf.Ln(4.5)
			}
		}
	}
}

// chapter starts the chapter on a fresh page, binds its anchor and bookmark,
// then composes the resolved markdown body.
func (d *pdfDoc) chapter(ch *catalog.Chapter) {
	d.pdf.AddPage()
	d.anchorHere(ch.Anchor())
	d.pdf.Bookmark(ch.DisplayNumber()+". "+ch.Title, 0, -1)

	content := d.ctx.Resolver.Resolve(ch.Content, resolver.Document)
	source := []byte(content)
	root := d.md.Parser().Parse(gtext.NewReader(source))

	state := &chapterState{
		chapter:  ch,
		headings: outline.ScanHeadings(ch.Content),
	}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		d.block(n, source, state, 0)
	}
}

// chapterState tracks heading ordinal assignment while walking a chapter.
// Anchors are assigned by matching AST headings against the shared line scan,
// so ToC sub-entries and body anchors always agree.
type chapterState struct {
	chapter  *catalog.Chapter
	headings []outline.Heading
	next     int
}

func (d *pdfDoc) block(n ast.Node, source []byte, state *chapterState, indent float64) {
	switch b := n.(type) {
	case *ast.Heading:
		d.heading(b, source, state)
	case *ast.Paragraph, *ast.TextBlock:
		d.pdf.SetFont("main", "", pdfBodySize)
		d.inlines(n, source, false)
		d.pdf.Ln(pdfLineHt)
		d.pdf.Ln(2)
	case *ast.List:
		d.list(b, source, state, indent)
	case *ast.FencedCodeBlock:
		d.codeLines(b.Lines(), source)
	case *ast.CodeBlock:
		d.codeLines(b.Lines(), source)
	case *ast.Blockquote:
		leftMargin, _, _, _ := d.pdf.GetMargins()
		d.pdf.SetLeftMargin(leftMargin + 6)
		d.pdf.SetX(leftMargin + 6)
		for c := b.FirstChild(); c != nil; c = c.NextSibling() {
			d.block(c, source, state, indent)
		}
		d.pdf.SetLeftMargin(leftMargin)
	case *ast.ThematicBreak:
		d.pdf.Ln(2)
		x, y := d.pdf.GetX(), d.pdf.GetY()
		pageWidth, _ := d.pdf.GetPageSize()
		_, _, rightMargin, _ := d.pdf.GetMargins()
		d.pdf.SetDrawColor(200, 200, 200)
		d.pdf.Line(x, y, pageWidth-rightMargin, y)
		d.pdf.Ln(4)
	case *ast.HTMLBlock:
		// Raw HTML has no place in the paginated document.
	}
}

func (d *pdfDoc) heading(h *ast.Heading, source []byte, state *chapterState) {
	text := nodeText(h, source)

	if h.Level == 2 {
		// Bind the body anchor for this heading using the shared scan. Both
		// sides are normalized so inline markup in the source line cannot
		// desync the ordinals; a heading goldmark sees but the scanner did
		// not (setext form) gets no anchor and consumes no ordinal.
		if state.next < len(state.headings) && headingKey(state.headings[state.next].Text) == headingKey(text) {
			ord := state.headings[state.next].Ordinal
			state.next++
			d.pdf.Ln(3)
			d.anchorHere(outline.HeadingAnchor(state.chapter, ord))
			if !outline.Boilerplate(text) {
				d.pdf.Bookmark(text, 1, -1)
			}
		} else {
			d.pdf.Ln(3)
		}
		d.pdf.SetFont("main", "B", 11)
		d.pdf.MultiCell(0, 6, text, "", "L", false)
		d.pdf.Ln(1)
		return
	}

	switch h.Level {
	case 1:
		d.pdf.SetFont("main", "B", 14)
		d.pdf.MultiCell(0, 7, text, "", "C", false)
		d.pdf.Ln(3)
	case 3:
		d.pdf.Ln(2)
		d.pdf.SetFont("main", "B", pdfBodySize)
		d.pdf.MultiCell(0, 5.5, text, "", "L", false)
		d.pdf.Ln(1)
	default:
		d.pdf.Ln(2)
		d.pdf.SetFont("main", "B", pdfBodySize)
		d.pdf.MultiCell(0, 5, text, "", "L", false)
	}
}

func (d *pdfDoc) list(l *ast.List, source []byte, state *chapterState, indent float64) {
	leftMargin, _, _, _ := d.pdf.GetMargins()
	d.pdf.SetLeftMargin(leftMargin + 5)

	number := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•  "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}
		d.pdf.SetX(leftMargin + 5)
		d.pdf.SetFont("main", "", pdfBodySize)
		d.pdf.Write(pdfLineHt, marker)

		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.TextBlock, *ast.Paragraph:
				d.pdf.SetFont("main", "", pdfBodySize)
				d.inlines(c, source, false)
				d.pdf.Ln(pdfLineHt)
			default:
				d.block(c, source, state, indent+1)
			}
		}
	}

	d.pdf.SetLeftMargin(leftMargin)
	if indent == 0 {
		d.pdf.Ln(2)
	}
}

func (d *pdfDoc) codeLines(lines *gtext.Segments, source []byte) {
	d.pdf.SetFont("mono", "", pdfCodeSize)
	d.pdf.SetFillColor(245, 245, 245)
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		line := string(segment.Value(source))
		line = trimNewline(line)
		d.pdf.MultiCell(0, 4, line, "", "L", true)
	}
	d.pdf.Ln(2)
}

// inlines writes the inline children of a block, tracking bold state and
// emitting working links for in-document anchors.
func (d *pdfDoc) inlines(n ast.Node, source []byte, bold bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch i := c.(type) {
		case *ast.Text:
			d.setBodyFont(bold)
			d.pdf.Write(pdfLineHt, string(i.Segment.Value(source)))
			if i.SoftLineBreak() {
				d.pdf.Write(pdfLineHt, " ")
			} else if i.HardLineBreak() {
				d.pdf.Ln(pdfLineHt)
			}
		case *ast.String:
			d.setBodyFont(bold)
			d.pdf.Write(pdfLineHt, string(i.Value))
		case *ast.Emphasis:
			d.inlines(i, source, bold || i.Level >= 2)
		case *ast.CodeSpan:
			d.pdf.SetFont("mono", "", pdfBodySize-1)
			d.pdf.Write(pdfLineHt, nodeText(i, source))
			d.setBodyFont(bold)
		case *ast.Link:
			d.writeLink(i, source, bold)
		case *ast.AutoLink:
			url := string(i.URL(source))
			d.linkColor()
			d.setBodyFont(bold)
			d.pdf.WriteLinkString(pdfLineHt, url, url)
			d.textColor()
		case *ast.Image:
			// Images are dropped; keep the alt text so prose stays readable.
			d.setBodyFont(bold)
			d.pdf.Write(pdfLineHt, nodeText(i, source))
		case *ast.RawHTML:
			// skipped
		default:
			if c.Type() == ast.TypeInline {
				d.setBodyFont(bold)
				d.pdf.Write(pdfLineHt, nodeText(c, source))
			}
		}
	}
}

// writeLink emits a hyperlink. "#anchor" destinations become in-document
// links; anything else is an external URL.
func (d *pdfDoc) writeLink(l *ast.Link, source []byte, bold bool) {
	text := nodeText(l, source)
	dest := string(l.Destination)

	d.linkColor()
	d.setBodyFont(bold || hasBoldChild(l))
	if len(dest) > 1 && dest[0] == '#' {
		d.pdf.WriteLinkID(pdfLineHt, text, d.linkID(dest[1:]))
	} else {
		d.pdf.WriteLinkString(pdfLineHt, text, dest)
	}
	d.textColor()
	d.setBodyFont(bold)
}

func (d *pdfDoc) setBodyFont(bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont("main", style, pdfBodySize)
}

func (d *pdfDoc) linkColor() { d.pdf.SetTextColor(0, 102, 204) }
func (d *pdfDoc) textColor() { d.pdf.SetTextColor(0, 0, 0) }

// headingLabel strips inline markup from a scanned heading line for display
// in the table of contents.
func headingLabel(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(flattenInline(s), "*", ""))
}

// headingKey normalizes heading text for matching scanned source lines
// against parsed body headings, which goldmark reports with markup stripped.
func headingKey(s string) string {
	return strings.ReplaceAll(headingLabel(s), "_", "")
}

// nodeText flattens a node's inline content to plain text.
func nodeText(n ast.Node, source []byte) string {
	var out []byte
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			out = append(out, t.Segment.Value(source)...)
			if t.SoftLineBreak() || t.HardLineBreak() {
				out = append(out, ' ')
			}
		case *ast.String:
			out = append(out, t.Value...)
		}
		return ast.WalkContinue, nil
	})
	return string(out)
}

func hasBoldChild(n ast.Node) bool {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if e, ok := c.(*ast.Emphasis); ok && e.Level >= 2 {
			return true
		}
	}
	return false
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
