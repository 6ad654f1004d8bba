package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gtext "github.com/yuin/goldmark/text"

	"github.com/pioh/bookforge/internal/catalog"
	"github.com/pioh/bookforge/internal/config"
	"github.com/pioh/bookforge/internal/outline"
)

func TestResolvePdfFontsConfiguredPathMissing(t *testing.T) {
	_, err := ResolvePdfFonts(&config.PdfOutput{
		Font: filepath.Join(t.TempDir(), "nope.ttf"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolvePdfFontsConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"r.ttf", "b.ttf", "m.ttf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644))
	}

	fonts, err := ResolvePdfFonts(&config.PdfOutput{
		Font:     filepath.Join(dir, "r.ttf"),
		FontBold: filepath.Join(dir, "b.ttf"),
		FontMono: filepath.Join(dir, "m.ttf"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "r.ttf"), fonts.Regular)
	assert.Equal(t, filepath.Join(dir, "b.ttf"), fonts.Bold)
	assert.Equal(t, filepath.Join(dir, "m.ttf"), fonts.Mono)
}

// systemFonts resolves the default font candidates, skipping the test when the
// machine has no DejaVu installation.
func systemFonts(t *testing.T) *pdfFonts {
	t.Helper()
	fonts, err := ResolvePdfFonts(&config.PdfOutput{File: "textbook.pdf"})
	if err != nil {
		t.Skipf("no system fonts available: %v", err)
	}
	return fonts
}

func TestPdfRenderWritesDocument(t *testing.T) {
	systemFonts(t)

	ctx := testContext(t, map[string]string{
		"01_01_intro.md": "# Глава 1.1: Введение\n\n## **Первая** тема\n\nТекст со ссылкой на **Глава 1.2**.\n\n## Резюме\n\nИтоги.\n",
		"01_02_data.md":  "# Глава 1.2: Данные\n\n## Хранение\n\n- список\n\n```\ncode\n```\n",
	})

	require.NoError(t, NewPdfRenderer().Render(ctx))

	data, err := os.ReadFile(filepath.Join(ctx.Root, "textbook.pdf"))
	require.NoError(t, err)
	require.True(t, len(data) > 5)
	assert.Equal(t, "%PDF-", string(data[:5]))
}

// Mirrors the body anchor binding walk: every ATX second-level heading in the
// parsed chapter must match the line scan entry holding its ordinal, even when
// the heading carries inline markup, so the ToC never links an anchor the body
// fails to bind.
func TestBodyHeadingBindingWithInlineMarkup(t *testing.T) {
	content := "# Глава 1.2: Темы\n\n## **Жирная** тема\n\nтекст\n\n## Резюме\n\nитоги\n\n## `код` в заголовке\n"
	headings := outline.ScanHeadings(content)
	require.Len(t, headings, 3)

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	source := []byte(content)
	root := md.Parser().Parse(gtext.NewReader(source))

	next := 0
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 2 {
			continue
		}
		require.Less(t, next, len(headings))
		assert.Equal(t, headingKey(headings[next].Text), headingKey(nodeText(h, source)))
		next++
	}
	assert.Equal(t, len(headings), next)

	// Surviving sub-entries address _h2_0 and _h2_2; the denylisted heading
	// consumes the ordinal in between.
	ch := &catalog.Chapter{Section: 1, Number: 2}
	var anchors []string
	for _, h := range headings {
		if outline.Boilerplate(h.Text) {
			continue
		}
		anchors = append(anchors, outline.HeadingAnchor(ch, h.Ordinal))
	}
	assert.Equal(t, []string{"chapter_01_02_h2_0", "chapter_01_02_h2_2"}, anchors)
}

func TestHeadingLabel(t *testing.T) {
	assert.Equal(t, "Жирная тема", headingLabel("**Жирная** тема"))
	assert.Equal(t, "код в заголовке", headingLabel("`код` в заголовке"))
	assert.Equal(t, "Ссылка тема", headingLabel("[Ссылка](01_01_intro.md) тема"))
}

func TestTrimNewline(t *testing.T) {
	assert.Equal(t, "line", trimNewline("line\r\n"))
	assert.Equal(t, "line", trimNewline("line\n"))
	assert.Equal(t, "", trimNewline("\n"))
}
