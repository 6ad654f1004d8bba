package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pioh/bookforge/internal/catalog"
	"github.com/pioh/bookforge/internal/testutil"
)

func TestScanHeadingsOrdinals(t *testing.T) {
	content := `# Глава 1.1: Введение

## Первая тема

текст

## Резюме

## Вторая тема
`
	headings := ScanHeadings(content)
	require.Len(t, headings, 3)

	// The denylisted heading consumes an ordinal but is still reported;
	// filtering is the composer's job.
	assert.Equal(t, Heading{Text: "Первая тема", Ordinal: 0}, headings[0])
	assert.Equal(t, Heading{Text: "Резюме", Ordinal: 1}, headings[1])
	assert.Equal(t, Heading{Text: "Вторая тема", Ordinal: 2}, headings[2])
}

func TestScanHeadingsSkipsFencedCode(t *testing.T) {
	content := "## Настоящий\n\n```\n## не заголовок\n```\n\n## Тоже настоящий\n"

	headings := ScanHeadings(content)
	require.Len(t, headings, 2)
	assert.Equal(t, "Настоящий", headings[0].Text)
	assert.Equal(t, 1, headings[1].Ordinal)
}

func TestScanHeadingsIgnoresDeeperLevels(t *testing.T) {
	content := "## Тема\n\n### Подтема\n\n#### Мелочь\n"

	headings := ScanHeadings(content)
	require.Len(t, headings, 1)
	assert.Equal(t, "Тема", headings[0].Text)
}

func TestBoilerplate(t *testing.T) {
	assert.True(t, Boilerplate("Резюме"))
	assert.True(t, Boilerplate("КОНТРОЛЬНЫЕ ВОПРОСЫ"))
	assert.True(t, Boilerplate("Связь с другими главами"))
	assert.False(t, Boilerplate("Основные алгоритмы"))
}

func TestHeadingAnchor(t *testing.T) {
	_, dir := testutil.TempTextbook(t)
	testutil.WriteChapter(t, dir, "02_03_grafy.md", "# Графы\n")
	cat, err := catalog.NewScanner(dir, nil).Scan()
	require.NoError(t, err)

	ch, _ := cat.Lookup(2, 3)
	assert.Equal(t, "chapter_02_03_h2_0", HeadingAnchor(ch, 0))
	assert.Equal(t, "chapter_02_03_h2_2", HeadingAnchor(ch, 2))
}
