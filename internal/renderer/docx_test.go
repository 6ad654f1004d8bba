package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pioh/bookforge/internal/config"
)

func TestDocxRenderWritesDocument(t *testing.T) {
	ctx := testContext(t, map[string]string{
		"01_01_intro.md": "# Введение\n\nОбычный текст с **жирным** фрагментом.\n\n- пункт списка\n\n```\ncode line\n```\n",
	})
	ctx.Config.Output.Docx = &config.DocxOutput{File: "textbook.docx"}

	require.NoError(t, NewDocxRenderer().Render(ctx))

	data, err := os.ReadFile(filepath.Join(ctx.Root, "textbook.docx"))
	require.NoError(t, err)
	// OOXML documents are zip archives.
	require.True(t, len(data) > 4)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "см. Глава 1.1 и код",
		stripMarkup("см. [Глава 1.1](01_01_intro.md) и `код`"))
	assert.Equal(t, "до  после",
		stripMarkup("до ![схема](img/schema.png) после"))
	assert.Equal(t, "**жирный** текст",
		stripMarkup("**жирный** текст"))
}

func TestFlattenInline(t *testing.T) {
	assert.Equal(t, "Глава 1.1: Введение",
		flattenInline("Глава 1.1: **Введение**"))
}
