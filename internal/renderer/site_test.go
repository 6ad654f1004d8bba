package renderer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteRenderShell(t *testing.T) {
	ctx := testContext(t, map[string]string{
		"01_01_intro.md": "# Введение\n",
	})

	require.NoError(t, NewSiteRenderer().Render(ctx))

	shell := readFile(t, filepath.Join(ctx.Root, "index.html"))
	assert.Contains(t, shell, `<html lang="ru">`)
	assert.Contains(t, shell, "<title>Информатика</title>")
	assert.Contains(t, shell, "Базовый курс")
	assert.Contains(t, shell, "docsify")
}

func TestSiteRenderSidebar(t *testing.T) {
	ctx := testContext(t, map[string]string{
		"01_01_intro.md":  "# Введение\n",
		"01_02_data.md":   "# Данные\n",
		"02_01_osnovy.md": "# Основы\n",
	})

	require.NoError(t, NewSiteRenderer().Render(ctx))

	sidebar := readFile(t, filepath.Join(ctx.Root, "_sidebar.md"))
	assert.Contains(t, sidebar, "* **1. Понятие информации**\n")
	assert.Contains(t, sidebar, "  * [1.1 Введение](/book/01_01_intro.md)\n")
	assert.Contains(t, sidebar, "  * [1.2 Данные](/book/01_02_data.md)\n")
	assert.Contains(t, sidebar, "* **2. Технические средства**\n")
	assert.Contains(t, sidebar, "  * [2.1 Основы](/book/02_01_osnovy.md)\n")
}
