package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pioh/bookforge/internal/catalog"
	"github.com/pioh/bookforge/internal/testutil"
)

// testResolver builds a resolver over a catalog with chapters 1.1, 2.1 and 3.1.
func testResolver(t *testing.T) *Resolver {
	t.Helper()
	_, dir := testutil.TempTextbook(t)
	for name, content := range map[string]string{
		"01_01_vvedenie.md": "# Введение\n",
		"02_01_osnovy.md":   "# Глава 2.1: Основы\n",
		"03_01_seti.md":     "# Сети\n",
	} {
		testutil.WriteChapter(t, dir, name, content)
	}
	cat, err := catalog.NewScanner(dir, nil).Scan()
	require.NoError(t, err)
	return New(cat, "")
}

func TestResolveBoldMention(t *testing.T) {
	r := testResolver(t)

	in := "**Глава 2.1** описывает основы."
	assert.Equal(t, "[**Глава 2.1**](02_01_osnovy.md) описывает основы.", r.Resolve(in, Book))
	assert.Equal(t, "[**Глава 2.1**](/book/02_01_osnovy.md) описывает основы.", r.Resolve(in, Site))
	assert.Equal(t, "[**Глава 2.1**](#chapter_02_01) описывает основы.", r.Resolve(in, Document))
}

func TestResolveBracketedMention(t *testing.T) {
	r := testResolver(t)

	assert.Equal(t, "см. [Глава 1.1](01_01_vvedenie.md)", r.Resolve("см. [Глава 1.1]", Book))
}

func TestResolvePlainMentionPreservesCaseForm(t *testing.T) {
	r := testResolver(t)

	assert.Equal(t,
		"как сказано в [главе 2.1](02_01_osnovy.md) ранее",
		r.Resolve("как сказано в главе 2.1 ранее", Book))
	assert.Equal(t,
		"итоги [главы 3.1](03_01_seti.md)",
		r.Resolve("итоги главы 3.1", Book))
}

func TestResolveUnknownChapterUnchanged(t *testing.T) {
	r := testResolver(t)

	for _, in := range []string{
		"Глава 9.9 не существует",
		"**Глава 9.9** не существует",
		"[Глава 9.9] не существует",
	} {
		assert.Equal(t, in, r.Resolve(in, Book))
		assert.Equal(t, in, r.Resolve(in, Document))
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := testResolver(t)

	in := "**Глава 2.1**, [Глава 1.1] и просто глава 3.1."
	once := r.Resolve(in, Book)
	twice := r.Resolve(once, Book)
	assert.Equal(t, once, twice)
}

func TestDocumentSchemeRetargetsExistingLinks(t *testing.T) {
	r := testResolver(t)

	assert.Equal(t,
		"[Глава 1.1](#chapter_01_01)",
		r.Resolve("[Глава 1.1](03_01_foo.md)", Document))
	assert.Equal(t,
		"[**Глава 2.1**](#chapter_02_01)",
		r.Resolve("[**Глава 2.1**](old/target.md)", Document))
}

func TestBookSchemeLeavesExistingLinksAlone(t *testing.T) {
	r := testResolver(t)

	in := "[Глава 1.1](01_01_vvedenie.md) и [**Глава 2.1**](02_01_osnovy.md)"
	assert.Equal(t, in, r.Resolve(in, Book))
	assert.Equal(t, in, r.Resolve(in, Site))
}

func TestDocumentSchemeRetargetsUnknownLinkUnchanged(t *testing.T) {
	r := testResolver(t)

	in := "[Глава 9.9](somewhere.md)"
	assert.Equal(t, in, r.Resolve(in, Document))
}

func TestResolveMultipleMentions(t *testing.T) {
	r := testResolver(t)

	in := "Глава 1.1 и глава 2.1 связаны."
	assert.Equal(t,
		"[Глава 1.1](01_01_vvedenie.md) и [глава 2.1](02_01_osnovy.md) связаны.",
		r.Resolve(in, Book))
}

func TestResolveZeroPaddedLookup(t *testing.T) {
	r := testResolver(t)

	// "01.01" in prose is unusual but must resolve to the same chapter.
	assert.Equal(t,
		"[Глава 01.01](01_01_vvedenie.md)",
		r.Resolve("Глава 01.01", Book))
}

func TestLinkAddressesPerScheme(t *testing.T) {
	r := testResolver(t)
	ch, ok := r.catalog.Lookup(2, 1)
	require.True(t, ok)

	assert.Equal(t, "02_01_osnovy.md", r.Link(ch, Book))
	assert.Equal(t, "/book/02_01_osnovy.md", r.Link(ch, Site))
	assert.Equal(t, "#chapter_02_01", r.Link(ch, Document))
}

func TestSiteBaseOverride(t *testing.T) {
	_, dir := testutil.TempTextbook(t)
	testutil.WriteChapter(t, dir, "01_01_intro.md", "# Введение\n")
	cat, err := catalog.NewScanner(dir, nil).Scan()
	require.NoError(t, err)

	r := New(cat, "/docs/")
	ch, _ := cat.Lookup(1, 1)
	assert.Equal(t, "/docs/01_01_intro.md", r.Link(ch, Site))
}
