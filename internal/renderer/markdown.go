package renderer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pioh/bookforge/internal/resolver"
	"github.com/pioh/bookforge/internal/utils"
)

// MarkdownRenderer exports the root index and the book directory: one
// relinked copy per chapter plus the book's own index, all using relative
// file links.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates the markdown book renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Name implements Renderer.
func (r *MarkdownRenderer) Name() string { return "markdown" }

// Render implements Renderer.
func (r *MarkdownRenderer) Render(ctx *Context) error {
	if err := utils.RemoveAll(ctx.DestDir); err != nil {
		return err
	}
	if err := utils.CreateDirAll(ctx.DestDir); err != nil {
		return err
	}

	if err := utils.WriteFile(filepath.Join(ctx.Root, "README.md"), []byte(r.rootIndex(ctx))); err != nil {
		return fmt.Errorf("failed to write root index: %w", err)
	}
	if err := utils.WriteFile(filepath.Join(ctx.DestDir, "README.md"), []byte(r.bookIndex(ctx))); err != nil {
		return fmt.Errorf("failed to write book index: %w", err)
	}

	for _, ch := range ctx.Catalog.Chapters() {
		content := ctx.Resolver.Resolve(ch.Content, resolver.Book)

		var b strings.Builder
		b.WriteString("[← К оглавлению](README.md)\n\n---\n\n")
		b.WriteString(content)
		fmt.Fprintf(&b, "\n\n---\n\n[← К оглавлению](README.md)\n\n*Глава %s: %s*\n",
			ch.DisplayNumber(), ch.Title)

		if err := utils.WriteFile(filepath.Join(ctx.DestDir, ch.Filename), []byte(b.String())); err != nil {
			return fmt.Errorf("failed to export chapter '%s': %w", ch.Filename, err)
		}
	}

	if err := utils.WriteFile(filepath.Join(ctx.Root, ".gitattributes"), []byte(r.gitattributes(ctx))); err != nil {
		return fmt.Errorf("failed to write .gitattributes: %w", err)
	}
	return nil
}

// rootIndex builds the top-level README.md with the full table of contents.
// Chapter links use the site scheme so they work both on the rendered site
// and when browsing the repository.
func (r *MarkdownRenderer) rootIndex(ctx *Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", ctx.Config.Book.Title)
	if ctx.Config.Book.Subtitle != "" {
		fmt.Fprintf(&b, "**%s**\n\n", ctx.Config.Book.Subtitle)
	}
	b.WriteString("---\n\n## 📖 Как читать\n\n")
	fmt.Fprintf(&b, "- **Онлайн**: [оглавление ниже](#-оглавление)\n")
	if ctx.Config.Output.Pdf != nil {
		fmt.Fprintf(&b, "- **PDF**: [скачать](./%s)\n", ctx.Config.Output.Pdf.File)
	}
	b.WriteString("\n---\n\n## 📚 Оглавление\n")

	for _, sec := range ctx.Catalog.Sections {
		fmt.Fprintf(&b, "\n### Раздел %d: %s\n\n", sec.Number, sec.Name)
		for _, ch := range sec.Chapters {
			fmt.Fprintf(&b, "%d. [**%s**](%s)\n", ch.Number, ch.Title, ctx.Resolver.Link(ch, resolver.Site))
		}
	}

	b.WriteString("\n---\n\n## 📊 Статистика\n\n")
	fmt.Fprintf(&b, "- **Всего глав**: %d\n", ctx.Catalog.Len())
	fmt.Fprintf(&b, "- **Разделов**: %d\n", len(ctx.Catalog.Sections))
	fmt.Fprintf(&b, "- **Последнее обновление**: %s\n", ctx.Now.Format("02.01.2006"))
	b.WriteString("\n---\n\n*Автоматически сгенерировано bookforge*\n")
	return b.String()
}

// bookIndex builds book/README.md with relative links into the same directory.
func (r *MarkdownRenderer) bookIndex(ctx *Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", ctx.Config.Book.Title)
	b.WriteString("[← Вернуться к главному оглавлению](../README.md)\n\n---\n\n## Оглавление\n")

	for _, sec := range ctx.Catalog.Sections {
		fmt.Fprintf(&b, "\n### Раздел %d: %s\n\n", sec.Number, sec.Name)
		for _, ch := range sec.Chapters {
			fmt.Fprintf(&b, "%d. [%s](%s)\n", ch.Number, ch.Title, ctx.Resolver.Link(ch, resolver.Book))
		}
	}

	b.WriteString("\n---\n\n*Автоматически сгенерировано*\n")
	return b.String()
}

// gitattributes marks every generated artifact so forges collapse them in
// diffs and language statistics.
func (r *MarkdownRenderer) gitattributes(ctx *Context) string {
	var b strings.Builder
	b.WriteString("# Автогенерированные файлы (создаются bookforge)\n\n")
	b.WriteString("/README.md linguist-generated=true\n")
	fmt.Fprintf(&b, "/%s/** linguist-generated=true\n", filepath.Base(ctx.DestDir))
	b.WriteString("/index.html linguist-generated=true\n")
	b.WriteString("/_sidebar.md linguist-generated=true\n")
	if ctx.Config.Output.Pdf != nil {
		fmt.Fprintf(&b, "/%s binary linguist-generated=true\n", ctx.Config.Output.Pdf.File)
	}
	if ctx.Config.Output.Docx != nil {
		fmt.Fprintf(&b, "/%s binary linguist-generated=true\n", ctx.Config.Output.Docx.File)
	}
	fmt.Fprintf(&b, "\n/%s/** linguist-generated=false\n", ctx.Config.Book.Chapters)
	return b.String()
}
