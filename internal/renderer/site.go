package renderer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/pioh/bookforge/internal/resolver"
	"github.com/pioh/bookforge/internal/utils"
)

// SiteRenderer emits the static documentation site: a Docsify HTML shell
// rendered from the embedded Handlebars template plus a sidebar document with
// site-scheme links. The shell loads chapters from the book export at runtime,
// so this renderer only templates.
type SiteRenderer struct{}

// NewSiteRenderer creates the site renderer.
func NewSiteRenderer() *SiteRenderer {
	return &SiteRenderer{}
}

// Name implements Renderer.
func (r *SiteRenderer) Name() string { return "site" }

// Render implements Renderer.
func (r *SiteRenderer) Render(ctx *Context) error {
	siteDir := ctx.Config.Build.SiteDir
	if !filepath.IsAbs(siteDir) {
		siteDir = filepath.Join(ctx.Root, siteDir)
	}

	shell, err := r.renderShell(ctx)
	if err != nil {
		return err
	}
	if err := utils.WriteFile(filepath.Join(siteDir, "index.html"), []byte(shell)); err != nil {
		return fmt.Errorf("failed to write site shell: %w", err)
	}

	if err := utils.WriteFile(filepath.Join(siteDir, "_sidebar.md"), []byte(r.sidebar(ctx))); err != nil {
		return fmt.Errorf("failed to write sidebar: %w", err)
	}
	return nil
}

// renderShell renders index.html from the embedded Handlebars template.
func (r *SiteRenderer) renderShell(ctx *Context) (string, error) {
	source, err := templatesFS.ReadFile("templates/index.html.hbs")
	if err != nil {
		return "", fmt.Errorf("failed to read shell template: %w", err)
	}

	language := ctx.Config.Book.Language
	if language == "" {
		language = "ru"
	}
	data := map[string]interface{}{
		"language":    language,
		"title":       ctx.Config.Book.Title,
		"description": ctx.Config.Book.Subtitle,
	}

	shell, err := raymond.Render(string(source), data)
	if err != nil {
		return "", fmt.Errorf("failed to render shell template: %w", err)
	}
	return shell, nil
}

// sidebar builds _sidebar.md: one bold non-clickable line per section, then
// indented chapter entries with display numbers and site-scheme links.
func (r *SiteRenderer) sidebar(ctx *Context) string {
	var b strings.Builder
	for _, sec := range ctx.Catalog.Sections {
		fmt.Fprintf(&b, "* **%d. %s**\n", sec.Number, sec.Name)
		for _, ch := range sec.Chapters {
			fmt.Fprintf(&b, "  * [%s %s](%s)\n", ch.DisplayNumber(), ch.Title, ctx.Resolver.Link(ch, resolver.Site))
		}
	}
	return b.String()
}
