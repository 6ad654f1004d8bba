// Package renderer contains the output stages of a build: the markdown book
// export, the site shell, the combined PDF and the optional DOCX. Renderers
// consume the catalog and the resolver only; they share no mutable state.
package renderer

import (
	"time"

	"github.com/pioh/bookforge/internal/catalog"
	"github.com/pioh/bookforge/internal/config"
	"github.com/pioh/bookforge/internal/resolver"
)

// Context holds everything a renderer needs for one build run.
type Context struct {
	Root     string // project root; the index, site shell and documents land here
	DestDir  string // markdown book export directory
	Catalog  *catalog.Catalog
	Config   *config.Config
	Resolver *resolver.Resolver
	Now      time.Time // build timestamp shown on the index and title page
}

// Renderer is one output stage of the build pipeline.
type Renderer interface {
	Name() string
	Render(ctx *Context) error
}
