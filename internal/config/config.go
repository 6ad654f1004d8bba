package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BookConfig contains metadata about the textbook.
type BookConfig struct {
	Title    string `toml:"title"`
	Subtitle string `toml:"subtitle"`
	Language string `toml:"language"`
	Chapters string `toml:"chapters"` // source directory, defaults to "chapters"
}

// DefaultBookConfig returns a book config with defaults.
func DefaultBookConfig() BookConfig {
	return BookConfig{
		Title:    "Учебник",
		Language: "ru",
		Chapters: "chapters",
	}
}

// BuildConfig contains build settings.
type BuildConfig struct {
	BuildDir string `toml:"build-dir"` // markdown book export directory
	SiteDir  string `toml:"site-dir"`  // where the site shell and sidebar land
}

// DefaultBuildConfig returns a build config with defaults.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		BuildDir: "book",
		SiteDir:  ".",
	}
}

// MarkdownOutput enables the markdown book renderer.
type MarkdownOutput struct{}

// SiteOutput configures the site shell renderer.
type SiteOutput struct {
	BasePath string `toml:"base-path"` // site-root prefix for chapter links
}

// PdfOutput configures the combined PDF renderer. The font files must cover
// Cyrillic; the built-in PDF fonts do not.
type PdfOutput struct {
	File     string `toml:"file"`
	Font     string `toml:"font"`
	FontBold string `toml:"font-bold"`
	FontMono string `toml:"font-mono"`
}

// DocxOutput configures the optional simplified DOCX renderer.
type DocxOutput struct {
	File string `toml:"file"`
}

// Output holds per-renderer tables. A nil table disables the renderer, except
// markdown, site and pdf which are enabled by default.
type Output struct {
	Markdown *MarkdownOutput `toml:"markdown"`
	Site     *SiteOutput     `toml:"site"`
	Pdf      *PdfOutput      `toml:"pdf"`
	Docx     *DocxOutput     `toml:"docx"`
}

// Config is the top-level build configuration. It is immutable once loaded;
// the pipeline passes it through explicitly instead of keeping global state.
type Config struct {
	Book     BookConfig        `toml:"book"`
	Build    BuildConfig       `toml:"build"`
	Sections map[string]string `toml:"sections"` // overrides of the section name table
	Output   Output            `toml:"output"`
}

// NewDefaultConfig returns a config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Book:  DefaultBookConfig(),
		Build: DefaultBuildConfig(),
		Output: Output{
			Markdown: &MarkdownOutput{},
			Site:     &SiteOutput{BasePath: "/book"},
			Pdf:      &PdfOutput{File: "textbook.pdf"},
		},
	}
}

// LoadFromFile loads configuration from a book.toml file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromString(string(data))
}

// LoadFromString loads configuration from a TOML string.
func LoadFromString(content string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := toml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.UpdateFromEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Book.Chapters == "" {
		c.Book.Chapters = "chapters"
	}
	if c.Build.BuildDir == "" {
		c.Build.BuildDir = "book"
	}
	if c.Build.SiteDir == "" {
		c.Build.SiteDir = "."
	}
	if c.Output.Site != nil && c.Output.Site.BasePath == "" {
		c.Output.Site.BasePath = "/book"
	}
	if c.Output.Pdf != nil && c.Output.Pdf.File == "" {
		c.Output.Pdf.File = "textbook.pdf"
	}
	if c.Output.Docx != nil && c.Output.Docx.File == "" {
		c.Output.Docx.File = "textbook.docx"
	}
}

// SectionNames parses the [sections] override table into numeric keys.
// Non-numeric keys are ignored.
func (c *Config) SectionNames() map[int]string {
	names := make(map[int]string, len(c.Sections))
	for key, name := range c.Sections {
		if n, err := strconv.Atoi(key); err == nil {
			names[n] = name
		}
	}
	return names
}

// SiteBasePath returns the configured site-root prefix for chapter links.
func (c *Config) SiteBasePath() string {
	if c.Output.Site != nil && c.Output.Site.BasePath != "" {
		return c.Output.Site.BasePath
	}
	return "/book"
}

// UpdateFromEnv updates config from environment variables.
// Variables starting with BOOKFORGE_ are used:
// BOOKFORGE_BOOK__TITLE -> book.title
// BOOKFORGE_BUILD__BUILD_DIR -> build.build-dir
func (c *Config) UpdateFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "BOOKFORGE_") {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], "BOOKFORGE_"))
		key = strings.ReplaceAll(key, "__", ".")
		key = strings.ReplaceAll(key, "_", "-")
		c.Set(key, parts[1])
	}
}

// Set sets a configuration value using dot notation (e.g. "book.title").
func (c *Config) Set(key, value string) {
	section, field, ok := strings.Cut(key, ".")
	if !ok {
		return
	}
	switch section {
	case "book":
		c.setBookValue(field, value)
	case "build":
		c.setBuildValue(field, value)
	}
}

func (c *Config) setBookValue(field, value string) {
	switch field {
	case "title":
		c.Book.Title = value
	case "subtitle":
		c.Book.Subtitle = value
	case "language":
		c.Book.Language = value
	case "chapters":
		c.Book.Chapters = value
	}
}

func (c *Config) setBuildValue(field, value string) {
	switch field {
	case "build-dir":
		c.Build.BuildDir = value
	case "site-dir":
		c.Build.SiteDir = value
	}
}
