package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/pioh/bookforge/internal/catalog"
	"github.com/pioh/bookforge/internal/config"
	"github.com/pioh/bookforge/internal/renderer"
	"github.com/pioh/bookforge/internal/resolver"
	"github.com/pioh/bookforge/internal/utils"
)

var cli struct {
	Config  string `short:"c" help:"Configuration file path" default:"book.toml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		DestDir  string `help:"Override the markdown book output directory"`
		SkipPdf  bool   `help:"Skip the PDF stage"`
		SkipDocx bool   `help:"Skip the DOCX stage"`
	} `cmd:"" help:"Build all configured artifacts"`

	Init struct {
		Name  string `arg:"" optional:"" help:"Directory to scaffold (default \"my-textbook\")"`
		Title string `help:"Textbook title (defaults to the directory name)"`
	} `cmd:"" help:"Scaffold a new textbook"`

	Serve struct {
		Port     int    `default:"3000" help:"Port to serve on"`
		Hostname string `default:"127.0.0.1" help:"Hostname to bind to"`
	} `cmd:"" help:"Serve the built artifacts for preview"`

	Clean struct{} `cmd:"" help:"Remove generated artifacts"`
}

func main() {
	ctx := kong.Parse(&cli)

	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild()
	case "init", "init <name>":
		err = runInit()
	case "serve":
		err = runServe()
	case "clean":
		err = runClean()
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig loads book.toml, falling back to defaults with a warning when
// the file is absent.
func loadConfig() *config.Config {
	cfg, err := config.LoadFromFile(cli.Config)
	if err != nil {
		slog.Warn("could not load config file, using defaults", "path", cli.Config, "error", err)
		return config.NewDefaultConfig()
	}
	return cfg
}

// runBuild executes the pipeline: catalog construction, then the renderers
// in a fixed order. Each stage runs only if every prior stage succeeded.
func runBuild() error {
	cfg := loadConfig()

	scanner := catalog.NewScanner(cfg.Book.Chapters, cfg.SectionNames())
	cat, err := scanner.Scan()
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}
	slog.Info("catalog built", "chapters", cat.Len(), "sections", len(cat.Sections))

	destDir := cli.Build.DestDir
	if destDir == "" {
		destDir = cfg.Build.BuildDir
	}
	rctx := &renderer.Context{
		Root:     ".",
		DestDir:  destDir,
		Catalog:  cat,
		Config:   cfg,
		Resolver: resolver.New(cat, cfg.SiteBasePath()),
		Now:      time.Now(),
	}

	var stages []renderer.Renderer
	if cfg.Output.Markdown != nil {
		stages = append(stages, renderer.NewMarkdownRenderer())
	}
	if cfg.Output.Site != nil {
		stages = append(stages, renderer.NewSiteRenderer())
	}
	if cfg.Output.Pdf != nil && !cli.Build.SkipPdf {
		stages = append(stages, renderer.NewPdfRenderer())
	}
	if cfg.Output.Docx != nil && !cli.Build.SkipDocx {
		stages = append(stages, renderer.NewDocxRenderer())
	}

	for _, stage := range stages {
		slog.Info("rendering", "stage", stage.Name())
		if err := stage.Render(rctx); err != nil {
			return fmt.Errorf("%s stage failed: %w", stage.Name(), err)
		}
	}

	slog.Info("build finished", "stages", len(stages))
	return nil
}

// runInit scaffolds a textbook directory with a config file and one sample
// chapter.
func runInit() error {
	name := cli.Init.Name
	if name == "" {
		name = "my-textbook"
	}
	title := cli.Init.Title
	if title == "" {
		title = name
	}

	if err := utils.CreateDirAll(filepath.Join(name, "chapters")); err != nil {
		return err
	}

	bookToml := fmt.Sprintf(`[book]
title = %q
language = "ru"
chapters = "chapters"

[build]
build-dir = "book"

[output.markdown]

[output.site]
base-path = "/book"

[output.pdf]
file = "textbook.pdf"
`, title)
	if err := utils.WriteFile(filepath.Join(name, "book.toml"), []byte(bookToml)); err != nil {
		return err
	}

	sample := "# Глава 1.1: Введение\n\n## Введение\n\nПервая глава учебника.\n"
	if err := utils.WriteFile(filepath.Join(name, "chapters", "01_01_vvedenie.md"), []byte(sample)); err != nil {
		return err
	}

	fmt.Printf("Создан учебник в '%s'\n", name)
	fmt.Println("Дальнейшие шаги:")
	fmt.Printf("  cd %s\n", name)
	fmt.Println("  bookforge build")
	return nil
}

// runServe statically serves the built artifacts. There is no file watching
// and no rebuild on change.
func runServe() error {
	cfg := loadConfig()
	root := cfg.Build.SiteDir
	if root == "" {
		root = "."
	}
	addr := fmt.Sprintf("%s:%d", cli.Serve.Hostname, cli.Serve.Port)

	slog.Info("serving", "url", "http://"+addr)
	return http.ListenAndServe(addr, siteHandler(root))
}

// siteHandler serves files under root. Directory requests fall back to
// index.html; paths resolving outside root are rejected. The check is
// relative-path based so a root of "." works.
func siteHandler(root string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upath := r.URL.Path
		if strings.HasSuffix(upath, "/") {
			upath += "index.html"
		}
		target := filepath.Join(root, upath)
		rel, err := filepath.Rel(root, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		if fi, err := os.Stat(target); err == nil && !fi.IsDir() {
			http.ServeFile(w, r, target)
			return
		}
		http.NotFound(w, r)
	})
}

// runClean removes the generated artifacts, printing a summary of what was
// removed from the book directory.
func runClean() error {
	cfg := loadConfig()

	if utils.DirExists(cfg.Build.BuildDir) {
		var files, dirs int
		var bytes int64
		filepath.Walk(cfg.Build.BuildDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if path != cfg.Build.BuildDir {
					dirs++
				}
				return nil
			}
			files++
			bytes += info.Size()
			return nil
		})
		if err := utils.RemoveAll(cfg.Build.BuildDir); err != nil {
			return err
		}
		fmt.Printf("Удалено %d файлов, %d директорий, %d байт из '%s'.\n",
			files, dirs, bytes, cfg.Build.BuildDir)
	}

	artifacts := []string{"index.html", "_sidebar.md", ".gitattributes"}
	if cfg.Output.Pdf != nil {
		artifacts = append(artifacts, cfg.Output.Pdf.File)
	}
	if cfg.Output.Docx != nil {
		artifacts = append(artifacts, cfg.Output.Docx.File)
	}
	for _, path := range artifacts {
		if utils.FileExists(path) {
			if err := utils.RemoveAll(path); err != nil {
				return err
			}
			fmt.Printf("Удалён '%s'.\n", path)
		}
	}
	return nil
}
