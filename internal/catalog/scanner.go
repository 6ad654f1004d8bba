package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// chapterFilePattern matches source filenames of the form "SS_CC_slug.md".
var chapterFilePattern = regexp.MustCompile(`^(\d{2})_(\d{2})_(.+)\.md$`)

// headingChapterPrefix matches a leading "Глава N.M:" marker inside a title.
var headingChapterPrefix = regexp.MustCompile(`^Глава \d+\.\d+[:\s]*`)

// defaultSectionNames is the built-in table of section names keyed by number.
var defaultSectionNames = map[int]string{
	1: "Понятие информации",
	2: "Технические средства",
	3: "Программные средства",
	4: "Модели решения задач",
	5: "Основы алгоритмизации",
	6: "Языки программирования",
	7: "Базы данных",
	8: "Локальные и глобальные сети",
	9: "Защита информации",
}

var slugTitleCaser = cases.Title(language.Russian)

// Scanner builds a Catalog from a directory of chapter files.
type Scanner struct {
	dir          string
	sectionNames map[int]string
}

// NewScanner creates a scanner for the given chapters directory. Entries in
// overrides take precedence over the built-in section name table.
func NewScanner(dir string, overrides map[int]string) *Scanner {
	names := make(map[int]string, len(defaultSectionNames)+len(overrides))
	for n, name := range defaultSectionNames {
		names[n] = name
	}
	for n, name := range overrides {
		names[n] = name
	}
	return &Scanner{dir: dir, sectionNames: names}
}

// Scan reads the chapters directory and returns the ordered catalog. Files
// that do not match the naming pattern are skipped. A missing directory, an
// empty catalog, or two files claiming the same (section, chapter) pair are
// errors.
func (s *Scanner) Scan() (*Catalog, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapters directory '%s': %w", s.dir, err)
	}

	cat := &Catalog{index: make(map[string]*Chapter)}

	// os.ReadDir sorts by name; zero-padded numbers make that the catalog order.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := chapterFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		section, _ := strconv.Atoi(m[1])
		number, _ := strconv.Atoi(m[2])
		slug := m[3]

		path := filepath.Join(s.dir, entry.Name())
		ch := &Chapter{
			Section:    section,
			Number:     number,
			Slug:       slug,
			Filename:   entry.Name(),
			SourcePath: path,
		}

		// An unreadable file or a malformed first line is recovered locally:
		// the chapter stays in the catalog under a slug-derived title.
		data, err := os.ReadFile(path)
		if err == nil {
			ch.Content = string(data)
		}
		ch.Title = deriveTitle(ch.Content, slug)

		if err := cat.add(s.sectionName(section), ch); err != nil {
			return nil, err
		}
	}

	if cat.Len() == 0 {
		return nil, fmt.Errorf("no chapter files found in '%s'", s.dir)
	}
	return cat, nil
}

func (s *Scanner) sectionName(number int) string {
	if name, ok := s.sectionNames[number]; ok {
		return name
	}
	return fmt.Sprintf("Раздел %d", number)
}

// deriveTitle takes the first line of the chapter if it is a level-1 heading,
// stripping a "Глава N.M:" prefix. Otherwise it falls back to a title-cased
// form of the slug.
func deriveTitle(content, slug string) string {
	firstLine, _, _ := strings.Cut(content, "\n")
	firstLine = strings.TrimSpace(firstLine)
	if strings.HasPrefix(firstLine, "# ") {
		title := strings.TrimSpace(firstLine[2:])
		title = headingChapterPrefix.ReplaceAllString(title, "")
		if title != "" {
			return title
		}
	}
	return slugTitleCaser.String(strings.ReplaceAll(slug, "_", " "))
}
