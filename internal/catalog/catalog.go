package catalog

import (
	"fmt"
)

// Chapter is a single chapter discovered in the source directory.
type Chapter struct {
	Section    int    // two-digit section number from the filename
	Number     int    // two-digit chapter number from the filename
	Slug       string // filename fragment between the numbers and ".md"
	Title      string // display title derived from the first heading line
	Filename   string // canonical "SS_CC_slug.md" name
	SourcePath string // path of the source file on disk
	Content    string // raw markdown content
}

// Key returns the zero-padded "SS_CC" identity of the chapter.
func (c *Chapter) Key() string {
	return fmt.Sprintf("%02d_%02d", c.Section, c.Number)
}

// DisplayNumber returns the human-facing "S.C" number with leading zeros stripped.
func (c *Chapter) DisplayNumber() string {
	return fmt.Sprintf("%d.%d", c.Section, c.Number)
}

// Anchor returns the in-document anchor name for the chapter.
func (c *Chapter) Anchor() string {
	return "chapter_" + c.Key()
}

// Section groups the chapters of one numbered section in filename order.
type Section struct {
	Number   int
	Name     string
	Chapters []*Chapter
}

// Catalog is the read-only index of all discovered chapters, ordered by
// ascending (section, chapter). It is built once per run and never mutated
// afterwards.
type Catalog struct {
	Sections []*Section
	index    map[string]*Chapter
}

// Lookup finds a chapter by its numeric key.
func (cat *Catalog) Lookup(section, chapter int) (*Chapter, bool) {
	ch, ok := cat.index[fmt.Sprintf("%02d_%02d", section, chapter)]
	return ch, ok
}

// Chapters returns all chapters in catalog order.
func (cat *Catalog) Chapters() []*Chapter {
	var chapters []*Chapter
	for _, sec := range cat.Sections {
		chapters = append(chapters, sec.Chapters...)
	}
	return chapters
}

// Len returns the total number of chapters.
func (cat *Catalog) Len() int {
	return len(cat.index)
}

func (cat *Catalog) add(sectionName string, ch *Chapter) error {
	if existing, ok := cat.index[ch.Key()]; ok {
		return fmt.Errorf("duplicate chapter %s: '%s' conflicts with '%s'",
			ch.DisplayNumber(), ch.Filename, existing.Filename)
	}
	cat.index[ch.Key()] = ch

	var sec *Section
	for _, s := range cat.Sections {
		if s.Number == ch.Section {
			sec = s
			break
		}
	}
	if sec == nil {
		sec = &Section{Number: ch.Section, Name: sectionName}
		cat.Sections = append(cat.Sections, sec)
	}
	sec.Chapters = append(sec.Chapters, ch)
	return nil
}
