package changelog

// Category names a changelog subsection.
type Category string

const (
	CategoryAdded   Category = "added"
	CategoryChanged Category = "changed"
	CategoryFixed   Category = "fixed"
)

// Title returns the heading text used for the category ("Added").
func (c Category) Title() string {
	return capitalizeFirst(string(c))
}

// Changes groups release notes by Keep a Changelog category.
// Entries keep the order in which they were entered; empty categories are
// omitted when rendering. A Changes value is not modified after it has been
// handed to a Writer.
type Changes struct {
	Added   []string `yaml:"added,omitempty"`
	Changed []string `yaml:"changed,omitempty"`
	Fixed   []string `yaml:"fixed,omitempty"`
}

// Section is a dated release entry rendered under the changelog title.
type Section struct {
	Version string
	Date    string
	Changes Changes
}

// IsEmpty returns true if the Changes struct has no entries in any category.
func (c Changes) IsEmpty() bool {
	return len(c.Added) == 0 &&
		len(c.Changed) == 0 &&
		len(c.Fixed) == 0
}

// Count returns the total number of entries across all categories.
func (c Changes) Count() int {
	return len(c.Added) + len(c.Changed) + len(c.Fixed)
}

// Get returns the entries recorded under category.
func (c Changes) Get(category Category) []string {
	switch category {
	case CategoryAdded:
		return c.Added
	case CategoryChanged:
		return c.Changed
	case CategoryFixed:
		return c.Fixed
	default:
		return nil
	}
}

// Set returns a copy of c with the entries for category replaced.
func (c Changes) Set(category Category, entries []string) Changes {
	cp := append([]string(nil), entries...)
	switch category {
	case CategoryAdded:
		c.Added = cp
	case CategoryChanged:
		c.Changed = cp
	case CategoryFixed:
		c.Fixed = cp
	}
	return c
}

// Categories returns the supported categories in their rendering order.
func Categories() []Category {
	return []Category{CategoryAdded, CategoryChanged, CategoryFixed}
}
