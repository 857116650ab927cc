package itemserial

import (
	"fmt"
	"sort"
)

// UnknownPart is the name returned for a part index the catalog does not
// know. Indices past the end of a table are expected: newer items reference
// parts added after the bundled catalog was built.
const UnknownPart = "unknown"

// Schema is the read-only service a serial consults while parsing.
// *Catalog implements it; callers may supply their own.
type Schema interface {
	// MaxVersion returns the highest format version registered in any
	// category.
	MaxVersion() int

	// BitWidth returns the width of category's index field for version.
	BitWidth(category Category, version int) (int, error)

	// PartName resolves a 1-based part index, returning UnknownPart for
	// any index outside the table.
	PartName(category Category, index int) string
}

// VersionWidth attaches a field width to the format version that
// introduced it.
type VersionWidth struct {
	Version int
	Bits    int
}

// CategoryTable is the input form of one catalog category.
type CategoryTable struct {
	Name     Category
	Versions []VersionWidth
	Parts    []string
}

// categoryTable is the immutable, sorted form held by a Catalog.
type categoryTable struct {
	versions []VersionWidth
	parts    []string
}

// Catalog maps (category, format version) to field widths and
// (category, index) to part names. A Catalog never changes after
// NewCatalog returns, so one value may be shared by any number of
// goroutines without locking.
type Catalog struct {
	tables     map[Category]*categoryTable
	order      []Category
	maxVersion int
}

// NewCatalog builds a catalog from tables. Version entries are sorted
// ascending; every table needs at least one entry, duplicate versions and
// non-positive widths are rejected, and widths may not shrink as versions
// grow. Inputs are copied.
func NewCatalog(tables ...CategoryTable) (*Catalog, error) {
	if len(tables) == 0 {
		return nil, newCatalogError(ErrInvalidCatalog, "", fmt.Errorf("no categories"))
	}

	c := &Catalog{
		tables:     make(map[Category]*categoryTable, len(tables)),
		order:      make([]Category, 0, len(tables)),
		maxVersion: -1,
	}

	for _, t := range tables {
		if t.Name == "" {
			return nil, newCatalogError(ErrInvalidCatalog, "", fmt.Errorf("category without a name"))
		}
		if _, dup := c.tables[t.Name]; dup {
			return nil, newCatalogError(ErrInvalidCatalog, t.Name, fmt.Errorf("duplicate category"))
		}
		if len(t.Versions) == 0 {
			return nil, newCatalogError(ErrInvalidCatalog, t.Name, fmt.Errorf("no version entries"))
		}

		versions := make([]VersionWidth, len(t.Versions))
		copy(versions, t.Versions)
		sort.Slice(versions, func(i, j int) bool { return versions[i].Version < versions[j].Version })

		for i, v := range versions {
			if v.Bits <= 0 || v.Bits > maxFieldBits {
				return nil, newCatalogError(ErrInvalidCatalog, t.Name,
					fmt.Errorf("version %d: width %d out of range", v.Version, v.Bits))
			}
			if i > 0 && versions[i-1].Version == v.Version {
				return nil, newCatalogError(ErrInvalidCatalog, t.Name,
					fmt.Errorf("version %d registered twice", v.Version))
			}
			if i > 0 && versions[i-1].Bits > v.Bits {
				return nil, newCatalogError(ErrInvalidCatalog, t.Name,
					fmt.Errorf("version %d narrows width from %d to %d", v.Version, versions[i-1].Bits, v.Bits))
			}
		}

		parts := make([]string, len(t.Parts))
		copy(parts, t.Parts)

		c.tables[t.Name] = &categoryTable{versions: versions, parts: parts}
		c.order = append(c.order, t.Name)
		if last := versions[len(versions)-1].Version; last > c.maxVersion {
			c.maxVersion = last
		}
	}

	return c, nil
}

// MaxVersion returns the highest version registered across all categories.
func (c *Catalog) MaxVersion() int {
	return c.maxVersion
}

// BitWidth returns the width of the last entry whose version does not
// exceed version. Versions below the first entry get the first entry's
// width.
func (c *Catalog) BitWidth(category Category, version int) (int, error) {
	t, ok := c.tables[category]
	if !ok {
		return 0, newCatalogError(ErrUnknownCategory, category, nil)
	}

	width := t.versions[0].Bits
	for _, v := range t.versions {
		if v.Version > version {
			break
		}
		width = v.Bits
	}
	return width, nil
}

// PartName returns the index-th (1-based) part of category, or UnknownPart.
func (c *Catalog) PartName(category Category, index int) string {
	t, ok := c.tables[category]
	if !ok || index < 1 || index > len(t.parts) {
		return UnknownPart
	}
	return t.parts[index-1]
}

// Categories returns category names in the order they were registered.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.order))
	copy(out, c.order)
	return out
}

// Table returns a copy of one category's table.
func (c *Catalog) Table(category Category) (CategoryTable, bool) {
	t, ok := c.tables[category]
	if !ok {
		return CategoryTable{}, false
	}
	versions := make([]VersionWidth, len(t.versions))
	copy(versions, t.versions)
	parts := make([]string, len(t.parts))
	copy(parts, t.parts)
	return CategoryTable{Name: category, Versions: versions, Parts: parts}, true
}
