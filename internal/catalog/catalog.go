// Package catalog holds the static league data a Pick'Ems board is built from:
// the game categories being predicted and the teams that can be ranked.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// SlotCount is the number of ranked positions per category.
const SlotCount = 7

var ErrUnknownCategory = errors.New("unknown category")
var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed teams.yaml
var defaultCatalog []byte

type Category string

type Team struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	ExportName string `yaml:"export_name,omitempty" json:"-"`
	Color      string `yaml:"color" json:"color"`
	Logo       string `yaml:"logo" json:"logo"`
	TextColor  string `yaml:"text_color" json:"text_color"`
}

// Label is the name used where only ASCII text can be drawn.
func (t Team) Label() string {
	if t.ExportName != "" {
		return t.ExportName
	}
	return t.Name
}

type Catalog struct {
	Title      string     `yaml:"title" json:"title"`
	Tag        string     `yaml:"tag" json:"tag"`
	FilePrefix string     `yaml:"file_prefix" json:"file_prefix"`
	Cutoff     int        `yaml:"cutoff" json:"cutoff"`
	Categories []Category `yaml:"categories" json:"categories"`
	Teams      []Team     `yaml:"teams" json:"teams"`

	byID map[string]int
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file, or returns the embedded catalog when
// path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidCatalog)
	}
	if c.Cutoff < 0 || c.Cutoff > SlotCount {
		return fmt.Errorf("%w: cutoff %d outside [0,%d]", ErrInvalidCatalog, c.Cutoff, SlotCount)
	}

	seenCat := make(map[Category]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if strings.TrimSpace(string(cat)) == "" {
			return fmt.Errorf("%w: blank category", ErrInvalidCatalog)
		}
		if seenCat[cat] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, cat)
		}
		seenCat[cat] = true
	}

	c.byID = make(map[string]int, len(c.Teams))
	for i, t := range c.Teams {
		if t.ID == "" {
			return fmt.Errorf("%w: team %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return fmt.Errorf("%w: duplicate team id %q", ErrInvalidCatalog, t.ID)
		}
		if _, err := ParseColor(t.Color); err != nil {
			return fmt.Errorf("%w: team %q color: %v", ErrInvalidCatalog, t.ID, err)
		}
		if _, err := ParseColor(t.TextColor); err != nil {
			return fmt.Errorf("%w: team %q text color: %v", ErrInvalidCatalog, t.ID, err)
		}
		c.byID[t.ID] = i
	}
	return nil
}

func (c *Catalog) Team(id string) (Team, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Team{}, false
	}
	return c.Teams[i], true
}

func (c *Catalog) HasCategory(cat Category) bool {
	for _, known := range c.Categories {
		if known == cat {
			return true
		}
	}
	return false
}

// DefaultCategory is the category a new board opens on.
func (c *Catalog) DefaultCategory() Category {
	return c.Categories[0]
}

// ParseCategory matches name against the catalog ignoring case and runs of
// whitespace, so "sound  voltex" resolves to "SOUND VOLTEX".
func (c *Catalog) ParseCategory(name string) (Category, error) {
	fold := cases.Fold()
	want := fold.String(strings.Join(strings.Fields(name), " "))
	for _, cat := range c.Categories {
		if fold.String(string(cat)) == want {
			return cat, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

var namedColors = map[string]string{
	"white": "#ffffff",
	"black": "#000000",
}

// ParseColor accepts #rgb, #rrggbb, or the names white and black.
func ParseColor(s string) (colorful.Color, error) {
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		s = hex
	}
	return colorful.Hex(s)
}
