package fonts

import (
	"fmt"
	"slices"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"themekit/css"
)

// Catalog keeps fonts in user defined order. At most one font is active.
// Not safe for concurrent use.
type Catalog struct {
	fonts  []Font
	active string
	log    *zap.Logger
}

func NewCatalog(log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{log: log.Named("fonts")}
}

func (c *Catalog) index(id string) int {
	return slices.IndexFunc(c.fonts, func(f Font) bool { return f.ID == id })
}

func (c *Catalog) Len() int {
	return len(c.fonts)
}

// Get returns font by id.
func (c *Catalog) Get(id string) (Font, bool) {
	if i := c.index(id); i >= 0 {
		return c.fonts[i], true
	}
	return Font{}, false
}

// Add appends font to the end of the catalog.
func (c *Catalog) Add(f Font) error {
	if c.index(f.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrExists, f.ID)
	}
	c.fonts = append(c.fonts, f)
	c.log.Debug("Font added", zap.String("id", f.ID), zap.Stringer("source", f.Source))
	return nil
}

// Remove deletes font, removing active font clears selection.
func (c *Catalog) Remove(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.fonts = slices.Delete(c.fonts, i, i+1)
	if c.active == id {
		c.active = ""
	}
	return nil
}

// Move puts font at position index, index is clamped to catalog bounds.
func (c *Catalog) Move(id string, index int) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	index = max(0, min(index, len(c.fonts)-1))
	if i == index {
		return nil
	}
	f := c.fonts[i]
	c.fonts = slices.Insert(slices.Delete(c.fonts, i, i+1), index, f)
	c.log.Debug("Font moved", zap.String("id", id), zap.Int("from", i), zap.Int("to", index))
	return nil
}

func (c *Catalog) SetEnabled(id string, enabled bool) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.fonts[i].Enabled = enabled
	return nil
}

// SetActive selects font applied by font rule. Empty id clears selection.
func (c *Catalog) SetActive(id string) error {
	if len(id) > 0 && c.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.active = id
	return nil
}

// Active returns selected font if it is enabled.
func (c *Catalog) Active() (Font, bool) {
	f, ok := c.Get(c.active)
	if !ok || !f.Enabled {
		return Font{}, false
	}
	return f, true
}

// ActiveID returns selection as stored, regardless of font state.
func (c *Catalog) ActiveID() string {
	return c.active
}

// List returns fonts in user order.
func (c *Catalog) List() []Font {
	return slices.Clone(c.fonts)
}

// Sorted returns fonts in natural order of names, so "Font 2" goes before
// "Font 10".
func (c *Catalog) Sorted() []Font {
	out := slices.Clone(c.fonts)
	slices.SortStableFunc(out, func(a, b Font) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})
	return out
}

// Enabled returns enabled fonts in user order.
func (c *Catalog) Enabled() []Font {
	var out []Font
	for _, f := range c.fonts {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// ruleData is available to font rule template.
type ruleData struct {
	Active *Font
	Fonts  []Font
}

func templateFuncs() template.FuncMap {
	funcs := sprig.FuncMap()
	funcs["cssquote"] = css.Quote
	return funcs
}

// Stylesheet combines all enabled fonts into single stylesheet followed by
// rule rendered from ruleTemplate. All @import statements are hoisted to the
// top, otherwise browsers ignore them. Font css is otherwise copied as is, so
// descriptors and rules this program does not understand are kept.
func (c *Catalog) Stylesheet(ruleTemplate string) (string, error) {
	enabled := c.Enabled()

	var imports, parts []string
	for _, f := range enabled {
		imp, rest := css.SplitImports([]byte(f.CSS))
		for _, i := range imp {
			if !slices.Contains(imports, i) {
				imports = append(imports, i)
			}
		}
		if len(rest) > 0 {
			parts = append(parts, rest)
		}
	}
	if len(imports) > 0 {
		parts = append([]string{strings.Join(imports, "\n")}, parts...)
	}

	if len(strings.TrimSpace(ruleTemplate)) > 0 {
		tmpl, err := template.New("font_rule").Funcs(templateFuncs()).Parse(ruleTemplate)
		if err != nil {
			return "", fmt.Errorf("bad font rule template: %w", err)
		}
		data := ruleData{Fonts: enabled}
		if f, ok := c.Active(); ok {
			data.Active = &f
		}
		var rule strings.Builder
		if err := tmpl.Execute(&rule, data); err != nil {
			return "", fmt.Errorf("unable to render font rule: %w", err)
		}
		if r := strings.TrimSpace(rule.String()); len(r) > 0 {
			parts = append(parts, r)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	c.log.Debug("Font stylesheet combined", zap.Int("fonts", len(enabled)), zap.Int("imports", len(imports)))
	return strings.Join(parts, "\n\n") + "\n", nil
}
