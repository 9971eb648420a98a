// Package fonts manages user supplied fonts and renders them into a single
// stylesheet injected next to custom CSS.
package fonts

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"themekit/common"
	"themekit/css"
)

var (
	ErrExists          = errors.New("font already exists")
	ErrNotFound        = errors.New("font not found")
	ErrUnsupportedFont = errors.New("unsupported font file format")
	ErrNoDefinition    = errors.New("css has neither @import nor @font-face")
)

// Font is a single catalog entry. CSS holds complete definition: either
// @import of remote stylesheet or one or more @font-face blocks.
type Font struct {
	ID      string            `yaml:"id"`
	Name    string            `yaml:"name"`
	Family  string            `yaml:"family"`
	Source  common.FontSource `yaml:"source"`
	CSS     string            `yaml:"css"`
	Enabled bool              `yaml:"enabled"`
}

// fontFormat describes supported font file type.
type fontFormat struct {
	ext    string
	mime   string
	format string
}

// compressed containers first
var fontFormats = []fontFormat{
	{"woff2", "font/woff2", "woff2"},
	{"woff", "font/woff", "woff"},
	{"otf", "font/otf", "opentype"},
	{"ttf", "font/ttf", "truetype"},
}

func newFont(name, family string, src common.FontSource, text string) (Font, error) {
	if len(name) == 0 {
		name = displayName(family)
	}
	if len(family) == 0 {
		family = name
	}
	id := slug.Make(name)
	if len(id) == 0 {
		return Font{}, fmt.Errorf("unable to derive font id from name %q", name)
	}
	return Font{
		ID:      id,
		Name:    name,
		Family:  family,
		Source:  src,
		CSS:     strings.TrimSpace(text),
		Enabled: true,
	}, nil
}

// displayName title-cases family name.
func displayName(family string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.TrimSpace(family))
}

// FromImport creates font referencing remote stylesheet. When name is empty
// it is derived from "family" query parameter of the url (Google Fonts style).
func FromImport(name, rawURL string) (Font, error) {
	rawURL = strings.TrimSpace(rawURL)
	if len(rawURL) == 0 {
		return Font{}, errors.New("empty font url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Font{}, fmt.Errorf("bad font url: %w", err)
	}

	family := familyFromURL(u)
	if len(name) == 0 && len(family) == 0 {
		return Font{}, fmt.Errorf("unable to guess font name from url %q", rawURL)
	}
	return newFont(name, family, common.FontSourceImport, "@import url("+css.Quote(rawURL)+");")
}

func familyFromURL(u *url.URL) string {
	family := u.Query().Get("family")
	if i := strings.IndexByte(family, ':'); i >= 0 {
		family = family[:i]
	}
	return strings.TrimSpace(family)
}

// FromFile creates font with @font-face carrying font data inline.
func FromFile(name, family string, data []byte, log *zap.Logger) (Font, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(strings.TrimSpace(family)) == 0 {
		return Font{}, errors.New("font family is required")
	}

	var ff *fontFormat
	for i := range fontFormats {
		if filetype.Is(data, fontFormats[i].ext) {
			ff = &fontFormats[i]
			break
		}
	}
	if ff == nil {
		return Font{}, ErrUnsupportedFont
	}
	log.Debug("Font file detected", zap.String("family", family), zap.String("format", ff.format), zap.Int("size", len(data)))

	face := css.FontFace{
		Family: strings.TrimSpace(family),
		Src: fmt.Sprintf("url(%s) format(%s)",
			css.Quote("data:"+ff.mime+";base64,"+base64.StdEncoding.EncodeToString(data)), css.Quote(ff.format)),
		Display: "swap",
	}
	sheet := css.Stylesheet{Items: []css.StylesheetItem{{FontFace: &face}}}
	return newFont(name, face.Family, common.FontSourceInline, sheet.String())
}

// FromCSS creates font from arbitrary CSS which must contain at least one
// @import or @font-face. Family comes from the first font face or, lacking
// one, from the first import url.
func FromCSS(name, text string, log *zap.Logger) (Font, error) {
	sheet := css.NewParser(log).Parse([]byte(text), "font")

	imports, faces := sheet.Imports(), sheet.FontFaces()
	if len(imports) == 0 && len(faces) == 0 {
		return Font{}, ErrNoDefinition
	}

	var family string
	if len(faces) > 0 {
		family = faces[0].Family
	} else if u, err := url.Parse(imports[0]); err == nil {
		family = familyFromURL(u)
	}
	if len(name) == 0 && len(family) == 0 {
		return Font{}, errors.New("unable to guess font name, specify it explicitly")
	}

	src := common.FontSourceInline
	if len(faces) == 0 {
		src = common.FontSourceImport
	}
	return newFont(name, family, src, text)
}
