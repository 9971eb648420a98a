package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"themekit/archive"
	"themekit/common"
	"themekit/fonts"
)

const (
	bundleVersion  = 1
	bundleSettings = "settings.yaml"
	bundleFonts    = "fonts/"
)

type bundleFont struct {
	ID      string            `yaml:"id"`
	Name    string            `yaml:"name"`
	Family  string            `yaml:"family"`
	Source  common.FontSource `yaml:"source"`
	Enabled bool              `yaml:"enabled"`
	File    string            `yaml:"file"`
}

type bundle struct {
	Version    int          `yaml:"version"`
	CustomCSS  string       `yaml:"custom_css"`
	ActiveFont string       `yaml:"active_font,omitempty"`
	Fonts      []bundleFont `yaml:"fonts"`
}

func ownEntry(name string) bool {
	return name == bundleSettings || strings.HasPrefix(name, bundleFonts)
}

// Export writes custom CSS and fonts into zip bundle at path. When bundle
// already exists entries not produced by export are preserved.
func (s *Store) Export(dst string) (err error) {
	text, err := s.CustomCSS()
	if err != nil {
		return err
	}
	cat, err := s.LoadCatalog(s.log)
	if err != nil {
		return err
	}

	b := bundle{Version: bundleVersion, CustomCSS: text, ActiveFont: cat.ActiveID()}
	for _, f := range cat.List() {
		b.Fonts = append(b.Fonts, bundleFont{
			ID:      f.ID,
			Name:    f.Name,
			Family:  f.Family,
			Source:  f.Source,
			Enabled: f.Enabled,
			File:    path.Join(bundleFonts, f.ID+".css"),
		})
	}
	manifest, err := yaml.Marshal(&b)
	if err != nil {
		return fmt.Errorf("unable to encode bundle settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".bundle-*.zip")
	if err != nil {
		return fmt.Errorf("unable to create bundle: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, os.Remove(tmp.Name()))
		}
	}()

	w := fixzip.NewWriter(tmp)
	if _, serr := os.Stat(dst); serr == nil {
		kept, cerr := archive.CopyEntries(dst, w, ownEntry)
		if cerr != nil {
			return multierr.Combine(cerr, w.Close(), tmp.Close())
		}
		if len(kept) > 0 {
			s.log.Debug("Bundle entries preserved", zap.Strings("entries", kept))
		}
	}

	write := func(name string, data []byte) error {
		fw, err := w.Create(name)
		if err != nil {
			return err
		}
		_, err = fw.Write(data)
		return err
	}
	werr := write(bundleSettings, manifest)
	for i, f := range cat.List() {
		if werr != nil {
			break
		}
		werr = write(b.Fonts[i].File, []byte(f.CSS))
	}
	if err = multierr.Combine(werr, w.Close(), tmp.Close()); err != nil {
		return fmt.Errorf("unable to write bundle: %w", err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("unable to write bundle: %w", err)
	}
	s.log.Info("Settings exported", zap.String("bundle", dst), zap.Int("fonts", len(b.Fonts)))
	return nil
}

// Import replaces custom CSS and fonts with bundle content. Broken font
// entries are skipped, their errors are combined and returned together with
// number of imported fonts.
func (s *Store) Import(src string) (int, error) {
	var (
		manifest []byte
		files    = make(map[string][]byte)
	)
	err := archive.Walk(src, "", func(_ string, file *fixzip.File) error {
		if !ownEntry(file.Name) {
			return nil
		}
		data, err := archive.ReadFile(file)
		if err != nil {
			return err
		}
		if file.Name == bundleSettings {
			manifest = data
		} else {
			files[file.Name] = data
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("unable to read bundle (%s): %w", src, err)
	}
	if manifest == nil {
		return 0, fmt.Errorf("bundle (%s) has no %s", src, bundleSettings)
	}

	var b bundle
	dec := yaml.NewDecoder(bytes.NewReader(manifest))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return 0, fmt.Errorf("unable to decode %s: %w", bundleSettings, err)
	}
	if b.Version != bundleVersion {
		return 0, fmt.Errorf("unsupported bundle version %d", b.Version)
	}

	var errs error
	cat := fonts.NewCatalog(s.log)
	for _, bf := range b.Fonts {
		data, ok := files[bf.File]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("font %q: missing %s", bf.ID, bf.File))
			continue
		}
		if !bf.Source.IsValid() || len(bf.ID) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("font %q: bad entry", bf.ID))
			continue
		}
		f := fonts.Font{ID: bf.ID, Name: bf.Name, Family: bf.Family, Source: bf.Source, CSS: string(data), Enabled: bf.Enabled}
		if err := cat.Add(f); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if err := cat.SetActive(b.ActiveFont); err != nil && !errors.Is(err, fonts.ErrNotFound) {
		errs = multierr.Append(errs, err)
	}

	if err := s.SetCustomCSS(b.CustomCSS); err != nil {
		return 0, multierr.Append(errs, err)
	}
	if err := s.SaveCatalog(cat); err != nil {
		return 0, multierr.Append(errs, err)
	}
	s.log.Info("Settings imported", zap.String("bundle", src), zap.Int("fonts", cat.Len()))
	return cat.Len(), errs
}
