// Package settings persists custom CSS and font catalog in SQLite database
// and moves them between machines as zip bundles.
package settings

import (
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"themekit/common"
	"themekit/fonts"
)

const (
	keyCustomCSS  = "custom_css"
	keyActiveFont = "active_font"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fonts (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	family   TEXT NOT NULL,
	source   TEXT NOT NULL,
	css      TEXT NOT NULL,
	enabled  INTEGER NOT NULL
);
`

// Store is settings database. Single connection, not safe for concurrent use.
type Store struct {
	conn *sqlite.Conn
	path string
	log  *zap.Logger
}

// Open opens or creates database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open settings database (%s): %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to initialize settings database (%s): %w", path, err)
	}
	s := &Store{conn: conn, path: path, log: log.Named("settings")}
	s.log.Debug("Settings opened", zap.String("path", path))
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := sqlitex.Execute(s.conn, `SELECT value FROM settings WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value, found = stmt.ColumnText(0), true
				return nil
			},
		})
	if err != nil {
		return "", false, fmt.Errorf("unable to read setting %q: %w", key, err)
	}
	return value, found, nil
}

func (s *Store) set(key, value string) error {
	err := sqlitex.Execute(s.conn, `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, value}})
	if err != nil {
		return fmt.Errorf("unable to store setting %q: %w", key, err)
	}
	return nil
}

// CustomCSS returns stored custom CSS, empty when never set.
func (s *Store) CustomCSS() (string, error) {
	v, _, err := s.get(keyCustomCSS)
	return v, err
}

func (s *Store) SetCustomCSS(text string) error {
	return s.set(keyCustomCSS, text)
}

// LoadCatalog reads fonts in stored order together with active selection.
func (s *Store) LoadCatalog(log *zap.Logger) (*fonts.Catalog, error) {
	cat := fonts.NewCatalog(log)

	err := sqlitex.Execute(s.conn, `SELECT id, name, family, source, css, enabled FROM fonts ORDER BY position`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				src, err := common.ParseFontSource(stmt.ColumnText(3))
				if err != nil {
					return fmt.Errorf("font %q: %w", stmt.ColumnText(0), err)
				}
				return cat.Add(fonts.Font{
					ID:      stmt.ColumnText(0),
					Name:    stmt.ColumnText(1),
					Family:  stmt.ColumnText(2),
					Source:  src,
					CSS:     stmt.ColumnText(4),
					Enabled: stmt.ColumnInt(5) != 0,
				})
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to load fonts: %w", err)
	}

	active, _, err := s.get(keyActiveFont)
	if err != nil {
		return nil, err
	}
	if err := cat.SetActive(active); err != nil {
		// font could be removed by hand, do not fail on stale selection
		s.log.Warn("Ignoring unknown active font", zap.String("id", active))
	}
	return cat, nil
}

// SaveCatalog replaces stored fonts with catalog content atomically.
func (s *Store) SaveCatalog(cat *fonts.Catalog) (err error) {
	defer sqlitex.Save(s.conn)(&err)

	if err = sqlitex.Execute(s.conn, `DELETE FROM fonts`, nil); err != nil {
		return fmt.Errorf("unable to clear fonts: %w", err)
	}
	for i, f := range cat.List() {
		enabled := 0
		if f.Enabled {
			enabled = 1
		}
		err = sqlitex.Execute(s.conn, `INSERT INTO fonts (id, position, name, family, source, css, enabled) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{f.ID, i, f.Name, f.Family, f.Source.String(), f.CSS, enabled}})
		if err != nil {
			return fmt.Errorf("unable to store font %q: %w", f.ID, err)
		}
	}
	if err = s.set(keyActiveFont, cat.ActiveID()); err != nil {
		return err
	}
	s.log.Debug("Fonts saved", zap.Int("count", cat.Len()), zap.String("active", cat.ActiveID()))
	return nil
}
