// Package archive builds Walk abstraction on top of zip reader. Settings
// bundles are read and updated through it.
package archive

import (
	"fmt"
	"io"
	"path"
	"strings"

	fixzip "github.com/hidez8891/zip"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk
// The file argument is the zip.File structure for file in archive which satisfies
// match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *fixzip.File) error

// Walk walks the all files in the archive which satisfy match condition,
// calling walkFn for each item. Archives with path traversal components
// ("..") or absolute paths in entry names are rejected.
func Walk(archive, pattern string, walkFn WalkFunc) error {
	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFile returns uncompressed content of archive entry.
func ReadFile(file *fixzip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open zip entry %q: %w", file.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("unable to read zip entry %q: %w", file.Name, err)
	}
	return data, nil
}

// CopyEntries copies entries of archive src into w without recompression,
// skipping entries for which skip returns true. Returns names of copied
// entries.
func CopyEntries(src string, w *fixzip.Writer, skip func(name string) bool) ([]string, error) {
	r, err := fixzip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("unable to read archive file (%s): %w", src, err)
	}
	defer r.Close()

	var copied []string
	for _, file := range r.File {
		if !isSafePath(file.Name) || (skip != nil && skip(file.Name)) {
			continue
		}
		// entries are written with known sizes
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return copied, fmt.Errorf("unable to copy zip entry %q: %w", file.Name, err)
		}
		copied = append(copied, file.Name)
	}
	return copied, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
