// Package output commits generated artifacts to disk.
//
// Every artifact of a run is first staged to a temporary file next to its
// destination. Destinations are replaced only after all artifacts staged
// successfully. Existing destinations are moved aside before being
// replaced and moved back if a later replacement fails, so a failed run
// leaves the previous set of files in place.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caryhaynie/opentk/gen"
)

// beforeReplace runs before each staged file is renamed into place.
// Tests replace it to inject failures.
var beforeReplace = func(dest string) error { return nil }

type staged struct {
	temp   string
	dest   string
	backup string // previous destination moved aside; empty if none existed
}

// Destinations returns the paths files would be written to under dir.
func Destinations(dir string, files []*gen.OutputFile) ([]string, error) {
	paths := make([]string, 0, len(files))
	seen := map[string]bool{}
	for _, f := range files {
		dest, err := destination(dir, f.Path)
		if err != nil {
			return nil, err
		}
		if seen[dest] {
			return nil, fmt.Errorf("artifact %s generated more than once", f.Path)
		}
		seen[dest] = true
		paths = append(paths, dest)
	}
	return paths, nil
}

func destination(dir, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid artifact path %q", rel)
	}
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact path %q escapes the output directory", rel)
	}
	return filepath.Join(dir, clean), nil
}

// Commit writes files under dir. It returns the written paths in order.
func Commit(dir string, files []*gen.OutputFile) ([]string, error) {
	dests, err := Destinations(dir, files)
	if err != nil {
		return nil, err
	}

	var temps []staged
	cleanup := func() {
		for _, s := range temps {
			_ = os.Remove(s.temp)
		}
	}

	for i, f := range files {
		temp, err := stage(dests[i], f.Content)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("staging %s: %w", f.Path, err)
		}
		temps = append(temps, staged{temp: temp, dest: dests[i]})
	}

	for i := range temps {
		if err := replace(&temps[i]); err != nil {
			restore(temps[:i])
			cleanup()
			if temps[i].backup != "" {
				_ = os.Rename(temps[i].backup, temps[i].dest)
			}
			return nil, fmt.Errorf("replacing %s: %w", temps[i].dest, err)
		}
	}
	for _, s := range temps {
		if s.backup != "" {
			_ = os.Remove(s.backup)
		}
	}
	return dests, nil
}

// replace moves an existing destination aside, then renames the staged
// file into place.
func replace(s *staged) error {
	if err := beforeReplace(s.dest); err != nil {
		return err
	}
	if _, err := os.Lstat(s.dest); err == nil {
		s.backup = s.temp + ".bak"
		if err := os.Rename(s.dest, s.backup); err != nil {
			s.backup = ""
			return err
		}
	}
	return os.Rename(s.temp, s.dest)
}

// restore puts back the destinations of already replaced files: the
// moved-aside original, or nothing when the file did not exist before.
func restore(done []staged) {
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.backup != "" {
			_ = os.Rename(s.backup, s.dest)
		} else {
			_ = os.Remove(s.dest)
		}
	}
}

// stage writes content to a temporary file in the destination directory.
func stage(dest string, content []byte) (string, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+"-*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// ErrUnchanged is reported by Diff when an artifact matches the file on disk.
var ErrUnchanged = errors.New("unchanged")

// Diff reports, per destination, whether committing files would change
// the file on disk: nil for a new or changed file, ErrUnchanged otherwise.
func Diff(dir string, files []*gen.OutputFile) (map[string]error, error) {
	dests, err := Destinations(dir, files)
	if err != nil {
		return nil, err
	}
	out := make(map[string]error, len(files))
	for i, f := range files {
		existing, err := os.ReadFile(dests[i])
		if err == nil && string(existing) == string(f.Content) {
			out[dests[i]] = ErrUnchanged
		} else {
			out[dests[i]] = nil
		}
	}
	return out, nil
}
