package export

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// DirSink writes rendered groups under Root, one file per group at
// <root>/<folder>/<bucket>.yaml.
type DirSink struct {
	Root string
}

// Write materializes the groups on disk. It verifies the root is
// writable before touching anything, removes stale files from folders
// this run is authoritative for, then writes each group atomically.
//
// The returned count is the number of files written so far; on error
// the files already written stay in place.
func (s *DirSink) Write(groups []RenderedGroup) (int, error) {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return 0, &FilesystemError{Op: "create export root", Path: s.Root, Err: err}
	}

	// Probe writability up front so a read-only root aborts the run
	// before any file is removed or replaced.
	probe, err := os.CreateTemp(s.Root, ".probe-*")
	if err != nil {
		return 0, &FilesystemError{Op: "probe export root", Path: s.Root, Err: err}
	}
	probe.Close()
	os.Remove(probe.Name())

	produced := make(map[string]bool, len(groups))
	for _, g := range groups {
		produced[g.Path] = true
	}

	if err := s.removeStale(produced); err != nil {
		return 0, err
	}

	written := 0
	for _, g := range groups {
		full := filepath.Join(s.Root, filepath.FromSlash(g.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return written, &FilesystemError{Op: "create group folder", Path: filepath.Dir(full), Err: err}
		}
		if err := writeFileAtomic(full, g.Data); err != nil {
			return written, &FilesystemError{Op: "write target file", Path: full, Err: err}
		}
		written++
	}
	return written, nil
}

// removeStale deletes files inside known monitor-type folders that this
// run did not produce. Directories are never removed, and folders
// outside the known set are left untouched.
func (s *DirSink) removeStale(produced map[string]bool) error {
	for _, folder := range Folders() {
		dir := filepath.Join(s.Root, folder)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return &FilesystemError{Op: "read export folder", Path: dir, Err: err}
		}
		for _, ent := range entries {
			if ent.IsDir() {
				continue
			}
			if produced[path.Join(folder, ent.Name())] {
				continue
			}
			stale := filepath.Join(dir, ent.Name())
			if err := os.Remove(stale); err != nil {
				return &FilesystemError{Op: "remove stale target file", Path: stale, Err: err}
			}
		}
	}
	return nil
}

// writeFileAtomic writes data through a temp file in the destination
// directory and renames it into place, so readers never observe a
// half-written file.
func writeFileAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
