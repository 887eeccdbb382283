// Package mapfs exposes an explicit list of files on disk as a flat fs.FS,
// keyed by base name.
package mapfs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// MapFS maps a base name to the path of the file on disk.
type MapFS map[string]string

var _ fs.FS = (*MapFS)(nil)

// New creates a MapFS from the given paths. It is an error to pass two
// paths with the same base name.
func New(paths ...string) (MapFS, error) {
	m := make(MapFS, len(paths))
	for _, p := range paths {
		if err := m.Add(p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add registers path under its base name.
func (m MapFS) Add(path string) error {
	filename := filepath.Base(path)
	if existing, ok := m[filename]; ok && existing != path {
		return fmt.Errorf("%s and %s have the same file name", existing, path)
	}
	m[filename] = path
	return nil
}

func (m MapFS) Open(filename string) (fs.File, error) {
	if !fs.ValidPath(filename) {
		return nil, &fs.PathError{Op: "open", Path: filename, Err: fs.ErrInvalid}
	}
	if filename == "." {
		var entries []fs.DirEntry
		for base, fullpath := range m {
			info, err := os.Stat(fullpath)
			if err != nil {
				continue
			}
			entries = append(entries, fileDirEntry{name: base, info: info})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})
		return &virtualDir{entries: entries}, nil
	}

	fullpath, ok := m[filename]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: filename, Err: fs.ErrNotExist}
	}
	return os.Open(fullpath)
}

// virtualDir implements fs.File + ReadDirFile
type virtualDir struct {
	entries []fs.DirEntry
	pos     int
}

func (d *virtualDir) Stat() (fs.FileInfo, error) {
	return dirInfo{name: ".", mode: fs.ModeDir}, nil
}

func (d *virtualDir) Read([]byte) (int, error) {
	return 0, io.EOF // directories have no data
}

func (d *virtualDir) Close() error {
	return nil
}

func (d *virtualDir) ReadDir(n int) ([]fs.DirEntry, error) {
	remaining := len(d.entries) - d.pos
	if n <= 0 {
		entries := d.entries[d.pos:]
		d.pos = len(d.entries)
		return entries, nil
	}
	if remaining == 0 {
		return nil, io.EOF
	}
	if n > remaining {
		n = remaining
	}
	entries := d.entries[d.pos : d.pos+n]
	d.pos += n
	return entries, nil
}

// fileDirEntry implements fs.DirEntry
type fileDirEntry struct {
	name string
	info os.FileInfo
}

func (e fileDirEntry) Name() string               { return e.name }
func (e fileDirEntry) IsDir() bool                { return e.info.IsDir() }
func (e fileDirEntry) Type() fs.FileMode          { return e.info.Mode().Type() }
func (e fileDirEntry) Info() (fs.FileInfo, error) { return e.info, nil }

// dirInfo is a simple FileInfo for the root dir
type dirInfo struct {
	name string
	mode fs.FileMode
}

func (d dirInfo) Name() string       { return d.name }
func (d dirInfo) Size() int64        { return 0 }
func (d dirInfo) Mode() fs.FileMode  { return d.mode }
func (d dirInfo) ModTime() time.Time { return time.Time{} }
func (d dirInfo) IsDir() bool        { return d.mode.IsDir() }
func (d dirInfo) Sys() interface{}   { return nil }
