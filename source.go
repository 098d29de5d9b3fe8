package ucmlint

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/chromeos/adhd/devtools/ucmlint/internal/layout"
)

// source reads the files of UCM directories. Its layout.Paths methods
// split directory paths in the source's own path syntax.
type source interface {
	layout.Paths
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
	Join(elem ...string) string
}

// --- OS source ---

type osSource struct {
	layout.OSPaths
}

func (osSource) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }
func (osSource) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (osSource) Join(elem ...string) string            { return filepath.Join(elem...) }

// --- FS source (for embed.FS, testing) ---

type fsSource struct {
	fsys fs.FS
}

func (s fsSource) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(s.fsys, fsPath(name))
}

func (s fsSource) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(s.fsys, fsPath(name))
}

func (fsSource) Join(elem ...string) string { return path.Join(elem...) }

// Abs only cleans p: an fs.FS has no working directory to resolve against.
func (fsSource) Abs(p string) string  { return path.Clean(filepath.ToSlash(p)) }
func (fsSource) Dir(p string) string  { return path.Dir(p) }
func (fsSource) Base(p string) string { return path.Base(p) }

// fsPath converts name to the unrooted form fs.FS requires.
func fsPath(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	for len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	if name == "" {
		return "."
	}
	return name
}
