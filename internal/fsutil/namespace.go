// Package fsutil provides the namespaces component sources and manifests are
// resolved in: the application directory on disk and the embedded resource
// archive. Both are exposed through afero so tests can swap in memory-backed
// filesystems.
package fsutil

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Well-known namespace names.
const (
	FilesystemName = "filesystem"
	ResourceName   = "resource"
)

// ResourceScheme prefixes locations inside the embedded namespace.
const ResourceScheme = "res://"

// Namespace is a read-only view over an afero filesystem, optionally scoped to
// a sub-directory.
type Namespace struct {
	name   string
	root   string // human-readable root used in Location
	fs     afero.Fs
	prefix string // slash-separated, no leading or trailing slash
}

// NewOS returns the filesystem namespace rooted at root (the application
// directory).
func NewOS(root string) *Namespace {
	return &Namespace{
		name: FilesystemName,
		root: root,
		fs:   afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), root)),
	}
}

// FromFS returns the embedded resource namespace backed by fsys, typically
// an embed.FS.
func FromFS(fsys fs.FS) *Namespace {
	return &Namespace{
		name: ResourceName,
		root: ResourceScheme,
		fs:   afero.FromIOFS{FS: fsys},
	}
}

// New wraps an arbitrary afero filesystem. root is only used for Location.
func New(name, root string, fsys afero.Fs) *Namespace {
	return &Namespace{name: name, root: root, fs: fsys}
}

// Name returns the namespace name.
func (n *Namespace) Name() string {
	return n.name
}

// Sub returns a namespace scoped to dir inside n.
func (n *Namespace) Sub(dir string) *Namespace {
	dir = clean(dir)
	if dir == "" {
		return n
	}
	sub := *n
	sub.prefix = clean(path.Join(n.prefix, dir))
	return &sub
}

// Location returns the human-readable location of rel, e.g.
// "/opt/app/app/ui/Widget.hcl" or "res://ui/Widget.hcl".
func (n *Namespace) Location(rel string) string {
	p := n.resolve(rel)
	if n.root == ResourceScheme {
		return ResourceScheme + p
	}
	return filepath.Join(n.root, filepath.FromSlash(p))
}

// ReadFile reads the whole file at rel.
func (n *Namespace) ReadFile(rel string) ([]byte, error) {
	return afero.ReadFile(n.fs, n.resolve(rel))
}

// Exists reports whether rel names an existing regular file.
func (n *Namespace) Exists(rel string) (bool, error) {
	info, err := n.fs.Stat(n.resolve(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (n *Namespace) resolve(rel string) string {
	return clean(path.Join(n.prefix, clean(rel)))
}

// clean normalises p into an unrooted slash path; "." becomes "".
func clean(p string) string {
	p = path.Clean(strings.TrimLeft(filepath.ToSlash(p), "/"))
	if p == "." {
		return ""
	}
	return p
}
