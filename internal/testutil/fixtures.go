package testutil

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/vk/splashload/internal/fsutil"
)

// AppRoot is the application directory the in-memory namespaces pretend to
// live in.
const AppRoot = "/opt/demo"

// MemFiles returns a filesystem namespace over an in-memory filesystem
// holding files, scoped to childDir. Paths in files are relative to the
// application root.
func MemFiles(t *testing.T, childDir string, files map[string]string) *fsutil.Namespace {
	t.Helper()
	return MemRoot(t, files).Sub(childDir)
}

// MemRoot returns the application directory namespace over an in-memory
// filesystem holding files.
func MemRoot(t *testing.T, files map[string]string) *fsutil.Namespace {
	t.Helper()
	mem := afero.NewMemMapFs()
	for p, content := range files {
		require.NoError(t, afero.WriteFile(mem, p, []byte(content), 0o644))
	}
	return fsutil.New(fsutil.FilesystemName, AppRoot, mem)
}

// MemResources returns an embedded resource namespace holding files.
func MemResources(files map[string]string) *fsutil.Namespace {
	mapFS := fstest.MapFS{}
	for p, content := range files {
		mapFS[p] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsutil.FromFS(mapFS)
}

// ComponentSource returns an HCL source declaring classes.
func ComponentSource(classes ...string) string {
	var b strings.Builder
	for _, class := range classes {
		fmt.Fprintf(&b, "component %q {\n  description = \"test component %s\"\n}\n\n", class, class)
	}
	return b.String()
}
