package manifest

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/splashload/internal/config"
	"github.com/vk/splashload/internal/errors"
	"github.com/vk/splashload/internal/fsutil"
)

// memSource writes files into an in-memory filesystem namespace and returns
// a Source pointing at dir/name.
func memSource(t *testing.T, dir, name string, files map[string]string) config.Source {
	t.Helper()
	mem := afero.NewMemMapFs()
	for p, content := range files {
		require.NoError(t, afero.WriteFile(mem, p, []byte(content), 0o644))
	}
	return config.Source{
		Namespace: fsutil.New(fsutil.FilesystemName, "/opt/demo", mem),
		Dir:       dir,
		Name:      name,
	}
}

func TestLoad_JSONManifestKeepsOrder(t *testing.T) {
	// --- Arrange ---
	src := memSource(t, "app", "", map[string]string{
		"app/Loader.json": `[
			{"name": "Controllers", "class": "MainController", "path": "Controllers/", "init": true, "resource": false},
			{"name": "UI Elements", "class": "MyToolBtn", "path": "ui/", "init": false, "resource": true, "comment": "ignored"},
			{"name": "Controllers again", "class": "MainController", "path": "Controllers/", "init": true, "resource": false}
		]`,
	})

	// --- Act ---
	m, err := NewLoader().Load(context.Background(), src)

	// --- Assert ---
	require.NoError(t, err)
	want := []config.Descriptor{
		{DisplayName: "Controllers", Class: "MainController", RelativePath: "Controllers/", Initialize: true},
		{DisplayName: "UI Elements", Class: "MyToolBtn", RelativePath: "ui/", FromResource: true},
		{DisplayName: "Controllers again", Class: "MainController", RelativePath: "Controllers/", Initialize: true},
	}
	if diff := cmp.Diff(want, m.Descriptors); diff != "" {
		t.Errorf("descriptors mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "/opt/demo/app/Loader.json", m.Origin)
	assert.Equal(t, 3, m.Len())
}

func TestLoad_HCLManifestFromResources(t *testing.T) {
	src := config.Source{
		Namespace: fsutil.FromFS(fstest.MapFS{
			"app/Loader.hcl": &fstest.MapFile{Data: []byte(`
				component "Controllers" {
					class    = "MainController"
					path     = "Controllers/"
					init     = true
					resource = false
				}
				component "UI Elements" {
					class    = "MyToolBtn"
					path     = "ui/"
					init     = false
					resource = true
				}
			`)},
		}),
		Dir:  "app",
		Name: "Loader.hcl",
	}

	m, err := NewLoader().Load(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())
	assert.Equal(t, "Controllers", m.At(0).DisplayName)
	assert.Equal(t, "MyToolBtn", m.At(1).Class)
	assert.True(t, m.At(1).FromResource)
	assert.Equal(t, "res://app/Loader.hcl", m.Origin)
}

func TestLoad_ConfigurationErrors(t *testing.T) {
	testCases := []struct {
		name      string
		files     map[string]string
		manifest  string
		errSubstr string
	}{
		{
			name:      "missing file",
			files:     map[string]string{},
			errSubstr: "failed to read manifest /opt/demo/app/Loader.json",
		},
		{
			name:      "empty array",
			files:     map[string]string{"app/Loader.json": `[]`},
			errSubstr: "lists no components",
		},
		{
			name:      "not an array",
			files:     map[string]string{"app/Loader.json": `{"name": "x"}`},
			errSubstr: "must be a JSON array",
		},
		{
			name:      "invalid JSON",
			files:     map[string]string{"app/Loader.json": `[{"name": }]`},
			errSubstr: "failed to parse JSON manifest",
		},
		{
			name:      "missing attribute",
			files:     map[string]string{"app/Loader.json": `[{"name": "A", "class": "A", "path": "", "init": true}]`},
			errSubstr: `"resource"`,
		},
		{
			name:      "null attribute",
			files:     map[string]string{"app/Loader.json": `[{"name": "A", "class": null, "path": "", "init": true, "resource": false}]`},
			errSubstr: `attribute "class": must not be null`,
		},
		{
			name:      "string where bool expected",
			files:     map[string]string{"app/Loader.json": `[{"name": "A", "class": "A", "path": "", "init": "true", "resource": false}]`},
			errSubstr: `attribute "init": bool required, got string`,
		},
		{
			name:      "number where string expected",
			files:     map[string]string{"app/Loader.json": `[{"name": 5, "class": "A", "path": "", "init": true, "resource": false}]`},
			errSubstr: `attribute "name": string required, got number`,
		},
		{
			name:      "entry is not an object",
			files:     map[string]string{"app/Loader.json": `["MainController"]`},
			errSubstr: "entry 0: must be a JSON object, got string",
		},
		{
			name:      "invalid class identifier",
			files:     map[string]string{"app/Loader.json": `[{"name": "A", "class": "9Lives", "path": "", "init": true, "resource": false}]`},
			errSubstr: `"9Lives" is not a valid identifier`,
		},
		{
			name:      "path without trailing separator",
			files:     map[string]string{"app/Loader.json": `[{"name": "A", "class": "A", "path": "ui", "init": true, "resource": false}]`},
			errSubstr: "must end with a path separator",
		},
		{
			name:      "unsupported format",
			files:     map[string]string{"app/Loader.yaml": `- name: A`},
			manifest:  "Loader.yaml",
			errSubstr: `unsupported manifest format ".yaml"`,
		},
		{
			name:      "HCL missing attribute",
			files:     map[string]string{"app/Loader.hcl": `component "A" { class = "A" }`},
			manifest:  "Loader.hcl",
			errSubstr: "failed to decode HCL manifest",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := memSource(t, "app", tc.manifest, tc.files)

			m, err := NewLoader().Load(context.Background(), src)

			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, errors.ErrConfiguration), "expected a configuration error, got %v", err)
			assert.Contains(t, err.Error(), tc.errSubstr)
		})
	}
}

func TestLoad_NilNamespaceIsDependencyError(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), config.Source{Dir: "app"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDependency))
}
