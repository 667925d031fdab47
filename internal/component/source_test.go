package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Declarations(t *testing.T) {
	src := `
		component "MainController" {
			description = "Routes the main window"
		}

		component "Helper" {}
	`

	parsed, err := Parse([]byte(src), "Controllers/MainController.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"MainController", "Helper"}, parsed.Classes())
	assert.True(t, parsed.Declares("Helper"))
	assert.False(t, parsed.Declares("Missing"))
	assert.Equal(t, "Routes the main window", parsed.Lookup("MainController").Description)
}

func TestParse_EmptySourceDeclaresNothing(t *testing.T) {
	parsed, err := Parse([]byte("# nothing here\n"), "empty.hcl")
	require.NoError(t, err)
	assert.Empty(t, parsed.Classes())
	assert.False(t, parsed.Declares("Anything"))
}

func TestParse_InvalidSyntax(t *testing.T) {
	_, err := Parse([]byte(`component "Broken" {`), "broken.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse component source broken.hcl")
}

func TestSource_NilLookup(t *testing.T) {
	var s *Source
	assert.Nil(t, s.Lookup("x"))
}
