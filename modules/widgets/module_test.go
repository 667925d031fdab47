package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/splashload/internal/registry"
)

func TestToolButton_Click(t *testing.T) {
	r := registry.New(&Module{})
	require.NoError(t, r.Link(Class))
	v, err := r.New(Class)
	require.NoError(t, err)
	btn := v.(*ToolButton)

	fired := 0
	btn.OnClick(func() { fired++ })
	btn.Click()
	btn.Click()

	assert.Equal(t, "Tool", btn.Label)
	assert.Equal(t, int64(2), btn.Clicks())
	assert.Equal(t, 2, fired)
}
