package http_client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/splashload/internal/registry"
)

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		fmt.Fprint(w, r.Method)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	defer c.Close()

	resp, err := c.Fetch(context.Background(), http.MethodPost, srv.URL)

	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "POST", string(resp.Body))
}

func TestClient_FetchBadURL(t *testing.T) {
	_, err := NewClient(time.Second).Fetch(context.Background(), "BAD METHOD", "http://example.invalid")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create request")
}

func TestModule_DefaultTimeout(t *testing.T) {
	r := registry.New(&Module{})
	require.NoError(t, r.Link(Class))

	v, err := r.New(Class)

	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, v.(*Client).Timeout)
}
