package notesapi

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitServiceReturnsStatus(t *testing.T) {
	body := []byte(`{"status":"ok","capabilities":["catalog"]}`)
	withClient(httphelpers.HandlerWithResponse(200, jsonHeaders(), body), func(c *Client) {
		var out bytes.Buffer
		status, err := c.AwaitService(context.Background(), time.Second, &out)
		require.NoError(t, err)
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, []string{"catalog"}, status.Capabilities)
		assert.Contains(t, out.String(), "Connecting to notes API at "+c.BaseURL())
	})
}

func TestAwaitServiceStopsAtFirstResponse(t *testing.T) {
	withClient(httphelpers.HandlerWithStatus(503), func(c *Client) {
		var out bytes.Buffer
		status, err := c.AwaitService(context.Background(), time.Second, &out)
		require.NoError(t, err)
		assert.Equal(t, "", status.Status)
		assert.Contains(t, out.String(), "Status query returned 503")
	})

	notJSON := httphelpers.HandlerWithResponse(200, nil, []byte("<html>starting</html>"))
	withClient(notJSON, func(c *Client) {
		status, err := c.AwaitService(context.Background(), time.Second, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "", status.Status)
	})
}

func TestAwaitServiceTimesOut(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	server.Close()

	c := NewClient(server.URL)
	start := time.Now()
	_, err := c.AwaitService(context.Background(), 300*time.Millisecond, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}
