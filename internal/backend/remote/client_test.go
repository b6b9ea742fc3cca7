package remote

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/server"
)

func dialTestServer(t *testing.T) (*Client, *server.Server, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	srv := server.New(server.Options{Backend: func() backend.Options {
		return backend.Options{StartPath: dir, HomePath: dir}
	}})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, srv, dir
}

func next(t *testing.T, c *Client) backend.Response {
	t.Helper()
	select {
	case resp, ok := <-c.Responses():
		require.True(t, ok, "responses closed")
		return resp
	case <-time.After(5 * time.Second):
		t.Fatal("no response")
		return backend.Response{}
	}
}

func TestClientRoundTrip(t *testing.T) {
	c, _, dir := dialTestServer(t)

	require.NoError(t, c.Dispatch(backend.Request{Command: backend.CreateFolder, Token: 1, FolderName: "made"}))
	resp := next(t, c)
	require.Nil(t, resp.Failure)
	assert.Equal(t, filepath.Join(dir, "made"), resp.Output)

	require.NoError(t, c.Dispatch(backend.Request{Command: backend.ListDirs, Token: 2}))
	resp = next(t, c)
	assert.Equal(t, int64(2), resp.Token)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "made", resp.Entries[0].Name)
	assert.True(t, resp.Entries[0].IsDir)
}

func TestClientCloseEndsResponses(t *testing.T) {
	c, _, _ := dialTestServer(t)
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.Dispatch(backend.Request{Command: backend.ListDirs}), ErrClosed)
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-c.Responses():
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServerShutdownClosesClient(t *testing.T) {
	c, srv, _ := dialTestServer(t)
	require.NoError(t, c.Dispatch(backend.Request{Command: backend.GetCurrentDir, Token: 1}))
	next(t, c)

	srv.Shutdown()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-c.Responses():
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
