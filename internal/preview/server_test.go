// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preview

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	docs := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(docs, "images", "00"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "manifest.json"), []byte(`{"@id":"x"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "images", "00", "info.json"), []byte(`{}`), 0o644))

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	ts := httptest.NewServer(NewServer(docs, log))
	t.Cleanup(ts.Close)
	return ts, &logs
}

func TestServer(t *testing.T) {
	ts, logs := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{"health", "/health", http.StatusOK, "application/json", `{"status":"ok"}`},
		{"manifest", "/manifest.json", http.StatusOK, "application/json", `{"@id":"x"}`},
		{"nested info", "/images/00/info.json", http.StatusOK, "application/json", `{}`},
		{"missing", "/images/99/info.json", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ts.Client().Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, resp.Header.Get("Content-Type"))
			}
			if tt.wantBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}

	assert.Contains(t, logs.String(), `"path":"/manifest.json"`)
	assert.Contains(t, logs.String(), `"status":404`)
}

func TestServer_Preflight(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/manifest.json", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://viewer.example")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "GET")
}

func TestListenAndServe_Shutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, addr, NewServer(t.TempDir(), nil), slog.New(slog.DiscardHandler))
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
