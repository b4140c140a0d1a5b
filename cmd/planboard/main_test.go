package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harunnryd/planboard/cmd/planboard/runtime"

	"github.com/harunnryd/planboard/internal/config"
	perrors "github.com/harunnryd/planboard/internal/errors"
	"github.com/harunnryd/planboard/internal/gate"
	"github.com/harunnryd/planboard/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComponents(t *testing.T, baseURL, record string) (*runtime.Components, *store.MemoryStore) {
	t.Helper()
	storage := store.NewMemoryStore()
	if record != "" {
		require.NoError(t, storage.Set(config.DefaultSessionKey, record))
	}
	c, err := runtime.NewRuntimeBuilder().
		WithConfig(&config.Config{
			API:     config.APIConfig{BaseURL: baseURL, Timeout: "2s"},
			Session: config.SessionConfig{Key: config.DefaultSessionKey},
		}).
		WithStorage(storage).
		Build()
	require.NoError(t, err)
	t.Cleanup(c.Stop)
	return c, storage
}

func commandWithOutput() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestConfigInitCmd(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cmd, out := commandWithOutput()
	if err := configInitCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("Config init failed: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".planboard", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Config file not created at %s: %v", configPath, err)
	}
	if !strings.Contains(string(data), "base_url: http://localhost:8000") {
		t.Errorf("Unexpected template content:\n%s", data)
	}
	if !strings.Contains(out.String(), "Initialized config") {
		t.Errorf("Expected init message, got %q", out.String())
	}

	cmd2, out2 := commandWithOutput()
	if err := configInitCmd.RunE(cmd2, nil); err != nil {
		t.Errorf("Config init should succeed when config exists: %v", err)
	}
	if !strings.Contains(out2.String(), "already exists") {
		t.Errorf("Expected already-exists message, got %q", out2.String())
	}
}

func TestConfigViewCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLANBOARD_API_BASE_URL", "http://plan.local:9000/")

	cmd, out := commandWithOutput()
	require.NoError(t, configViewCmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), "base_url: http://plan.local:9000")
	assert.Contains(t, out.String(), "key: tekiz-auth")
}

func TestEmbeddedConfigLoads(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, embeddedDefaultConfig, 0644))

	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "")
	require.NoError(t, cmd.Flags().Set("config", path))

	loaded, err := config.Load(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAPIBaseURL, loaded.API.BaseURL)
	assert.Equal(t, filepath.Join(home, ".planboard", "session.json"), loaded.Session.Path)
	assert.Equal(t, config.DefaultSyncReconnectAttempts, loaded.Sync.ReconnectAttempts)
}

func TestRequireRoute(t *testing.T) {
	tests := []struct {
		name     string
		record   string
		path     string
		wantErr  bool
		contains string
	}{
		{
			name:     "anonymous is sent to login",
			path:     gate.PathBoard,
			wantErr:  true,
			contains: "planboard login",
		},
		{
			name:     "sales on board falls back to menu",
			record:   `{"token":"t","role":"sales","userName":"Sam"}`,
			path:     gate.PathBoard,
			wantErr:  true,
			contains: "/orders",
		},
		{
			name:   "planner on board",
			record: `{"token":"t","role":"planner","userName":"Pat"}`,
			path:   gate.PathBoard,
		},
		{
			name:   "production on production",
			record: `{"token":"t","role":"production","userName":"Pia"}`,
			path:   gate.PathProduction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testComponents(t, "http://localhost:8000", tt.record)
			var out bytes.Buffer
			err := requireRoute(c, &out, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, out.String(), tt.contains)
				assert.NotContains(t, out.String(), "Planning board")
				return
			}
			assert.NoError(t, err)
			assert.Empty(t, out.String())
		})
	}
}

func TestRunRoutes_HidesRestrictedRoutes(t *testing.T) {
	sales := `{"token":"t","role":"sales","userName":"Sam"}`
	for _, all := range []bool{false, true} {
		c, _ := testComponents(t, "http://localhost:8000", sales)
		cmd, out := commandWithOutput()
		require.NoError(t, runRoutes(c, cmd, all))

		text := out.String()
		assert.Contains(t, text, "/orders")
		for _, hidden := range []string{"/settings", "/board", "/production"} {
			assert.NotContains(t, text, hidden, "all=%v", all)
		}
	}
}

func TestRunRoutes_AdminListsEverything(t *testing.T) {
	c, _ := testComponents(t, "http://localhost:8000", `{"token":"t","role":"admin","userName":"Ada"}`)
	cmd, out := commandWithOutput()
	require.NoError(t, runRoutes(c, cmd, true))
	assert.Contains(t, out.String(), "/settings")
	assert.Contains(t, out.String(), "/board")
}

func TestRunRoutes_Anonymous(t *testing.T) {
	c, _ := testComponents(t, "http://localhost:8000", "")
	cmd, out := commandWithOutput()
	require.NoError(t, runRoutes(c, cmd, true))
	assert.Contains(t, out.String(), "Not logged in.")
	assert.NotContains(t, out.String(), "/settings")
}

func TestRunLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(readBody(r), `"password":"secret"`) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","role":"planner","user_name":"Pat"}`))
	}))
	defer srv.Close()

	c, storage := testComponents(t, srv.URL, "")

	cmd, out := commandWithOutput()
	err := runLogin(c, cmd, "pat@example.com", "wrong")
	assert.ErrorIs(t, err, perrors.ErrUnauthorized)
	assert.Contains(t, out.String(), loginFailedMessage)
	assert.False(t, c.Session.Snapshot().LoggedIn())
	assert.Equal(t, 0, storage.Writes())

	cmd, out = commandWithOutput()
	require.NoError(t, runLogin(c, cmd, "pat@example.com", "secret"))
	assert.Contains(t, out.String(), "Signed in as Pat (planner)")

	stored, ok, err := storage.Get(config.DefaultSessionKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"token":"tok-1","role":"planner","userName":"Pat"}`, stored)
}

func TestRunWhoami(t *testing.T) {
	c, _ := testComponents(t, "http://localhost:8000", "")
	cmd, out := commandWithOutput()
	require.NoError(t, runWhoami(c, cmd))
	assert.Contains(t, out.String(), "Not logged in.")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "17",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	c, _ = testComponents(t, "http://localhost:8000", `{"token":"`+signed+`","role":"admin","userName":"Ada"}`)
	cmd, out = commandWithOutput()
	require.NoError(t, runWhoami(c, cmd))
	assert.Contains(t, out.String(), "Name: Ada")
	assert.Contains(t, out.String(), "Role: admin")
	assert.Contains(t, out.String(), "Subject: 17")
	assert.Contains(t, out.String(), "expired")
}

func readBody(r *http.Request) string {
	var b bytes.Buffer
	_, _ = b.ReadFrom(r.Body)
	return b.String()
}

func TestSignalHandler_StopCancelsContext(t *testing.T) {
	h := NewSignalHandler(context.Background())
	h.Start()
	h.Stop()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after Stop")
	}
}
