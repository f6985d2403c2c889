package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/config"
	"github.com/EasterCompany/package-builder-service/internal/dashboard"
	"github.com/EasterCompany/package-builder-service/internal/session"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
)

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		id, pattern string
		want        bool
	}{
		{"abc-123", "*", true},
		{"abc-123", "abc*", true},
		{"abc-123", "*123", true},
		{"abc-123", "abc-12?", true},
		{"abc-123", "abd*", false},
		{"abc-123", "abc", false},
		{"a.c", "a.c", true},
		{"abc", "a.c", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesPattern(tt.id, tt.pattern), "%s ~ %s", tt.id, tt.pattern)
	}
}

func testApp(t *testing.T, baseURL string, mirror bool) *app {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Remote.BaseURL = baseURL
	cfg.Remote.Mirror = mirror
	cfg.Remote.Timeout = time.Second
	a, err := newApp(context.Background(), &cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

func TestSQLiteBackendKeepsActivityAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "data", "sessions.db")
	cfg.Remote.BaseURL = "http://127.0.0.1:1"
	cfg.Remote.Mirror = false

	first, err := newApp(ctx, &cfg, zap.NewNop())
	require.NoError(t, err)
	_, err = first.activity.Record(ctx, "u1", dashboard.EventReferral, 2)
	require.NoError(t, err)
	first.close()

	second, err := newApp(ctx, &cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(second.close)
	a, err := second.activity.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Referrals)
}

func seed(t *testing.T, a *app, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := a.store.Save(context.Background(), id, session.Patch{Progress: &wizard.Progress{}})
		require.NoError(t, err)
	}
	a.store.Wait()
}

func TestDeleteSessionsNeedsConfirmation(t *testing.T) {
	a := testApp(t, "http://127.0.0.1:1", false)
	seed(t, a, "keep-1", "drop-1", "drop-2")
	ctx := context.Background()

	var out bytes.Buffer
	n, err := DeleteSessions(ctx, a.store, []string{"drop-*"}, strings.NewReader("no\n"), &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, out.String(), "Deletion cancelled")

	out.Reset()
	n, err = DeleteSessions(ctx, a.store, []string{"drop-*"}, strings.NewReader("yes\n"), &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ids, err := a.store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep-1"}, ids)

	out.Reset()
	n, err = DeleteSessions(ctx, a.store, []string{"zzz"}, strings.NewReader(""), &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, out.String(), "No sessions matched")
}

func TestListSessions(t *testing.T) {
	a := testApp(t, "http://127.0.0.1:1", false)
	var out bytes.Buffer
	require.NoError(t, ListSessions(context.Background(), a.store, &out))
	assert.Contains(t, out.String(), "No sessions found")

	seed(t, a, "s1")
	out.Reset()
	require.NoError(t, ListSessions(context.Background(), a.store, &out))
	assert.Contains(t, out.String(), "Total sessions: 1")
	assert.Contains(t, out.String(), "s1  [welcome, v1")
}

func TestProcessPersistentTasks(t *testing.T) {
	var down atomic.Bool
	down.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	a := testApp(t, srv.URL, true)
	seed(t, a, "s1")
	require.Equal(t, 1, a.store.Pending())
	_, err := a.activity.Record(context.Background(), "u1", dashboard.EventLogin, 4)
	require.NoError(t, err)

	monday := time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC)
	err = processPersistentTasks(context.Background(), a, monday)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 session(s)")
	assert.Equal(t, 10, a.decay.Total())

	activity, err := a.activity.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, activity.WeeklyLogins)

	down.Store(false)
	require.NoError(t, processPersistentTasks(context.Background(), a, monday.Add(time.Hour)))
	assert.Equal(t, 0, a.store.Pending())
	assert.Equal(t, 10, a.decay.Total())
}

func TestRunCoreLogicStopsOnCancel(t *testing.T) {
	a := testApp(t, "http://127.0.0.1:1", false)
	a.cfg.CoreInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunCoreLogic(ctx, a) }()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("core logic did not stop")
	}
}

func TestQuoteCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"userType": "business",
		"businessSize": "growing",
		"sector": "Technology & Software",
		"outcomes": ["lead-generation", "networking"]
	}`), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"quote", path})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), `"tier": "Growth"`)

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{"userType": "consumer"}`))
	cmd.SetArgs([]string{"quote", "-", "--text"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "package")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.NotEmpty(t, strings.TrimSpace(out.String()))
}
