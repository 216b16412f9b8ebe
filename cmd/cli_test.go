package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway is an admin gateway double serving the auth and task
// endpoints the CLI exercises.
type fakeGateway struct {
	mux *http.ServeMux

	tokens map[string]domain.Profile
}

func newFakeGateway() *fakeGateway {
	g := &fakeGateway{
		mux: http.NewServeMux(),
		tokens: map[string]domain.Profile{
			"tok-admin": {
				ID:    "u1",
				Email: "admin@example.com",
				Name:  "Admin",
				Roles: []string{domain.RoleGlobalAdmin},
			},
			"tok-viewer": {
				ID:    "u2",
				Email: "viewer@example.com",
				Name:  "Viewer",
				Roles: []string{"viewer"},
			},
		},
	}

	g.mux.HandleFunc("POST /api/v1/admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &creds)

		switch {
		case creds.Email == "admin@example.com" && creds.Password == "pw":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"token": "tok-admin"}})
		case creds.Email == "viewer@example.com" && creds.Password == "pw":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"token": "tok-viewer"}})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid credentials"})
		}
	})

	g.mux.HandleFunc("GET /api/v1/admin/auth/me", func(w http.ResponseWriter, r *http.Request) {
		profile, ok := g.authed(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "missing or invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": profile})
	})

	g.mux.HandleFunc("POST /api/v1/admin/tasks", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := g.authed(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "missing or invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"taskId": "t-1", "status": "pending"},
		})
	})

	g.mux.HandleFunc("GET /api/v1/admin/tasks/t-1", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := g.authed(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "missing or invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"taskId": "t-1",
				"status": "done",
				"result": map[string]any{
					"target": map[string]any{"agentId": "a1", "refId": "g1"},
					"vm":     map[string]any{"name": "web-01", "state": "Running"},
				},
			},
		})
	})

	return g
}

func (g *fakeGateway) authed(r *http.Request) (domain.Profile, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	profile, ok := g.tokens[token]
	return profile, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func setupCLIEnv(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(newFakeGateway().mux)
	t.Cleanup(server.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("HVXCTL_API_BASE", server.URL+"/api")
	t.Setenv("HVXCTL_TOKEN_DIR", t.TempDir())
	t.Setenv("HVXCTL_RUNTIME_DIR", t.TempDir())
}

func TestCLILoginWhoamiLogoutCycle(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t, "login", "--email", "admin@example.com", "--password", "pw", "--remember")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Admin")

	// A fresh process restores the persisted token and knows who we are.
	out, err = runCLI(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com")
	assert.Contains(t, out, domain.RoleGlobalAdmin)

	out, err = runCLI(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = runCLI(t, "whoami")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCLILoginRejectsBadCredentials(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "login", "--email", "admin@example.com", "--password", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = runCLI(t, "whoami")
	require.ErrorIs(t, err, domain.ErrUnauthorized, "failed login leaves no session behind")
}

func TestCLIGuardedCommandsRequireAuthentication(t *testing.T) {
	setupCLIEnv(t)

	for _, args := range [][]string{
		{"task", "show", "t-1"},
		{"inventory", "show"},
		{"tenant", "list"},
		{"metrics", "overview"},
	} {
		_, err := runCLI(t, args...)
		require.ErrorIs(t, err, domain.ErrUnauthorized, "command %v must be guarded", args)
	}
}

func TestCLIGuardEnforcesAdminRole(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "login", "--email", "viewer@example.com", "--password", "pw", "--remember")
	require.NoError(t, err)

	// whoami has no role requirement, any authenticated user passes.
	out, err := runCLI(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "viewer@example.com")

	_, err = runCLI(t, "task", "show", "t-1")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCLITaskSubmitAndShow(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "login", "--email", "admin@example.com", "--password", "pw", "--remember")
	require.NoError(t, err)

	out, err := runCLI(t, "task", "submit", "--action", "vm.power", "--agent", "a1", "--ref", "g1", "--param", "requestedState=start")
	require.NoError(t, err)
	assert.Contains(t, out, "Task t-1 enqueued")

	out, err = runCLI(t, "task", "show", "t-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "done"`)
	assert.Contains(t, out, "web-01")
}

func TestCLITaskWaitPrintsResult(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "login", "--email", "admin@example.com", "--password", "pw", "--remember")
	require.NoError(t, err)

	out, err := runCLI(t, "task", "wait", "t-1", "--interval", "10ms", "--timeout", "5s")
	require.NoError(t, err)
	assert.Contains(t, out, "web-01")
	assert.Contains(t, out, `"state": "Running"`)
}

func TestCLIInventoryShowEmpty(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "login", "--email", "admin@example.com", "--password", "pw", "--remember")
	require.NoError(t, err)

	out, err := runCLI(t, "inventory", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "[]")
}

func TestCLIInventoryApplyPersistsTaskResult(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "login", "--email", "admin@example.com", "--password", "pw", "--remember")
	require.NoError(t, err)

	_, err = runCLI(t, "inventory", "apply", "t-1", "--interval", "10ms", "--timeout", "5s")
	require.NoError(t, err)

	// The merged row survives into the next invocation's snapshot.
	out, err := runCLI(t, "inventory", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "web-01")
	assert.Contains(t, out, `"agentId": "a1"`)
	assert.Contains(t, out, `"state": "Running"`)
}

func TestCLIInventoryWatchFollowsTask(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "login", "--email", "admin@example.com", "--password", "pw", "--remember")
	require.NoError(t, err)

	out, err := runCLI(t, "inventory", "watch", "t-1", "--interval", "10ms", "--timeout", "5s")
	require.NoError(t, err)
	assert.Contains(t, out, "task t-1: done")
	assert.Contains(t, out, "web-01")
}

func TestCLIVersionCommand(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestCommandLocationStripsBinaryName(t *testing.T) {
	root := newRootCmd()
	task, _, err := root.Find([]string{"task", "show"})
	require.NoError(t, err)
	assert.Equal(t, "task show", commandLocation(task))
}
