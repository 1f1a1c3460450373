package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	server     *httptest.Server
	mux        *testMux
	configPath string
	assetsDir  string
	mirrorDir  string
}

// testMux accepts the "METHOD /path" patterns that net/http's ServeMux only
// understands from Go 1.22 onward, so the tests run on older toolchains.
type testMux struct {
	inner *http.ServeMux
}

func (m *testMux) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	method := ""
	path := pattern
	if i := strings.IndexByte(pattern, ' '); i > 0 && !strings.Contains(pattern[:i], "/") {
		method, path = pattern[:i], pattern[i+1:]
	}
	m.inner.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if method != "" && r.Method != method {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	})
}

// setupCLITestEnv starts a fake backend and writes a config file pointing the
// console at it, with logging and the mirror confined to a temp dir.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	mux := &testMux{inner: http.NewServeMux()}
	server := httptest.NewServer(mux.inner)
	t.Cleanup(server.Close)

	assetsDir := filepath.Join(base, "assets")
	mirrorDir := filepath.Join(base, "mirror")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[backend]
base_url = %q

[paths]
assets_dir = %q
log_dir = %q

[mirror]
enabled = true
dir = %q
`, server.URL, assetsDir, filepath.Join(base, "logs"), mirrorDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		server:     server,
		mux:        mux,
		configPath: configPath,
		assetsDir:  assetsDir,
		mirrorDir:  mirrorDir,
	}
}

func (env *cliTestEnv) handleJSON(pattern string, status int, body any) {
	env.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
