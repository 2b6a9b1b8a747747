package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"expctl/internal/config"
	"expctl/internal/experiments"
	"expctl/internal/registry"
	"expctl/internal/testsupport"
)

type fakeProcesses struct {
	mu         sync.Mutex
	alive      map[int]bool
	terminated []int
}

func (f *fakeProcesses) IsAlive(pid int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive[pid]
}

func (f *fakeProcesses) Terminate(pid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = append(f.terminated, pid)
	return nil
}

const (
	testExperimentDoc = `{"id":"exp1","startTime":1700000000123,"params":{"maxTrialNum":5}}`
	testTrialsDoc     = `[{"id":"t1","status":"SUCCEEDED","startTime":1700000000000,"endTime":1700000060000,"logPath":"/logs/t1"},{"id":"t2","status":"USER_CANCELED","startTime":1700000000000,"logPath":"/logs/t2"}]`
)

func newFakeRESTHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/nni/check-status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"RUNNING","errors":[]}`))
	})
	mux.HandleFunc("/api/v1/nni/experiment", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			return
		}
		_, _ = w.Write([]byte(testExperimentDoc))
	})
	mux.HandleFunc("/api/v1/nni/trial-jobs", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testTrialsDoc))
	})
	mux.HandleFunc("/api/v1/nni/trial-jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("killed " + strings.TrimPrefix(r.URL.Path, "/api/v1/nni/trial-jobs/")))
	})
	return mux
}

type cliTestEnv struct {
	cfg        *config.Config
	store      *registry.Store
	rest       *testsupport.RESTServer
	procs      *fakeProcesses
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("EXPCTL_HOME", "")
	t.Setenv("EXPCTL_LOG_LEVEL", "")

	rest := testsupport.NewRESTServer(t, newFakeRESTHandler())
	cfg := testsupport.NewConfig(t, testsupport.WithRESTBaseURL(rest.BaseURL))
	t.Setenv("HOME", testsupport.BaseDir(cfg))

	configPath := filepath.Join(testsupport.BaseDir(cfg), "expctl.toml")
	writeTestConfig(t, configPath, cfg)

	procs := &fakeProcesses{alive: map[int]bool{}}
	previous := newProcesses
	newProcesses = func() experiments.Processes { return procs }
	t.Cleanup(func() { newProcesses = previous })

	return &cliTestEnv{
		cfg:        cfg,
		store:      testsupport.MustOpenRegistry(t, cfg),
		rest:       rest,
		procs:      procs,
		configPath: configPath,
	}
}

// addLive registers an experiment served by the fake REST server with a live pid.
func (e *cliTestEnv) addLive(t *testing.T, id string, pid int) {
	t.Helper()
	testsupport.AddExperiment(t, e.store, id, e.rest.Port, pid, "2024/01/01 00:00:00")
	e.procs.mu.Lock()
	e.procs.alive[pid] = true
	e.procs.mu.Unlock()
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
