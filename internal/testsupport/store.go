package testsupport

import (
	"context"
	"strconv"
	"testing"

	"expctl/internal/config"
	"expctl/internal/registry"
)

// MustOpenRegistry opens a registry.Store for tests and registers cleanup.
func MustOpenRegistry(t testing.TB, cfg *config.Config) *registry.Store {
	t.Helper()

	store, err := registry.Open(cfg)
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddExperiment registers an experiment and, when pid is non-zero, the REST
// server settings for it. The REST server is assumed to listen on the
// registry port.
func AddExperiment(t testing.TB, store *registry.Store, id string, port, pid int, startTime string) {
	t.Helper()

	ctx := context.Background()
	exp := registry.Experiment{ID: id, Port: port, StartTime: startTime}
	if pid == 0 {
		if err := store.Add(ctx, exp); err != nil {
			t.Fatalf("store.Add(%s): %v", id, err)
		}
		return
	}
	settings := registry.Settings{
		RESTServerPort: port,
		RESTServerPID:  pid,
		WebUIURLs:      []string{"http://127.0.0.1:" + strconv.Itoa(port)},
	}
	if err := store.Register(ctx, exp, settings); err != nil {
		t.Fatalf("store.Register(%s): %v", id, err)
	}
}
