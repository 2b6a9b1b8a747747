package registry_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"expctl/internal/registry"
	"expctl/internal/testsupport"
)

func TestAddAllRemove(t *testing.T) {
	store := testsupport.MustOpenRegistry(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, exp := range []registry.Experiment{
		{ID: "exp1", Port: 8080, StartTime: "2024-01-01 10:00:00"},
		{ID: "exp2", Port: 8081, StartTime: "2024-01-01 11:00:00"},
	} {
		if err := store.Add(ctx, exp); err != nil {
			t.Fatalf("Add(%s): %v", exp.ID, err)
		}
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 experiments, got %d", len(all))
	}
	if all["exp2"].Port != 8081 || all["exp2"].StartTime != "2024-01-01 11:00:00" {
		t.Fatalf("unexpected exp2 entry: %+v", all["exp2"])
	}

	if err := store.Remove(ctx, "exp1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Get(ctx, "exp1"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if err := store.Remove(ctx, "exp1"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound removing twice, got %v", err)
	}
}

func TestAddReplacesExistingID(t *testing.T) {
	store := testsupport.MustOpenRegistry(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Add(ctx, registry.Experiment{ID: "exp1", Port: 8080, StartTime: "a"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Add(ctx, registry.Experiment{ID: "exp1", Port: 9090, StartTime: "b"}); err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	exp, err := store.Get(ctx, "exp1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if exp.Port != 9090 || exp.StartTime != "b" {
		t.Fatalf("expected replaced entry, got %+v", exp)
	}
}

func TestAddValidates(t *testing.T) {
	store := testsupport.MustOpenRegistry(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Add(ctx, registry.Experiment{ID: " ", Port: 8080}); err == nil {
		t.Fatal("expected error for blank id")
	}
	if err := store.Add(ctx, registry.Experiment{ID: "exp", Port: 0}); err == nil {
		t.Fatal("expected error for zero port")
	}
}

func TestAllEmptyRegistry(t *testing.T) {
	store := testsupport.MustOpenRegistry(t, testsupport.NewConfig(t))
	all, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty registry, got %v", all)
	}
}

func TestSettingsRoundTripAndRemoval(t *testing.T) {
	store := testsupport.MustOpenRegistry(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Add(ctx, registry.Experiment{ID: "exp1", Port: 8080}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Settings(ctx, 8080); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	want := registry.Settings{
		Port:             8080,
		RESTServerPort:   8080,
		RESTServerPID:    4242,
		WebUIURLs:        []string{"http://127.0.0.1:8080"},
		ExperimentConfig: map[string]any{"maxTrialNum": float64(10)},
	}
	if err := store.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err := store.Settings(ctx, 8080)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if got.RESTServerPID != 4242 || got.RESTServerPort != 8080 {
		t.Fatalf("unexpected settings: %+v", got)
	}
	if len(got.WebUIURLs) != 1 || got.WebUIURLs[0] != "http://127.0.0.1:8080" {
		t.Fatalf("unexpected webui urls: %v", got.WebUIURLs)
	}
	if got.ExperimentConfig["maxTrialNum"] != float64(10) {
		t.Fatalf("unexpected experiment config: %v", got.ExperimentConfig)
	}

	if err := store.Remove(ctx, "exp1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Settings(ctx, 8080); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected settings removed with experiment, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiments.db")
	store, err := registry.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if err := store.Add(context.Background(), registry.Experiment{ID: "keep", Port: 7000}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := registry.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	if _, err := reopened.Get(context.Background(), "keep"); err != nil {
		t.Fatalf("expected persisted experiment: %v", err)
	}
	if reopened.Path() != path {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
}

func TestRegisterStoresExperimentAndSettings(t *testing.T) {
	store := testsupport.MustOpenRegistry(t, testsupport.NewConfig(t))
	ctx := context.Background()

	err := store.Register(ctx,
		registry.Experiment{ID: "exp1", Port: 8080, StartTime: "s"},
		registry.Settings{RESTServerPort: 8080, RESTServerPID: 7, WebUIURLs: []string{"http://x"}},
	)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	settings, err := store.Settings(ctx, 8080)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if settings.Port != 8080 || settings.RESTServerPID != 7 {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}

func TestRegisterFailureLeavesNoPartialEntry(t *testing.T) {
	store := testsupport.MustOpenRegistry(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Register(ctx,
		registry.Experiment{ID: "exp1", Port: 8080},
		registry.Settings{RESTServerPort: 8080, RESTServerPID: 7},
	); err != nil {
		t.Fatalf("Register exp1: %v", err)
	}
	// exp2 collides with exp1's port, so the whole registration must roll back.
	err := store.Register(ctx,
		registry.Experiment{ID: "exp2", Port: 8080},
		registry.Settings{RESTServerPort: 8080, RESTServerPID: 99},
	)
	if err == nil {
		t.Fatal("expected port collision to fail")
	}
	if _, err := store.Get(ctx, "exp2"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected exp2 absent, got %v", err)
	}
	settings, err := store.Settings(ctx, 8080)
	if err != nil || settings.RESTServerPID != 7 {
		t.Fatalf("exp1 settings must be untouched: %+v %v", settings, err)
	}

	bad := registry.Settings{ExperimentConfig: map[string]any{"ch": make(chan int)}}
	if err := store.Register(ctx, registry.Experiment{ID: "exp3", Port: 8083}, bad); err == nil {
		t.Fatal("expected unencodable settings to fail")
	}
	if _, err := store.Get(ctx, "exp3"); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected exp3 absent, got %v", err)
	}
}

func TestReRegisterOnNewPortDropsOldSettings(t *testing.T) {
	store := testsupport.MustOpenRegistry(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Register(ctx,
		registry.Experiment{ID: "exp1", Port: 8080},
		registry.Settings{RESTServerPort: 8080, RESTServerPID: 7},
	); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := store.Add(ctx, registry.Experiment{ID: "exp1", Port: 9090}); err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	if _, err := store.Settings(ctx, 8080); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected old port settings dropped, got %v", err)
	}
}
