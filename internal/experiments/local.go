package experiments

import (
	"context"
	"fmt"
	"path/filepath"

	"expctl/internal/registry"
	"expctl/internal/resolve"
)

// Stream names one of the REST server's output files.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// LogFile returns the path of the experiment's stdout or stderr file.
func (s *Service) LogFile(ctx context.Context, pattern string, stream Stream) (string, error) {
	if stream != Stdout && stream != Stderr {
		return "", fmt.Errorf("unknown log stream %q", stream)
	}
	target, err := s.Resolve(ctx, pattern)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.cfg.ExperimentDir(target.Port), string(stream)), nil
}

// Settings returns the settings recorded for the experiment.
func (s *Service) Settings(ctx context.Context, pattern string) (registry.Settings, error) {
	target, err := s.Resolve(ctx, pattern)
	if err != nil {
		return registry.Settings{}, err
	}
	return target.Settings, nil
}

// WebUIURLs returns the experiment's web UI addresses.
func (s *Service) WebUIURLs(ctx context.Context, pattern string) ([]string, error) {
	target, err := s.Resolve(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return target.Settings.WebUIURLs, nil
}

// List returns every registered experiment sorted by id.
func (s *Service) List(ctx context.Context) ([]resolve.Candidate, error) {
	all, err := s.registry.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return resolve.Listing(all), nil
}
