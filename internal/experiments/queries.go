package experiments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"expctl/internal/restclient"
)

// ShowExperiment returns the experiment document served by the REST server
// with its timestamps converted.
func (s *Service) ShowExperiment(ctx context.Context, pattern string) (map[string]any, error) {
	target, err := s.live(ctx, pattern)
	if err != nil {
		return nil, err
	}
	resp, err := s.request(ctx, http.MethodGet, s.rest.ExperimentURL(target.RESTPort()), "list experiment")
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := decode(resp, &doc); err != nil {
		return nil, err
	}
	return ConvertTimestamps(doc), nil
}

// Status returns the REST server's check-status document.
func (s *Service) Status(ctx context.Context, pattern string) (any, error) {
	target, err := s.Resolve(ctx, pattern)
	if err != nil {
		return nil, err
	}
	running, resp := s.rest.CheckServerQuick(ctx, target.RESTPort())
	if !running {
		return nil, ErrServerDown
	}
	var doc any
	if err := decode(resp, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CheckRest reports whether the experiment's REST server answers.
func (s *Service) CheckRest(ctx context.Context, pattern string) (bool, error) {
	target, err := s.Resolve(ctx, pattern)
	if err != nil {
		return false, err
	}
	running, _ := s.rest.CheckServerQuick(ctx, target.RESTPort())
	return running, nil
}

// ListTrials returns every trial job with converted timestamps.
func (s *Service) ListTrials(ctx context.Context, pattern string) ([]map[string]any, error) {
	target, err := s.live(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return s.trials(ctx, target, "list trial")
}

func (s *Service) trials(ctx context.Context, target Target, action string) ([]map[string]any, error) {
	resp, err := s.request(ctx, http.MethodGet, s.rest.TrialJobsURL(target.RESTPort()), action)
	if err != nil {
		return nil, err
	}
	var trials []map[string]any
	if err := decode(resp, &trials); err != nil {
		return nil, err
	}
	for i := range trials {
		trials[i] = ConvertTimestamps(trials[i])
	}
	return trials, nil
}

// KillTrial cancels trialID and returns the server's response body.
func (s *Service) KillTrial(ctx context.Context, pattern, trialID string) (string, error) {
	target, err := s.live(ctx, pattern)
	if err != nil {
		return "", err
	}
	resp, err := s.request(ctx, http.MethodDelete, s.rest.TrialJobURL(target.RESTPort(), trialID), "kill trial job")
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// TrialLogPath pairs a trial with its log location.
type TrialLogPath struct {
	ID   string
	Path string
}

// TrialLogPaths returns log paths for every trial, sorted by trial id, or
// only for trialID when it is set.
func (s *Service) TrialLogPaths(ctx context.Context, pattern, trialID string) ([]TrialLogPath, error) {
	target, err := s.live(ctx, pattern)
	if err != nil {
		return nil, err
	}
	trials, err := s.trials(ctx, target, "list trial")
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string, len(trials))
	for _, trial := range trials {
		id, _ := trial["id"].(string)
		path, _ := trial["logPath"].(string)
		if id == "" {
			continue
		}
		paths[id] = path
	}

	if trialID != "" {
		path, ok := paths[trialID]
		if !ok || path == "" {
			return nil, fmt.Errorf("%w: %s", ErrTrialNotFound, trialID)
		}
		return []TrialLogPath{{ID: trialID, Path: path}}, nil
	}

	out := make([]TrialLogPath, 0, len(paths))
	for id, path := range paths {
		out = append(out, TrialLogPath{ID: id, Path: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func decode(resp *restclient.Response, v any) error {
	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
