package experiments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"expctl/internal/config"
	"expctl/internal/logging"
	"expctl/internal/registry"
	"expctl/internal/resolve"
	"expctl/internal/restclient"
)

// Registry is the subset of the registry store the service needs.
type Registry interface {
	All(ctx context.Context) (map[string]registry.Experiment, error)
	Remove(ctx context.Context, id string) error
	Settings(ctx context.Context, port int) (registry.Settings, error)
}

// REST issues requests against experiment REST servers.
type REST interface {
	Get(ctx context.Context, url string, timeout time.Duration) (*restclient.Response, error)
	Delete(ctx context.Context, url string, timeout time.Duration) (*restclient.Response, error)
	CheckServerQuick(ctx context.Context, port int) (bool, *restclient.Response)
	ExperimentURL(port int) string
	TrialJobsURL(port int) string
	TrialJobURL(port int, id string) string
}

// Processes inspects and signals REST server processes.
type Processes interface {
	IsAlive(pid int) bool
	Terminate(pid int) error
}

// Service runs experiment operations against its collaborators.
type Service struct {
	cfg      *config.Config
	registry Registry
	rest     REST
	procs    Processes
	logger   *slog.Logger
	sleep    func(context.Context, time.Duration) error
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSleep replaces the settle wait used by Stop.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(s *Service) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// NewService wires a Service.
func NewService(cfg *config.Config, reg Registry, rest REST, procs Processes, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		registry: reg,
		rest:     rest,
		procs:    procs,
		logger:   logging.NewNop(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "experiments")
	return s
}

// Target is a resolved experiment together with its REST server settings.
type Target struct {
	registry.Experiment
	Settings registry.Settings
}

// RESTPort is the port the experiment's REST server listens on.
func (t Target) RESTPort() int {
	if t.Settings.RESTServerPort > 0 {
		return t.Settings.RESTServerPort
	}
	return t.Port
}

// Resolve resolves pattern to a single experiment and loads its settings.
// Experiments registered without settings resolve with zero settings.
func (s *Service) Resolve(ctx context.Context, pattern string) (Target, error) {
	all, err := s.registry.All(ctx)
	if err != nil {
		return Target{}, fmt.Errorf("load registry: %w", err)
	}
	exp, err := resolve.Single(pattern, all)
	if err != nil {
		return Target{}, err
	}
	return s.load(ctx, exp)
}

func (s *Service) load(ctx context.Context, exp registry.Experiment) (Target, error) {
	settings, err := s.registry.Settings(ctx, exp.Port)
	if err != nil && !errors.Is(err, registry.ErrNotFound) {
		return Target{}, fmt.Errorf("load settings for %s: %w", exp.ID, err)
	}
	settings.Port = exp.Port
	return Target{Experiment: exp, Settings: settings}, nil
}

// live resolves pattern and verifies both the server process and the REST
// endpoint are up.
func (s *Service) live(ctx context.Context, pattern string) (Target, error) {
	target, err := s.Resolve(ctx, pattern)
	if err != nil {
		return Target{}, err
	}
	if !s.procs.IsAlive(target.Settings.RESTServerPID) {
		return target, ErrNotRunning
	}
	if running, _ := s.rest.CheckServerQuick(ctx, target.RESTPort()); !running {
		return target, ErrServerDown
	}
	return target, nil
}

func (s *Service) request(ctx context.Context, method, url, action string) (*restclient.Response, error) {
	var (
		resp *restclient.Response
		err  error
	)
	switch method {
	case http.MethodDelete:
		resp, err = s.rest.Delete(ctx, url, s.cfg.RequestTimeout())
	default:
		resp, err = s.rest.Get(ctx, url, s.cfg.RequestTimeout())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", action, ErrRequestFailed, err)
	}
	if !restclient.IsResponseOK(resp) {
		return resp, fmt.Errorf("%s: %w: status %d", action, ErrRequestFailed, resp.StatusCode)
	}
	return resp, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
