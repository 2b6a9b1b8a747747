package experiments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"expctl/internal/logging"
	"expctl/internal/registry"
	"expctl/internal/resolve"
)

// StopOutcome summarises what Stop did for one experiment.
type StopOutcome string

const (
	StopStopped    StopOutcome = "stopped"
	StopFailed     StopOutcome = "failed"
	StopNotRunning StopOutcome = "not_running"
)

// StopResult is the per-experiment result of Stop.
type StopResult struct {
	ID      string
	Port    int
	Outcome StopOutcome
	// Removed is true when the experiment was dropped from the registry.
	Removed bool
	Err     error
}

const stopLockName = "stop.lock"

// Stop stops every experiment pattern resolves to. A wildcard that matches
// nothing is reported as a NoMatch resolution error.
func (s *Service) Stop(ctx context.Context, pattern string) ([]StopResult, error) {
	all, err := s.registry.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	ids, err := resolve.IDs(pattern, all)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, &resolve.Error{Kind: resolve.KindNoMatch, Pattern: pattern}
	}
	logging.WithContext(ctx, s.logger).Debug("stop targets resolved",
		logging.String(logging.FieldPattern, pattern),
		logging.Strings("ids", ids),
	)

	results := make([]StopResult, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.stopOne(ctx, all[id]))
	}
	return results, nil
}

func (s *Service) stopOne(ctx context.Context, exp registry.Experiment) StopResult {
	result := StopResult{ID: exp.ID, Port: exp.Port}
	logger := logging.WithContext(ctx, s.logger).With(
		logging.String(logging.FieldExperimentID, exp.ID),
		logging.Int(logging.FieldPort, exp.Port),
	)

	unlock, err := s.lockExperiment(ctx, exp.Port)
	if err != nil {
		result.Outcome = StopFailed
		result.Err = err
		logger.Warn("stop lock unavailable", logging.Error(err))
		return result
	}
	defer unlock()

	target, err := s.load(ctx, exp)
	if err != nil {
		result.Outcome = StopFailed
		result.Err = err
		return result
	}

	pid := target.Settings.RESTServerPID
	if !s.procs.IsAlive(pid) {
		result.Outcome = StopNotRunning
		result.Err = ErrNotRunning
		result.Removed = s.remove(ctx, logger, exp.ID)
		logger.Info("experiment not running", logging.Int(logging.FieldPID, pid))
		return result
	}

	result.Outcome = StopStopped
	if running, _ := s.rest.CheckServerQuick(ctx, target.RESTPort()); running {
		if _, err := s.request(ctx, http.MethodDelete, s.rest.ExperimentURL(target.RESTPort()), "stop experiment"); err != nil {
			result.Outcome = StopFailed
			result.Err = err
			logger.Warn("stop request failed", logging.Error(err))
		}
	}

	// The REST handler needs a moment to finish before its workers are signalled.
	if err := s.sleep(ctx, s.cfg.SettleDelay()); err != nil {
		result.Outcome = StopFailed
		result.Err = errors.Join(result.Err, err)
		return result
	}

	if err := s.procs.Terminate(pid); err != nil {
		logger.Warn("terminate rest server children failed",
			logging.Int(logging.FieldPID, pid),
			logging.Error(err),
		)
	}

	result.Removed = s.remove(ctx, logger, exp.ID)
	if result.Outcome == StopStopped {
		logger.Info("experiment stopped")
	}
	return result
}

func (s *Service) remove(ctx context.Context, logger *slog.Logger, id string) bool {
	if err := s.registry.Remove(ctx, id); err != nil && !errors.Is(err, registry.ErrNotFound) {
		logger.Warn("remove experiment from registry failed", logging.Error(err))
		return false
	}
	return true
}

// lockExperiment serialises concurrent stops of the same experiment.
func (s *Service) lockExperiment(ctx context.Context, port int) (func(), error) {
	dir := s.cfg.ExperimentDir(port)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create experiment dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, stopLockName))

	lockCtx, cancel := context.WithTimeout(ctx, s.cfg.LockTimeout())
	defer cancel()
	ok, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("acquire stop lock: %w", err)
	}
	if !ok {
		return nil, ErrStopInProgress
	}
	return func() { _ = lock.Unlock() }, nil
}
