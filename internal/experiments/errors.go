package experiments

import "errors"

var (
	// ErrNotRunning reports that the experiment's REST server process is gone.
	ErrNotRunning = errors.New("experiment is not running")
	// ErrServerDown reports that the REST server did not answer its status check.
	ErrServerDown = errors.New("rest server is not running")
	// ErrRequestFailed reports a transport error or a non-200 response.
	ErrRequestFailed = errors.New("request failed")
	// ErrTrialNotFound reports an unknown trial id.
	ErrTrialNotFound = errors.New("trial id is not valid")
	// ErrStopInProgress reports that another invocation holds the stop lock.
	ErrStopInProgress = errors.New("stop already in progress")
)
