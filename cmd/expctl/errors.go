package main

import (
	"errors"

	"expctl/internal/experiments"
	"expctl/internal/resolve"
)

// userError replaces an error's text with the message shown to users while
// keeping the cause for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

func presentError(err error) error {
	if err == nil {
		return nil
	}
	if resErr, ok := resolve.AsError(err); ok {
		msg := resErr.Error()
		if resErr.Kind == resolve.KindAmbiguousSelection {
			msg += "\n" + renderExperimentList(resErr.Candidates)
		}
		return &userError{msg: msg, err: err}
	}
	switch {
	case errors.Is(err, experiments.ErrNotRunning):
		return &userError{msg: "Experiment is not running...", err: err}
	case errors.Is(err, experiments.ErrServerDown):
		return &userError{msg: "Restful server is not running...", err: err}
	case errors.Is(err, experiments.ErrTrialNotFound):
		return &userError{msg: "trial id is not valid!", err: err}
	}
	return err
}

func renderExperimentList(candidates []resolve.Candidate) string {
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []string{c.ID, c.StartTime})
	}
	return renderTable(experimentListColumns, rows)
}
