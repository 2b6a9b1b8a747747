package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a resolution failure.
type Kind int

const (
	KindNoExperimentRunning Kind = iota + 1
	KindAmbiguousSelection
	KindAmbiguousPrefix
	KindNoMatch
	KindInvalidID
)

var (
	ErrNoExperimentRunning = errors.New("no experiment running")
	ErrAmbiguousSelection  = errors.New("multiple experiments running")
	ErrAmbiguousPrefix     = errors.New("ambiguous experiment id")
	ErrNoMatch             = errors.New("no experiment matched")
	ErrInvalidID           = errors.New("invalid experiment id")
)

func (k Kind) String() string {
	switch k {
	case KindNoExperimentRunning:
		return "no_experiment_running"
	case KindAmbiguousSelection:
		return "ambiguous_selection"
	case KindAmbiguousPrefix:
		return "ambiguous_prefix"
	case KindNoMatch:
		return "no_match"
	case KindInvalidID:
		return "invalid_id"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNoExperimentRunning:
		return ErrNoExperimentRunning
	case KindAmbiguousSelection:
		return ErrAmbiguousSelection
	case KindAmbiguousPrefix:
		return ErrAmbiguousPrefix
	case KindNoMatch:
		return ErrNoMatch
	case KindInvalidID:
		return ErrInvalidID
	default:
		return nil
	}
}

// Candidate is an experiment offered to the user for disambiguation.
type Candidate struct {
	ID        string
	StartTime string
}

// Error reports why a pattern could not be resolved. Candidates is sorted by id.
type Error struct {
	Kind       Kind
	Pattern    string
	Candidates []Candidate
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoExperimentRunning:
		return "Experiment is not running..."
	case KindAmbiguousSelection:
		return "There are multiple experiments running, please set the experiment id..."
	case KindAmbiguousPrefix:
		return fmt.Sprintf("%s is ambiguous, please choose %s", e.Pattern, strings.Join(e.CandidateIDs(), " "))
	case KindNoMatch:
		return "There are no experiments matched, please check experiment id..."
	case KindInvalidID:
		return "Id not correct!"
	default:
		return "experiment id resolution failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// CandidateIDs returns the ids of the candidates in order.
func (e *Error) CandidateIDs() []string {
	ids := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

// AsError extracts a resolution error from err.
func AsError(err error) (*Error, bool) {
	var resErr *Error
	if errors.As(err, &resErr) {
		return resErr, true
	}
	return nil, false
}
