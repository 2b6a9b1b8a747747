package resolve

import (
	"sort"
	"strings"

	"expctl/internal/registry"
)

const (
	// AllPattern selects every registered experiment.
	AllPattern = "all"
	// Wildcard terminates a prefix pattern that may match many experiments.
	Wildcard = "*"
)

// IDs resolves pattern to one or more experiment ids for bulk operations.
// A trailing "*" pattern always succeeds, possibly with no ids.
func IDs(pattern string, experiments map[string]registry.Experiment) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if len(experiments) == 0 {
		return nil, &Error{Kind: KindNoExperimentRunning, Pattern: pattern}
	}

	ids := sortedIDs(experiments)
	switch {
	case pattern == "":
		if len(ids) > 1 {
			return nil, &Error{Kind: KindAmbiguousSelection, Candidates: candidates(ids, experiments)}
		}
		return ids, nil
	case pattern == AllPattern:
		return ids, nil
	case strings.HasSuffix(pattern, Wildcard):
		return withPrefix(ids, strings.TrimSuffix(pattern, Wildcard)), nil
	}

	if _, ok := experiments[pattern]; ok {
		return []string{pattern}, nil
	}

	matches := withPrefix(ids, pattern)
	switch len(matches) {
	case 0:
		return nil, &Error{Kind: KindNoMatch, Pattern: pattern}
	case 1:
		return matches, nil
	default:
		return nil, &Error{Kind: KindAmbiguousPrefix, Pattern: pattern, Candidates: candidates(matches, experiments)}
	}
}

// Single resolves pattern to exactly one experiment. "all" and "*" carry no
// special meaning here and are matched literally.
func Single(pattern string, experiments map[string]registry.Experiment) (registry.Experiment, error) {
	pattern = strings.TrimSpace(pattern)
	if len(experiments) == 0 {
		return registry.Experiment{}, &Error{Kind: KindNoExperimentRunning, Pattern: pattern}
	}

	ids := sortedIDs(experiments)
	if pattern == "" {
		if len(ids) > 1 {
			return registry.Experiment{}, &Error{Kind: KindAmbiguousSelection, Candidates: candidates(ids, experiments)}
		}
		return experiments[ids[0]], nil
	}

	if exp, ok := experiments[pattern]; ok {
		return exp, nil
	}

	matches := withPrefix(ids, pattern)
	switch len(matches) {
	case 0:
		return registry.Experiment{}, &Error{Kind: KindInvalidID, Pattern: pattern}
	case 1:
		return experiments[matches[0]], nil
	default:
		return registry.Experiment{}, &Error{Kind: KindAmbiguousPrefix, Pattern: pattern, Candidates: candidates(matches, experiments)}
	}
}

// Listing returns every experiment as a candidate, sorted by id.
func Listing(experiments map[string]registry.Experiment) []Candidate {
	return candidates(sortedIDs(experiments), experiments)
}

func sortedIDs(experiments map[string]registry.Experiment) []string {
	ids := make([]string, 0, len(experiments))
	for id := range experiments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func withPrefix(ids []string, prefix string) []string {
	matches := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	return matches
}

func candidates(ids []string, experiments map[string]registry.Experiment) []Candidate {
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, Candidate{ID: id, StartTime: experiments[id].StartTime})
	}
	return out
}
