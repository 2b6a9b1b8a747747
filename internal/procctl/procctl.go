// Package procctl checks and signals the background REST server processes
// that experiments run.
package procctl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ProcRoot is where task child lists are read from.
var ProcRoot = "/proc"

// IsAlive reports whether a process with pid exists. Processes owned by other
// users count as alive.
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// Children lists the direct children of pid from every task's children file.
func Children(pid int) ([]int, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("invalid pid %d", pid)
	}
	files, err := filepath.Glob(filepath.Join(ProcRoot, strconv.Itoa(pid), "task", "*", "children"))
	if err != nil {
		return nil, err
	}
	seen := make(map[int]struct{})
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		for _, field := range strings.Fields(string(data)) {
			child, err := strconv.Atoi(field)
			if err != nil || child <= 0 {
				continue
			}
			seen[child] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for child := range seen {
		out = append(out, child)
	}
	sort.Ints(out)
	return out, nil
}

// Terminate sends SIGTERM to the children of pid, or to pid itself when no
// children can be found. It returns the pids that were signalled.
func Terminate(pid int) ([]int, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("invalid pid %d", pid)
	}
	targets, err := Children(pid)
	if err != nil || len(targets) == 0 {
		targets = []int{pid}
	}

	var errs []error
	signalled := make([]int, 0, len(targets))
	for _, target := range targets {
		if err := unix.Kill(target, unix.SIGTERM); err != nil {
			if errors.Is(err, unix.ESRCH) {
				continue
			}
			errs = append(errs, fmt.Errorf("signal %d: %w", target, err))
			continue
		}
		signalled = append(signalled, target)
	}
	return signalled, errors.Join(errs...)
}

// Local is the Processes implementation backed by the running kernel.
type Local struct{}

func (Local) IsAlive(pid int) bool { return IsAlive(pid) }

func (Local) Terminate(pid int) error {
	_, err := Terminate(pid)
	return err
}
