package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"expctl/internal/experiments"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("exp1", statusError, "Stop experiment failed!", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "exp1:", "[ERROR] Stop experiment failed!")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("exp1", statusOK, "Stop experiment success!", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestDisplayStatus(t *testing.T) {
	cases := map[string]string{
		"SUCCEEDED":     "Succeeded",
		"USER_CANCELED": "User Canceled",
		"":              "-",
	}
	for in, want := range cases {
		if got := displayStatus(in); got != want {
			t.Fatalf("displayStatus(%q) = %q want %q", in, got, want)
		}
	}
	if got := colorizeStatus("FAILED", true); !strings.HasPrefix(got, ansiRed) {
		t.Fatalf("expected red failed status, got %q", got)
	}
}

func TestStopStatus(t *testing.T) {
	kind, msg := stopStatus(experiments.StopResult{Outcome: experiments.StopNotRunning})
	if kind != statusWarn || msg != "Experiment is not running..." {
		t.Fatalf("unexpected not-running status %v %q", kind, msg)
	}
	kind, _ = stopStatus(experiments.StopResult{Outcome: experiments.StopFailed})
	if kind != statusError {
		t.Fatalf("expected error kind, got %v", kind)
	}
}
