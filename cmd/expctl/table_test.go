package main

import (
	"strings"
	"testing"
)

func TestRenderTrialTableFillsPlaceholders(t *testing.T) {
	trials := []map[string]any{
		{"id": "t1", "status": "SUCCEEDED", "startTime": "2023/11/14 22:13:20", "endTime": "2023/11/14 22:14:20"},
		{"id": "t2", "status": "RUNNING", "startTime": "2023/11/14 22:13:20", "endTime": 0},
	}
	out := renderTrialTable(trials, false)

	lines := strings.Split(out, "\n")
	var running string
	for _, line := range lines {
		if strings.Contains(line, "t2") {
			running = line
		}
	}
	if running == "" {
		t.Fatalf("missing t2 row in\n%s", out)
	}
	cells := strings.Split(running, "│")
	if len(cells) < 5 || strings.TrimSpace(cells[4]) != "-" {
		t.Fatalf("expected placeholder end time, got %q", running)
	}
	if !strings.Contains(cells[2], "Running") {
		t.Fatalf("expected title-cased status, got %q", cells[2])
	}
}

func TestRenderTableRightAlignsStartTime(t *testing.T) {
	out := renderTable(experimentListColumns, [][]string{
		{"exp-long-identifier", "short"},
		{"e", "2024/01/01 00:00:00"},
	})
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "short") && !strings.HasSuffix(strings.TrimSuffix(line, "│"), "short ") {
			t.Fatalf("expected right-aligned start time, got %q", line)
		}
	}
}
