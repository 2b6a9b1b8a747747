package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expctl/internal/config"
	"expctl/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, false)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("registry opened", logging.String(logging.FieldPort, "8080"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "expctl.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "registry opened") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content := buf.Bytes()
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content := buf.Bytes()
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponentAndExperiment(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "stop")
	logger.Info("stopping", logging.String(logging.FieldExperimentID, "GkU3x"), logging.Int(logging.FieldPID, 42))

	content := buf.Bytes()
	line := string(content)
	if !strings.Contains(line, "INFO stop[GkU3x]: stopping") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "pid=42") {
		t.Fatalf("expected pid attribute, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only, got %q", line)
	}
}

func TestJSONLoggerCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRequestID(context.Background(), "req-1")
	logging.WithContext(ctx, logger).Info("resolved")

	content := buf.Bytes()
	var record map[string]any
	if err := json.Unmarshal(content, &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if record["request_id"] != "req-1" {
		t.Fatalf("expected request_id, got %v", record)
	}
	if record["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	if _, ok := logging.RequestIDFromContext(context.Background()); ok {
		t.Fatal("expected no request id")
	}
	ctx := logging.WithRequestID(context.Background(), "  ")
	if _, ok := logging.RequestIDFromContext(ctx); ok {
		t.Fatal("blank request id should not be stored")
	}
}

func TestConsoleLoggerPrefixesPortAndShortensRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRequestID(context.Background(), "0123456789abcdef")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "experiments")).Info("experiment stopped",
		logging.String(logging.FieldExperimentID, "exp1"),
		logging.Int(logging.FieldPort, 8080),
	)

	line := buf.String()
	if !strings.Contains(line, "INFO experiments[exp1@8080]: experiment stopped") {
		t.Fatalf("expected experiment@port prefix, got %q", line)
	}
	if !strings.HasSuffix(line, " req=01234567\n") {
		t.Fatalf("expected shortened request id last, got %q", line)
	}
	if strings.Contains(line, "port=") || strings.Contains(line, "request_id=") {
		t.Fatalf("prefix fields must not repeat as attributes, got %q", line)
	}
}

func TestNewFromConfigVerboseEnablesDebug(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, true)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("stop targets resolved")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "stop targets resolved") {
		t.Fatalf("expected debug record with --verbose, got %q", content)
	}
}
