package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// trialStatusKind maps a trial job status reported by the REST server.
func trialStatusKind(status string) statusKind {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCEEDED":
		return statusOK
	case "RUNNING", "WAITING", "UNKNOWN":
		return statusInfo
	case "USER_CANCELED", "EARLY_STOPPED", "SYS_CANCELED":
		return statusWarn
	case "FAILED":
		return statusError
	default:
		return statusInfo
	}
}

// displayStatus turns "USER_CANCELED" into "User Canceled".
func displayStatus(status string) string {
	status = strings.ReplaceAll(strings.TrimSpace(status), "_", " ")
	if status == "" {
		return "-"
	}
	return cases.Title(language.Und).String(status)
}

func colorizeStatus(status string, colorize bool) string {
	label := displayStatus(status)
	if !colorize {
		return label
	}
	if color := statusKindColor(trialStatusKind(status)); color != "" {
		return color + label + ansiReset
	}
	return label
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
