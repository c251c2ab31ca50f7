// Package colors provides console output for repokit diagnostics.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles used for message prefixes.
var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DebugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	NameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
)

const checkmark = "✓"

// Logger mirrors console messages into a structured sink.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled bool
	logger       Logger

	outMu  sync.RWMutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("REPOKIT_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	outMu.Lock()
	defer outMu.Unlock()
	debugEnabled = enabled
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	outMu.RLock()
	defer outMu.RUnlock()
	return debugEnabled
}

// SetLogger sets the structured logger that mirrors console output.
func SetLogger(l Logger) {
	outMu.Lock()
	defer outMu.Unlock()
	logger = l
}

// SetOutput redirects console output and returns a func restoring the
// previous writers. Nil writers leave the current one in place.
func SetOutput(out, errOut io.Writer) (restore func()) {
	outMu.Lock()
	defer outMu.Unlock()
	prevOut, prevErr := stdout, stderr
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
	return func() {
		outMu.Lock()
		defer outMu.Unlock()
		stdout, stderr = prevOut, prevErr
	}
}

func writers() (io.Writer, io.Writer, Logger) {
	outMu.RLock()
	defer outMu.RUnlock()
	return stdout, stderr, logger
}

// errorFallback writes straight to the process stderr without styling.
func errorFallback(msg string) {
	fmt.Fprintf(os.Stderr, "%s\n", msg)
}

func emit(w io.Writer, line string) {
	if _, err := fmt.Fprintln(w, line); err != nil {
		errorFallback("failed to print message: " + err.Error())
	}
}

// ErrorTo writes an error message to w.
func ErrorTo(w io.Writer, msgs ...string) {
	msg := strings.Join(msgs, " ")
	if _, _, l := writers(); l != nil {
		l.Error(msg)
	}
	emit(w, ErrorStyle.Render("Error:")+" "+msg)
}

// WarningTo writes a warning message to w.
func WarningTo(w io.Writer, msgs ...string) {
	msg := strings.Join(msgs, " ")
	if _, _, l := writers(); l != nil {
		l.Warn(msg)
	}
	emit(w, WarningStyle.Render("Warning:")+" "+msg)
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	_, errOut, _ := writers()
	ErrorTo(errOut, msgs...)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	_, errOut, _ := writers()
	WarningTo(errOut, msgs...)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	out, _, _ := writers()
	SuccessTo(out, msgs...)
}

// SuccessTo writes a success message to w.
func SuccessTo(w io.Writer, msgs ...string) {
	msg := strings.Join(msgs, " ")
	if _, _, l := writers(); l != nil {
		l.Info(msg, "type", "success")
	}
	emit(w, SuccessStyle.Render(checkmark)+" "+msg)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	out, _, l := writers()
	msg := strings.Join(msgs, " ")
	if l != nil {
		l.Info(msg)
	}
	emit(out, InfoStyle.Render(msg))
}

// LogInfo outputs an informational message to stderr, keeping stdout clean
// for command output.
func LogInfo(msgs ...string) {
	_, errOut, l := writers()
	msg := strings.Join(msgs, " ")
	if l != nil {
		l.Info(msg)
	}
	emit(errOut, InfoStyle.Render(msg))
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !DebugEnabled() {
		return
	}
	_, errOut, l := writers()
	msg := strings.Join(msgs, " ")
	if l != nil {
		l.Debug(msg)
	}
	emit(errOut, DebugStyle.Render("Debug:")+" "+msg)
}
