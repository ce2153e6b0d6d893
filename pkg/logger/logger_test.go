package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/morikuni/failure"
)

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func capture(t *testing.T, f string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	if err := SetFormat(f); err != nil {
		t.Fatalf("SetFormat(%q): %v", f, err)
	}
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		_ = SetFormat("auto")
		Init("info")
	})
	return &buf
}

func TestLevelFilteringAndPrintln(t *testing.T) {
	buf := capture(t, "json")

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "warn-msg") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error-msg") {
		t.Fatalf("error message missing: %q", out)
	}

	// Println maps to info and is suppressed at warn
	buf.Reset()
	Println("hello")
	if strings.Contains(buf.String(), "hello") {
		t.Fatalf("Println should be suppressed at warn level")
	}

	Init("info")
	buf.Reset()
	Println("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("Println expected at info level, got: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	buf := capture(t, "json")
	Infof("loaded %d posts", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "info" || entry["message"] != "loaded 3 posts" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestHumanFormat(t *testing.T) {
	buf := capture(t, "human")
	Warnf("careful")
	out := buf.String()
	if !strings.Contains(out, "careful") || !strings.Contains(out, "WRN") {
		t.Fatalf("unexpected console output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour codes should be disabled off-terminal: %q", out)
	}
}

func TestSetFormatRejectsUnknown(t *testing.T) {
	if err := SetFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestErrIncludesStack(t *testing.T) {
	buf := capture(t, "json")
	Err(failure.Wrap(errors.New("disk gone")), "reload failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("bad JSON %q: %v", buf.String(), err)
	}
	if entry["message"] != "reload failed" {
		t.Fatalf("unexpected message: %v", entry["message"])
	}
	if _, ok := entry["stack"]; !ok {
		t.Fatalf("expected stack field in %v", entry)
	}
}
