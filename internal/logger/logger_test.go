package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf)
	if err := SetLevelString("info"); err != nil {
		t.Fatalf("SetLevelString failed: %v", err)
	}

	Named("cstimer").Info("loaded export", String("source", "a.json"), Int("sessions", 3))
	out := buf.String()
	for _, want := range []string{"msg=\"loaded export\"", "component=cstimer", "source=a.json", "sessions=3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf)
	if err := SetLevelString("WARN"); err != nil {
		t.Fatalf("SetLevelString failed: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	log := Get()
	log.Debug("hidden")
	log.Info("hidden")
	log.Error("shown", Error(errors.New("boom")))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected lower levels to be filtered: %q", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Fatalf("expected error field in %q", out)
	}
}

func TestSetLevelStringRejectsUnknown(t *testing.T) {
	if err := SetLevelString("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
