package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"INFO", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"finest", zapcore.DebugLevel},
		{"warning", zapcore.WarnLevel},
		{"severe", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestAction_TagsCategory(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))

	l.Action("click", zap.String("target", "link: Home"))
	l.Debug("looked up element")

	entries := logs.FilterField(zap.String("category", CategoryAction)).All()
	if len(entries) != 1 {
		t.Fatalf("got %d action entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.InfoLevel || e.Message != "click" {
		t.Errorf("unexpected entry: %+v", e.Entry)
	}
	if e.ContextMap()["target"] != "link: Home" {
		t.Errorf("fields = %v", e.ContextMap())
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
	l, err := New(Options{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}

func TestNilSafe(t *testing.T) {
	var l *Logger
	l.Action("ignored")
	Nop().Action("ignored")
}
