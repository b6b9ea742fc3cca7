package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	if !SetLevel("debug") {
		t.Fatal("debug should be accepted")
	}
	if Level() != zapcore.DebugLevel {
		t.Errorf("expected debug level, got %v", Level())
	}
	if !SetLevel("WARN") {
		t.Fatal("level names are case-insensitive")
	}
	if Level() != zapcore.WarnLevel {
		t.Errorf("expected warn level, got %v", Level())
	}
	if SetLevel("loud") {
		t.Error("unknown level should be rejected")
	}
	if Level() != zapcore.WarnLevel {
		t.Errorf("rejected level must not change the current one, got %v", Level())
	}
}
