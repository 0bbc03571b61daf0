package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"loud":  zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Errorf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	if !ValidLevel(WarnLevel) {
		t.Fatal("warn should be valid")
	}
	if ValidLevel("verbose") {
		t.Fatal("verbose should be rejected")
	}
}

func TestGetIsSingleton(t *testing.T) {
	a := Get(DebugLevel)
	b := Get(ErrorLevel)
	if a != b {
		t.Fatal("Get must return the same instance")
	}
}

func TestComponent_NilSafe(t *testing.T) {
	var l *Logger
	if l.Component("x") != nil {
		t.Fatal("nil logger must stay nil")
	}
	if Nop().Component("engine") == nil {
		t.Fatal("expected child logger")
	}
}
