package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrapForwardsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := Wrap(zap.New(core))

	l.Info("signal_emitted", String("symbol", "EURUSD"), Float64("volume", 0.1))
	l.Error("order_failed", Err(errors.New("rejected")))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "signal_emitted" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["symbol"]; got != "EURUSD" {
		t.Fatalf("symbol field lost, got %v", got)
	}
	if entries[1].Level != zap.ErrorLevel {
		t.Fatalf("expected error level, got %s", entries[1].Level)
	}
}

func TestNewZapLoggerFallsBackOnBadLevel(t *testing.T) {
	if _, err := NewZapLogger("not-a-level"); err != nil {
		t.Fatalf("expected fallback to info, got %v", err)
	}
}
