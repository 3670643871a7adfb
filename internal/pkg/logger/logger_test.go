package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/linkmint/linkmint-api/internal/pkg/logger"
)

func TestInitSetsGlobalLevel(t *testing.T) {
	if err := logger.Init(logger.Config{Level: "warn", Environment: "production"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("global level = %s, want warn", zerolog.GlobalLevel())
	}
}

func TestInitUnknownLevelDefaultsToInfo(t *testing.T) {
	if err := logger.Init(logger.Config{Level: "shouting", Environment: "production"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("global level = %s, want info", zerolog.GlobalLevel())
	}
}

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	scoped := zerolog.New(&buf)

	ctx := logger.WithContext(context.Background(), &scoped)
	if got := logger.FromContext(ctx); got != &scoped {
		t.Fatal("FromContext did not return the attached logger")
	}
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	if got := logger.FromContext(context.Background()); got != &log.Logger {
		t.Fatal("FromContext without an attached logger must return the global one")
	}
}
