package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := ContextWithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatalf("FromContext = %v, want the attached logger", got)
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("FromContext = %v, want nil for a bare context", got)
	}
}

func TestContextWithLoggerNilLogger(t *testing.T) {
	ctx := ContextWithLogger(context.Background(), nil)
	if got := FromContext(ctx); got != nil {
		t.Fatalf("FromContext = %v, want nil when nothing was attached", got)
	}
}
