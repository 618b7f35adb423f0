package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsFlowThroughEntries(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Output: &buf})

	ctx := logg.WithUsername(context.Background(), "alice")
	ctx = logg.WithProductID(ctx, "42")
	logg.Info(ctx, "quantity updated")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line: %v", err)
	}
	if entry["username"] != "alice" || entry["product_id"] != "42" {
		t.Fatalf("missing context fields: %v", entry)
	}
	if entry["service"] != "storefront" {
		t.Fatalf("missing service field: %v", entry)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Level: zerolog.InfoLevel, Output: &buf})

	logg.Debug(context.Background(), "noise")
	if buf.Len() != 0 {
		t.Fatalf("debug line should be filtered, got %q", buf.String())
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	if got := ParseLevel("warn"); got != zerolog.WarnLevel {
		t.Fatalf("expected warn, got %v", got)
	}
	if got := ParseLevel("bogus"); got != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", got)
	}
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Fatalf("expected info for empty, got %v", got)
	}
}
