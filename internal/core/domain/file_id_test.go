package domain_test

import (
	"testing"

	"go.trai.ch/kiln/internal/core/domain"
)

func TestFileID(t *testing.T) {
	a := domain.NewFileID("src/a.ts")
	b := domain.NewFileID("src/a.ts")

	if a != b {
		t.Errorf("Expected identical paths to intern to equal ids, got %q and %q", a, b)
	}
	if a.String() != "src/a.ts" {
		t.Errorf("Expected String() to return %q, got %q", "src/a.ts", a.String())
	}
	if a.IsZero() {
		t.Error("Expected interned id not to be zero")
	}
}

func TestFileID_Zero(t *testing.T) {
	var id domain.FileID
	if !id.IsZero() {
		t.Error("Expected zero value to report IsZero")
	}
	if id.String() != "" {
		t.Errorf("Expected empty string for zero id, got %q", id.String())
	}
}

func TestCacheEntry_Matches(t *testing.T) {
	e := domain.CacheEntry{Hash: "00ff", Content: "out"}
	if !e.Matches("00ff") {
		t.Error("Expected entry to match its own digest")
	}
	if e.Matches("ff00") {
		t.Error("Expected entry not to match a different digest")
	}
}
