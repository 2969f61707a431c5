package ws

import (
	"strings"
	"testing"
)

func TestSanitizeInputTrims(t *testing.T) {
	got, err := sanitizeInput("  hello Daisy  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello Daisy" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
}

func TestSanitizeInputRejectsEmpty(t *testing.T) {
	if _, err := sanitizeInput("   "); err == nil {
		t.Fatal("expected whitespace-only input rejected")
	}
}

func TestSanitizeInputRejectsOversized(t *testing.T) {
	if _, err := sanitizeInput(strings.Repeat("a", maxInputLength+1)); err == nil {
		t.Fatal("expected oversized input rejected")
	}
	if _, err := sanitizeInput(strings.Repeat("a", maxInputLength)); err != nil {
		t.Fatalf("input at the cap should pass, got %v", err)
	}
}
