package bookingcode

import (
	"strings"
	"testing"
)

func TestNew_Format(t *testing.T) {
	code := New()

	if code != strings.ToUpper(code) {
		t.Errorf("code must be uppercase, got %q", code)
	}

	parts := strings.Split(code, "-")
	if len(parts) != 2 {
		t.Fatalf("code must be timestamp-suffix, got %q", code)
	}
	if len(parts[1]) != suffixLength {
		t.Errorf("suffix length = %d, want %d", len(parts[1]), suffixLength)
	}
	for _, r := range parts[1] {
		if !strings.ContainsRune(suffixAlphabet, r) {
			t.Errorf("suffix contains %q outside alphabet", r)
		}
	}
}

func TestNew_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[New()] = true
	}
	// Codes from the same millisecond differ only by suffix; 100 draws should
	// still produce a healthy spread.
	if len(seen) < 50 {
		t.Errorf("expected varied codes, got %d unique out of 100", len(seen))
	}
}
