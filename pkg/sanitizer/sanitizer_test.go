package sanitizer

import (
	"strings"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Maria Garcia", "Maria Garcia"},
		{"leading and trailing spaces", "  Maria Garcia  ", "Maria Garcia"},
		{"inner whitespace collapsed", "Maria \t  Garcia", "Maria Garcia"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTrimAndNormalize_Idempotent(t *testing.T) {
	inputs := []string{"  a  b ", "hello", " x\t y \n z "}
	for _, in := range inputs {
		once := TrimAndNormalize(in)
		twice := TrimAndNormalize(once)
		if once != twice {
			t.Errorf("TrimAndNormalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Ana@Example.COM ", "ana@example.com"},
		{"ana@example.com", "ana@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.expected {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already e164", "+34612345678", "+34612345678"},
		{"national spanish", "612 345 678", "+34612345678"},
		{"empty", "", ""},
		{"garbage", "not-a-phone", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("Ana@Example.com", "192.0.2.10:51234")
	b := Fingerprint("ana@example.com ", "192.0.2.10:40001")
	if a != b {
		t.Errorf("fingerprint must ignore email casing and the source port")
	}

	c := Fingerprint("ana@example.com", "192.0.2.11:51234")
	if a == c {
		t.Errorf("different source hosts must produce different fingerprints")
	}

	if len(a) != 64 || strings.ToLower(a) != a {
		t.Errorf("fingerprint must be a lowercase 64-char hex digest, got %q", a)
	}
}
