package utils

import (
	"strings"
	"testing"
)

func TestIsPasswordValid(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "Abcdef12", true},
		{"too short", "Ab1", false},
		{"no uppercase", "abcdef12", false},
		{"no lowercase", "ABCDEF12", false},
		{"no digit", "Abcdefgh", false},
		{"symbols allowed", "Abcdef12!@#", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPasswordValid(tc.password); got != tc.want {
				t.Fatalf("IsPasswordValid(%q) = %v, want %v", tc.password, got, tc.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello  "); got != "hello" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
	if got := SanitizeInput("<script>alert(1)</script>"); got != "scriptalert(1)/script" {
		t.Fatalf("expected angle brackets stripped, got %q", got)
	}
	if got := SanitizeInput(strings.Repeat("a", 300)); len(got) != 255 {
		t.Fatalf("expected input capped at 255, got %d", len(got))
	}
}

func TestIsValidContact(t *testing.T) {
	cases := []struct {
		name   string
		method string
		value  string
		want   bool
	}{
		{"email", "email", "alice@example.com", true},
		{"bad email", "email", "not-an-email", false},
		{"phone", "phone", "+65 9123 4567", true},
		{"short phone", "phone", "123", false},
		{"whatsapp uses phone rules", "whatsapp", "91234567", true},
		{"discord", "discord", "alice#1234", true},
		{"short discord", "discord", "a", false},
		{"unknown method", "fax", "12345678", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidContact(tc.method, tc.value); got != tc.want {
				t.Fatalf("IsValidContact(%q, %q) = %v, want %v", tc.method, tc.value, got, tc.want)
			}
		})
	}
}
