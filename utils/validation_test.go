package utils

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		wantOK   bool
	}{
		{"prod_user1", true},
		{"abcd", true},
		{"ab", false},
		{"", false},
		{strings.Repeat("a", 21), false},
		{"kötü-ad", false},
		{"user name", false},
	}
	for _, tt := range tests {
		got := ValidateUsername(tt.username)
		if (got == "") != tt.wantOK {
			t.Errorf("ValidateUsername(%q) = %q, geçerlilik beklentisi %v", tt.username, got, tt.wantOK)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantOK   bool
	}{
		{"parola12", true},
		{"kisa1", false},
		{"sadeceharfler", false},
		{"12345678", false},
		{"", false},
	}
	for _, tt := range tests {
		got := ValidatePassword(tt.password)
		if (got == "") != tt.wantOK {
			t.Errorf("ValidatePassword(%q) = %q, geçerlilik beklentisi %v", tt.password, got, tt.wantOK)
		}
	}
}

func TestIsSafeRedirect(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"/admin", true},
		{"card/abc", true},
		{"https://evil.example", false},
		{"http://evil.example", false},
		{"//evil.example", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSafeRedirect(tt.target); got != tt.want {
			t.Errorf("IsSafeRedirect(%q) = %v, beklenen %v", tt.target, got, tt.want)
		}
	}
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(20)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(s) != 20 {
		t.Fatalf("uzunluk %d, beklenen 20", len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(base62Alphabet, r) {
			t.Fatalf("alfabe dışı karakter: %q", r)
		}
	}
}

func TestSanitizeTextStripsControlChars(t *testing.T) {
	in := "merhaba\x00dünya\x07"
	if got := SanitizeText(in); got != "merhabadünya" {
		t.Fatalf("SanitizeText = %q", got)
	}
}
