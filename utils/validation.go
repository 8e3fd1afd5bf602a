package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername kullanıcı adı kurallarını denetler: 4-20 karakter,
// yalnızca harf, rakam ve alt çizgi. Geçerliyse boş dize döner.
func ValidateUsername(username string) string {
	switch {
	case strings.TrimSpace(username) == "":
		return "kullanıcı adı boş olamaz"
	case len(username) < 4:
		return "kullanıcı adı en az 4 karakter olmalı"
	case len(username) > 20:
		return "kullanıcı adı 20 karakteri aşamaz"
	case !usernamePattern.MatchString(username):
		return "kullanıcı adı yalnızca harf, rakam ve alt çizgi içerebilir"
	}
	return ""
}

// ValidatePassword parola kurallarını denetler: en az 8 karakter,
// en az bir harf ve bir rakam. Geçerliyse boş dize döner.
func ValidatePassword(password string) string {
	if password == "" {
		return "parola boş olamaz"
	}
	if len(password) < 8 {
		return "parola en az 8 karakter olmalı"
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			break
		}
	}
	if !hasLetter {
		return "parola en az bir harf içermeli"
	}
	if !hasDigit {
		return "parola en az bir rakam içermeli"
	}
	return ""
}

// ValidateNickname takma ad denetimi: boş olamaz, en fazla 50 karakter.
func ValidateNickname(nickname string) string {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return "takma ad boş olamaz"
	}
	if len([]rune(trimmed)) > 50 {
		return "takma ad 50 karakteri aşamaz"
	}
	return ""
}

// SanitizeText kontrol karakterlerini temizler ve uzunluğu sınırlar.
func SanitizeText(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	runes := []rune(cleaned)
	if len(runes) > 10000 {
		cleaned = string(runes[:10000])
	}
	return cleaned
}

// IsSafeRedirect yalnızca göreli yolları kabul eder; açık yönlendirme
// (open redirect) saldırılarını engeller.
func IsSafeRedirect(target string) bool {
	if target == "" {
		return false
	}
	if strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "//") {
		return false
	}
	if strings.HasPrefix(target, "/") {
		return true
	}
	r := rune(target[0])
	return unicode.IsLetter(r)
}
