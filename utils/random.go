package utils

import (
	"crypto/rand"
	"math/big"
)

const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ShortCodeLength public kısa link kodlarının uzunluğu.
const ShortCodeLength = 7

// GenerateSecureRandomString crypto/rand ile base62 alfabesinden
// verilen uzunlukta bir dize üretir. Link anahtarları ve kısa kodlar
// tahmin edilemez olmalıdır; math/rand kullanılmaz.
func GenerateSecureRandomString(length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(base62Alphabet)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = base62Alphabet[n.Int64()]
	}
	return string(result), nil
}

// MustGenerateShortCode kısa link kodu üretir. crypto/rand'ın başarısız
// olması işletim sistemi entropi kaynağının çökmesi demektir; bu durumda
// boş dize döner ve çağıran benzersizlik kontrolünde yeniden dener.
func MustGenerateShortCode() string {
	code, err := GenerateSecureRandomString(ShortCodeLength)
	if err != nil {
		return ""
	}
	return code
}
