package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFront(t *testing.T) {
	assert.Equal(t, "duong", NormalizeFront("Đường"))
	assert.Equal(t, "hoc sinh", NormalizeFront("  Học   sinh "))
	assert.Equal(t, "cafe", NormalizeFront("Café"))
	assert.Equal(t, "", NormalizeFront("   "))
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Xin chào, bạn khỏe không?", LangVietnamese},
		{"xin chao ban", LangVietnamese},
		{"toi khong hieu", LangVietnamese},
		{"What is photosynthesis?", LangEnglish},
		{"", LangEnglish},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.in), tt.in)
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("  short  ", 10))
	assert.Equal(t, "Tiếng...", TruncateRunes("Tiếng Việt", 5))
	assert.Equal(t, "ab...", TruncateRunes("ab cd", 3))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Secret123!"))
	assert.False(t, ValidatePassword("abc1!"))
	assert.False(t, ValidatePassword("Secret123"))
	assert.False(t, ValidatePassword("Secret!!"))
}

func TestParseUserAgent(t *testing.T) {
	browser, os, device := ParseUserAgent("")
	assert.Equal(t, "Unknown Browser", browser)
	assert.Equal(t, "Unknown OS", os)
	assert.Equal(t, "Desktop", device)

	_, _, device = ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "Mobile", device)
}
