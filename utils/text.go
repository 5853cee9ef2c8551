package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	LangVietnamese = "vi"
	LangEnglish    = "en"
)

// Letters that only appear in Vietnamese among the languages we expect.
const vietnameseLetters = "ăâđêôơưĂÂĐÊÔƠƯ" +
	"áàảãạắằẳẵặấầẩẫậéèẻẽẹếềểễệíìỉĩịóòỏõọốồổỗộớờởỡợúùủũụứừửữựýỳỷỹỵ"

var vietnameseWords = []string{
	" là ", " của ", " không ", " tôi ", " bạn ", " và ", " được ", " những ",
	" cho ", " với ", " này ", " có ", " một ", " các ", " học ", " gì ",
	" xin chao ", " cam on ", " khong ", " la gi ",
}

// NormalizeFront folds a card front for duplicate detection: lowercase,
// diacritics removed, whitespace collapsed.
func NormalizeFront(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	folded = strings.NewReplacer("đ", "d", "Đ", "d").Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// DetectLanguage guesses between Vietnamese and English by substring matching.
func DetectLanguage(text string) string {
	if strings.ContainsAny(text, vietnameseLetters) {
		return LangVietnamese
	}
	padded := " " + strings.ToLower(strings.Join(strings.Fields(text), " ")) + " "
	for _, w := range vietnameseWords {
		if strings.Contains(padded, w) {
			return LangVietnamese
		}
	}
	return LangEnglish
}

// TruncateRunes shortens s to at most max runes, appending "..." when cut.
func TruncateRunes(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "..."
}
