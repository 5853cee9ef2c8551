package cardgen

import (
	"testing"

	"studyflow/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdownTable(t *testing.T) {
	src := "Here are your cards:\n\n" +
		"```markdown\n" +
		"| Front | Back | Example | Example translation |\n" +
		"|---|---|---|---|\n" +
		"| apple | quả táo | I eat an  apple. | Tôi ăn một quả táo. |\n" +
		"| book | quyển sách | | |\n" +
		"| | missing front | | |\n" +
		"```\n"

	cards, err := ParseMarkdownTable(src)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, model.Flashcard{
		Front:              "apple",
		Back:               "quả táo",
		Example:            "I eat an apple.",
		ExampleTranslation: "Tôi ăn một quả táo.",
	}, cards[0])
	assert.Equal(t, "book", cards[1].Front)
	assert.Empty(t, cards[1].Example)
}

func TestParseMarkdownTableVietnameseHeaders(t *testing.T) {
	src := "| Ví dụ | Nghĩa | Từ vựng |\n" +
		"|---|---|---|\n" +
		"| Hello there | xin chào | hello |\n"

	cards, err := ParseMarkdownTable(src)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "hello", cards[0].Front)
	assert.Equal(t, "xin chào", cards[0].Back)
	assert.Equal(t, "Hello there", cards[0].Example)
}

func TestParseMarkdownTablePositionalFallback(t *testing.T) {
	src := "| A | B |\n|---|---|\n| gato | cat |\n"
	cards, err := ParseMarkdownTable(src)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "gato", cards[0].Front)
	assert.Equal(t, "cat", cards[0].Back)
}

func TestParseMarkdownTableKeepsLinks(t *testing.T) {
	src := "| Front | Back |\n|---|---|\n" +
		"| website | www.example.com |\n" +
		"| docs | <https://go.dev/doc> |\n"

	cards, err := ParseMarkdownTable(src)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "www.example.com", cards[0].Back)
	assert.Equal(t, "https://go.dev/doc", cards[1].Back)
}

func TestParseMarkdownTableNoTable(t *testing.T) {
	_, err := ParseMarkdownTable("I could not think of any cards, sorry.")
	assert.ErrorIs(t, err, ErrNoCards)

	_, err = ParseMarkdownTable("| Front | Back |\n|---|---|\n| | |\n")
	assert.ErrorIs(t, err, ErrNoCards)
}

func TestDedupe(t *testing.T) {
	existing := []model.Flashcard{{Front: "Đường"}}
	candidates := []model.Flashcard{
		{Front: "duong"},
		{Front: "Nhà"},
		{Front: "  nha "},
		{Front: "   "},
		{Front: "Cửa"},
	}
	out := Dedupe(existing, candidates)
	require.Len(t, out, 2)
	assert.Equal(t, "Nhà", out[0].Front)
	assert.Equal(t, "Cửa", out[1].Front)
}
