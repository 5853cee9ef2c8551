package ai

import (
	"context"
	"fmt"
	"strings"

	"studyflow/utils"
)

const (
	fallbackVI = "Xin lỗi, hiện tại tôi đang gặp sự cố kỹ thuật. Bạn vui lòng thử lại sau ít phút nhé!"
	fallbackEN = "Sorry, I'm having some technical difficulties right now. Please try again in a moment."
)

// FallbackReply is the canned chat answer used when the generator fails.
func FallbackReply(lang string) string {
	if lang == utils.LangEnglish {
		return fallbackEN
	}
	return fallbackVI
}

type keywordReply struct {
	keywords []string
	vi, en   string
}

var keywordReplies = []keywordReply{
	{
		keywords: []string{"xin chào", "xin chao", "chào", "hello", " hi ", " hey "},
		vi:       "Xin chào! Tôi là trợ lý học tập của bạn. Hôm nay bạn muốn học gì?",
		en:       "Hello! I'm your study assistant. What would you like to learn today?",
	},
	{
		keywords: []string{"pomodoro", "tập trung", "focus"},
		vi:       "Phương pháp Pomodoro: học tập trung 25 phút, nghỉ 5 phút, và sau 4 phiên thì nghỉ dài 15 phút.",
		en:       "The Pomodoro technique: focus for 25 minutes, take a 5 minute break, and after 4 sessions take a 15 minute break.",
	},
	{
		keywords: []string{"flashcard", "thẻ", "ghi nhớ", "memorize"},
		vi:       "Hãy ôn flashcard mỗi ngày và đánh dấu những thẻ bạn đã thuộc để tập trung vào thẻ còn lại.",
		en:       "Review your flashcards daily and mark the cards you know so you can focus on the rest.",
	},
	{
		keywords: []string{"thói quen", "habit", "streak"},
		vi:       "Xây dựng thói quen bắt đầu từ những việc nhỏ. Hãy đánh dấu hoàn thành mỗi ngày để giữ chuỗi!",
		en:       "Good habits start small. Check them off every day to keep your streak going!",
	},
	{
		keywords: []string{"cảm ơn", "cam on", "thank"},
		vi:       "Không có gì! Chúc bạn học tốt.",
		en:       "You're welcome! Happy studying.",
	},
}

// LocalResponder answers from a small keyword table. It never fails and is
// used when no API key is configured.
type LocalResponder struct{}

func (LocalResponder) Generate(_ context.Context, p Prompt) (string, error) {
	utils.TrackAIRequest(p.Purpose, "fallback")

	var last string
	for i := len(p.Turns) - 1; i >= 0; i-- {
		if p.Turns[i].Role == RoleUser {
			last = p.Turns[i].Text
			break
		}
	}
	lang := utils.DetectLanguage(last)
	lower := " " + strings.ToLower(last) + " "

	for _, r := range keywordReplies {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				if lang == utils.LangEnglish {
					return r.en, nil
				}
				return r.vi, nil
			}
		}
	}

	topic := utils.TruncateRunes(last, 60)
	if lang == utils.LangEnglish {
		return fmt.Sprintf("That's an interesting question about %q. I'm running in offline mode, so try breaking it into smaller parts and reviewing your notes.", topic), nil
	}
	return fmt.Sprintf("Câu hỏi thú vị về %q. Tôi đang ở chế độ ngoại tuyến, bạn hãy thử chia nhỏ vấn đề và xem lại ghi chú nhé.", topic), nil
}

// WithFallback returns the reply of gen, or the canned technical-difficulty
// reply when gen fails. The second value reports whether the fallback was used.
func WithFallback(ctx context.Context, gen Generator, p Prompt, lang string) (string, bool) {
	reply, err := gen.Generate(ctx, p)
	if err != nil {
		return FallbackReply(lang), true
	}
	return reply, false
}
