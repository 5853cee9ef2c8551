package ai

import (
	"fmt"
	"strings"

	"studyflow/model"
	"studyflow/utils"
)

const (
	ChatHistoryLimit = 20

	tutorInstruction = "You are StudyFlow, a patient study tutor. Explain concepts step by step, " +
		"give short examples, and check understanding with a question when it helps. " +
		"Keep answers focused and use markdown for lists and code."
)

func languageHint(lang string) string {
	if lang == utils.LangVietnamese {
		return "Answer in Vietnamese."
	}
	return "Answer in English."
}

// ChatPrompt builds the tutor prompt from the newest ChatHistoryLimit messages.
func ChatPrompt(history []model.Message, lang string) Prompt {
	if len(history) > ChatHistoryLimit {
		history = history[len(history)-ChatHistoryLimit:]
	}
	turns := make([]Turn, 0, len(history))
	for _, m := range history {
		role := RoleUser
		if m.Sender == model.SenderAI {
			role = RoleModel
		}
		turns = append(turns, Turn{Role: role, Text: m.Content})
	}
	return Prompt{
		Purpose:     "chat",
		System:      tutorInstruction + " " + languageHint(lang),
		Turns:       turns,
		Temperature: 0.7,
	}
}

// FlashcardPrompt asks for count cards about topic as a markdown table.
func FlashcardPrompt(topic string, count int, lang string) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d flashcards about the following topic or material:\n\n%s\n\n", count, strings.TrimSpace(topic))
	b.WriteString("Reply with only a markdown table with the columns ")
	b.WriteString("| Front | Back | Example | Example translation |. ")
	b.WriteString("Front is the term or question, Back its meaning or answer. ")
	b.WriteString("Do not repeat fronts. ")
	b.WriteString(languageHint(lang))

	return Prompt{
		Purpose:     "flashcards",
		System:      "You generate concise study flashcards.",
		Turns:       []Turn{{Role: RoleUser, Text: b.String()}},
		Temperature: 0.4,
	}
}
