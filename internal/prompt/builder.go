// Package prompt builds the system instructions that drive the interview
// dialogue. Builders are pure; transcript resolution happens upstream.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sreedhar1227/llm-interview-api/internal/session"
)

// Defaults applied when a custom-interview field is absent.
const (
	DefaultTopic      = "General"
	DefaultDifficulty = "Intermediate"
	DefaultExperience = "Fresher"
	DefaultTone       = "Professional"
)

// Lecture builds the opening instruction for a transcript-based interview.
func Lecture(transcript string) string {
	var b strings.Builder
	b.WriteString("You are a professional interviewer conducting an interview based on lecture transcripts.\n\n")
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- Ask exactly %d questions, one at a time, based on the provided transcript.\n", session.MaxQuestions)
	b.WriteString("- Match the difficulty to an intermediate level suitable for a fresher.\n")
	b.WriteString("- Use a professional tone.\n")
	b.WriteString("- Output only a JSON object with 'type' ('question' or 'conclusion') and 'content' (question text or conclusion message).\n")
	b.WriteString("- If a response is off-topic or insufficient, guide the user back or ask for clarification.\n")
	fmt.Fprintf(&b, "- After the %dth question, return a conclusion summarizing the interview.\n\n", session.MaxQuestions)
	fmt.Fprintf(&b, "Transcript:\n%s\n\nStart the interview now.", transcript)
	return b.String()
}

// Custom builds the opening instruction for a custom-topic interview.
// Missing fields fall back to the documented defaults.
func Custom(info session.CustomInfo) string {
	info = ApplyDefaults(info)

	var b strings.Builder
	b.WriteString("You are a professional interviewer creating a customized interview.\n\n")
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- Ask exactly %d questions, one at a time, on the topic: %q.\n", session.MaxQuestions, info.Topic)
	fmt.Fprintf(&b, "- Match the difficulty level: %q.\n", info.Difficulty)
	fmt.Fprintf(&b, "- Tailor questions to a candidate with experience level: %q.\n", info.Experience)
	fmt.Fprintf(&b, "- Use a %q tone.\n", info.Tone)
	b.WriteString("- Output only a JSON object with 'type' ('question' or 'conclusion') and 'content' (question text or conclusion message).\n")
	b.WriteString("- If a response is off-topic or insufficient, guide the user back or ask for clarification.\n")
	fmt.Fprintf(&b, "- After the %dth question, return a conclusion summarizing the interview.\n\n", session.MaxQuestions)
	b.WriteString("Start the interview now.")
	return b.String()
}

// CustomContext renders the topic parameters as the session context text.
func CustomContext(info session.CustomInfo) string {
	info = ApplyDefaults(info)

	var b strings.Builder
	fmt.Fprintf(&b, "The student has chosen to be evaluated on the topic: %s.\n", info.Topic)
	fmt.Fprintf(&b, "The intended difficulty level is: %s.\n", info.Difficulty)
	fmt.Fprintf(&b, "The student has experience level: %s.\n", info.Experience)
	fmt.Fprintf(&b, "The tone of the interview should be: %s.\n", info.Tone)
	return b.String()
}

// Evaluation builds the instruction that grades one answer, mandating strict
// JSON output with integer score and feedback.
func Evaluation(question, answer, context string) string {
	var b strings.Builder
	b.WriteString("You are an expert evaluator. Given a question, the user's answer, and context (transcript or custom info), ")
	b.WriteString("evaluate the answer's accuracy, relevance, and completeness. Assign a score from 0 to 100, where 100 is a perfect answer. ")
	b.WriteString("Return a JSON object with 'score' (integer) and 'feedback' (brief explanation of the score). ")
	b.WriteString("Consider the context to ensure the answer aligns with the lecture content or custom topic requirements.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "Answer: %s\n", answer)
	fmt.Fprintf(&b, "Context: %s\n\n", context)
	b.WriteString("Output format: {\"score\": <int>, \"feedback\": \"<string>\"}")
	return b.String()
}

// ApplyDefaults fills absent custom-interview fields.
func ApplyDefaults(info session.CustomInfo) session.CustomInfo {
	if strings.TrimSpace(info.Topic) == "" {
		info.Topic = DefaultTopic
	}
	if strings.TrimSpace(info.Difficulty) == "" {
		info.Difficulty = DefaultDifficulty
	}
	if strings.TrimSpace(info.Experience) == "" {
		info.Experience = DefaultExperience
	}
	if strings.TrimSpace(info.Tone) == "" {
		info.Tone = DefaultTone
	}
	return info
}
