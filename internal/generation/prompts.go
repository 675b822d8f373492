package generation

import (
	"fmt"
	"strings"
)

const notesPromptTemplate = `You are an expert educational content creator. Generate comprehensive, well-structured study notes from this video transcript.

**Instructions:**
- DO NOT simply summarize or repeat the transcript
- IDENTIFY and EXPLAIN the main concepts, ideas, and insights
- ORGANIZE your response with clear headings
- MAKE complex ideas accessible and understandable
- FOCUS on the "why" and "how" behind the concepts
- HIGHLIGHT key takeaways and practical implications

**Transcript:**
%s

**Please provide your analysis in this structure:**

## 🎯 Core Concept
[Main idea/theme in 1-2 sentences]

## 📚 Key Concepts Explained
[Detailed explanation of main concepts - not summary]

## 🔍 Important Insights
[Key insights and deeper understanding points]

## 💡 Practical Takeaways
[What viewers should remember/apply]

## 🎓 Why This Matters
[Broader significance and relevance]
`

func buildNotesPrompt(transcript string) string {
	return fmt.Sprintf(notesPromptTemplate, transcript)
}

func difficultyGuidance(d Difficulty) string {
	switch d {
	case DifficultyEasy:
		return "Ask about facts stated directly in the transcript. A careful listener should recall each answer without further reasoning."
	case DifficultyHard:
		return "Ask questions that require analysis, inference, or comparing ideas across the transcript. Distractors should be plausible to someone who only skimmed it."
	default:
		return "Ask questions that require applying or explaining the concepts in the transcript, not just recalling a sentence."
	}
}

func buildQuizPrompt(transcript string, count int, difficulty Difficulty) string {
	var b strings.Builder

	b.WriteString("You are an expert educational assessor. Generate multiple-choice quiz questions from this video transcript.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks, no commentary.\n\n")
	fmt.Fprintf(&b, "Generate exactly %d questions.\n", count)
	fmt.Fprintf(&b, "Difficulty: %s. %s\n\n", difficulty, difficultyGuidance(difficulty))

	b.WriteString(`Each element of the array must have exactly this shape:
{
  "id": 1,
  "type": "mcq",
  "question": "What is the main topic?",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correct_answer": "Option A",
  "explanation": "Brief explanation of why this answer is correct"
}

Rules:
- "type" is always "mcq"
- "options" has exactly 4 distinct strings
- "correct_answer" is copied verbatim from "options"
- every question is answerable from the transcript alone
`)

	b.WriteString("\nTranscript:\n")
	b.WriteString(transcript)
	b.WriteString("\n")
	return b.String()
}
