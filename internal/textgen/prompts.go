package textgen

import (
	"fmt"
	"strings"
)

const (
	alertSystemPrompt = "You are a public health expert who communicates in clear, simple language accessible to rural populations."
	quizSystemPrompt  = "You are a health education expert who creates clear, educational quiz questions."

	alertMaxTokens = 1000
	quizMaxTokens  = 2000
)

func alertPrompt(in AlertRequest) string {
	return fmt.Sprintf(`You are a public health expert. Generate a health alert for the following disease outbreak:

Disease: %s
Case Count: %d
Region: %s
Common Symptoms: %s

Please provide:
1. A clear, concise alert message (2-3 sentences) in simple language suitable for rural populations
2. A list of 4-5 preventive measures
3. Severity assessment (low, medium, high, or critical)

Respond in JSON format with this structure:
{
  "message": "string",
  "preventiveMeasures": ["string"],
  "severity": "string"
}`, in.Disease, in.CaseCount, in.Region, strings.Join(in.Symptoms, ", "))
}

func quizPrompt(in QuizRequest) string {
	return fmt.Sprintf(`You are a health education expert. Create 5 quiz questions about %s.

Disease Information:
- Description: %s
- Symptoms: %s
- Preventive Measures: %s

Create 5 multiple-choice questions:
- 2 easy questions (10 points each)
- 2 medium questions (20 points each)
- 1 hard question (30 points)

Each question should have 4 options with only one correct answer.
Include an explanation for the correct answer.

Respond in JSON format with this structure:
{
  "questions": [
    {
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correctAnswer": number (0-3),
      "explanation": "string",
      "difficulty": "easy|medium|hard",
      "points": number
    }
  ]
}`, in.Disease, in.Description, strings.Join(in.Symptoms, ", "), strings.Join(in.PreventiveMeasures, ", "))
}
