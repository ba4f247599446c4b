// Package textgen drafts alert copy and quiz questions with a language model.
// Every operation has a deterministic fallback, so callers never see a
// generation failure.
package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"healthwatch/internal/models"
)

// FallbackMeasures is the generic advice used when no model output is available.
var FallbackMeasures = []string{
	"Maintain good personal hygiene",
	"Drink clean, boiled water",
	"Seek medical attention if symptoms appear",
	"Avoid contact with infected individuals",
}

const QuestionsPerDisease = 5

type AlertRequest struct {
	Disease   string
	CaseCount int
	Region    string
	Symptoms  []string
}

type AlertDraft struct {
	Message            string   `json:"message"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
	Severity           string   `json:"severity"`
}

type QuizRequest struct {
	Disease            string
	Description        string
	Symptoms           []string
	PreventiveMeasures []string
}

type QuestionDraft struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Points        int      `json:"points"`
}

type Drafter struct {
	completer Completer
	log       zerolog.Logger
}

// NewDrafter wraps completer. A nil completer makes every draft a fallback.
func NewDrafter(completer Completer, log zerolog.Logger) *Drafter {
	return &Drafter{
		completer: completer,
		log:       log.With().Str("component", "textgen").Logger(),
	}
}

func (d *Drafter) DraftAlert(ctx context.Context, in AlertRequest) AlertDraft {
	if d.completer == nil {
		return FallbackAlert(in)
	}

	raw, err := d.completer.Complete(ctx, alertSystemPrompt, alertPrompt(in), alertMaxTokens)
	if err != nil {
		d.log.Warn().Err(err).Str("disease", in.Disease).Msg("alert generation failed; using fallback")
		return FallbackAlert(in)
	}

	var draft AlertDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		d.log.Warn().Err(err).Str("disease", in.Disease).Msg("alert response unparseable; using fallback")
		return FallbackAlert(in)
	}

	if strings.TrimSpace(draft.Message) == "" {
		draft.Message = fmt.Sprintf("%s outbreak detected in %s. %d cases reported.", in.Disease, in.Region, in.CaseCount)
	}
	if len(draft.PreventiveMeasures) == 0 {
		draft.PreventiveMeasures = append([]string(nil), FallbackMeasures...)
	}
	draft.Severity = strings.ToLower(strings.TrimSpace(draft.Severity))
	if !models.ValidSeverity(draft.Severity) {
		draft.Severity = SeverityForCases(in.CaseCount)
	}
	return draft
}

// FallbackAlert is the templated alert used whenever generation fails.
func FallbackAlert(in AlertRequest) AlertDraft {
	return AlertDraft{
		Message: fmt.Sprintf(
			"Health Alert: %s outbreak detected in %s. %d cases have been reported. Please take necessary precautions.",
			in.Disease, in.Region, in.CaseCount,
		),
		PreventiveMeasures: append([]string(nil), FallbackMeasures...),
		Severity:           SeverityForCases(in.CaseCount),
	}
}

func SeverityForCases(caseCount int) string {
	switch {
	case caseCount > 50:
		return models.SeverityHigh
	case caseCount > 20:
		return models.SeverityMedium
	}
	return models.SeverityLow
}

// DraftQuizQuestions returns up to five well-formed questions, or none on failure.
func (d *Drafter) DraftQuizQuestions(ctx context.Context, in QuizRequest) []QuestionDraft {
	if d.completer == nil {
		return nil
	}

	raw, err := d.completer.Complete(ctx, quizSystemPrompt, quizPrompt(in), quizMaxTokens)
	if err != nil {
		d.log.Warn().Err(err).Str("disease", in.Disease).Msg("quiz generation failed")
		return nil
	}

	var resp struct {
		Questions []QuestionDraft `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		d.log.Warn().Err(err).Str("disease", in.Disease).Msg("quiz response unparseable")
		return nil
	}

	out := make([]QuestionDraft, 0, QuestionsPerDisease)
	for _, q := range resp.Questions {
		if len(out) == QuestionsPerDisease {
			break
		}
		if !q.wellFormed() {
			d.log.Debug().Str("question", q.Question).Msg("dropping malformed question")
			continue
		}
		q.Difficulty = strings.ToLower(q.Difficulty)
		if q.Points <= 0 {
			q.Points = pointsFor(q.Difficulty)
		}
		out = append(out, q)
	}
	return out
}

func (q QuestionDraft) wellFormed() bool {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) != models.OptionsPerQuestion {
		return false
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return false
		}
	}
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < models.OptionsPerQuestion
}

func pointsFor(difficulty string) int {
	switch difficulty {
	case "hard":
		return 30
	case "medium":
		return 20
	}
	return 10
}
