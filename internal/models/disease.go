package models

import (
	"time"

	"gorm.io/datatypes"
)

type Disease struct {
	ID                 uint                        `json:"id" gorm:"primaryKey"`
	CreatedAt          time.Time                   `json:"createdAt"`
	UpdatedAt          time.Time                   `json:"updatedAt"`
	Name               string                      `json:"name" gorm:"uniqueIndex;not null"`
	Category           string                      `json:"category" gorm:"not null"`
	Description        string                      `json:"description" gorm:"not null"`
	Symptoms           datatypes.JSONSlice[string] `json:"symptoms"`
	PreventiveMeasures datatypes.JSONSlice[string] `json:"preventiveMeasures"`
	Treatment          string                      `json:"treatment"`
	Severity           string                      `json:"severity"`
	Season             string                      `json:"season"`
	Questions          []QuizQuestion              `json:"questions,omitempty" gorm:"foreignKey:DiseaseID"`
}

// QuizQuestion has exactly four options; CorrectAnswer indexes into them.
type QuizQuestion struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time                   `json:"createdAt"`
	DiseaseID     uint                        `json:"diseaseId" gorm:"not null;index"`
	Question      string                      `json:"question" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	CorrectAnswer int                         `json:"correctAnswer"`
	Explanation   string                      `json:"explanation"`
	Difficulty    string                      `json:"difficulty"`
	Points        int                         `json:"points" gorm:"not null;default:10"`
}

const OptionsPerQuestion = 4

// Score grades a selected option.
func (q *QuizQuestion) Score(selected int) (correct bool, points int) {
	if selected == q.CorrectAnswer {
		return true, q.Points
	}
	return false, 0
}
