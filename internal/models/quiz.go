package models

import "time"

// QuizAttempt is an append-only audit row.
type QuizAttempt struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time `json:"createdAt"`
	UserID         uint      `json:"userId" gorm:"not null;index"`
	QuestionID     uint      `json:"questionId" gorm:"not null;index"`
	SelectedAnswer int       `json:"selectedAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
	PointsEarned   int       `json:"pointsEarned"`
}

type UserProgress struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	UserID             uint       `json:"userId" gorm:"not null;uniqueIndex:idx_user_progress_user_disease"`
	DiseaseID          uint       `json:"diseaseId" gorm:"not null;uniqueIndex:idx_user_progress_user_disease"`
	QuestionsAttempted int        `json:"questionsAttempted"`
	QuestionsCorrect   int        `json:"questionsCorrect"`
	TotalPoints        int        `json:"totalPoints"`
	Completed          bool       `json:"completed"`
	LastAttemptedAt    *time.Time `json:"lastAttemptedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// Record folds one graded attempt into the disease-scoped tally.
func (p *UserProgress) Record(correct bool, points, questionCount int, at time.Time) {
	p.QuestionsAttempted++
	if correct {
		p.QuestionsCorrect++
	}
	p.TotalPoints += points
	p.Completed = questionCount > 0 && p.QuestionsAttempted >= questionCount
	p.LastAttemptedAt = &at
}

type LeaderboardEntry struct {
	UserID      uint   `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Region      string `json:"region"`
	TotalPoints int    `json:"totalPoints"`
	Level       int    `json:"level"`
	Streak      int    `json:"streak"`
}

type AnswerResult struct {
	IsCorrect    bool `json:"isCorrect"`
	PointsEarned int  `json:"pointsEarned"`
}
