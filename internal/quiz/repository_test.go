package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"healthwatch/internal/apperr"
	"healthwatch/internal/dbtest"
	"healthwatch/internal/models"
)

func seedDiseaseWithQuestions(t *testing.T, repo *Repository, name string, n int) (*models.Disease, []models.QuizQuestion) {
	t.Helper()
	ctx := context.Background()
	disease := &models.Disease{Name: name, Category: "viral", Description: name + " notes"}
	if err := repo.CreateDisease(ctx, disease); err != nil {
		t.Fatalf("create disease: %v", err)
	}
	questions := make([]models.QuizQuestion, n)
	for i := range questions {
		questions[i] = models.QuizQuestion{
			DiseaseID:     disease.ID,
			Question:      fmt.Sprintf("%s question %d", name, i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
			Points:        10,
		}
	}
	if err := repo.CreateQuestions(ctx, questions); err != nil {
		t.Fatalf("create questions: %v", err)
	}
	return disease, questions
}

func createUser(t *testing.T, db *gorm.DB, subject string, points int) *models.User {
	t.Helper()
	user := &models.User{Subject: subject, FirstName: subject, Region: "District-A", TotalPoints: points}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestSubmitAnswerPersistsPointsAndLevel(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil, nil, zerolog.Nop())
	ctx := context.Background()

	disease, questions := seedDiseaseWithQuestions(t, repo, "Dengue", 2)
	user := createUser(t, db, "learner", 95)

	correct := 1
	res, err := svc.SubmitAnswer(ctx, user, models.AnswerInput{QuestionID: questions[0].ID, SelectedAnswer: &correct})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsCorrect || res.PointsEarned != 10 {
		t.Fatalf("got %+v, want correct answer worth 10", res)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.TotalPoints != 105 || stored.Level != 2 || stored.Streak != 1 {
		t.Errorf("got points=%d level=%d streak=%d, want 105/2/1", stored.TotalPoints, stored.Level, stored.Streak)
	}
	var rawLevel int
	db.Raw("SELECT level FROM users WHERE id = ?", user.ID).Scan(&rawLevel)
	if rawLevel != 2 {
		t.Errorf("stored level column = %d, want 2", rawLevel)
	}

	progress, err := repo.ListProgress(ctx, user.ID)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(progress) != 1 {
		t.Fatalf("expected one progress row after first attempt, got %d", len(progress))
	}
	p := progress[0]
	if p.DiseaseID != disease.ID || p.QuestionsAttempted != 1 || p.QuestionsCorrect != 1 || p.TotalPoints != 10 {
		t.Errorf("unexpected progress %+v", p)
	}
	if p.Completed {
		t.Error("progress should not be complete after one of two questions")
	}
	if p.LastAttemptedAt == nil {
		t.Error("expected lastAttemptedAt to be set")
	}
}

func TestSubmitAnswerAccumulatesProgress(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil, nil, zerolog.Nop())
	ctx := context.Background()

	_, questions := seedDiseaseWithQuestions(t, repo, "Malaria", 2)
	user := createUser(t, db, "learner", 0)

	right, wrong := 1, 3
	if _, err := svc.SubmitAnswer(ctx, user, models.AnswerInput{QuestionID: questions[0].ID, SelectedAnswer: &right}); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, user, models.AnswerInput{QuestionID: questions[1].ID, SelectedAnswer: &wrong}); err != nil {
		t.Fatalf("second answer: %v", err)
	}

	progress, err := repo.ListProgress(ctx, user.ID)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(progress) != 1 {
		t.Fatalf("expected a single progress row, got %d", len(progress))
	}
	p := progress[0]
	if p.QuestionsAttempted != 2 || p.QuestionsCorrect != 1 || p.TotalPoints != 10 || !p.Completed {
		t.Errorf("unexpected progress %+v", p)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.TotalPoints != 10 || stored.Streak != 0 {
		t.Errorf("got points=%d streak=%d, want 10/0", stored.TotalPoints, stored.Streak)
	}

	var attempts int64
	db.Model(&models.QuizAttempt{}).Where("user_id = ?", user.ID).Count(&attempts)
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestRecordAttemptUnknownUser(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	disease, questions := seedDiseaseWithQuestions(t, repo, "Cholera", 1)

	attempt := &models.QuizAttempt{UserID: 999, QuestionID: questions[0].ID, IsCorrect: true, PointsEarned: 10}
	_, err := repo.RecordAttempt(context.Background(), attempt, disease.ID)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	var attempts int64
	db.Model(&models.QuizAttempt{}).Count(&attempts)
	if attempts != 0 {
		t.Errorf("attempt should roll back with the transaction, found %d", attempts)
	}
}

func TestLeaderboardOrderAndLimit(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)

	points := []int{40, 310, 120, 0, 95, 310, 250, 15, 500, 60, 75, 200}
	for i, p := range points {
		createUser(t, db, fmt.Sprintf("user-%02d", i), p)
	}

	entries, err := repo.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != leaderboardSize {
		t.Fatalf("expected %d entries, got %d", leaderboardSize, len(entries))
	}

	want := []int{500, 310, 310, 250, 200, 120, 95, 75, 60, 40}
	for i, e := range entries {
		if e.TotalPoints != want[i] {
			t.Errorf("entry %d: got %d points, want %d", i, e.TotalPoints, want[i])
		}
		if e.Level != models.LevelForPoints(e.TotalPoints) {
			t.Errorf("entry %d: level %d does not match %d points", i, e.Level, e.TotalPoints)
		}
	}
	// Equal points fall back to the earlier account.
	if entries[1].UserID > entries[2].UserID {
		t.Errorf("tie not broken by id: %d before %d", entries[1].UserID, entries[2].UserID)
	}
	if entries[0].FirstName != "user-08" {
		t.Errorf("expected user-08 on top, got %q", entries[0].FirstName)
	}
}

func TestCreateDiseaseDuplicateName(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	if err := repo.CreateDisease(ctx, &models.Disease{Name: "Typhoid", Category: "bacterial", Description: "d"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := repo.CreateDisease(ctx, &models.Disease{Name: "Typhoid", Category: "bacterial", Description: "d"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetDiseaseLoadsQuestionsInOrder(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	disease, questions := seedDiseaseWithQuestions(t, repo, "Tuberculosis", 3)

	got, err := repo.GetDisease(ctx, disease.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got.Questions))
	}
	for i, q := range got.Questions {
		if q.ID != questions[i].ID {
			t.Errorf("question %d: got id %d, want %d", i, q.ID, questions[i].ID)
		}
		if len(q.Options) != models.OptionsPerQuestion {
			t.Errorf("question %d: options did not round-trip: %v", i, q.Options)
		}
	}
	if got.Symptoms == nil {
		t.Error("empty symptom list should load as an empty slice")
	}

	if _, err := repo.GetDisease(ctx, disease.ID+100); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
