package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	databases "srivani_backend/internals/databases"
	compdto "srivani_backend/internals/features/competitions/dto"
	compmodel "srivani_backend/internals/features/competitions/model"
	compservice "srivani_backend/internals/features/competitions/service"
	"srivani_backend/internals/features/quiz/dto"
	"srivani_backend/internals/features/quiz/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := databases.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func wantStatus(t *testing.T, err error, code int) {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fiber.Error, got %v", err)
	}
	if fe.Code != code {
		t.Fatalf("status = %d (%s), want %d", fe.Code, fe.Message, code)
	}
}

// seedPublishedCompetition creates and publishes a competition with one
// MCQ question (three options, the second one correct) and one descriptive
// question. Returns the competition, the MCQ question with its options in
// order, and the descriptive question.
func seedPublishedCompetition(t *testing.T, db *gorm.DB, timeLimitMinutes *int) (*compmodel.CompetitionModel, *compmodel.QuestionModel, []compmodel.QuestionOptionModel, *compmodel.QuestionModel) {
	t.Helper()
	svc := compservice.NewCompetitionService(db)
	ctx := context.Background()

	req := &compdto.CreateCompetitionRequest{
		TitleEn:          "General Knowledge Round",
		TitleHi:          "सामान्य ज्ञान",
		StartDate:        time.Now().Add(-time.Hour),
		EndDate:          time.Now().Add(24 * time.Hour),
		TimeLimitMinutes: timeLimitMinutes,
		Questions: []compdto.QuestionRequest{
			{
				Type:       compmodel.QuestionTypeMCQ,
				TextEn:     "Which river is the longest?",
				Points:     1,
				OrderIndex: 0,
				Options: []compdto.OptionRequest{
					{TextEn: "Yamuna", OrderIndex: 0},
					{TextEn: "Ganga", IsCorrect: true, OrderIndex: 1},
					{TextEn: "Godavari", OrderIndex: 2},
				},
			},
			{
				Type:       compmodel.QuestionTypeDescriptive,
				TextEn:     "Describe the festival of Diwali.",
				Points:     1,
				OrderIndex: 1,
			},
		},
	}

	comp, err := svc.Create(ctx, uuid.New(), req)
	if err != nil {
		t.Fatalf("create competition: %v", err)
	}
	if _, err := svc.Publish(ctx, comp.CompetitionID); err != nil {
		t.Fatalf("publish competition: %v", err)
	}
	comp.CompetitionStatus = compmodel.CompetitionStatusPublished

	var questions []compmodel.QuestionModel
	if err := db.Where("question_competition_id = ?", comp.CompetitionID).
		Order("question_order_index asc").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("seeded %d questions, want 2", len(questions))
	}
	mcq, desc := &questions[0], &questions[1]

	var options []compmodel.QuestionOptionModel
	if err := db.Where("question_option_question_id = ?", mcq.QuestionID).
		Order("question_option_order_index asc").Find(&options).Error; err != nil {
		t.Fatalf("load options: %v", err)
	}
	if len(options) != 3 {
		t.Fatalf("seeded %d options, want 3", len(options))
	}
	return comp, mcq, options, desc
}

func TestStartOrResumeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, _, _, _ := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	first, resumed, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if resumed {
		t.Fatal("first start reported resumed")
	}

	second, resumed, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !resumed {
		t.Fatal("second start did not resume")
	}
	if second.QuizAttemptID != first.QuizAttemptID {
		t.Fatalf("resume returned %s, want %s", second.QuizAttemptID, first.QuizAttemptID)
	}
}

func TestStartSnapshotsTotalQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, mcq, _, _ := seedPublishedCompetition(t, db, nil)

	attempt, _, err := svc.StartOrResume(ctx, uuid.New(), comp.CompetitionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if attempt.QuizAttemptTotalQuestions != 2 {
		t.Fatalf("total questions = %d, want 2", attempt.QuizAttemptTotalQuestions)
	}

	// Deactivating a question afterwards must not change the snapshot.
	if err := db.Model(&compmodel.QuestionModel{}).
		Where("question_id = ?", mcq.QuestionID).
		Update("question_is_active", false).Error; err != nil {
		t.Fatalf("deactivate question: %v", err)
	}

	var reloaded model.QuizAttemptModel
	if err := db.First(&reloaded, "quiz_attempt_id = ?", attempt.QuizAttemptID).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if reloaded.QuizAttemptTotalQuestions != 2 {
		t.Fatalf("snapshot changed to %d", reloaded.QuizAttemptTotalQuestions)
	}
}

func TestStartRejectsCompetitionOutsideWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, _, _, _ := seedPublishedCompetition(t, db, nil)

	// Push the window into the past.
	if err := db.Model(&compmodel.CompetitionModel{}).
		Where("competition_id = ?", comp.CompetitionID).
		Updates(map[string]interface{}{
			"competition_start_date": time.Now().Add(-48 * time.Hour),
			"competition_end_date":   time.Now().Add(-24 * time.Hour),
		}).Error; err != nil {
		t.Fatalf("backdate competition: %v", err)
	}

	_, _, err := svc.StartOrResume(ctx, uuid.New(), comp.CompetitionID)
	wantStatus(t, err, fiber.StatusBadRequest)
}

func TestStartUnknownCompetitionIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)

	_, _, err := svc.StartOrResume(context.Background(), uuid.New(), uuid.New())
	wantStatus(t, err, fiber.StatusNotFound)
}

func TestSaveProgressReplacesAnswerSet(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, mcq, options, desc := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	attempt, _, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	setA := []dto.AnswerRequest{
		{QuestionID: mcq.QuestionID, SelectedOptionID: &options[0].QuestionOptionID},
	}
	if err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &setA}); err != nil {
		t.Fatalf("save A: %v", err)
	}

	text := "a festival of lights"
	setB := []dto.AnswerRequest{
		{QuestionID: desc.QuestionID, AnswerText: &text},
	}
	if err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &setB}); err != nil {
		t.Fatalf("save B: %v", err)
	}

	var stored []model.QuizAttemptAnswerModel
	if err := db.Where("quiz_attempt_answer_attempt_id = ?", attempt.QuizAttemptID).Find(&stored).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d answers, want exactly set B (1)", len(stored))
	}
	if stored[0].QuizAttemptAnswerQuestionID != desc.QuestionID {
		t.Fatal("stored answer is not from set B")
	}
}

func TestSaveProgressCoalescesScalarFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	limit := 30
	comp, _, _, _ := seedPublishedCompetition(t, db, &limit)
	userID := uuid.New()

	attempt, _, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if attempt.QuizAttemptRemainingSeconds == nil || *attempt.QuizAttemptRemainingSeconds != 1800 {
		t.Fatalf("initial remaining = %v, want 1800", attempt.QuizAttemptRemainingSeconds)
	}

	idx := 1
	if err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{
		CurrentQuestionIndex: &idx,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var reloaded model.QuizAttemptModel
	if err := db.First(&reloaded, "quiz_attempt_id = ?", attempt.QuizAttemptID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.QuizAttemptCurrentQuestionIndex != 1 {
		t.Fatalf("index = %d, want 1", reloaded.QuizAttemptCurrentQuestionIndex)
	}
	if reloaded.QuizAttemptRemainingSeconds == nil || *reloaded.QuizAttemptRemainingSeconds != 1800 {
		t.Fatalf("remaining clobbered to %v", reloaded.QuizAttemptRemainingSeconds)
	}
}

func TestSaveProgressRejectsForeignQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, _, _, _ := seedPublishedCompetition(t, db, nil)
	otherComp, otherMcq, otherOptions, _ := seedPublishedCompetition(t, db, nil)
	_ = otherComp
	userID := uuid.New()

	attempt, _, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	answers := []dto.AnswerRequest{
		{QuestionID: otherMcq.QuestionID, SelectedOptionID: &otherOptions[0].QuestionOptionID},
	}
	err = svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &answers})
	wantStatus(t, err, fiber.StatusBadRequest)
}

func TestSaveProgressRejectsForeignOption(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, mcq, _, _ := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	attempt, _, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	bogus := uuid.New()
	answers := []dto.AnswerRequest{
		{QuestionID: mcq.QuestionID, SelectedOptionID: &bogus},
	}
	err = svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &answers})
	wantStatus(t, err, fiber.StatusBadRequest)
}

func TestSubmitScoresByOptionIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, mcq, options, desc := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	attempt, _, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	text := "foo"
	answers := []dto.AnswerRequest{
		{QuestionID: mcq.QuestionID, SelectedOptionID: &options[1].QuestionOptionID}, // the correct one
		{QuestionID: desc.QuestionID, AnswerText: &text},
	}
	if err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &answers}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Reordering options after answers are stored must not change the score.
	if err := db.Model(&compmodel.QuestionOptionModel{}).
		Where("question_option_question_id = ?", mcq.QuestionID).
		Update("question_option_order_index", gorm.Expr("2 - question_option_order_index")).Error; err != nil {
		t.Fatalf("reorder options: %v", err)
	}

	result, err := svc.SubmitAttempt(ctx, userID, attempt.QuizAttemptID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Correct != 1 {
		t.Fatalf("correct = %d, want 1", result.Correct)
	}
	if result.ScorePercent != 50 {
		t.Fatalf("score = %v, want 50", result.ScorePercent)
	}

	var reloaded model.QuizAttemptModel
	if err := db.First(&reloaded, "quiz_attempt_id = ?", attempt.QuizAttemptID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.QuizAttemptStatus != model.QuizAttemptStatusCompleted {
		t.Fatalf("status = %s, want completed", reloaded.QuizAttemptStatus)
	}
	if reloaded.QuizAttemptEndTime == nil {
		t.Fatal("end time not set")
	}
}

func TestWrongOptionDoesNotScore(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, mcq, options, _ := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	attempt, _, _ := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	answers := []dto.AnswerRequest{
		{QuestionID: mcq.QuestionID, SelectedOptionID: &options[0].QuestionOptionID},
	}
	if err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &answers}); err != nil {
		t.Fatalf("save: %v", err)
	}

	result, err := svc.SubmitAttempt(ctx, userID, attempt.QuizAttemptID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Correct != 0 {
		t.Fatalf("correct = %d, want 0", result.Correct)
	}
}

func TestDescriptiveAnswerNeverScores(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, _, _, desc := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	attempt, _, _ := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	text := "the correct answer, in great detail"
	answers := []dto.AnswerRequest{
		{QuestionID: desc.QuestionID, AnswerText: &text},
	}
	if err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &answers}); err != nil {
		t.Fatalf("save: %v", err)
	}

	result, err := svc.SubmitAttempt(ctx, userID, attempt.QuizAttemptID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Correct != 0 {
		t.Fatalf("descriptive answer scored: correct = %d", result.Correct)
	}
}

func TestSubmitTwiceIsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, _, _, _ := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	attempt, _, _ := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if _, err := svc.SubmitAttempt(ctx, userID, attempt.QuizAttemptID); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.SubmitAttempt(ctx, userID, attempt.QuizAttemptID)
	wantStatus(t, err, fiber.StatusConflict)
}

func TestLateSaveAutoFinalizes(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	limit := 1
	comp, mcq, options, _ := seedPublishedCompetition(t, db, &limit)
	userID := uuid.New()

	attempt, _, _ := svc.StartOrResume(ctx, userID, comp.CompetitionID)

	answers := []dto.AnswerRequest{
		{QuestionID: mcq.QuestionID, SelectedOptionID: &options[1].QuestionOptionID},
	}
	if err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &answers}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Backdate the start so the deadline has passed.
	if err := db.Model(&model.QuizAttemptModel{}).
		Where("quiz_attempt_id = ?", attempt.QuizAttemptID).
		Update("quiz_attempt_start_time", time.Now().Add(-5*time.Minute)).Error; err != nil {
		t.Fatalf("backdate attempt: %v", err)
	}

	err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{Answers: &answers})
	wantStatus(t, err, fiber.StatusConflict)

	// The attempt must now be completed and scored from the stored answers.
	var reloaded model.QuizAttemptModel
	if err := db.First(&reloaded, "quiz_attempt_id = ?", attempt.QuizAttemptID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.QuizAttemptStatus != model.QuizAttemptStatusCompleted {
		t.Fatalf("status = %s, want completed", reloaded.QuizAttemptStatus)
	}
	if reloaded.QuizAttemptCorrectAnswers == nil || *reloaded.QuizAttemptCorrectAnswers != 1 {
		t.Fatalf("correct = %v, want 1", reloaded.QuizAttemptCorrectAnswers)
	}
}

func TestGetAttemptOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, _, _, _ := seedPublishedCompetition(t, db, nil)
	owner := uuid.New()

	attempt, _, _ := svc.StartOrResume(ctx, owner, comp.CompetitionID)

	_, err := svc.GetAttempt(ctx, uuid.New(), attempt.QuizAttemptID)
	wantStatus(t, err, fiber.StatusForbidden)

	_, err = svc.GetAttempt(ctx, owner, uuid.New())
	wantStatus(t, err, fiber.StatusNotFound)
}

func TestCorrectFlagsHiddenUntilCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, _, _, _ := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	attempt, _, _ := svc.StartOrResume(ctx, userID, comp.CompetitionID)

	questions, err := svc.GetAttemptQuestions(ctx, userID, attempt.QuizAttemptID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	for _, q := range questions {
		for _, opt := range q.Options {
			if opt.IsCorrect {
				t.Fatal("is_correct leaked on in-progress attempt")
			}
		}
	}

	if _, err := svc.SubmitAttempt(ctx, userID, attempt.QuizAttemptID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	questions, err = svc.GetAttemptQuestions(ctx, userID, attempt.QuizAttemptID)
	if err != nil {
		t.Fatalf("questions after submit: %v", err)
	}
	sawCorrect := false
	for _, q := range questions {
		for _, opt := range q.Options {
			sawCorrect = sawCorrect || opt.IsCorrect
		}
	}
	if !sawCorrect {
		t.Fatal("is_correct still hidden after completion")
	}
}

func TestEndToEndAttemptFlow(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)
	ctx := context.Background()
	comp, mcq, options, desc := seedPublishedCompetition(t, db, nil)
	userID := uuid.New()

	attempt, _, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Partial save, then resume returns the same attempt.
	idx := 1
	text := "foo"
	answers := []dto.AnswerRequest{
		{QuestionID: mcq.QuestionID, SelectedOptionID: &options[1].QuestionOptionID},
		{QuestionID: desc.QuestionID, AnswerText: &text},
	}
	if err := svc.SaveProgress(ctx, userID, attempt.QuizAttemptID, &dto.SaveProgressRequest{
		CurrentQuestionIndex: &idx,
		Answers:              &answers,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	resumedAttempt, resumed, err := svc.StartOrResume(ctx, userID, comp.CompetitionID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !resumed || resumedAttempt.QuizAttemptID != attempt.QuizAttemptID {
		t.Fatalf("resume gave %s (resumed=%v), want %s", resumedAttempt.QuizAttemptID, resumed, attempt.QuizAttemptID)
	}

	result, err := svc.SubmitAttempt(ctx, userID, attempt.QuizAttemptID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Correct != 1 {
		t.Fatalf("correct = %d, want 1", result.Correct)
	}

	// A fresh start after completion creates a new attempt; the active
	// listing no longer offers the competition either way.
	view, err := svc.GetAttempt(ctx, userID, attempt.QuizAttemptID)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if view.Status != model.QuizAttemptStatusCompleted {
		t.Fatalf("status = %s, want completed", view.Status)
	}
	if view.CorrectAnswers == nil || *view.CorrectAnswers != 1 {
		t.Fatalf("correct answers = %v, want 1", view.CorrectAnswers)
	}
}
