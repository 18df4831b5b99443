package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	compdto "srivani_backend/internals/features/competitions/dto"
	compmodel "srivani_backend/internals/features/competitions/model"
	"srivani_backend/internals/features/quiz/dto"
	"srivani_backend/internals/features/quiz/model"
)

// QuizService drives the attempt lifecycle: start/resume, save progress,
// submit, score. All multi-row mutations run inside a transaction.
type QuizService struct {
	DB *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{DB: db}
}

// =============================
// StartOrResume
// =============================
// Returns the existing in-progress attempt unchanged when one exists;
// otherwise creates a fresh attempt after checking the competition window.
func (s *QuizService) StartOrResume(ctx context.Context, userID, competitionID uuid.UUID) (*model.QuizAttemptModel, bool, error) {
	var existing model.QuizAttemptModel
	err := s.DB.WithContext(ctx).
		Where("quiz_attempt_user_id = ? AND quiz_attempt_competition_id = ? AND quiz_attempt_status = ?",
			userID, competitionID, model.QuizAttemptStatusInProgress).
		Order("quiz_attempt_created_at desc").
		First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, wrapDBError(err)
	}

	var comp compmodel.CompetitionModel
	err = s.DB.WithContext(ctx).
		First(&comp, "competition_id = ? AND competition_is_deleted = ?", competitionID, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fiber.NewError(fiber.StatusNotFound, "Competition not found")
	}
	if err != nil {
		return nil, false, wrapDBError(err)
	}

	now := time.Now()
	if !comp.IsOpenAt(now) {
		return nil, false, fiber.NewError(fiber.StatusBadRequest, "Competition is not open for attempts")
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&compmodel.QuestionModel{}).
		Where("question_competition_id = ? AND question_is_active = ?", competitionID, true).
		Count(&total).Error; err != nil {
		return nil, false, wrapDBError(err)
	}

	attempt := model.QuizAttemptModel{
		QuizAttemptUserID:         userID,
		QuizAttemptCompetitionID:  competitionID,
		QuizAttemptStatus:         model.QuizAttemptStatusInProgress,
		QuizAttemptStartTime:      now,
		QuizAttemptTotalQuestions: int(total),
	}
	if comp.CompetitionTimeLimitMinutes != nil {
		secs := *comp.CompetitionTimeLimitMinutes * 60
		attempt.QuizAttemptRemainingSeconds = &secs
	}

	if err := s.DB.WithContext(ctx).Create(&attempt).Error; err != nil {
		return nil, false, wrapDBError(err)
	}
	log.Printf("[INFO] attempt started: user=%s competition=%s attempt=%s", userID, competitionID, attempt.QuizAttemptID)
	return &attempt, false, nil
}

// loadOwnedAttempt fetches an attempt and its competition, enforcing that
// the caller owns the attempt. NotFound before Forbidden so attempt ids
// are not probeable.
func (s *QuizService) loadOwnedAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*model.QuizAttemptModel, *compmodel.CompetitionModel, error) {
	var attempt model.QuizAttemptModel
	err := s.DB.WithContext(ctx).First(&attempt, "quiz_attempt_id = ?", attemptID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Attempt not found")
	}
	if err != nil {
		return nil, nil, wrapDBError(err)
	}
	if attempt.QuizAttemptUserID != userID {
		return nil, nil, fiber.NewError(fiber.StatusForbidden, "Attempt belongs to another user")
	}

	var comp compmodel.CompetitionModel
	if err := s.DB.WithContext(ctx).
		First(&comp, "competition_id = ?", attempt.QuizAttemptCompetitionID).Error; err != nil {
		return nil, nil, wrapDBError(err)
	}
	return &attempt, &comp, nil
}

// =============================
// GetAttempt
// =============================
func (s *QuizService) GetAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*dto.AttemptResponse, error) {
	attempt, comp, err := s.loadOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	return toAttemptResponse(attempt, comp), nil
}

func toAttemptResponse(a *model.QuizAttemptModel, c *compmodel.CompetitionModel) *dto.AttemptResponse {
	return &dto.AttemptResponse{
		AttemptID:                   a.QuizAttemptID,
		CompetitionID:               a.QuizAttemptCompetitionID,
		Status:                      a.QuizAttemptStatus,
		StartTime:                   a.QuizAttemptStartTime,
		EndTime:                     a.QuizAttemptEndTime,
		RemainingSeconds:            a.QuizAttemptRemainingSeconds,
		CurrentQuestionIndex:        a.QuizAttemptCurrentQuestionIndex,
		TotalQuestions:              a.QuizAttemptTotalQuestions,
		CorrectAnswers:              a.QuizAttemptCorrectAnswers,
		ScorePercent:                a.QuizAttemptScorePercent,
		CompetitionTitleEn:          c.CompetitionTitleEn,
		CompetitionTitleHi:          c.CompetitionTitleHi,
		CompetitionTimeLimitMinutes: c.CompetitionTimeLimitMinutes,
		Deadline:                    a.Deadline(c.CompetitionTimeLimitMinutes),
	}
}

// =============================
// GetAttemptQuestions
// =============================
// Correct flags stay hidden until the attempt is completed.
func (s *QuizService) GetAttemptQuestions(ctx context.Context, userID, attemptID uuid.UUID) ([]dto.AttemptQuestionResponse, error) {
	attempt, _, err := s.loadOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	includeCorrect := attempt.QuizAttemptStatus == model.QuizAttemptStatusCompleted

	var questions []compmodel.QuestionModel
	if err := s.DB.WithContext(ctx).
		Where("question_competition_id = ? AND question_is_active = ?", attempt.QuizAttemptCompetitionID, true).
		Order("question_order_index asc").
		Find(&questions).Error; err != nil {
		return nil, wrapDBError(err)
	}

	var saved []model.QuizAttemptAnswerModel
	if err := s.DB.WithContext(ctx).
		Where("quiz_attempt_answer_attempt_id = ?", attemptID).
		Find(&saved).Error; err != nil {
		return nil, wrapDBError(err)
	}
	savedByQuestion := make(map[uuid.UUID]*model.QuizAttemptAnswerModel, len(saved))
	for i := range saved {
		savedByQuestion[saved[i].QuizAttemptAnswerQuestionID] = &saved[i]
	}

	out := make([]dto.AttemptQuestionResponse, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		var options []compmodel.QuestionOptionModel
		if q.QuestionType == compmodel.QuestionTypeMCQ {
			if err := s.DB.WithContext(ctx).
				Where("question_option_question_id = ?", q.QuestionID).
				Order("question_option_order_index asc").
				Find(&options).Error; err != nil {
				return nil, wrapDBError(err)
			}
		}
		item := dto.AttemptQuestionResponse{
			QuestionResponse: compdto.ToQuestionResponse(q, options, includeCorrect),
		}
		if ans, ok := savedByQuestion[q.QuestionID]; ok {
			item.SavedAnswer = dto.ToSavedAnswerResponse(ans)
		}
		out = append(out, item)
	}
	return out, nil
}

// =============================
// SaveProgress
// =============================
func (s *QuizService) SaveProgress(ctx context.Context, userID, attemptID uuid.UUID, req *dto.SaveProgressRequest) error {
	attempt, comp, err := s.loadOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return err
	}
	if attempt.QuizAttemptStatus != model.QuizAttemptStatusInProgress {
		return fiber.NewError(fiber.StatusConflict, "Attempt is already completed")
	}

	now := time.Now()
	if dl := attempt.Deadline(comp.CompetitionTimeLimitMinutes); dl != nil && now.After(*dl) {
		// Time is up: finalize from whatever answers were stored, then
		// reject the late save.
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return finalizeAttempt(tx, attempt, now)
		})
		if err != nil {
			return wrapDBError(err)
		}
		log.Printf("[WARN] late save on expired attempt %s, auto-finalized", attemptID)
		return fiber.NewError(fiber.StatusConflict, "Time limit elapsed, attempt has been submitted")
	}

	if req.Answers != nil {
		if err := s.validateAnswerBatch(ctx, attempt.QuizAttemptCompetitionID, *req.Answers); err != nil {
			return err
		}
	}

	updates := map[string]interface{}{}
	if req.CurrentQuestionIndex != nil {
		updates["quiz_attempt_current_question_index"] = *req.CurrentQuestionIndex
	}
	if req.RemainingSeconds != nil {
		updates["quiz_attempt_remaining_seconds"] = *req.RemainingSeconds
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.QuizAttemptModel{}).
				Where("quiz_attempt_id = ?", attemptID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Answers == nil {
			return nil
		}
		// Replace, not merge: the client resends the full answer set.
		if err := tx.Where("quiz_attempt_answer_attempt_id = ?", attemptID).
			Delete(&model.QuizAttemptAnswerModel{}).Error; err != nil {
			return err
		}
		for _, a := range *req.Answers {
			row := model.QuizAttemptAnswerModel{
				QuizAttemptAnswerAttemptID:        attemptID,
				QuizAttemptAnswerQuestionID:       a.QuestionID,
				QuizAttemptAnswerSelectedOptionID: a.SelectedOptionID,
				QuizAttemptAnswerText:             a.AnswerText,
				QuizAttemptAnswerAnsweredAt:       now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// validateAnswerBatch rejects answers referencing questions outside the
// attempt's competition or options outside their question.
func (s *QuizService) validateAnswerBatch(ctx context.Context, competitionID uuid.UUID, answers []dto.AnswerRequest) error {
	var questions []compmodel.QuestionModel
	if err := s.DB.WithContext(ctx).
		Select("question_id").
		Where("question_competition_id = ?", competitionID).
		Find(&questions).Error; err != nil {
		return wrapDBError(err)
	}
	known := make(map[uuid.UUID]bool, len(questions))
	for i := range questions {
		known[questions[i].QuestionID] = true
	}

	for _, a := range answers {
		if !known[a.QuestionID] {
			return fiber.NewError(fiber.StatusBadRequest,
				"question "+a.QuestionID.String()+" does not belong to this competition")
		}
		if a.SelectedOptionID == nil {
			continue
		}
		var count int64
		if err := s.DB.WithContext(ctx).Model(&compmodel.QuestionOptionModel{}).
			Where("question_option_id = ? AND question_option_question_id = ?", *a.SelectedOptionID, a.QuestionID).
			Count(&count).Error; err != nil {
			return wrapDBError(err)
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				"option "+a.SelectedOptionID.String()+" does not belong to question "+a.QuestionID.String())
		}
	}
	return nil
}

// =============================
// SubmitAttempt
// =============================
// Conflict when the attempt is already completed; a submit arriving past
// the deadline still finalizes from the stored answers.
func (s *QuizService) SubmitAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*dto.SubmitAttemptResponse, error) {
	attempt, _, err := s.loadOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.QuizAttemptStatus != model.QuizAttemptStatusInProgress {
		return nil, fiber.NewError(fiber.StatusConflict, "Attempt is already completed")
	}

	now := time.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return finalizeAttempt(tx, attempt, now)
	})
	if err != nil {
		return nil, wrapDBError(err)
	}

	log.Printf("[SUCCESS] attempt submitted: %s correct=%d/%d", attemptID, *attempt.QuizAttemptCorrectAnswers, attempt.QuizAttemptTotalQuestions)
	return &dto.SubmitAttemptResponse{
		AttemptID:      attempt.QuizAttemptID,
		Correct:        *attempt.QuizAttemptCorrectAnswers,
		TotalQuestions: attempt.QuizAttemptTotalQuestions,
		ScorePercent:   *attempt.QuizAttemptScorePercent,
	}, nil
}

// finalizeAttempt scores and completes an attempt. Scoring is by durable
// option identity: an MCQ answer is correct iff its selected option row is
// flagged correct for the answered question. Descriptive answers never
// contribute. The passed attempt is updated in place on success.
func finalizeAttempt(tx *gorm.DB, attempt *model.QuizAttemptModel, now time.Time) error {
	var correct int64
	err := tx.Model(&compmodel.QuestionOptionModel{}).
		Joins("JOIN quiz_attempt_answers ON quiz_attempt_answers.quiz_attempt_answer_selected_option_id = question_options.question_option_id"+
			" AND quiz_attempt_answers.quiz_attempt_answer_question_id = question_options.question_option_question_id").
		Where("quiz_attempt_answers.quiz_attempt_answer_attempt_id = ? AND question_options.question_option_is_correct = ?",
			attempt.QuizAttemptID, true).
		Count(&correct).Error
	if err != nil {
		return err
	}

	correctInt := int(correct)
	percent := 0.0
	if attempt.QuizAttemptTotalQuestions > 0 {
		percent = float64(correctInt) / float64(attempt.QuizAttemptTotalQuestions) * 100
	}

	if err := tx.Model(&model.QuizAttemptModel{}).
		Where("quiz_attempt_id = ?", attempt.QuizAttemptID).
		Updates(map[string]interface{}{
			"quiz_attempt_status":          model.QuizAttemptStatusCompleted,
			"quiz_attempt_end_time":        now,
			"quiz_attempt_correct_answers": correctInt,
			"quiz_attempt_score_percent":   percent,
		}).Error; err != nil {
		return err
	}

	attempt.QuizAttemptStatus = model.QuizAttemptStatusCompleted
	attempt.QuizAttemptEndTime = &now
	attempt.QuizAttemptCorrectAnswers = &correctInt
	attempt.QuizAttemptScorePercent = &percent
	return nil
}

func wrapDBError(err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return fe
	}
	log.Printf("[ERROR] quiz query failed: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Database error")
}
