package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"srivani_backend/internals/features/competitions/dto"
	"srivani_backend/internals/features/competitions/model"
)

type CompetitionService struct {
	DB *gorm.DB
}

func NewCompetitionService(db *gorm.DB) *CompetitionService {
	return &CompetitionService{DB: db}
}

// validateQuestionPayload enforces the single-correct-option invariant at
// write time: an MCQ carries at least two options with exactly one marked
// correct, a descriptive question carries none.
func validateQuestionPayload(q *dto.QuestionRequest) error {
	switch q.Type {
	case model.QuestionTypeMCQ:
		if len(q.Options) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, "MCQ question needs at least two options")
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("MCQ question must have exactly one correct option, got %d", correct))
		}
	case model.QuestionTypeDescriptive:
		if len(q.Options) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Descriptive question cannot have options")
		}
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Unknown question type: "+q.Type)
	}
	return nil
}

// =============================
// Create (nested rows, one tx)
// =============================
func (s *CompetitionService) Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateCompetitionRequest) (*model.CompetitionModel, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "end date must be after start date")
	}
	for i := range req.Questions {
		if err := validateQuestionPayload(&req.Questions[i]); err != nil {
			return nil, err
		}
	}

	comp := model.CompetitionModel{
		CompetitionTitleEn:          req.TitleEn,
		CompetitionTitleHi:          req.TitleHi,
		CompetitionDescriptionEn:    req.DescriptionEn,
		CompetitionDescriptionHi:    req.DescriptionHi,
		CompetitionBannerURL:        req.BannerURL,
		CompetitionStartDate:        req.StartDate,
		CompetitionEndDate:          req.EndDate,
		CompetitionTimeLimitMinutes: req.TimeLimitMinutes,
		CompetitionStatus:           model.CompetitionStatusDraft,
		CompetitionCreatedBy:        adminID,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comp).Error; err != nil {
			return err
		}
		for qi := range req.Questions {
			if err := insertQuestion(tx, comp.CompetitionID, &req.Questions[qi], qi); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return &comp, nil
}

func insertQuestion(tx *gorm.DB, competitionID uuid.UUID, q *dto.QuestionRequest, fallbackOrder int) error {
	points := q.Points
	if points == 0 {
		points = 1
	}
	order := q.OrderIndex
	if order == 0 {
		order = fallbackOrder
	}
	question := model.QuestionModel{
		QuestionCompetitionID:    competitionID,
		QuestionType:             q.Type,
		QuestionTextEn:           q.TextEn,
		QuestionTextHi:           q.TextHi,
		QuestionImageURL:         q.ImageURL,
		QuestionPoints:           points,
		QuestionTimeLimitSeconds: q.TimeLimitSeconds,
		QuestionOrderIndex:       order,
		QuestionIsActive:         true,
	}
	if err := tx.Create(&question).Error; err != nil {
		return err
	}
	for oi := range q.Options {
		opt := q.Options[oi]
		row := model.QuestionOptionModel{
			QuestionOptionQuestionID: question.QuestionID,
			QuestionOptionTextEn:     opt.TextEn,
			QuestionOptionTextHi:     opt.TextHi,
			QuestionOptionImageURL:   opt.ImageURL,
			QuestionOptionIsCorrect:  opt.IsCorrect,
			QuestionOptionOrderIndex: opt.OrderIndex,
		}
		if row.QuestionOptionOrderIndex == 0 {
			row.QuestionOptionOrderIndex = oi
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// =============================
// Update (upsert-by-id, one tx)
// =============================
func (s *CompetitionService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCompetitionRequest) (*model.CompetitionModel, error) {
	if _, err := s.getAlive(ctx, id); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		for i := range *req.Questions {
			if err := validateQuestionPayload(&(*req.Questions)[i]); err != nil {
				return nil, err
			}
		}
	}

	updates := map[string]interface{}{}
	if req.TitleEn != nil {
		updates["competition_title_en"] = *req.TitleEn
	}
	if req.TitleHi != nil {
		updates["competition_title_hi"] = *req.TitleHi
	}
	if req.DescriptionEn != nil {
		updates["competition_description_en"] = *req.DescriptionEn
	}
	if req.DescriptionHi != nil {
		updates["competition_description_hi"] = *req.DescriptionHi
	}
	if req.BannerURL != nil {
		updates["competition_banner_url"] = *req.BannerURL
	}
	if req.StartDate != nil {
		updates["competition_start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["competition_end_date"] = *req.EndDate
	}
	if req.TimeLimitMinutes != nil {
		updates["competition_time_limit_minutes"] = *req.TimeLimitMinutes
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.CompetitionModel{}).
				Where("competition_id = ?", id).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Questions != nil {
			if err := upsertQuestions(tx, id, *req.Questions); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapDBError(err)
	}

	return s.getAlive(ctx, id)
}

// upsertQuestions reconciles the stored active question list with the
// submitted one: known ids are updated in place, nil ids inserted, stored
// questions missing from the payload soft-deactivated (historical attempts
// keep referencing them).
func upsertQuestions(tx *gorm.DB, competitionID uuid.UUID, questions []dto.QuestionRequest) error {
	var existing []model.QuestionModel
	if err := tx.Where("question_competition_id = ? AND question_is_active = ?", competitionID, true).
		Find(&existing).Error; err != nil {
		return err
	}
	existingByID := make(map[uuid.UUID]*model.QuestionModel, len(existing))
	for i := range existing {
		existingByID[existing[i].QuestionID] = &existing[i]
	}

	seen := map[uuid.UUID]bool{}
	for qi := range questions {
		q := &questions[qi]
		if q.QuestionID == nil {
			if err := insertQuestion(tx, competitionID, q, qi); err != nil {
				return err
			}
			continue
		}
		stored, ok := existingByID[*q.QuestionID]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest,
				"question "+q.QuestionID.String()+" does not belong to this competition")
		}
		seen[*q.QuestionID] = true

		points := q.Points
		if points == 0 {
			points = 1
		}
		if err := tx.Model(stored).Updates(map[string]interface{}{
			"question_type":               q.Type,
			"question_text_en":            q.TextEn,
			"question_text_hi":            q.TextHi,
			"question_image_url":          q.ImageURL,
			"question_points":             points,
			"question_time_limit_seconds": q.TimeLimitSeconds,
			"question_order_index":        q.OrderIndex,
		}).Error; err != nil {
			return err
		}
		if err := upsertOptions(tx, *q.QuestionID, q.Options); err != nil {
			return err
		}
	}

	// Soft-deactivate stored questions omitted from the payload.
	for qid := range existingByID {
		if !seen[qid] {
			if err := tx.Model(&model.QuestionModel{}).
				Where("question_id = ?", qid).
				Update("question_is_active", false).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// upsertOptions keeps option ids stable: recorded answers reference option
// identity, so editing text or order must not reissue ids.
func upsertOptions(tx *gorm.DB, questionID uuid.UUID, options []dto.OptionRequest) error {
	var existing []model.QuestionOptionModel
	if err := tx.Where("question_option_question_id = ?", questionID).Find(&existing).Error; err != nil {
		return err
	}
	existingByID := make(map[uuid.UUID]bool, len(existing))
	for i := range existing {
		existingByID[existing[i].QuestionOptionID] = true
	}

	seen := map[uuid.UUID]bool{}
	for oi := range options {
		opt := &options[oi]
		if opt.QuestionOptionID == nil {
			row := model.QuestionOptionModel{
				QuestionOptionQuestionID: questionID,
				QuestionOptionTextEn:     opt.TextEn,
				QuestionOptionTextHi:     opt.TextHi,
				QuestionOptionImageURL:   opt.ImageURL,
				QuestionOptionIsCorrect:  opt.IsCorrect,
				QuestionOptionOrderIndex: opt.OrderIndex,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			continue
		}
		if !existingByID[*opt.QuestionOptionID] {
			return fiber.NewError(fiber.StatusBadRequest,
				"option "+opt.QuestionOptionID.String()+" does not belong to this question")
		}
		seen[*opt.QuestionOptionID] = true
		if err := tx.Model(&model.QuestionOptionModel{}).
			Where("question_option_id = ?", *opt.QuestionOptionID).
			Updates(map[string]interface{}{
				"question_option_text_en":     opt.TextEn,
				"question_option_text_hi":     opt.TextHi,
				"question_option_image_url":   opt.ImageURL,
				"question_option_is_correct":  opt.IsCorrect,
				"question_option_order_index": opt.OrderIndex,
			}).Error; err != nil {
			return err
		}
	}

	for id := range existingByID {
		if !seen[id] {
			if err := tx.Delete(&model.QuestionOptionModel{}, "question_option_id = ?", id).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================
// Copy (deep clone, one tx)
// =============================
func (s *CompetitionService) Copy(ctx context.Context, id uuid.UUID, adminID uuid.UUID) (*model.CompetitionModel, error) {
	src, err := s.getAlive(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := *src
	clone.CompetitionID = uuid.Nil // BeforeCreate assigns a fresh id
	clone.CompetitionTitleEn = src.CompetitionTitleEn + " (Copy)"
	clone.CompetitionStatus = model.CompetitionStatusDraft
	clone.CompetitionResultDeclared = false
	clone.CompetitionResultDeclaredAt = nil
	clone.CompetitionCreatedBy = adminID
	clone.CompetitionCreatedAt = time.Time{}
	clone.CompetitionUpdatedAt = time.Time{}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}

		var questions []model.QuestionModel
		if err := tx.Where("question_competition_id = ? AND question_is_active = ?", id, true).
			Order("question_order_index asc").
			Find(&questions).Error; err != nil {
			return err
		}
		for i := range questions {
			srcQuestionID := questions[i].QuestionID

			q := questions[i]
			q.QuestionID = uuid.Nil
			q.QuestionCompetitionID = clone.CompetitionID
			q.QuestionCreatedAt = time.Time{}
			q.QuestionUpdatedAt = time.Time{}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}

			var options []model.QuestionOptionModel
			if err := tx.Where("question_option_question_id = ?", srcQuestionID).
				Order("question_option_order_index asc").
				Find(&options).Error; err != nil {
				return err
			}
			for j := range options {
				opt := options[j]
				opt.QuestionOptionID = uuid.Nil
				opt.QuestionOptionQuestionID = q.QuestionID
				opt.QuestionOptionCreatedAt = time.Time{}
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return &clone, nil
}

// =============================
// Status transitions
// =============================
func (s *CompetitionService) Publish(ctx context.Context, id uuid.UUID) (*model.CompetitionModel, error) {
	comp, err := s.getAlive(ctx, id)
	if err != nil {
		return nil, err
	}
	if comp.CompetitionStatus != model.CompetitionStatusDraft {
		return nil, fiber.NewError(fiber.StatusConflict, "Only a draft competition can be published")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&model.QuestionModel{}).
		Where("question_competition_id = ? AND question_is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return nil, wrapDBError(err)
	}
	if count == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot publish a competition without questions")
	}

	if err := s.DB.WithContext(ctx).Model(comp).
		Update("competition_status", model.CompetitionStatusPublished).Error; err != nil {
		return nil, wrapDBError(err)
	}
	comp.CompetitionStatus = model.CompetitionStatusPublished
	return comp, nil
}

func (s *CompetitionService) DeclareResult(ctx context.Context, id uuid.UUID) (*model.CompetitionModel, error) {
	comp, err := s.getAlive(ctx, id)
	if err != nil {
		return nil, err
	}
	if comp.CompetitionStatus != model.CompetitionStatusPublished {
		return nil, fiber.NewError(fiber.StatusConflict, "Results can only be declared for a published competition")
	}
	if time.Now().Before(comp.CompetitionEndDate) {
		return nil, fiber.NewError(fiber.StatusConflict, "Competition has not ended yet")
	}
	if comp.CompetitionResultDeclared {
		return nil, fiber.NewError(fiber.StatusConflict, "Results already declared")
	}

	now := time.Now()
	if err := s.DB.WithContext(ctx).Model(comp).Updates(map[string]interface{}{
		"competition_result_declared":    true,
		"competition_result_declared_at": now,
	}).Error; err != nil {
		return nil, wrapDBError(err)
	}
	comp.CompetitionResultDeclared = true
	comp.CompetitionResultDeclaredAt = &now
	return comp, nil
}

func (s *CompetitionService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&model.CompetitionModel{}).
		Where("competition_id = ? AND competition_is_deleted = ?", id, false).
		Update("competition_is_deleted", true)
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Competition not found")
	}
	return nil
}

// =============================
// Reads
// =============================
func (s *CompetitionService) getAlive(ctx context.Context, id uuid.UUID) (*model.CompetitionModel, error) {
	var comp model.CompetitionModel
	err := s.DB.WithContext(ctx).
		First(&comp, "competition_id = ? AND competition_is_deleted = ?", id, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Competition not found")
	}
	if err != nil {
		return nil, wrapDBError(err)
	}
	return &comp, nil
}

// Get returns the competition with its active questions and options.
// includeCorrect controls whether is_correct flags are surfaced.
func (s *CompetitionService) Get(ctx context.Context, id uuid.UUID, includeCorrect bool) (*dto.CompetitionResponse, error) {
	comp, err := s.getAlive(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToCompetitionResponse(comp, time.Now())

	var questions []model.QuestionModel
	if err := s.DB.WithContext(ctx).
		Where("question_competition_id = ? AND question_is_active = ?", id, true).
		Order("question_order_index asc").
		Find(&questions).Error; err != nil {
		return nil, wrapDBError(err)
	}
	for i := range questions {
		var options []model.QuestionOptionModel
		if questions[i].QuestionType == model.QuestionTypeMCQ {
			if err := s.DB.WithContext(ctx).
				Where("question_option_question_id = ?", questions[i].QuestionID).
				Order("question_option_order_index asc").
				Find(&options).Error; err != nil {
				return nil, wrapDBError(err)
			}
		}
		resp.Questions = append(resp.Questions, dto.ToQuestionResponse(&questions[i], options, includeCorrect))
	}
	return resp, nil
}

func wrapDBError(err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return fe
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Database error")
}
