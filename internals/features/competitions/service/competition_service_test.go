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
	"srivani_backend/internals/features/competitions/dto"
	"srivani_backend/internals/features/competitions/model"
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

func validCreateRequest() *dto.CreateCompetitionRequest {
	return &dto.CreateCompetitionRequest{
		TitleEn:   "Scripture Quiz",
		TitleHi:   "शास्त्र प्रश्नोत्तरी",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
		Questions: []dto.QuestionRequest{
			{
				Type:   model.QuestionTypeMCQ,
				TextEn: "How many chapters does the Gita have?",
				Options: []dto.OptionRequest{
					{TextEn: "12"},
					{TextEn: "18", IsCorrect: true},
					{TextEn: "24"},
				},
			},
			{
				Type:   model.QuestionTypeDescriptive,
				TextEn: "Summarize chapter two.",
			},
		},
	}
}

func TestCreatePersistsNestedRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	comp, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if comp.CompetitionStatus != model.CompetitionStatusDraft {
		t.Fatalf("status = %s, want draft", comp.CompetitionStatus)
	}

	var questionCount, optionCount int64
	db.Model(&model.QuestionModel{}).Where("question_competition_id = ?", comp.CompetitionID).Count(&questionCount)
	db.Model(&model.QuestionOptionModel{}).Count(&optionCount)
	if questionCount != 2 || optionCount != 3 {
		t.Fatalf("persisted %d questions / %d options, want 2 / 3", questionCount, optionCount)
	}
}

func TestCreateRejectsMultipleCorrectOptions(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)

	req := validCreateRequest()
	req.Questions[0].Options[0].IsCorrect = true // now two correct

	_, err := svc.Create(context.Background(), uuid.New(), req)
	wantStatus(t, err, fiber.StatusBadRequest)
}

func TestCreateRejectsOptionsOnDescriptive(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)

	req := validCreateRequest()
	req.Questions[1].Options = []dto.OptionRequest{{TextEn: "nope"}}

	_, err := svc.Create(context.Background(), uuid.New(), req)
	wantStatus(t, err, fiber.StatusBadRequest)
}

func TestUpdateUpsertsAndSoftDeactivates(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	comp, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var questions []model.QuestionModel
	db.Where("question_competition_id = ?", comp.CompetitionID).
		Order("question_order_index asc").Find(&questions)
	mcqID := questions[0].QuestionID

	var options []model.QuestionOptionModel
	db.Where("question_option_question_id = ?", mcqID).
		Order("question_option_order_index asc").Find(&options)

	// Keep the MCQ (edited in place), drop the descriptive, add a new one.
	newTitle := "Scripture Quiz 2026"
	update := &dto.UpdateCompetitionRequest{
		TitleEn: &newTitle,
		Questions: &[]dto.QuestionRequest{
			{
				QuestionID: &mcqID,
				Type:       model.QuestionTypeMCQ,
				TextEn:     "How many chapters are in the Gita?",
				Options: []dto.OptionRequest{
					{QuestionOptionID: &options[0].QuestionOptionID, TextEn: "12"},
					{QuestionOptionID: &options[1].QuestionOptionID, TextEn: "18", IsCorrect: true},
					{QuestionOptionID: &options[2].QuestionOptionID, TextEn: "24"},
				},
			},
			{
				Type:   model.QuestionTypeDescriptive,
				TextEn: "Explain the concept of dharma.",
			},
		},
	}

	updated, err := svc.Update(ctx, comp.CompetitionID, update)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CompetitionTitleEn != newTitle {
		t.Fatalf("title = %q, want %q", updated.CompetitionTitleEn, newTitle)
	}

	// Edited option ids must be stable.
	var reloadedOptions []model.QuestionOptionModel
	db.Where("question_option_question_id = ?", mcqID).
		Order("question_option_order_index asc").Find(&reloadedOptions)
	if len(reloadedOptions) != 3 {
		t.Fatalf("option count = %d, want 3", len(reloadedOptions))
	}
	if reloadedOptions[1].QuestionOptionID != options[1].QuestionOptionID {
		t.Fatal("option id changed across update")
	}

	// Omitted question is soft-deactivated, not deleted.
	var inactive int64
	db.Model(&model.QuestionModel{}).
		Where("question_competition_id = ? AND question_is_active = ?", comp.CompetitionID, false).
		Count(&inactive)
	if inactive != 1 {
		t.Fatalf("inactive questions = %d, want 1", inactive)
	}
	var total int64
	db.Model(&model.QuestionModel{}).
		Where("question_competition_id = ?", comp.CompetitionID).
		Count(&total)
	if total != 3 {
		t.Fatalf("total question rows = %d, want 3 (nothing hard-deleted)", total)
	}
}

func TestUpdateScalarFieldsOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	comp, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newTitle := "Scripture Quiz (Monsoon Edition)"
	newEnd := time.Now().Add(72 * time.Hour)
	updated, err := svc.Update(ctx, comp.CompetitionID, &dto.UpdateCompetitionRequest{
		TitleEn: &newTitle,
		EndDate: &newEnd,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CompetitionTitleEn != newTitle {
		t.Fatalf("title = %q, want %q", updated.CompetitionTitleEn, newTitle)
	}
	if !updated.CompetitionEndDate.After(comp.CompetitionEndDate) {
		t.Fatal("end date not extended")
	}

	// Untouched fields and the question set stay intact.
	if updated.CompetitionTitleHi != comp.CompetitionTitleHi {
		t.Fatalf("hindi title clobbered to %q", updated.CompetitionTitleHi)
	}
	var questionCount int64
	db.Model(&model.QuestionModel{}).
		Where("question_competition_id = ? AND question_is_active = ?", comp.CompetitionID, true).
		Count(&questionCount)
	if questionCount != 2 {
		t.Fatalf("question count = %d, want 2", questionCount)
	}
}

func TestUpdateRejectsForeignQuestionID(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	comp, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	foreign := uuid.New()
	update := &dto.UpdateCompetitionRequest{
		Questions: &[]dto.QuestionRequest{
			{
				QuestionID: &foreign,
				Type:       model.QuestionTypeDescriptive,
				TextEn:     "sneaky",
			},
		},
	}
	_, err = svc.Update(ctx, comp.CompetitionID, update)
	wantStatus(t, err, fiber.StatusBadRequest)
}

func TestCopyDeepClonesIntoDraft(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	src, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Publish(ctx, src.CompetitionID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	clone, err := svc.Copy(ctx, src.CompetitionID, uuid.New())
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if clone.CompetitionID == src.CompetitionID {
		t.Fatal("clone reused the source id")
	}
	if clone.CompetitionStatus != model.CompetitionStatusDraft {
		t.Fatalf("clone status = %s, want draft", clone.CompetitionStatus)
	}
	if !strings.HasSuffix(clone.CompetitionTitleEn, "(Copy)") {
		t.Fatalf("clone title = %q, want (Copy) suffix", clone.CompetitionTitleEn)
	}

	var cloneQuestions []model.QuestionModel
	db.Where("question_competition_id = ?", clone.CompetitionID).Find(&cloneQuestions)
	if len(cloneQuestions) != 2 {
		t.Fatalf("clone has %d questions, want 2", len(cloneQuestions))
	}
	for _, q := range cloneQuestions {
		if q.QuestionType != model.QuestionTypeMCQ {
			continue
		}
		var opts []model.QuestionOptionModel
		db.Where("question_option_question_id = ?", q.QuestionID).Find(&opts)
		if len(opts) != 3 {
			t.Fatalf("clone MCQ has %d options, want 3", len(opts))
		}
	}
}

func TestPublishGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	comp, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Publish(ctx, comp.CompetitionID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_, err = svc.Publish(ctx, comp.CompetitionID)
	wantStatus(t, err, fiber.StatusConflict)
}

func TestPublishRequiresQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	req := validCreateRequest()
	req.Questions = nil
	comp, err := svc.Create(ctx, uuid.New(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Publish(ctx, comp.CompetitionID)
	wantStatus(t, err, fiber.StatusBadRequest)
}

func TestDeclareResultGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	comp, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Draft competition: Conflict.
	_, err = svc.DeclareResult(ctx, comp.CompetitionID)
	wantStatus(t, err, fiber.StatusConflict)

	if _, err := svc.Publish(ctx, comp.CompetitionID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// Still running: Conflict.
	_, err = svc.DeclareResult(ctx, comp.CompetitionID)
	wantStatus(t, err, fiber.StatusConflict)

	if err := db.Model(&model.CompetitionModel{}).
		Where("competition_id = ?", comp.CompetitionID).
		Update("competition_end_date", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("end competition: %v", err)
	}

	declared, err := svc.DeclareResult(ctx, comp.CompetitionID)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	if !declared.CompetitionResultDeclared || declared.CompetitionResultDeclaredAt == nil {
		t.Fatal("result not marked declared")
	}

	// Second declaration: Conflict.
	_, err = svc.DeclareResult(ctx, comp.CompetitionID)
	wantStatus(t, err, fiber.StatusConflict)
}

func TestSoftDeleteHidesCompetition(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	comp, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.SoftDelete(ctx, comp.CompetitionID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.Get(ctx, comp.CompetitionID, true)
	wantStatus(t, err, fiber.StatusNotFound)

	// Twice: NotFound.
	err = svc.SoftDelete(ctx, comp.CompetitionID)
	wantStatus(t, err, fiber.StatusNotFound)
}

func TestGetHidesCorrectFlagsWhenAsked(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompetitionService(db)
	ctx := context.Background()

	comp, err := svc.Create(ctx, uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	public, err := svc.Get(ctx, comp.CompetitionID, false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, q := range public.Questions {
		for _, opt := range q.Options {
			if opt.IsCorrect {
				t.Fatal("is_correct leaked on public view")
			}
		}
	}

	admin, err := svc.Get(ctx, comp.CompetitionID, true)
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	saw := false
	for _, q := range admin.Questions {
		for _, opt := range q.Options {
			saw = saw || opt.IsCorrect
		}
	}
	if !saw {
		t.Fatal("admin view missing is_correct")
	}
}
