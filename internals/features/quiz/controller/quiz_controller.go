package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"srivani_backend/internals/features/quiz/dto"
	"srivani_backend/internals/features/quiz/service"
	helper "srivani_backend/internals/helpers"
)

type QuizController struct {
	DB       *gorm.DB
	Service  *service.QuizService
	Validate *validator.Validate
}

func NewQuizController(db *gorm.DB) *QuizController {
	return &QuizController{
		DB:       db,
		Service:  service.NewQuizService(db),
		Validate: validator.New(),
	}
}

func (ctl *QuizController) requireUser(c *fiber.Ctx) (uuid.UUID, error) {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return uuid.Nil, helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return userID, nil
}

// =============================
// POST /quiz/start/:competition_id
// =============================
func (ctl *QuizController) Start(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	competitionID, err := helper.ParseUUIDParam(c, "competition_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid competition id")
	}

	attempt, resumed, err := ctl.Service.StartOrResume(c.Context(), userID, competitionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	msg := "Attempt started"
	if resumed {
		msg = "Attempt resumed"
	}
	return helper.JsonOK(c, msg, dto.StartAttemptResponse{
		AttemptID: attempt.QuizAttemptID,
		Resumed:   resumed,
	})
}

// =============================
// GET /quiz/attempt/:attempt_id
// =============================
func (ctl *QuizController) GetAttempt(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	attemptID, err := helper.ParseUUIDParam(c, "attempt_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attempt id")
	}

	resp, err := ctl.Service.GetAttempt(c.Context(), userID, attemptID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Attempt fetched successfully", resp)
}

// =============================
// GET /quiz/attempt/:attempt_id/questions
// =============================
func (ctl *QuizController) GetAttemptQuestions(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	attemptID, err := helper.ParseUUIDParam(c, "attempt_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attempt id")
	}

	questions, err := ctl.Service.GetAttemptQuestions(c.Context(), userID, attemptID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Questions fetched successfully", questions)
}

// =============================
// POST /quiz/attempt/:attempt_id/save
// =============================
func (ctl *QuizController) SaveProgress(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	attemptID, err := helper.ParseUUIDParam(c, "attempt_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attempt id")
	}

	var req dto.SaveProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctl.Service.SaveProgress(c.Context(), userID, attemptID, &req); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Progress saved", fiber.Map{"attempt_id": attemptID})
}

// =============================
// POST /quiz/attempt/:attempt_id/submit
// =============================
func (ctl *QuizController) Submit(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	attemptID, err := helper.ParseUUIDParam(c, "attempt_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attempt id")
	}

	result, err := ctl.Service.SubmitAttempt(c.Context(), userID, attemptID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Attempt submitted successfully", result)
}

// =============================
// Dashboard listings
// =============================
func (ctl *QuizController) ActiveCompetitions(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	rows, err := ctl.Service.GetActiveCompetitions(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Active competitions fetched", rows)
}

func (ctl *QuizController) UpcomingCompetitions(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	rows, err := ctl.Service.GetUpcomingCompetitions(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Upcoming competitions fetched", rows)
}

func (ctl *QuizController) OngoingAttempts(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	rows, err := ctl.Service.GetOngoingAttempts(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Ongoing attempts fetched", rows)
}

func (ctl *QuizController) CompletedAttempts(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	rows, err := ctl.Service.GetCompletedAttempts(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Completed attempts fetched", rows)
}

func (ctl *QuizController) DashboardStats(c *fiber.Ctx) error {
	userID, err := ctl.requireUser(c)
	if err != nil {
		return err
	}
	stats, err := ctl.Service.GetUserDashboardStats(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Dashboard stats fetched", stats)
}
