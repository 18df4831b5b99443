package controller

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"srivani_backend/internals/features/competitions/dto"
	"srivani_backend/internals/features/competitions/model"
	"srivani_backend/internals/features/competitions/service"
	notifservice "srivani_backend/internals/features/notifications/service"
	helper "srivani_backend/internals/helpers"
)

type CompetitionAdminController struct {
	DB       *gorm.DB
	Service  *service.CompetitionService
	Notify   *notifservice.NotificationService
	Validate *validator.Validate
}

func NewCompetitionAdminController(db *gorm.DB) *CompetitionAdminController {
	return &CompetitionAdminController{
		DB:       db,
		Service:  service.NewCompetitionService(db),
		Notify:   notifservice.NewNotificationService(db),
		Validate: validator.New(),
	}
}

var competitionSortColumns = map[string]string{
	"created_at": "competition_created_at",
	"start_date": "competition_start_date",
	"end_date":   "competition_end_date",
	"title":      "competition_title_en",
	"status":     "competition_status",
}

// =============================
// POST /api/a/competitions
// =============================
func (ctl *CompetitionAdminController) Create(c *fiber.Ctx) error {
	adminID := helper.GetUserUUID(c)
	if adminID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateCompetitionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	comp, err := ctl.Service.Create(c.Context(), adminID, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	log.Printf("[SUCCESS] competition created: %s (%s)", comp.CompetitionTitleEn, comp.CompetitionID)
	return helper.JsonCreated(c, "Competition created successfully", dto.ToCompetitionResponse(comp, time.Now()))
}

// =============================
// PUT /api/a/competitions/:id
// =============================
func (ctl *CompetitionAdminController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid competition id")
	}

	var req dto.UpdateCompetitionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	comp, err := ctl.Service.Update(c.Context(), id, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Competition updated successfully", dto.ToCompetitionResponse(comp, time.Now()))
}

// =============================
// GET /api/a/competitions
// =============================
func (ctl *CompetitionAdminController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := ctl.DB.Model(&model.CompetitionModel{}).
		Where("competition_is_deleted = ?", false)
	if status := c.Query("status"); status != "" {
		q = q.Where("competition_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count competitions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Database error")
	}

	order, err := p.SafeOrderClause(competitionSortColumns, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var rows []model.CompetitionModel
	if err := q.Order(order).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list competitions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Database error")
	}

	return helper.JsonList(c, "Competitions fetched successfully", dto.ToCompetitionResponseList(rows, time.Now()), helper.BuildMeta(total, p))
}

// =============================
// GET /api/a/competitions/:id
// =============================
// Admin view includes the is_correct flags.
func (ctl *CompetitionAdminController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid competition id")
	}
	resp, err := ctl.Service.Get(c.Context(), id, true)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Competition fetched successfully", resp)
}

// =============================
// POST /api/a/competitions/:id/publish
// =============================
func (ctl *CompetitionAdminController) Publish(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid competition id")
	}
	comp, err := ctl.Service.Publish(c.Context(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	log.Printf("[INFO] competition published: %s", comp.CompetitionID)

	// Announce in the background; the publish already committed.
	go ctl.Notify.NotifyCompetitionPublished(context.Background(), comp)

	return helper.JsonUpdated(c, "Competition published successfully", dto.ToCompetitionResponse(comp, time.Now()))
}

// =============================
// POST /api/a/competitions/:id/declare-result
// =============================
func (ctl *CompetitionAdminController) DeclareResult(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid competition id")
	}
	comp, err := ctl.Service.DeclareResult(c.Context(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	go ctl.Notify.NotifyResultDeclared(context.Background(), comp)

	return helper.JsonUpdated(c, "Result declared successfully", dto.ToCompetitionResponse(comp, time.Now()))
}

// =============================
// POST /api/a/competitions/:id/copy
// =============================
func (ctl *CompetitionAdminController) Copy(c *fiber.Ctx) error {
	adminID := helper.GetUserUUID(c)
	if adminID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid competition id")
	}
	clone, err := ctl.Service.Copy(c.Context(), id, adminID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Competition copied successfully", dto.ToCompetitionResponse(clone, time.Now()))
}

// =============================
// DELETE /api/a/competitions/:id
// =============================
func (ctl *CompetitionAdminController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid competition id")
	}
	if err := ctl.Service.SoftDelete(c.Context(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	log.Printf("[CLEANUP] competition soft-deleted: %s", id)
	return helper.JsonDeleted(c, "Competition deleted successfully", fiber.Map{"competition_id": id})
}
