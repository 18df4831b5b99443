package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"srivani_backend/internals/features/competitions/dto"
	"srivani_backend/internals/features/competitions/model"
	"srivani_backend/internals/features/competitions/service"
	helper "srivani_backend/internals/helpers"
)

// CompetitionUserController serves the read-only competition surface:
// published competitions only, correct answers never included.
type CompetitionUserController struct {
	DB      *gorm.DB
	Service *service.CompetitionService
}

func NewCompetitionUserController(db *gorm.DB) *CompetitionUserController {
	return &CompetitionUserController{
		DB:      db,
		Service: service.NewCompetitionService(db),
	}
}

// =============================
// GET /competitions
// =============================
func (ctl *CompetitionUserController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "start_date", "asc", helper.DefaultOpts)

	q := ctl.DB.Model(&model.CompetitionModel{}).
		Where("competition_status = ? AND competition_is_deleted = ?", model.CompetitionStatusPublished, false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count published competitions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Database error")
	}

	order, err := p.SafeOrderClause(competitionSortColumns, "start_date")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var rows []model.CompetitionModel
	if err := q.Order(order).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list published competitions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Database error")
	}

	return helper.JsonList(c, "Competitions fetched successfully", dto.ToCompetitionResponseList(rows, time.Now()), helper.BuildMeta(total, p))
}

// =============================
// GET /competitions/:id
// =============================
func (ctl *CompetitionUserController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid competition id")
	}

	resp, err := ctl.Service.Get(c.Context(), id, false)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if resp.Status != model.CompetitionStatusPublished {
		return helper.JsonError(c, fiber.StatusNotFound, "Competition not found")
	}
	return helper.JsonOK(c, "Competition fetched successfully", resp)
}
