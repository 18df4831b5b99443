package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"srivani_backend/internals/features/competitions/controller"
)

// CompetitionAdminRoutes mounts the competition management endpoints.
// Caller is expected to have attached auth + admin-role middleware.
func CompetitionAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewCompetitionAdminController(db)

	comp := api.Group("/competitions")
	comp.Post("/", ctl.Create)
	comp.Get("/", ctl.List)
	comp.Get("/:id", ctl.Detail)
	comp.Put("/:id", ctl.Update)
	comp.Delete("/:id", ctl.Delete)
	comp.Post("/:id/publish", ctl.Publish)
	comp.Post("/:id/declare-result", ctl.DeclareResult)
	comp.Post("/:id/copy", ctl.Copy)
}

// CompetitionUserRoutes mounts the read-only published-competition endpoints.
func CompetitionUserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewCompetitionUserController(db)

	comp := api.Group("/competitions")
	comp.Get("/", ctl.List)
	comp.Get("/:id", ctl.Detail)
}
