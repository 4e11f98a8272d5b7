package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"uniportal_backend/internals/constants"
	facultiesCtl "uniportal_backend/internals/features/academics/faculties/controller"
	authMiddleware "uniportal_backend/internals/middlewares/auth"
)

func FacultiesAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := facultiesCtl.NewFacultiesController(db, nil)

	base := api.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorStaff("managing reference data"),
			constants.StaffAndAbove,
		),
	)

	base.Post("/faculties", ctl.CreateFaculty)
	base.Post("/departments", ctl.CreateDepartment)
	base.Post("/programs", ctl.CreateProgram)
	base.Patch("/programs/:id", ctl.PatchProgram)
}

func FacultiesPublicRoutes(api fiber.Router, db *gorm.DB) {
	ctl := facultiesCtl.NewFacultiesController(db, nil)

	api.Get("/faculties", ctl.ListFaculties)
	api.Get("/departments", ctl.ListDepartments)
	api.Get("/programs", ctl.ListPrograms)
}
