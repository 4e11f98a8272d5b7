package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "uniportal_backend/internals/features/academics/faculties/dto"
	model "uniportal_backend/internals/features/academics/faculties/model"
	helper "uniportal_backend/internals/helpers"
)

type FacultiesController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFacultiesController(db *gorm.DB, v *validator.Validate) *FacultiesController {
	if v == nil {
		v = validator.New()
	}
	return &FacultiesController{DB: db, Validator: v}
}

func (ctl *FacultiesController) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if err := ctl.Validator.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

/* ============================================
   Faculties
============================================ */

func (ctl *FacultiesController) ListFaculties(c *fiber.Ctx) error {
	var rows []model.FacultyModel
	if err := ctl.DB.WithContext(c.Context()).
		Order("faculty_name ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load faculties")
	}
	return helper.JsonOK(c, "ok", rows)
}

func (ctl *FacultiesController) CreateFaculty(c *fiber.Ctx) error {
	var p dto.FacultyCreateDTO
	if err := ctl.bind(c, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	ent := model.FacultyModel{FacultyName: p.FacultyName, FacultyCode: p.FacultyCode}
	if err := ctl.DB.WithContext(c.Context()).Create(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create faculty")
	}
	return helper.JsonCreated(c, "Faculty created", ent)
}

/* ============================================
   Departments
============================================ */

func (ctl *FacultiesController) ListDepartments(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context()).Model(&model.DepartmentModel{})
	if fid := c.Query("faculty_id"); fid != "" {
		id, err := uuid.Parse(fid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid faculty_id")
		}
		db = db.Where("department_faculty_id = ?", id)
	}
	var rows []model.DepartmentModel
	if err := db.Order("department_name ASC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load departments")
	}
	return helper.JsonOK(c, "ok", rows)
}

func (ctl *FacultiesController) CreateDepartment(c *fiber.Ctx) error {
	var p dto.DepartmentCreateDTO
	if err := ctl.bind(c, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	var cnt int64
	if err := ctl.DB.Model(&model.FacultyModel{}).
		Where("faculty_id = ?", p.DepartmentFacultyID).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check faculty")
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Faculty not found")
	}

	ent := model.DepartmentModel{
		DepartmentFacultyID: p.DepartmentFacultyID,
		DepartmentName:      p.DepartmentName,
		DepartmentCode:      p.DepartmentCode,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create department")
	}
	return helper.JsonCreated(c, "Department created", ent)
}

/* ============================================
   Programs
============================================ */

func (ctl *FacultiesController) ListPrograms(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context()).Model(&model.ProgramModel{})
	if did := c.Query("department_id"); did != "" {
		id, err := uuid.Parse(did)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid department_id")
		}
		db = db.Where("program_department_id = ?", id)
	}
	var rows []model.ProgramModel
	if err := db.Order("program_name ASC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load programs")
	}
	return helper.JsonOK(c, "ok", rows)
}

func (ctl *FacultiesController) CreateProgram(c *fiber.Ctx) error {
	var p dto.ProgramCreateDTO
	if err := ctl.bind(c, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	var cnt int64
	if err := ctl.DB.Model(&model.DepartmentModel{}).
		Where("department_id = ?", p.ProgramDepartmentID).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check department")
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Department not found")
	}

	ent := p.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create program")
	}
	return helper.JsonCreated(c, "Program created", ent)
}

func (ctl *FacultiesController) PatchProgram(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var ent model.ProgramModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("program_id = ?", id).
		First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Program not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load program")
	}

	var p dto.ProgramUpdateDTO
	if err := ctl.bind(c, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	p.ApplyUpdates(&ent)

	if err := ctl.DB.WithContext(c.Context()).Save(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update program")
	}
	return helper.JsonUpdated(c, "Program updated", ent)
}
