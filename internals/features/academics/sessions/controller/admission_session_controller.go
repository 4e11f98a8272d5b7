package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "uniportal_backend/internals/features/academics/sessions/dto"
	model "uniportal_backend/internals/features/academics/sessions/model"
	service "uniportal_backend/internals/features/academics/sessions/service"
	helper "uniportal_backend/internals/helpers"
)

/* ============================================
   Controller
============================================ */

type AdmissionSessionController struct {
	DB        *gorm.DB
	Registry  *service.SessionRegistry
	Validator *validator.Validate
}

func NewAdmissionSessionController(db *gorm.DB, v *validator.Validate) *AdmissionSessionController {
	if v == nil {
		v = validator.New()
	}
	return &AdmissionSessionController{
		DB:        db,
		Registry:  service.NewSessionRegistry(db),
		Validator: v,
	}
}

func bindAndValidate[T any](c *fiber.Ctx, v *validator.Validate, dst *T) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if v != nil {
		if err := v.Struct(dst); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
	}
	return nil
}

/* ============================================
   CREATE (admin only)
   POST /admin/sessions
============================================ */

func (ctl *AdmissionSessionController) Create(c *fiber.Ctx) error {
	var p dto.AdmissionSessionCreateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	p.Normalize()

	// Uniqueness check academic_year
	var cnt int64
	if err := ctl.DB.Model(&model.AdmissionSessionModel{}).
		Where("admission_session_academic_year = ?", p.AdmissionSessionAcademicYear).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check academic year")
	}
	if cnt > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Academic year already exists")
	}

	ent := p.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	return helper.JsonCreated(c, "Admission session created", dto.FromModel(ent))
}

/* ============================================
   PATCH (admin only)
   PATCH /admin/sessions/:id

   Catatan: DTO menolak status=active; mengaktifkan session
   hanya boleh lewat endpoint activate supaya eksklusivitas terjaga.
============================================ */

func (ctl *AdmissionSessionController) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var ent model.AdmissionSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("admission_session_id = ?", id).
		First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load session")
	}

	var p dto.AdmissionSessionUpdateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	if p.AdmissionSessionAcademicYear != nil {
		year := strings.TrimSpace(*p.AdmissionSessionAcademicYear)
		var cnt int64
		if err := ctl.DB.Model(&model.AdmissionSessionModel{}).
			Where("admission_session_academic_year = ? AND admission_session_id <> ?", year, id).
			Count(&cnt).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check academic year")
		}
		if cnt > 0 {
			return helper.JsonError(c, fiber.StatusConflict, "Academic year already exists")
		}
	}

	p.ApplyUpdates(&ent)
	if err := ctl.DB.WithContext(c.Context()).Save(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update session")
	}
	return helper.JsonUpdated(c, "Admission session updated", dto.FromModel(ent))
}

/* ============================================
   LIST / GET
============================================ */

func (ctl *AdmissionSessionController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 25, 200)

	db := ctl.DB.WithContext(c.Context()).Model(&model.AdmissionSessionModel{})
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		db = db.Where("admission_session_status = ?", strings.ToLower(s))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count sessions")
	}

	var rows []model.AdmissionSessionModel
	if err := db.Order("admission_session_start_date DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load sessions")
	}

	return helper.JsonList(c, "ok", dto.FromModels(rows),
		helper.BuildPagination(total, paging.Page, paging.PerPage))
}

func (ctl *AdmissionSessionController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var ent model.AdmissionSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("admission_session_id = ?", id).
		First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load session")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(ent))
}

// GET /sessions/active (dipakai portal applicant)
func (ctl *AdmissionSessionController) GetActive(c *fiber.Ctx) error {
	active, err := ctl.Registry.ActiveSession(c.Context())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load active session")
	}
	if active == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "No active admission session")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*active))
}

/* ============================================
   Activate / Deactivate / Close (admin only)
============================================ */

// PATCH /admin/sessions/:id/activate
func (ctl *AdmissionSessionController) Activate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	prev, err := ctl.Registry.Activate(c.Context(), id)
	if err != nil {
		var conflict *service.SessionConflictError
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
		case errors.Is(err, service.ErrSessionClosed):
			return helper.JsonError(c, fiber.StatusConflict, "Session is closed and cannot be activated")
		case errors.As(err, &conflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":           false,
				"message":           "Another activation won the race",
				"error_code":        "CONFLICT",
				"active_session_id": conflict.ActiveSessionID,
			})
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to activate session")
		}
	}

	resp := fiber.Map{"activated_session_id": id}
	if prev != nil {
		resp["previous_active_session"] = dto.FromModel(*prev)
	}
	return helper.JsonUpdated(c, "Admission session activated", resp)
}

// PATCH /admin/sessions/:id/deactivate
func (ctl *AdmissionSessionController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := ctl.Registry.Deactivate(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to deactivate session")
	}
	return helper.JsonUpdated(c, "Admission session deactivated", fiber.Map{"admission_session_id": id})
}

// PATCH /admin/sessions/:id/close
func (ctl *AdmissionSessionController) Close(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := ctl.Registry.Close(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to close session")
	}
	return helper.JsonUpdated(c, "Admission session closed", fiber.Map{"admission_session_id": id})
}

/* ============================================
   DELETE (soft), admin only
============================================ */

func (ctl *AdmissionSessionController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var ent model.AdmissionSessionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("admission_session_id = ?", id).
		First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load session")
	}
	if ent.IsActive() {
		return helper.JsonError(c, fiber.StatusConflict, "Cannot delete the active session")
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete session")
	}
	return helper.JsonDeleted(c, "Admission session deleted", fiber.Map{"admission_session_id": id})
}
