package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	facultyModel "uniportal_backend/internals/features/academics/faculties/model"
	sessionService "uniportal_backend/internals/features/academics/sessions/service"
	dto "uniportal_backend/internals/features/admissions/applications/dto"
	model "uniportal_backend/internals/features/admissions/applications/model"
	service "uniportal_backend/internals/features/admissions/applications/service"
	helper "uniportal_backend/internals/helpers"
	authHelper "uniportal_backend/internals/helpers/auth"
)

/* ============================================
   Controller
============================================ */

type ApplicationController struct {
	DB        *gorm.DB
	Lifecycle *service.ApplicationLifecycle
	Sessions  *sessionService.SessionRegistry
	Validator *validator.Validate
}

func NewApplicationController(db *gorm.DB, v *validator.Validate) *ApplicationController {
	if v == nil {
		v = validator.New()
	}
	return &ApplicationController{
		DB:        db,
		Lifecycle: service.NewApplicationLifecycle(db),
		Sessions:  sessionService.NewSessionRegistry(db),
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
   CREATE DRAFT (applicant)
   POST /u/applications
============================================ */

func (ctl *ApplicationController) Create(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var p dto.ApplicationCreateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	p.Normalize()

	// Applications can only target the active session.
	active, err := ctl.Sessions.ActiveSession(c.Context())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve active session")
	}
	if active == nil {
		return helper.JsonError(c, fiber.StatusConflict, "No active admission session")
	}
	if active.AdmissionSessionID != p.ApplicationSessionID {
		return helper.JsonError(c, fiber.StatusConflict, "Applications are only accepted for the active session")
	}

	// Program must exist and belong to the chosen department.
	var prog facultyModel.ProgramModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&prog, "program_id = ?", p.ApplicationProgramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Program not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load program")
	}
	if prog.ProgramDepartmentID != p.ApplicationDepartmentID {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Program does not belong to the chosen department")
	}

	// One open application per user per session.
	var cnt int64
	if err := ctl.DB.WithContext(c.Context()).Model(&model.ApplicationModel{}).
		Where("application_user_id = ? AND application_session_id = ?", userID, p.ApplicationSessionID).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check existing application")
	}
	if cnt > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "You already have an application for this session")
	}

	ent := p.ToModel(userID)
	if err := ctl.DB.WithContext(c.Context()).Create(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create application")
	}

	return helper.JsonCreated(c, "Application draft created", dto.FromModel(ent))
}

/* ============================================
   UPDATE DRAFT (applicant)
   PATCH /u/applications/:id
============================================ */

func (ctl *ApplicationController) Patch(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application id")
	}

	var p dto.ApplicationUpdateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	var ent model.ApplicationModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "application_id = ? AND application_user_id = ?", appID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load application")
	}
	if !ent.IsDraft() {
		return helper.JsonError(c, fiber.StatusConflict, "Only draft applications can be edited")
	}

	if p.ApplicationProgramID != nil || p.ApplicationDepartmentID != nil {
		progID := ent.ApplicationProgramID
		if p.ApplicationProgramID != nil {
			progID = *p.ApplicationProgramID
		}
		deptID := ent.ApplicationDepartmentID
		if p.ApplicationDepartmentID != nil {
			deptID = *p.ApplicationDepartmentID
		}
		var prog facultyModel.ProgramModel
		if err := ctl.DB.WithContext(c.Context()).
			First(&prog, "program_id = ?", progID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusNotFound, "Program not found")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load program")
		}
		if prog.ProgramDepartmentID != deptID {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Program does not belong to the chosen department")
		}
	}

	p.ApplyUpdates(&ent)
	if err := ctl.DB.WithContext(c.Context()).Save(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update application")
	}

	return helper.JsonUpdated(c, "Application updated", dto.FromModel(ent))
}

/* ============================================
   SUBMIT (applicant)
   POST /u/applications/:id/submit
============================================ */

func (ctl *ApplicationController) Submit(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application id")
	}

	// Ownership check before touching the lifecycle.
	var cnt int64
	if err := ctl.DB.WithContext(c.Context()).Model(&model.ApplicationModel{}).
		Where("application_id = ? AND application_user_id = ?", appID, userID).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load application")
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
	}

	ent, err := ctl.Lifecycle.Submit(c.Context(), appID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		case errors.Is(err, service.ErrPaymentRequired):
			return helper.JsonError(c, fiber.StatusPaymentRequired, "Form payment is required before submission")
		case errors.Is(err, service.ErrWindowClosed):
			return helper.JsonError(c, fiber.StatusConflict, "Application window is closed for this program")
		case errors.Is(err, service.ErrInvalidTransition):
			return helper.JsonError(c, fiber.StatusConflict, "Application can no longer be submitted")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit application")
		}
	}

	return helper.JsonUpdated(c, "Application submitted", dto.FromModel(*ent))
}

/* ============================================
   LIST MINE (applicant)
   GET /u/applications
============================================ */

func (ctl *ApplicationController) ListMine(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var list []model.ApplicationModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("application_user_id = ?", userID).
		Order("application_created_at DESC").
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list applications")
	}

	return helper.JsonOK(c, "OK", dto.FromModels(list))
}

/* ============================================
   LIST (staff)
   GET /a/applications?status=&session_id=&q=
============================================ */

func (ctl *ApplicationController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.ApplicationModel{})
	if st := c.Query("status"); st != "" {
		q = q.Where("application_status = ?", st)
	}
	if sid := c.Query("session_id"); sid != "" {
		sessionID, err := uuid.Parse(sid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session_id")
		}
		q = q.Where("application_session_id = ?", sessionID)
	}
	if term := c.Query("q"); term != "" {
		like := "%" + term + "%"
		q = q.Where("application_number ILIKE ? OR application_email ILIKE ? OR application_full_name ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count applications")
	}

	var list []model.ApplicationModel
	if err := q.Order("application_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list applications")
	}

	return helper.JsonList(c, "OK", dto.FromModels(list), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ============================================
   GET BY ID (staff)
   GET /a/applications/:id
============================================ */

func (ctl *ApplicationController) GetByID(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application id")
	}

	var ent model.ApplicationModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "application_id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load application")
	}

	return helper.JsonOK(c, "OK", dto.FromModel(ent))
}

/* ============================================
   MARK UNDER REVIEW (staff)
   POST /a/applications/:id/under-review
============================================ */

func (ctl *ApplicationController) MarkUnderReview(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application id")
	}

	if err := ctl.Lifecycle.MarkUnderReview(c.Context(), appID); err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		case errors.Is(err, service.ErrInvalidTransition):
			return helper.JsonError(c, fiber.StatusConflict, "Application is not in submitted state")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update application")
		}
	}

	return helper.JsonUpdated(c, "Application moved to review", fiber.Map{"application_id": appID})
}

/* ============================================
   REVIEW DECISION (staff)
   POST /a/applications/:id/review
============================================ */

func (ctl *ApplicationController) Review(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application id")
	}

	var p dto.ApplicationReviewDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	ent, err := ctl.Lifecycle.Review(c.Context(), appID, p.Decision, p.AdminNotes, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		case errors.Is(err, service.ErrInvalidDecision):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Decision must be approved or rejected")
		case errors.Is(err, service.ErrInvalidTransition):
			return helper.JsonError(c, fiber.StatusConflict, "Application is not under review")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to record decision")
		}
	}

	return helper.JsonUpdated(c, "Review decision recorded", dto.FromModel(*ent))
}
