package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "uniportal_backend/internals/features/admissions/offers/dto"
	model "uniportal_backend/internals/features/admissions/offers/model"
	service "uniportal_backend/internals/features/admissions/offers/service"
	helper "uniportal_backend/internals/helpers"
	authHelper "uniportal_backend/internals/helpers/auth"
)

/* ============================================
   Controller
============================================ */

type AdmissionOfferController struct {
	DB         *gorm.DB
	Reconciler *service.OfferReconciler
	Lifecycle  *service.OfferLifecycle
	Validator  *validator.Validate
}

func NewAdmissionOfferController(db *gorm.DB, v *validator.Validate) *AdmissionOfferController {
	if v == nil {
		v = validator.New()
	}
	return &AdmissionOfferController{
		DB:         db,
		Reconciler: service.NewOfferReconciler(db),
		Lifecycle:  service.NewOfferLifecycle(db),
		Validator:  v,
	}
}

/* ============================================
   ROSTER UPLOAD (staff)
   POST /a/offers/upload
============================================ */

func (ctl *AdmissionOfferController) Upload(c *fiber.Ctx) error {
	var p dto.OfferRosterUploadDTO
	if err := c.BodyParser(&p); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := ctl.Validator.Struct(&p); err != nil {
		return helper.JsonValidationError(c, err)
	}
	p.Normalize()

	// Every row needs at least one way to find the applicant.
	for i, row := range p.Rows {
		if row.ApplicationNumber == "" && row.Email == "" {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity,
				"row "+strconv.Itoa(i+1)+": application_number or email is required")
		}
	}

	result, err := ctl.Reconciler.UploadOffers(c.Context(),
		p.SessionID, p.DepartmentID, p.AcceptanceFee, p.DeadlineDays, p.Rows, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Department not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process roster")
	}

	return helper.JsonOK(c, "Roster processed", result)
}

/* ============================================
   LIST (staff)
   GET /a/offers?status=&department_id=
============================================ */

func (ctl *AdmissionOfferController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.AdmissionOfferModel{})
	if st := c.Query("status"); st != "" {
		q = q.Where("admission_offer_status = ?", st)
	}
	if did := c.Query("department_id"); did != "" {
		deptID, err := uuid.Parse(did)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid department_id")
		}
		q = q.Where("admission_offer_department_id = ?", deptID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count offers")
	}

	var list []model.AdmissionOfferModel
	if err := q.Order("admission_offer_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list offers")
	}

	return helper.JsonList(c, "OK", dto.FromModels(list), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ============================================
   SWEEP EXPIRED (staff, manual trigger)
   POST /a/offers/sweep-expired
============================================ */

func (ctl *AdmissionOfferController) SweepExpired(c *fiber.Ctx) error {
	n, err := ctl.Lifecycle.SweepExpired(c.Context(), time.Now())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sweep expired offers")
	}
	return helper.JsonOK(c, "Sweep complete", fiber.Map{"expired_count": n})
}

/* ============================================
   MY OFFER (applicant)
   GET /u/offers/mine
============================================ */

func (ctl *AdmissionOfferController) Mine(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var list []model.AdmissionOfferModel
	if err := ctl.DB.WithContext(c.Context()).
		Joins("JOIN applications ON applications.application_id = admission_offers.admission_offer_application_id").
		Where("applications.application_user_id = ?", userID).
		Order("admission_offers.admission_offer_created_at DESC").
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load offers")
	}

	return helper.JsonOK(c, "OK", dto.FromModels(list))
}

/* ============================================
   DECLINE (applicant)
   POST /u/offers/:id/decline
============================================ */

func (ctl *AdmissionOfferController) Decline(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid offer id")
	}

	// Ownership runs through the application.
	var cnt int64
	if err := ctl.DB.WithContext(c.Context()).Model(&model.AdmissionOfferModel{}).
		Joins("JOIN applications ON applications.application_id = admission_offers.admission_offer_application_id").
		Where("admission_offers.admission_offer_id = ? AND applications.application_user_id = ?", offerID, userID).
		Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load offer")
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Offer not found")
	}

	ent, err := ctl.Lifecycle.Decline(c.Context(), offerID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOfferNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Offer not found")
		case errors.Is(err, service.ErrOfferInvalidTransition):
			return helper.JsonError(c, fiber.StatusConflict, "Offer can no longer be declined")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to decline offer")
		}
	}

	return helper.JsonUpdated(c, "Offer declined", dto.FromModel(*ent))
}
