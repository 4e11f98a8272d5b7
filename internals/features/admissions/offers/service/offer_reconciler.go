package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	facultyModel "uniportal_backend/internals/features/academics/faculties/model"
	applicationModel "uniportal_backend/internals/features/admissions/applications/model"
	dto "uniportal_backend/internals/features/admissions/offers/dto"
	model "uniportal_backend/internals/features/admissions/offers/model"
	settingsService "uniportal_backend/internals/features/finance/settings/service"
)

// DefaultAcceptanceWindowDays applies when the upload carries no deadline.
const DefaultAcceptanceWindowDays = 14

var ErrDepartmentNotFound = errors.New("department not found")

/* =========================================================
   Pure row rules
========================================================= */

// DepartmentMismatchWarning reports when a batch admits a student into a
// department other than the one on their application. Identity is the
// department id; names only dress up the message so staff can audit
// without another lookup. The offer still lands in the requested
// department. A department that no longer resolves to a name falls back
// to its id in the text.
func DepartmentMismatchWarning(student string, targetID, applicationDeptID uuid.UUID, targetName, applicationName string) (string, bool) {
	if targetID == applicationDeptID {
		return "", false
	}
	if strings.TrimSpace(applicationName) == "" {
		applicationName = applicationDeptID.String()
	}
	return fmt.Sprintf("%s: admitted into %q but applied to %q", student, targetName, applicationName), true
}

// RowIdentifier is what error and already_existing entries are keyed by.
func RowIdentifier(row dto.OfferRosterRowDTO) string {
	if row.ApplicationNumber != "" {
		return row.ApplicationNumber
	}
	return row.Email
}

/* =========================================================
   Service
========================================================= */

type OfferReconciler struct {
	DB *gorm.DB
}

func NewOfferReconciler(db *gorm.DB) *OfferReconciler {
	return &OfferReconciler{DB: db}
}

// UploadOffers reconciles an admitted-students roster against the
// applications table, admitting every matched row into one department
// with a uniform fee and deadline. Rows are processed strictly in input
// order and a bad row never aborts the batch: unknown applicants become
// per-row errors, department mismatches become warnings, and applicants
// who already hold an offer are skipped and reported as already_existing.
func (s *OfferReconciler) UploadOffers(
	ctx context.Context,
	sessionID, departmentID uuid.UUID,
	explicitFee *int,
	deadlineDays int,
	rows []dto.OfferRosterRowDTO,
	now time.Time,
) (*dto.OfferRosterResultDTO, error) {
	result := &dto.OfferRosterResultDTO{
		CreatedOffers:   []dto.AdmissionOfferResponseDTO{},
		AlreadyExisting: []string{},
		Errors:          []dto.OfferRosterErrorDTO{},
		Warnings:        []dto.OfferRosterWarningDTO{},
	}

	var targetDept facultyModel.DepartmentModel
	if err := s.DB.WithContext(ctx).
		First(&targetDept, "department_id = ?", departmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	snap, err := settingsService.LoadFeeSnapshot(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	if deadlineDays <= 0 {
		deadlineDays = DefaultAcceptanceWindowDays
	}
	deadline := now.AddDate(0, 0, deadlineDays)

	deptNames := map[uuid.UUID]string{targetDept.DepartmentID: targetDept.DepartmentName}

	for i, row := range rows {
		rowNo := i + 1

		app, err := s.matchApplication(ctx, row)
		if err != nil {
			return nil, err
		}
		if app == nil {
			result.Errors = append(result.Errors, dto.OfferRosterErrorDTO{
				Row:     rowNo,
				Message: fmt.Sprintf("no application found for %q", RowIdentifier(row)),
			})
			continue
		}

		// Skip duplicates before any other work so re-uploads stay cheap.
		var existing int64
		if err := s.DB.WithContext(ctx).Model(&model.AdmissionOfferModel{}).
			Where("admission_offer_application_id = ?", app.ApplicationID).
			Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			result.AlreadyExisting = append(result.AlreadyExisting, RowIdentifier(row))
			continue
		}

		appDeptName, err := s.departmentName(ctx, deptNames, app.ApplicationDepartmentID)
		if err != nil {
			return nil, err
		}
		if msg, mismatch := DepartmentMismatchWarning(RowIdentifier(row),
			departmentID, app.ApplicationDepartmentID,
			targetDept.DepartmentName, appDeptName); mismatch {
			result.Warnings = append(result.Warnings, dto.OfferRosterWarningDTO{Row: rowNo, Message: msg})
		}

		fee, err := s.resolveAcceptanceFee(ctx, explicitFee, app.ApplicationProgramID, snap)
		if err != nil {
			result.Errors = append(result.Errors, dto.OfferRosterErrorDTO{
				Row:     rowNo,
				Message: fmt.Sprintf("cannot resolve acceptance fee for %q: %v", RowIdentifier(row), err),
			})
			continue
		}

		d := deadline
		ent := model.AdmissionOfferModel{
			AdmissionOfferApplicationID: app.ApplicationID,
			AdmissionOfferSessionID:     sessionID,
			AdmissionOfferDepartmentID:  departmentID,
			AdmissionOfferProgramID:     app.ApplicationProgramID,
			AdmissionOfferStatus:        model.OfferStatusOffered,
			AdmissionOfferAcceptanceFee: fee,
			AdmissionOfferDeadline:      &d,
		}

		if err := s.DB.WithContext(ctx).Create(&ent).Error; err != nil {
			result.Errors = append(result.Errors, dto.OfferRosterErrorDTO{
				Row:     rowNo,
				Message: fmt.Sprintf("failed to create offer for %q", RowIdentifier(row)),
			})
			continue
		}
		result.CreatedOffers = append(result.CreatedOffers, dto.FromModel(ent))
	}

	return result, nil
}

func (s *OfferReconciler) matchApplication(ctx context.Context, row dto.OfferRosterRowDTO) (*applicationModel.ApplicationModel, error) {
	var app applicationModel.ApplicationModel

	if row.ApplicationNumber != "" {
		err := s.DB.WithContext(ctx).
			First(&app, "application_number = ?", row.ApplicationNumber).Error
		if err == nil {
			return &app, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// Email fallback for rosters typed up outside the portal.
	if row.Email != "" {
		err := s.DB.WithContext(ctx).
			Order("application_created_at DESC").
			First(&app, "application_email = ?", row.Email).Error
		if err == nil {
			return &app, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

// departmentName caches lookups; rosters tend to hit the same few rows.
func (s *OfferReconciler) departmentName(ctx context.Context, cache map[uuid.UUID]string, id uuid.UUID) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	var dept facultyModel.DepartmentModel
	err := s.DB.WithContext(ctx).First(&dept, "department_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cache[id] = ""
			return "", nil
		}
		return "", err
	}
	cache[id] = dept.DepartmentName
	return dept.DepartmentName, nil
}

func (s *OfferReconciler) resolveAcceptanceFee(ctx context.Context, explicit *int, programID uuid.UUID, snap settingsService.FeeSnapshot) (int, error) {
	var prog facultyModel.ProgramModel
	err := s.DB.WithContext(ctx).First(&prog, "program_id = ?", programID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settingsService.EffectiveAcceptanceFee(explicit, nil, snap)
	}
	return settingsService.EffectiveAcceptanceFee(explicit, &prog, snap)
}
