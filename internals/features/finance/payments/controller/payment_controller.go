package controller

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	facultyModel "uniportal_backend/internals/features/academics/faculties/model"
	applicationModel "uniportal_backend/internals/features/admissions/applications/model"
	offerService "uniportal_backend/internals/features/admissions/offers/service"
	dto "uniportal_backend/internals/features/finance/payments/dto"
	model "uniportal_backend/internals/features/finance/payments/model"
	svc "uniportal_backend/internals/features/finance/payments/service"
	settingsService "uniportal_backend/internals/features/finance/settings/service"
	helper "uniportal_backend/internals/helpers"
	authHelper "uniportal_backend/internals/helpers/auth"
)

/* =======================================================================
   Controller
======================================================================= */

type PaymentController struct {
	DB                *gorm.DB
	Ledger            *svc.PaymentLedger
	Validator         *validator.Validate
	MidtransServerKey string // dipakai untuk verify signature di webhook
}

func NewPaymentController(db *gorm.DB, midtransServerKey string) *PaymentController {
	return &PaymentController{
		DB:                db,
		Ledger:            svc.NewPaymentLedger(db),
		Validator:         validator.New(),
		MidtransServerKey: midtransServerKey,
	}
}

/* =======================================================================
   Initiate: form purchase
   POST /u/payments/form
======================================================================= */

func (h *PaymentController) InitiateFormPayment(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var p dto.PaymentInitiateDTO
	if err := c.BodyParser(&p); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.Validator.Struct(&p); err != nil {
		return helper.JsonValidationError(c, err)
	}

	app, err := h.loadOwnedApplication(c, p.ApplicationID, userID)
	if err != nil {
		return err
	}
	if app.ApplicationFormPaid {
		return helper.JsonError(c, fiber.StatusConflict, "Form has already been paid for this application")
	}

	// Resolve the effective form fee for the program tied to the draft.
	snap, err := settingsService.LoadFeeSnapshot(c.Context(), h.DB)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load fee settings")
	}
	var prog facultyModel.ProgramModel
	if err := h.DB.WithContext(c.Context()).
		First(&prog, "program_id = ?", app.ApplicationProgramID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load program")
	}
	amount := settingsService.EffectiveFormFee(prog, snap)

	return h.initiateAndCheckout(c, userID, app, model.PaymentTypeFormPurchase, amount)
}

/* =======================================================================
   Initiate: acceptance fee
   POST /u/payments/acceptance
======================================================================= */

func (h *PaymentController) InitiateAcceptancePayment(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var p dto.PaymentInitiateDTO
	if err := c.BodyParser(&p); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.Validator.Struct(&p); err != nil {
		return helper.JsonValidationError(c, err)
	}

	app, err := h.loadOwnedApplication(c, p.ApplicationID, userID)
	if err != nil {
		return err
	}

	amount, err := h.Ledger.OfferAcceptanceAmount(c.Context(), app.ApplicationID)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrAlreadyPaid):
			return helper.JsonError(c, fiber.StatusConflict, "Acceptance fee has already been paid")
		case errors.Is(err, svc.ErrNoOpenOffer):
			return helper.JsonError(c, fiber.StatusGone, "No open admission offer for this application")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load offer")
		}
	}

	return h.initiateAndCheckout(c, userID, app, model.PaymentTypeAcceptanceFee, amount)
}

func (h *PaymentController) loadOwnedApplication(c *fiber.Ctx, applicationID, userID uuid.UUID) (*applicationModel.ApplicationModel, error) {
	var app applicationModel.ApplicationModel
	if err := h.DB.WithContext(c.Context()).
		First(&app, "application_id = ? AND application_user_id = ?", applicationID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Application not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load application")
	}
	return &app, nil
}

func (h *PaymentController) initiateAndCheckout(c *fiber.Ctx, userID uuid.UUID, app *applicationModel.ApplicationModel, paymentType string, amount int) error {
	ent, err := h.Ledger.Initiate(c.Context(), userID, app.ApplicationID, paymentType, amount)
	if err != nil {
		if errors.Is(err, svc.ErrDuplicateReference) {
			return helper.JsonError(c, fiber.StatusConflict, "Payment reference collision, please retry")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to initiate payment")
	}

	// Reused pending payments already carry a checkout URL.
	if ent.PaymentCheckoutURL == nil {
		token, redirectURL, err := svc.GenerateSnapToken(*ent, svc.CustomerInput{
			FullName: app.ApplicationFullName,
			Email:    app.ApplicationEmail,
		})
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadGateway, "Payment gateway error")
		}
		ent.PaymentCheckoutURL = &redirectURL
		ent.PaymentGatewayReference = &token
		if err := h.DB.WithContext(c.Context()).Save(ent).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store checkout details")
		}
	}

	out := dto.PaymentInitiatedDTO{Payment: dto.FromModel(*ent)}
	if ent.PaymentGatewayReference != nil {
		out.SnapToken = *ent.PaymentGatewayReference
	}
	return helper.JsonCreated(c, "Payment initiated", out)
}

/* =======================================================================
   My payments
   GET /u/payments
======================================================================= */

func (h *PaymentController) ListMine(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var list []model.PaymentModel
	if err := h.DB.WithContext(c.Context()).
		Where("payment_user_id = ?", userID).
		Order("payment_created_at DESC").
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list payments")
	}
	return helper.JsonOK(c, "OK", dto.FromModels(list))
}

/* =======================================================================
   Staff listing
   GET /a/payments?status=&type=&needs_review=
======================================================================= */

func (h *PaymentController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.WithContext(c.Context()).Model(&model.PaymentModel{})
	if st := c.Query("status"); st != "" {
		q = q.Where("payment_status = ?", st)
	}
	if tp := c.Query("type"); tp != "" {
		q = q.Where("payment_type = ?", tp)
	}
	if c.Query("needs_review") == "true" {
		q = q.Where("payment_needs_review = TRUE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count payments")
	}

	var list []model.PaymentModel
	if err := q.Order("payment_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list payments")
	}
	return helper.JsonList(c, "OK", dto.FromModels(list), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* =======================================================================
   Webhook Midtrans
======================================================================= */

type midtransNotif struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, partial_refund, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
}

func (h *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	var notif midtransNotif
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}

	// Verify signature: SHA512(order_id + status_code + gross_amount + ServerKey)
	want := strings.ToLower(notif.SignatureKey)
	got := sha512sum(notif.OrderID + notif.StatusCode + notif.GrossAmount + h.MidtransServerKey)
	if want == "" || got != want {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	ent, err := h.Ledger.FindByReference(c.Context(), notif.OrderID)
	if err != nil {
		// Always reply 200 so the gateway stops retrying a dead order.
		_ = h.logGatewayEvent(c, nil, notif, model.GatewayEventStatusReceived, "payment not found for order_id="+notif.OrderID)
		return c.JSON(fiber.Map{"status": "ignored", "reason": "payment not found"})
	}

	_ = h.logGatewayEvent(c, ent, notif, model.GatewayEventStatusReceived, "")

	newStatus := svc.MapGatewayStatus(notif.TransactionStatus, notif.FraudStatus)

	var gatewayRef, method *string
	if notif.TransactionID != "" {
		gatewayRef = &notif.TransactionID
	}
	if notif.PaymentType != "" {
		method = &notif.PaymentType
	}

	updated, err := h.Ledger.Finalize(c.Context(), notif.OrderID, newStatus, gatewayRef, method, time.Now())
	if err != nil {
		if errors.Is(err, offerService.ErrOfferNotFound) {
			_ = h.updateEventStatus(c, notif, model.GatewayEventStatusFailed, err.Error())
			return c.JSON(fiber.Map{"status": "ignored", "reason": "no offer for application"})
		}
		_ = h.updateEventStatus(c, notif, model.GatewayEventStatusFailed, err.Error())
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to finalize payment")
	}

	_ = h.updateEventStatus(c, notif, model.GatewayEventStatusProcessed, "")

	return c.JSON(fiber.Map{
		"status":             "ok",
		"payment_reference":  updated.PaymentReference,
		"payment_status":     updated.PaymentStatus,
		"transaction_status": notif.TransactionStatus,
		"fraud_status":       notif.FraudStatus,
	})
}

/* =======================================================================
   Helpers: webhook
======================================================================= */

func sha512sum(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (h *PaymentController) logGatewayEvent(c *fiber.Ctx, p *model.PaymentModel, notif midtransNotif, status string, errMsg string) error {
	headers := map[string]string{}
	for k, v := range c.GetReqHeaders() {
		headers[k] = strings.Join(v, ",")
	}
	headersJSON, _ := json.Marshal(headers)
	payloadJSON, _ := json.Marshal(notif)

	ev := model.PaymentGatewayEventModel{
		PaymentGatewayEventProvider:  model.GatewayProviderMidtrans,
		PaymentGatewayEventType:      strPtr(notif.TransactionStatus),
		PaymentGatewayEventReference: strPtr(notif.OrderID),
		PaymentGatewayEventHeaders:   datatypes.JSON(headersJSON),
		PaymentGatewayEventPayload:   datatypes.JSON(payloadJSON),
		PaymentGatewayEventSignature: strPtr(notif.SignatureKey),
		PaymentGatewayEventStatus:    status,
		PaymentGatewayEventError:     strPtr(errMsg),
	}
	if p != nil {
		ev.PaymentGatewayEventPaymentID = &p.PaymentID
	}
	return h.DB.WithContext(c.Context()).Create(&ev).Error
}

func (h *PaymentController) updateEventStatus(c *fiber.Ctx, notif midtransNotif, newStatus, errMsg string) error {
	now := time.Now()
	return h.DB.WithContext(c.Context()).Exec(`
		UPDATE payment_gateway_events
		SET payment_gateway_event_status = ?,
		    payment_gateway_event_error = ?,
		    payment_gateway_event_processed_at = ?
		WHERE payment_gateway_event_id = (
			SELECT payment_gateway_event_id FROM payment_gateway_events
			WHERE payment_gateway_event_provider = ?
			  AND COALESCE(payment_gateway_event_reference,'') = ?
			  AND payment_gateway_event_deleted_at IS NULL
			ORDER BY payment_gateway_event_created_at DESC
			LIMIT 1
		)
	`, newStatus, errMsg, now, model.GatewayProviderMidtrans, notif.OrderID).Error
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
