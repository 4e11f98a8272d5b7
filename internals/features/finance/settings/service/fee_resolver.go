package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	facultyModel "uniportal_backend/internals/features/academics/faculties/model"
	model "uniportal_backend/internals/features/finance/settings/model"
)

// DefaultFormAmount dipakai kalau setting form_amount belum diisi sama sekali.
const DefaultFormAmount = 5000

var ErrFeeNotConfigured = errors.New("acceptance fee is not configured")

/* =========================================================
   Fee snapshot
========================================================= */

// FeeSnapshot adalah potret read-only dari global fee settings.
// Resolver menerima snapshot (bukan membaca DB sendiri) supaya hasil
// perhitungan fee deterministik dan bisa di-replay di test.
type FeeSnapshot struct {
	FormAmount    *int
	AcceptanceFee *int
}

// LoadFeeSnapshot membaca settings sekali di awal request.
func LoadFeeSnapshot(ctx context.Context, db *gorm.DB) (FeeSnapshot, error) {
	var snap FeeSnapshot

	var rows []model.SettingModel
	if err := db.WithContext(ctx).
		Where("setting_key IN ?", []string{model.KeyFormAmount, model.KeyAcceptanceFee}).
		Find(&rows).Error; err != nil {
		return snap, err
	}

	for _, r := range rows {
		n, ok := parseAmount(r.SettingValue)
		if !ok {
			continue
		}
		switch r.SettingKey {
		case model.KeyFormAmount:
			v := n
			snap.FormAmount = &v
		case model.KeyAcceptanceFee:
			v := n
			snap.AcceptanceFee = &v
		}
	}
	return snap, nil
}

func parseAmount(raw string) (int, bool) {
	n := 0
	seen := false
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
		seen = true
	}
	return n, seen
}

/* =========================================================
   Precedence resolvers
========================================================= */

// EffectiveFormFee menghitung biaya form untuk sebuah program.
// Urutan precedence (kontrak, jangan diubah):
//  1. program.form_fee, hanya bila use_default_form_fee = false dan fee terisi
//  2. global setting form_amount
//  3. DefaultFormAmount
func EffectiveFormFee(p facultyModel.ProgramModel, snap FeeSnapshot) int {
	if !p.ProgramUseDefaultFormFee && p.ProgramFormFee != nil {
		return *p.ProgramFormFee
	}
	if snap.FormAmount != nil {
		return *snap.FormAmount
	}
	return DefaultFormAmount
}

// EffectiveAcceptanceFee menghitung acceptance fee sebuah offer.
// Urutan precedence: explicit (input staff saat buat offer) >
// program.acceptance_fee > global setting acceptance_fee.
func EffectiveAcceptanceFee(explicit *int, p *facultyModel.ProgramModel, snap FeeSnapshot) (int, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if p != nil && p.ProgramAcceptanceFee != nil {
		return *p.ProgramAcceptanceFee, nil
	}
	if snap.AcceptanceFee != nil {
		return *snap.AcceptanceFee, nil
	}
	return 0, ErrFeeNotConfigured
}
