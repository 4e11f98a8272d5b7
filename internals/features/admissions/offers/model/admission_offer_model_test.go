package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		feePaid bool
		want    string
	}{
		{
			name:    "paid offer swept to expired still reads accepted",
			status:  OfferStatusExpired,
			feePaid: true,
			want:    OfferStatusAccepted,
		},
		{
			name:    "paid offer still marked offered reads accepted",
			status:  OfferStatusOffered,
			feePaid: true,
			want:    OfferStatusAccepted,
		},
		{
			name:   "unpaid expired stays expired",
			status: OfferStatusExpired,
			want:   OfferStatusExpired,
		},
		{
			name:   "unpaid offered stays offered",
			status: OfferStatusOffered,
			want:   OfferStatusOffered,
		},
		{
			name:   "declined stays declined",
			status: OfferStatusDeclined,
			want:   OfferStatusDeclined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := AdmissionOfferModel{
				AdmissionOfferStatus:            tt.status,
				AdmissionOfferAcceptanceFeePaid: tt.feePaid,
			}
			assert.Equal(t, tt.want, m.DisplayStatus())
		})
	}
}
