package helper

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenReference membuat reference unik dengan prefix tertentu
// (dipakai sebagai order_id Midtrans sekaligus idempotency key pembayaran).
func GenReference(prefix string) string {
	now := time.Now().In(time.Local).Format("20060102-150405")
	u := uuid.New().String()
	if len(u) > 8 {
		u = u[:8]
	}
	return prefix + "-" + now + "-" + strings.ToUpper(u)
}
