package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	service "uniportal_backend/internals/features/admissions/offers/service"
)

// Sweep cadence. Expiry precision of one hour is plenty for a deadline
// measured in days.
const sweepInterval = 1 * time.Hour

// StartOfferExpirySweep runs the expiry sweep in the background for the
// lifetime of the process. The sweep itself is idempotent so an extra
// run after restart costs nothing.
func StartOfferExpirySweep(db *gorm.DB) {
	lifecycle := service.NewOfferLifecycle(db)

	go func() {
		// Jalankan sekali saat boot, lalu per interval.
		runSweep(lifecycle)
		for {
			time.Sleep(sweepInterval)
			runSweep(lifecycle)
		}
	}()

	log.Println("[SCHEDULER] offer expiry sweep started, interval:", sweepInterval)
}

func runSweep(lifecycle *service.OfferLifecycle) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := lifecycle.SweepExpired(ctx, time.Now())
	if err != nil {
		log.Printf("[SCHEDULER] offer expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[SCHEDULER] offer expiry sweep marked %d offer(s) expired", n)
	}
}
