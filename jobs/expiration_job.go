package jobs

import (
	"log"
	"time"

	"food-donation-server/database"
	"food-donation-server/models"
	"food-donation-server/utils"
)

// ExpirationJob sweeps donations whose expiry date has passed
type ExpirationJob struct {
	stopChan chan bool
	interval time.Duration
}

// NewExpirationJob creates a new expiration job
func NewExpirationJob() *ExpirationJob {
	return &ExpirationJob{
		stopChan: make(chan bool),
		interval: 10 * time.Minute,
	}
}

// Start begins the expiration job
func (j *ExpirationJob) Start() {
	go j.run()
	log.Println("🚀 Expiration job started")
}

// Stop stops the expiration job
func (j *ExpirationJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Expiration job stopped")
}

// run executes the expiration job
func (j *ExpirationJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Run once at startup so restarts don't leave stale listings up
	j.CheckExpiredDonations()

	for {
		select {
		case <-ticker.C:
			j.CheckExpiredDonations()
		case <-j.stopChan:
			return
		}
	}
}

// CheckExpiredDonations finds donations past their expiry date that are
// still listed as Available or Reserved and marks them Expired. Picked up,
// cancelled and already-expired donations are left alone. Expiry is a
// date-granularity comparison: a donation expiring today is still urgent,
// not expired, so the cutoff is the start of the current day.
func (j *ExpirationJob) CheckExpiredDonations() {
	var expiredDonations []models.Donation

	err := database.DB.Where("status IN ? AND expiry_date < ?",
		[]models.DonationStatus{models.DonationStatusAvailable, models.DonationStatusReserved},
		utils.StartOfDay(time.Now())).Find(&expiredDonations).Error

	if err != nil {
		log.Printf("❌ Error checking expired donations: %v", err)
		return
	}

	if len(expiredDonations) > 0 {
		log.Printf("⏰ Found %d expired donations", len(expiredDonations))

		for _, donation := range expiredDonations {
			j.expireDonation(donation)
		}
	}
}

// expireDonation marks a donation as expired
func (j *ExpirationJob) expireDonation(donation models.Donation) {
	donation.Status = models.DonationStatusExpired

	err := database.DB.Save(&donation).Error
	if err != nil {
		log.Printf("❌ Failed to expire donation %d: %v", donation.ID, err)
		return
	}

	log.Printf("✅ Donation %d expired", donation.ID)
}
