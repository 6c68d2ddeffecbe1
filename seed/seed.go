// seed/seed.go
package seed

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/utils"
	"github.com/Edcode-bot/MiniSente/validation"
)

// SeedPaymentLimits mirrors the validator's per-service bounds into the
// payment_limits table so the app can display them.
func SeedPaymentLimits() error {
	for serviceType, bounds := range validation.AmountBounds {
		var existing models.PaymentLimit
		err := utils.DB.Where("service_type = ?", serviceType).First(&existing).Error
		if err == nil {
			if existing.MinAmountUGX == bounds.Min && existing.MaxAmountUGX == bounds.Max {
				continue
			}
			existing.MinAmountUGX = bounds.Min
			existing.MaxAmountUGX = bounds.Max
			if err := utils.DB.Save(&existing).Error; err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		limit := models.PaymentLimit{
			ServiceType:  serviceType,
			MinAmountUGX: bounds.Min,
			MaxAmountUGX: bounds.Max,
		}
		if err := utils.DB.Create(&limit).Error; err != nil {
			return err
		}
	}

	log.Println("Payment limits seeded successfully.")
	return nil
}
