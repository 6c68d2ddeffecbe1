package migrations

import (
	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/utils"
)

func Migrate() {
	utils.DB.AutoMigrate(&models.User{})
	utils.DB.AutoMigrate(&models.Payment{})
	utils.DB.AutoMigrate(&models.Transaction{})
	utils.DB.AutoMigrate(&models.Contact{})
	utils.DB.AutoMigrate(&models.PaymentLimit{})
}
