package utilities

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Edcode-bot/MiniSente/external/africastalking"
	"github.com/Edcode-bot/MiniSente/metrics"
	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/rates"
	"github.com/Edcode-bot/MiniSente/utils"
	"github.com/Edcode-bot/MiniSente/validation"
)

// AirtimeClient is the Africa's Talking client used by PayAirtime. Tests swap
// it for one with an intercepted transport.
var AirtimeClient = africastalking.NewClient()

type airtimeRequest struct {
	Phone   string  `json:"phone"`
	Amount  float64 `json:"amount"`
	Carrier string  `json:"carrier"`
}

// PayAirtime delivers airtime synchronously: the record is created pending,
// the provider is called in the same request, and the record is resolved to
// completed or failed before responding. No webhook is involved.
func PayAirtime(c *gin.Context) {
	var req airtimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	if err := validation.ValidatePhone(req.Phone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateAmount(models.ServiceAirtime, req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateNetwork(req.Carrier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment := models.Payment{
		UserID:            user.ID,
		ServiceType:       models.ServiceAirtime,
		AmountUGX:         req.Amount,
		AmountUSDC:        rates.ToUSDC(req.Amount),
		ExchangeRate:      rates.Default.UGXPerUSDC(),
		Recipient:         validation.FormatPhone(req.Phone),
		Network:           req.Carrier,
		ProviderReference: utils.NewReference("AIR"),
		Status:            models.PaymentStatusPending,
	}

	if err := utils.DB.Create(&payment).Error; err != nil {
		log.Printf("Failed to save airtime record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save transaction"})
		return
	}

	requestID, err := AirtimeClient.SendAirtime(payment.Recipient, req.Amount)
	if err != nil {
		log.Printf("Airtime send failed: %v", err)
		if dbErr := utils.DB.Model(&payment).Updates(map[string]interface{}{
			"status":        models.PaymentStatusFailed,
			"error_message": err.Error(),
		}).Error; dbErr != nil {
			log.Printf("Failed to mark airtime payment failed: %v", dbErr)
		}
		metrics.PaymentsTotal.WithLabelValues(models.ServiceAirtime, models.PaymentStatusFailed).Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send airtime"})
		return
	}

	now := time.Now()
	if err := utils.DB.Model(&payment).Updates(map[string]interface{}{
		"status":             models.PaymentStatusCompleted,
		"provider_reference": requestID,
		"completed_at":       &now,
	}).Error; err != nil {
		log.Printf("Airtime delivered but record update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}

	metrics.PaymentsTotal.WithLabelValues(models.ServiceAirtime, models.PaymentStatusCompleted).Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"transaction_id":     payment.ID,
		"message":            "Airtime sent successfully",
		"provider_reference": requestID,
		"amount_usdc":        payment.AmountUSDC,
	})
}
