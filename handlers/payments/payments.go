package payments

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Edcode-bot/MiniSente/external/flutterwave"
	"github.com/Edcode-bot/MiniSente/metrics"
	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/rates"
	"github.com/Edcode-bot/MiniSente/utils"
	"github.com/Edcode-bot/MiniSente/validation"
)

// Client is the Flutterwave client used by the handlers. Tests swap it for
// one with an intercepted transport.
var Client = flutterwave.NewClient()

type depositRequest struct {
	Phone   string  `json:"phone"`
	Amount  float64 `json:"amount"`
	Network string  `json:"network"`
	Email   string  `json:"email"`
}

// InitiateDeposit charges the user's mobile-money account via Flutterwave.
// The record stays pending until the provider webhook reports the outcome.
func InitiateDeposit(c *gin.Context) {
	var req depositRequest
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
	if err := validation.ValidateAmount(models.ServiceMobileMoneyDeposit, req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateNetwork(req.Network); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := req.Email
	if email == "" {
		email = "user@minisente.com"
	}

	txRef := utils.NewReference("MM-DEP")

	_, err := Client.ChargeMobileMoney(flutterwave.ChargeRequest{
		TxRef:       txRef,
		Amount:      req.Amount,
		Currency:    "UGX",
		Network:     req.Network,
		Email:       email,
		PhoneNumber: validation.FormatPhone(req.Phone),
		FullName:    "MiniSente User",
	})
	if err != nil {
		log.Printf("Flutterwave charge failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Deposit failed. Please try again."})
		return
	}

	payment := models.Payment{
		UserID:            user.ID,
		ServiceType:       models.ServiceMobileMoneyDeposit,
		AmountUGX:         req.Amount,
		AmountUSDC:        rates.ToUSDC(req.Amount),
		ExchangeRate:      rates.Default.UGXPerUSDC(),
		Recipient:         validation.FormatPhone(req.Phone),
		Network:           req.Network,
		ProviderReference: txRef,
		Status:            models.PaymentStatusPending,
	}

	if err := utils.DB.Create(&payment).Error; err != nil {
		log.Printf("Failed to save deposit record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save deposit"})
		return
	}

	metrics.PaymentsTotal.WithLabelValues(payment.ServiceType, payment.Status).Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Please complete payment on your phone",
		"reference":   txRef,
		"amount_usdc": payment.AmountUSDC,
	})
}

type withdrawRequest struct {
	Phone      string  `json:"phone"`
	AmountUSDC float64 `json:"amount_usdc"`
	Network    string  `json:"network"`
}

// InitiateWithdrawal pays out UGX to the user's mobile-money account in
// exchange for USDC.
func InitiateWithdrawal(c *gin.Context) {
	var req withdrawRequest
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
	if err := validation.ValidateNetwork(req.Network); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amountUGX := rates.ToUGX(req.AmountUSDC)
	if err := validation.ValidateAmount(models.ServiceMobileMoneyWithdraw, amountUGX); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reference := utils.NewReference("MM-WITH")

	accountBank := "MPS"
	if req.Network == "AIRTEL" {
		accountBank = "AIRTEL"
	}

	_, err := Client.Transfer(flutterwave.TransferRequest{
		AccountBank:   accountBank,
		AccountNumber: validation.FormatPhone(req.Phone),
		Amount:        amountUGX,
		Currency:      "UGX",
		Narration:     "MiniSente Withdrawal",
		Reference:     reference,
		CallbackURL:   os.Getenv("APP_URL") + "/webhook/flutterwave",
		DebitCurrency: "UGX",
	})
	if err != nil {
		log.Printf("Flutterwave transfer failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Withdrawal failed. Please try again."})
		return
	}

	payment := models.Payment{
		UserID:            user.ID,
		ServiceType:       models.ServiceMobileMoneyWithdraw,
		AmountUGX:         amountUGX,
		AmountUSDC:        req.AmountUSDC,
		ExchangeRate:      rates.Default.UGXPerUSDC(),
		Recipient:         validation.FormatPhone(req.Phone),
		Network:           req.Network,
		ProviderReference: reference,
		Status:            models.PaymentStatusPending,
	}

	if err := utils.DB.Create(&payment).Error; err != nil {
		log.Printf("Failed to save withdrawal record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save withdrawal"})
		return
	}

	metrics.PaymentsTotal.WithLabelValues(payment.ServiceType, payment.Status).Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Withdrawal initiated. You will receive money shortly.",
		"reference":  reference,
		"amount_ugx": amountUGX,
	})
}

// GetPayments lists the user's payment records, newest first.
func GetPayments(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	var payments []models.Payment
	if err := utils.DB.Where("user_id = ?", user.ID).Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetLimits returns the seeded per-service amount limits.
func GetLimits(c *gin.Context) {
	var limits []models.PaymentLimit
	if err := utils.DB.Order("service_type").Find(&limits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch limits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"limits": limits})
}

// markCompleted resolves a pending payment as completed. Re-delivered
// callbacks re-apply the same terminal state.
func markCompleted(payment *models.Payment) error {
	now := time.Now()
	return utils.DB.Model(payment).Updates(map[string]interface{}{
		"status":       models.PaymentStatusCompleted,
		"completed_at": &now,
	}).Error
}

// markFailed resolves a payment as failed with the provider's message.
func markFailed(payment *models.Payment, message string) error {
	return utils.DB.Model(payment).Updates(map[string]interface{}{
		"status":        models.PaymentStatusFailed,
		"error_message": message,
	}).Error
}
