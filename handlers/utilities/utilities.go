package utilities

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Edcode-bot/MiniSente/metrics"
	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/rates"
	"github.com/Edcode-bot/MiniSente/utils"
	"github.com/Edcode-bot/MiniSente/validation"
)

// TreasuryAddress receives the USDC for treasury-settled utility payments
// before off-chain fulfilment.
const TreasuryAddress = "0x1234567890123456789012345678901234567890"

type dataRequest struct {
	Phone   string  `json:"phone"`
	Carrier string  `json:"carrier"`
	Bundle  string  `json:"bundle"`
	Amount  float64 `json:"amount"`
	TxHash  string  `json:"tx_hash"`
}

// PayData records a data-bundle purchase settled by a USDC transfer to the
// treasury. The record stays pending until the transaction webhook confirms
// the transfer hash.
func PayData(c *gin.Context) {
	var req dataRequest
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
	if err := validation.ValidateAmount(models.ServiceData, req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateNetwork(req.Carrier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipient := validation.FormatPhone(req.Phone)
	if req.Bundle != "" {
		recipient = recipient + " (" + req.Bundle + ")"
	}

	createTreasuryPayment(c, user, models.Payment{
		ServiceType: models.ServiceData,
		AmountUGX:   req.Amount,
		Recipient:   recipient,
		Network:     req.Carrier,
		TxHash:      req.TxHash,
	}, utils.NewReference("DAT"))
}

type electricityRequest struct {
	MeterNumber string  `json:"meter_number"`
	Amount      float64 `json:"amount"`
	TxHash      string  `json:"tx_hash"`
}

// PayElectricity records a prepaid electricity purchase. The 20-digit token
// is issued when the treasury transfer is confirmed.
func PayElectricity(c *gin.Context) {
	var req electricityRequest
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

	if err := validation.ValidateMeter(req.MeterNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateAmount(models.ServiceElectricity, req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createTreasuryPayment(c, user, models.Payment{
		ServiceType: models.ServiceElectricity,
		AmountUGX:   req.Amount,
		Recipient:   req.MeterNumber,
		TxHash:      req.TxHash,
	}, utils.NewReference("ELC"))
}

type schoolFeesRequest struct {
	School      string  `json:"school"`
	StudentName string  `json:"student_name"`
	StudentID   string  `json:"student_id"`
	Amount      float64 `json:"amount"`
	TxHash      string  `json:"tx_hash"`
}

// PaySchoolFees records a school-fees payment. The receipt number is issued
// when the treasury transfer is confirmed.
func PaySchoolFees(c *gin.Context) {
	var req schoolFeesRequest
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

	if err := validation.ValidateSchool(req.School); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.StudentName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student name is required."})
		return
	}
	if err := validation.ValidateAmount(models.ServiceSchoolFees, req.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipient := req.School + " / " + req.StudentName
	if req.StudentID != "" {
		recipient = recipient + " (" + req.StudentID + ")"
	}

	createTreasuryPayment(c, user, models.Payment{
		ServiceType: models.ServiceSchoolFees,
		AmountUGX:   req.Amount,
		Recipient:   recipient,
		TxHash:      req.TxHash,
	}, utils.NewReference("SCH"))
}

// createTreasuryPayment inserts the pending payment record and makes sure a
// pending transaction record exists for the treasury transfer hash.
func createTreasuryPayment(c *gin.Context, user models.User, payment models.Payment, reference string) {
	if payment.TxHash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing treasury transfer hash"})
		return
	}

	payment.UserID = user.ID
	payment.AmountUSDC = rates.ToUSDC(payment.AmountUGX)
	payment.ExchangeRate = rates.Default.UGXPerUSDC()
	payment.ProviderReference = reference
	payment.Status = models.PaymentStatusPending

	var tx models.Transaction
	err := utils.DB.Where("tx_hash = ?", payment.TxHash).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx = models.Transaction{
			UserID:      user.ID,
			TxHash:      payment.TxHash,
			FromAddress: user.WalletAddress,
			ToAddress:   TreasuryAddress,
			AmountUSDC:  payment.AmountUSDC,
			ServiceType: payment.ServiceType,
			Status:      models.TxStatusPending,
		}
		if err := utils.DB.Create(&tx).Error; err != nil {
			log.Printf("Failed to save transaction record: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save transaction"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up transaction"})
		return
	}

	if err := utils.DB.Create(&payment).Error; err != nil {
		log.Printf("Failed to save %s record: %v", payment.ServiceType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
		return
	}

	metrics.PaymentsTotal.WithLabelValues(payment.ServiceType, payment.Status).Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"reference":   reference,
		"amount_usdc": payment.AmountUSDC,
		"message":     "Payment received. It will be fulfilled once the transfer is confirmed.",
	})
}
