package payments

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edcode-bot/MiniSente/metrics"
	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/utils"
)

// SendReceipt delivers the deposit confirmation email. Tests swap it out.
var SendReceipt = utils.SendDepositReceipt

type flutterwaveCallback struct {
	TxRef         string `json:"txRef"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// FlutterwaveWebhook reconciles a payment record from a provider callback.
// The callback is authenticated with the verif-hash header and the reported
// status is re-verified against the Flutterwave API before being trusted.
func FlutterwaveWebhook(c *gin.Context) {
	if !Client.VerifyWebhookSignature(c.GetHeader("verif-hash")) {
		metrics.WebhooksTotal.WithLabelValues("flutterwave", "rejected").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var callback flutterwaveCallback
	if err := c.ShouldBindJSON(&callback); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	var payment models.Payment
	if err := utils.DB.Where("provider_reference = ?", callback.TxRef).First(&payment).Error; err != nil {
		log.Printf("Webhook for unknown reference %s", callback.TxRef)
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown payment reference"})
		return
	}

	verified, err := Client.VerifyTransaction(callback.TransactionID)
	if err != nil {
		log.Printf("Failed to verify transaction %s: %v", callback.TransactionID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Verification failed"})
		return
	}

	if verified {
		if err := markCompleted(&payment); err != nil {
			log.Printf("Failed to complete payment %s: %v", callback.TxRef, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
			return
		}
		metrics.WebhooksTotal.WithLabelValues("flutterwave", "completed").Inc()
		metrics.PaymentsTotal.WithLabelValues(payment.ServiceType, models.PaymentStatusCompleted).Inc()
		sendReceipt(payment)
	} else {
		if err := markFailed(&payment, "Payment verification failed"); err != nil {
			log.Printf("Failed to mark payment %s failed: %v", callback.TxRef, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
			return
		}
		metrics.WebhooksTotal.WithLabelValues("flutterwave", "failed").Inc()
		metrics.PaymentsTotal.WithLabelValues(payment.ServiceType, models.PaymentStatusFailed).Inc()
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func sendReceipt(payment models.Payment) {
	if payment.ServiceType != models.ServiceMobileMoneyDeposit {
		return
	}

	var user models.User
	if err := utils.DB.First(&user, payment.UserID).Error; err != nil {
		log.Printf("Failed to find user %d for receipt: %v", payment.UserID, err)
		return
	}

	if user.Email != "" {
		SendReceipt(user.Email, payment.AmountUGX, payment.ProviderReference)
	}
}
