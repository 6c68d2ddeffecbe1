package transactions

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Edcode-bot/MiniSente/metrics"
	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/utils"
)

type transactionCallback struct {
	TxHash string `json:"tx_hash"`
	Status string `json:"status"`
}

// TransactionWebhook updates an on-chain transaction record from the chain
// watcher callback, authenticated with a shared secret header. Confirming a
// treasury transfer also completes the utility payment it settles.
func TransactionWebhook(c *gin.Context) {
	secret := os.Getenv("WEBHOOK_SECRET")
	header := c.GetHeader("X-Webhook-Secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(header), []byte(secret)) != 1 {
		metrics.WebhooksTotal.WithLabelValues("transaction", "rejected").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook secret"})
		return
	}

	var callback transactionCallback
	if err := c.ShouldBindJSON(&callback); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	if callback.Status != models.TxStatusConfirmed && callback.Status != models.TxStatusFailed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be confirmed or failed"})
		return
	}

	var tx models.Transaction
	if err := utils.DB.Where("tx_hash = ?", callback.TxHash).First(&tx).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown transaction hash"})
		return
	}

	if err := utils.DB.Model(&tx).Update("status", callback.Status).Error; err != nil {
		log.Printf("Failed to update transaction %s: %v", callback.TxHash, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}

	metrics.WebhooksTotal.WithLabelValues("transaction", callback.Status).Inc()

	settleLinkedPayment(callback.TxHash, callback.Status)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// settleLinkedPayment resolves the utility payment settled by the transfer,
// issuing the electricity token or school receipt on confirmation.
func settleLinkedPayment(txHash, txStatus string) {
	var payment models.Payment
	if err := utils.DB.Where("tx_hash = ? AND status = ?", txHash, models.PaymentStatusPending).First(&payment).Error; err != nil {
		return // no pending utility payment rides on this transfer
	}

	if txStatus == models.TxStatusFailed {
		if err := utils.DB.Model(&payment).Updates(map[string]interface{}{
			"status":        models.PaymentStatusFailed,
			"error_message": "On-chain transfer failed",
		}).Error; err != nil {
			log.Printf("Failed to fail payment for tx %s: %v", txHash, err)
			return
		}
		metrics.PaymentsTotal.WithLabelValues(payment.ServiceType, models.PaymentStatusFailed).Inc()
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.PaymentStatusCompleted,
		"completed_at": &now,
	}

	switch payment.ServiceType {
	case models.ServiceElectricity:
		updates["token"] = utils.NewElectricityToken()
	case models.ServiceSchoolFees:
		updates["receipt_number"] = utils.NewReceiptNumber()
	}

	if err := utils.DB.Model(&payment).Updates(updates).Error; err != nil {
		log.Printf("Failed to complete payment for tx %s: %v", txHash, err)
		return
	}

	metrics.PaymentsTotal.WithLabelValues(payment.ServiceType, models.PaymentStatusCompleted).Inc()
}
