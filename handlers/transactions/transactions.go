package transactions

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/utils"
)

type recordRequest struct {
	TxHash      string  `json:"tx_hash"`
	ToAddress   string  `json:"to_address"`
	AmountUSDC  float64 `json:"amount_usdc"`
	ServiceType string  `json:"service_type"`
}

// RecordTransaction saves an on-chain USDC transfer intent as pending. The
// transaction webhook later confirms or fails it.
func RecordTransaction(c *gin.Context) {
	var req recordRequest
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

	if !strings.HasPrefix(req.TxHash, "0x") || req.ToAddress == "" || req.AmountUSDC <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction hash, recipient and a positive amount are required."})
		return
	}

	tx := models.Transaction{
		UserID:      user.ID,
		TxHash:      req.TxHash,
		FromAddress: user.WalletAddress,
		ToAddress:   strings.ToLower(req.ToAddress),
		AmountUSDC:  req.AmountUSDC,
		ServiceType: req.ServiceType,
		Status:      models.TxStatusPending,
	}

	if err := utils.DB.Create(&tx).Error; err != nil {
		log.Printf("Failed to save transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": tx})
}

// GetTransactions lists the user's on-chain transactions, newest first.
func GetTransactions(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	var txs []models.Transaction
	if err := utils.DB.Where("user_id = ?", user.ID).Order("created_at desc").Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
