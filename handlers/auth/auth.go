package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/utils"
	"github.com/Edcode-bot/MiniSente/validation"
)

// Register creates a MiniSente account for a connected wallet.
func Register(c *gin.Context) {
	var input struct {
		WalletAddress string `json:"wallet_address"`
		Email         string `json:"email"`
		PhoneNumber   string `json:"phone_number"`
		Password      string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data."})
		return
	}

	if input.WalletAddress == "" || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet address, email and password are required."})
		return
	}

	if input.PhoneNumber != "" {
		if err := validation.ValidatePhone(input.PhoneNumber); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.PhoneNumber = validation.FormatPhone(input.PhoneNumber)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		WalletAddress: strings.ToLower(input.WalletAddress),
		Email:         input.Email,
		PhoneNumber:   input.PhoneNumber,
		Password:      string(hashedPassword),
	}

	if err := utils.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this wallet or email already exists."})
		return
	}

	token, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration successful.",
		"token":   token,
		"user": gin.H{
			"id":             user.ID,
			"wallet_address": user.WalletAddress,
			"email":          user.Email,
		},
	})
}

// Login authenticates with email and password
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please provide a valid email and password."})
		return
	}

	var user models.User
	if err := utils.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	token, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful.",
		"token":   token,
		"user": gin.H{
			"id":             user.ID,
			"wallet_address": user.WalletAddress,
			"email":          user.Email,
			"phone_number":   user.PhoneNumber,
		},
	})
}
