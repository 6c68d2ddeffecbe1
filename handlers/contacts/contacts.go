package contacts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Edcode-bot/MiniSente/models"
	"github.com/Edcode-bot/MiniSente/utils"
	"github.com/Edcode-bot/MiniSente/validation"
)

func RegisterContactsRoutes(r *gin.RouterGroup) {
	r.GET("/contacts", GetContacts)
	r.POST("/contacts", AddContact)
	r.DELETE("/contacts/:id", DeleteContact)
}

// GetContacts lists the user's saved payment contacts.
func GetContacts(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	var contacts []models.Contact
	if err := utils.DB.Where("user_id = ?", user.ID).Order("name").Find(&contacts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// AddContact saves a payment contact for the user.
func AddContact(c *gin.Context) {
	var input struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phone_number"`
		Network     string `json:"network"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contact name is required."})
		return
	}
	if err := validation.ValidatePhone(input.PhoneNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Network != "" {
		if err := validation.ValidateNetwork(input.Network); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	contact := models.Contact{
		UserID:      user.ID,
		Name:        input.Name,
		PhoneNumber: validation.FormatPhone(input.PhoneNumber),
		Network:     input.Network,
	}

	if err := utils.DB.Create(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact saved successfully", "contact": contact})
}

// DeleteContact removes one of the user's contacts.
func DeleteContact(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	var contact models.Contact
	if err := utils.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&contact).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	if err := utils.DB.Delete(&contact).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}
