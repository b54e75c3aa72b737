package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
)

type ResetPinInput struct {
	Pin string `json:"pin" binding:"required"`
}

type customerView struct {
	models.Profile
	Tier       string `json:"tier"`
	Registered bool   `json:"registered"`
}

// GetCustomers lists profiles for the admin, optionally filtered by ?q= on
// name or phone.
func GetCustomers(c *gin.Context) {
	q := config.DB.Order("points DESC")
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		like := "%" + term + "%"
		q = q.Where("full_name ILIKE ? OR phone LIKE ?", like, like)
	}
	limit := 200
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 1000 {
		limit = l
	}

	var profiles []models.Profile
	if err := q.Limit(limit).Find(&profiles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	out := make([]customerView, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, customerView{Profile: p, Tier: services.TierFor(p.Points).Name, Registered: p.HasPin()})
	}
	c.JSON(http.StatusOK, out)
}

// ResetCustomerPin sets a new PIN for a customer who forgot theirs.
func ResetCustomerPin(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var input ResetPinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if !utils.ValidatePin(input.Pin) {
		utils.RespondWithError(c, http.StatusBadRequest, "PIN must be 4 digits")
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	hash, err := utils.HashPin(input.Pin)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to secure PIN")
		return
	}
	if err := config.DB.Model(&profile).Update("pin_hash", hash).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reset PIN")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PIN reset"})
}
