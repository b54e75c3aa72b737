package controllers

import (
	"net/http"
	"strings"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreatePromoInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
}

type UpdatePromoInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

func GetActivePromos(c *gin.Context) {
	var promos []models.Promo
	if err := config.DB.Where("is_active = ?", true).Order("created_at DESC").Find(&promos).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve promos")
		return
	}
	c.JSON(http.StatusOK, promos)
}

func GetAllPromos(c *gin.Context) {
	var promos []models.Promo
	if err := config.DB.Order("created_at DESC").Find(&promos).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve promos")
		return
	}
	c.JSON(http.StatusOK, promos)
}

func CreatePromo(c *gin.Context) {
	var input CreatePromoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	promo := models.Promo{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if err := config.DB.Create(&promo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create promo")
		return
	}
	if input.IsActive != nil && !*input.IsActive {
		promo.IsActive = false
		config.DB.Model(&promo).Update("is_active", false)
	}
	c.JSON(http.StatusCreated, promo)
}

func UpdatePromo(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var input UpdatePromoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var promo models.Promo
	if err := config.DB.First(&promo, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := config.DB.Model(&promo).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update promo")
		return
	}
	c.JSON(http.StatusOK, promo)
}

func DeletePromo(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	result := config.DB.Delete(&models.Promo{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete promo")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Promo not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promo deleted"})
}

func UploadPromoImage(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var promo models.Promo
	if err := config.DB.First(&promo, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	url, ok := storeUploadedImage(c, "promos")
	if !ok {
		return
	}
	if err := config.DB.Model(&promo).Update("image_url", url).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update promo")
		return
	}
	c.JSON(http.StatusOK, promo)
}
