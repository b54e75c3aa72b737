package controllers

import (
	"errors"
	"net/http"
	"strings"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PromoImageInput struct {
	ImagePrompt string `json:"image_prompt" binding:"required"`
}

func aiAvailable(c *gin.Context) bool {
	if deps.AI == nil {
		respondServiceError(c, services.ErrAIDisabled)
		return false
	}
	return true
}

// respondAIError passes the upstream message through; AI failures never
// affect anything else.
func respondAIError(c *gin.Context, err error) {
	config.Log.Warn("ai request failed", zap.String("path", c.FullPath()), zap.Error(err))
	if errors.Is(err, services.ErrImageStoreDisabled) {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithError(c, http.StatusBadGateway, err.Error())
}

// EditImage applies a text instruction to an uploaded picture and stores
// the result.
func EditImage(c *gin.Context) {
	if !aiAvailable(c) {
		return
	}
	instruction := strings.TrimSpace(c.PostForm("instruction"))
	if instruction == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Instruction is required")
		return
	}
	data, contentType, ok := readUploadedImage(c)
	if !ok {
		return
	}

	img, err := deps.AI.EditImage(c.Request.Context(), data, contentType, instruction)
	if err != nil {
		respondAIError(c, err)
		return
	}
	url, err := storeGenerated(c, "ai", img)
	if err != nil {
		respondAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

// SuggestPromo asks the model for an offer based on the current figures.
func SuggestPromo(c *gin.Context) {
	if !aiAvailable(c) {
		return
	}
	var orders []models.Order
	if err := config.DB.Preload("Items").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	suggestion, err := deps.AI.SuggestPromo(c.Request.Context(), services.ComputeStats(orders, config.Now()))
	if err != nil {
		respondAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// GeneratePromoImage renders a banner and returns its stored URL.
func GeneratePromoImage(c *gin.Context) {
	if !aiAvailable(c) {
		return
	}
	var input PromoImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	img, err := deps.AI.GeneratePromoImage(c.Request.Context(), input.ImagePrompt)
	if err != nil {
		respondAIError(c, err)
		return
	}
	url, err := storeGenerated(c, "promos", img)
	if err != nil {
		respondAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func storeGenerated(c *gin.Context, folder string, img services.GeneratedImage) (string, error) {
	if deps.Images == nil {
		return "", services.ErrImageStoreDisabled
	}
	contentType := img.MIMEType
	if !services.AllowedImageType(contentType) {
		contentType = http.DetectContentType(img.Data)
	}
	return deps.Images.Put(c.Request.Context(), folder, contentType, img.Data)
}
