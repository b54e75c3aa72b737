package controllers

import (
	"net/http"
	"strings"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

const (
	SettingLogoURL     = "logo_url"
	SettingLogoDarkURL = "logo_dark_url"
)

type SettingInput struct {
	Value string `json:"value"`
}

func GetSettings(c *gin.Context) {
	var settings []models.AppSetting
	if err := config.DB.Find(&settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve settings")
		return
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, out)
}

func saveSetting(key, value string) error {
	return config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.AppSetting{Key: key, Value: value}).Error
}

func UpdateSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Setting key is required")
		return
	}
	var input SettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := saveSetting(key, input.Value); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save setting")
		return
	}
	c.JSON(http.StatusOK, gin.H{key: input.Value})
}

// UploadLogo stores the image and points ?variant=dark or the default logo
// setting at it.
func UploadLogo(c *gin.Context) {
	key := SettingLogoURL
	if c.Query("variant") == "dark" {
		key = SettingLogoDarkURL
	}
	url, ok := storeUploadedImage(c, "branding")
	if !ok {
		return
	}
	if err := saveSetting(key, url); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save setting")
		return
	}
	c.JSON(http.StatusOK, gin.H{key: url})
}
