package controllers

import (
	"net/http"
	"strings"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddressInput struct {
	Label   string `json:"label" binding:"required"`
	Address string `json:"address" binding:"required"`
	ZoneID  string `json:"zone_id" binding:"required"`
}

func GetLoyalty(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, services.Summarize(&profile))
}

func GetAddresses(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	addrs := profile.SavedAddresses
	if addrs == nil {
		addrs = []models.SavedAddress{}
	}
	c.JSON(http.StatusOK, addrs)
}

// SaveAddress replaces an address with the same label or appends it.
func SaveAddress(c *gin.Context) {
	var input AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if _, ok := models.FindZone(input.ZoneID); !ok {
		respondServiceError(c, services.ErrUnknownZone)
		return
	}
	addr := models.SavedAddress{
		Label:   strings.TrimSpace(input.Label),
		Address: strings.TrimSpace(input.Address),
		ZoneID:  input.ZoneID,
	}

	profile, err := updateAddresses(c, func(list []models.SavedAddress) ([]models.SavedAddress, bool) {
		return services.UpsertAddress(list, addr), true
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile.SavedAddresses)
}

func DeleteAddress(c *gin.Context) {
	label := c.Param("label")
	var removed bool
	profile, err := updateAddresses(c, func(list []models.SavedAddress) ([]models.SavedAddress, bool) {
		var out []models.SavedAddress
		out, removed = services.RemoveAddress(list, label)
		return out, removed
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !removed {
		utils.RespondWithError(c, http.StatusNotFound, "Address not found")
		return
	}
	c.JSON(http.StatusOK, profile.SavedAddresses)
}

func updateAddresses(c *gin.Context, mutate func([]models.SavedAddress) ([]models.SavedAddress, bool)) (models.Profile, error) {
	var profile models.Profile
	phone, ok := utils.CurrentCustomer(c)
	if !ok {
		return profile, gorm.ErrRecordNotFound
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("phone = ?", phone).First(&profile).Error; err != nil {
			return err
		}
		list, changed := mutate(profile.SavedAddresses)
		if !changed {
			return nil
		}
		profile.SavedAddresses = list
		return tx.Model(&profile).Select("saved_addresses").Updates(&profile).Error
	})
	return profile, err
}
