package controllers

import (
	"net/http"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSpinStatus tells the client whether the wheel is available today and
// which segments to draw.
func GetSpinStatus(c *gin.Context) {
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"can_spin":       services.CanSpin(profile.LastSpinDate, config.Now()),
		"last_spin_date": profile.LastSpinDate,
		"prizes":         deps.Wheel.Prizes(),
		"active_reward":  profile.ActiveReward,
	})
}

// Spin draws a prize server-side and stores it on the profile. The client
// animates to the returned rotation.
func Spin(c *gin.Context) {
	phone, ok := utils.CurrentCustomer(c)
	if !ok {
		utils.RespondWithError(c, http.StatusForbidden, "Customer session required")
		return
	}

	now := config.Now()
	var (
		profile models.Profile
		result  services.SpinResult
	)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("phone = ?", phone).First(&profile).Error; err != nil {
			return err
		}
		if !services.CanSpin(profile.LastSpinDate, now) {
			return services.ErrAlreadySpun
		}
		result = deps.Wheel.Spin()
		if err := services.ApplySpin(&profile, result, now); err != nil {
			return err
		}
		return tx.Model(&profile).Select("last_spin_date", "active_reward").Updates(&profile).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	config.Log.Info("wheel spun", zap.String("prize", result.Prize.ID), zap.Bool("won", result.Won))
	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"loyalty": services.Summarize(&profile),
	})
}
