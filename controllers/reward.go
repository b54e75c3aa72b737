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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardInput struct {
	Title          string           `json:"title" binding:"required"`
	PointsCost     int              `json:"points_cost" binding:"required,min=1"`
	GrantType      models.GrantType `json:"grant_type" binding:"required"`
	Value          float64          `json:"value"`
	TargetItemName string           `json:"target_item_name"`
}

func (in RewardInput) toModel() models.Reward {
	return models.Reward{
		Title:          strings.TrimSpace(in.Title),
		PointsCost:     in.PointsCost,
		GrantType:      in.GrantType,
		Value:          in.Value,
		TargetItemName: strings.TrimSpace(in.TargetItemName),
	}
}

func GetRewards(c *gin.Context) {
	var rewards []models.Reward
	if err := config.DB.Order("points_cost ASC").Find(&rewards).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve rewards")
		return
	}
	c.JSON(http.StatusOK, rewards)
}

func CreateReward(c *gin.Context) {
	var input RewardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	reward := input.toModel()
	if err := services.ValidateReward(reward); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := config.DB.Create(&reward).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create reward")
		return
	}
	c.JSON(http.StatusCreated, reward)
}

func UpdateReward(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var input RewardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var reward models.Reward
	if err := config.DB.First(&reward, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	updated := input.toModel()
	updated.ID = reward.ID
	updated.CreatedAt = reward.CreatedAt
	if err := services.ValidateReward(updated); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := config.DB.Save(&updated).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update reward")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func DeleteReward(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	result := config.DB.Delete(&models.Reward{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete reward")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Reward not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reward deleted"})
}

// ClaimReward spends points on a reward; the grant replaces whatever sat in
// the active reward slot.
func ClaimReward(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	phone, ok := utils.CurrentCustomer(c)
	if !ok {
		utils.RespondWithError(c, http.StatusForbidden, "Customer session required")
		return
	}

	var profile models.Profile
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.First(&reward, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("phone = ?", phone).First(&profile).Error; err != nil {
			return err
		}
		if err := services.ClaimReward(&profile, reward); err != nil {
			return err
		}
		return tx.Model(&profile).Select("points", "active_reward").Updates(&profile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Reward not found")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.Summarize(&profile))
}
