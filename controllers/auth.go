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
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SignupInput struct {
	Phone        string `json:"phone" binding:"required"`
	FullName     string `json:"full_name" binding:"required"`
	Pin          string `json:"pin" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	ReferralCode string `json:"referral_code"`
}

type LoginInput struct {
	Phone string `json:"phone" binding:"required"`
	Pin   string `json:"pin" binding:"required"`
}

type AdminLoginInput struct {
	Pin string `json:"pin" binding:"required"`
}

type UpdateProfileInput struct {
	FullName  *string `json:"full_name"`
	Pin       *string `json:"pin"`
	Email     *string `json:"email" binding:"omitempty,email"`
	AvatarURL *string `json:"avatar_url"`
}

func sessionResponse(token string, p models.Profile) gin.H {
	return gin.H{
		"token":   token,
		"profile": p,
		"loyalty": services.Summarize(&p),
	}
}

// Signup creates a customer profile. A PIN-less profile left behind by guest
// checkout is claimed, keeping its points.
func Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	phone := utils.NormalizePhone(input.Phone)
	if !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	if !utils.ValidatePin(input.Pin) {
		utils.RespondWithError(c, http.StatusBadRequest, "PIN must be 4 digits")
		return
	}

	pinHash, err := utils.HashPin(input.Pin)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to secure PIN")
		return
	}

	var profile models.Profile
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("phone = ?", phone).First(&profile).Error
		switch {
		case err == nil && profile.HasPin():
			return errPhoneTaken
		case err == nil:
			profile.FullName = strings.TrimSpace(input.FullName)
			profile.PinHash = pinHash
			profile.Email = input.Email
			if err := tx.Save(&profile).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile = models.Profile{
				Phone:    phone,
				FullName: strings.TrimSpace(input.FullName),
				PinHash:  pinHash,
				Email:    input.Email,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		default:
			return err
		}

		code := utils.NormalizePhone(input.ReferralCode)
		if !services.ShouldApplyReferral(code, phone) {
			return nil
		}
		var referrer models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("phone = ?", code).First(&referrer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Unknown codes are ignored; signup still succeeds.
				return nil
			}
			return err
		}
		services.ApplyReferral(&referrer)
		return tx.Model(&referrer).Select("active_reward", "referral_count").Updates(&referrer).Error
	})
	if errors.Is(err, errPhoneTaken) {
		utils.RespondWithError(c, http.StatusConflict, "Phone already registered")
		return
	}
	if err != nil {
		config.Log.Error("signup failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	token, err := utils.GenerateToken(profile.Phone, utils.RoleCustomer)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(token, profile))
}

var errPhoneTaken = errors.New("phone already registered")

// LoginKey buckets login attempts by client IP and the phone being tried.
// The body is cached so Login can bind it again.
func LoginKey(c *gin.Context) string {
	var input struct {
		Phone string `json:"phone"`
	}
	_ = c.ShouldBindBodyWith(&input, binding.JSON)
	return c.ClientIP() + "|" + utils.NormalizePhone(input.Phone)
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var profile models.Profile
	if err := config.DB.Where("phone = ?", utils.NormalizePhone(input.Phone)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPinHash(input.Pin, profile.PinHash) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(profile.Phone, utils.RoleCustomer)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, sessionResponse(token, profile))
}

// AdminLogin checks the PIN against the configured hash. The route is rate
// limited per client IP.
func AdminLogin(c *gin.Context) {
	var input AdminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if config.App.AdminPinHash == "" {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Admin access is not configured")
		return
	}
	if !utils.CheckPinHash(input.Pin, config.App.AdminPinHash) {
		config.Log.Warn("admin login rejected", zap.String("ip", c.ClientIP()))
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(utils.RoleAdmin, utils.RoleAdmin)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": utils.RoleAdmin})
}

// currentProfile loads the signed-in customer or writes the error response.
func currentProfile(c *gin.Context) (models.Profile, bool) {
	var profile models.Profile
	phone, ok := utils.CurrentCustomer(c)
	if !ok {
		utils.RespondWithError(c, http.StatusForbidden, "Customer session required")
		return profile, false
	}
	if err := config.DB.Where("phone = ?", phone).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Profile not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return profile, false
	}
	return profile, true
}

func Me(c *gin.Context) {
	if utils.IsAdmin(c) {
		c.JSON(http.StatusOK, gin.H{"role": utils.RoleAdmin})
		return
	}
	profile, ok := currentProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":    utils.RoleCustomer,
		"profile": profile,
		"loyalty": services.Summarize(&profile),
	})
}

func UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	profile, ok := currentProfile(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		updates["full_name"] = name
	}
	if input.Pin != nil {
		if !utils.ValidatePin(*input.Pin) {
			utils.RespondWithError(c, http.StatusBadRequest, "PIN must be 4 digits")
			return
		}
		hash, err := utils.HashPin(*input.Pin)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to secure PIN")
			return
		}
		updates["pin_hash"] = hash
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, profile)
		return
	}

	if err := config.DB.Model(&profile).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
