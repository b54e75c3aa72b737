package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"
	"donlouis-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxImageBytes = 5 << 20

type CategoryInput struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type CreateMenuItemInput struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Price       float64   `json:"price" binding:"min=0"`
	IsAvailable *bool     `json:"is_available"`
	ImageURL    string    `json:"image_url"`
}

type UpdateMenuItemInput struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price" binding:"omitempty,min=0"`
	IsAvailable *bool      `json:"is_available"`
	ImageURL    *string    `json:"image_url"`
}

func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Order("sort_order ASC").Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetMenu returns categories with their items. Customers only see available
// items; admins pass ?all=true.
func GetMenu(c *gin.Context) {
	showAll := c.Query("all") == "true" && utils.IsAdmin(c)

	var categories []models.Category
	err := config.DB.Order("sort_order ASC").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			if !showAll {
				db = db.Where("is_available = ?", true)
			}
			return db.Order("name ASC")
		}).
		Find(&categories).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve menu")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	category := models.Category{Name: strings.TrimSpace(input.Name), SortOrder: input.SortOrder}
	if err := config.DB.Create(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func UpdateCategory(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var category models.Category
	if err := config.DB.First(&category, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	category.Name = strings.TrimSpace(input.Name)
	category.SortOrder = input.SortOrder
	if err := config.DB.Save(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory refuses while items still reference the category.
func DeleteCategory(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var count int64
	if err := config.DB.Model(&models.MenuItem{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Category still has menu items")
		return
	}
	result := config.DB.Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func CreateMenuItem(c *gin.Context) {
	var input CreateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var category models.Category
	if err := config.DB.First(&category, "id = ?", input.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	item := models.MenuItem{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       services.RoundCents(input.Price),
		IsAvailable: true,
		ImageURL:    input.ImageURL,
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create menu item")
		return
	}
	// is_available has a column default, so false must be written explicitly.
	if !item.IsAvailable {
		config.DB.Model(&item).Update("is_available", false)
	}
	c.JSON(http.StatusCreated, item)
}

func UpdateMenuItem(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var input UpdateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item models.MenuItem
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = services.RoundCents(*input.Price)
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}

	if err := config.DB.Model(&item).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update menu item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func DeleteMenuItem(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	result := config.DB.Delete(&models.MenuItem{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete menu item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Menu item not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

func UploadMenuItemImage(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var item models.MenuItem
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	url, ok := storeUploadedImage(c, "menu")
	if !ok {
		return
	}
	if err := config.DB.Model(&item).Update("image_url", url).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update menu item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// storeUploadedImage reads the multipart "image" field and puts it in the
// image store under folder.
func storeUploadedImage(c *gin.Context, folder string) (string, bool) {
	if deps.Images == nil {
		respondServiceError(c, services.ErrImageStoreDisabled)
		return "", false
	}
	data, contentType, ok := readUploadedImage(c)
	if !ok {
		return "", false
	}
	url, err := deps.Images.Put(c.Request.Context(), folder, contentType, data)
	if err != nil {
		respondServiceError(c, err)
		return "", false
	}
	return url, true
}

func readUploadedImage(c *gin.Context) ([]byte, string, bool) {
	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Image file is required")
		return nil, "", false
	}
	if header.Size > maxImageBytes {
		utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "Image is too large")
		return nil, "", false
	}
	f, err := header.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Unreadable image")
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Unreadable image")
		return nil, "", false
	}
	contentType := http.DetectContentType(data)
	if !services.AllowedImageType(contentType) {
		utils.RespondWithError(c, http.StatusUnsupportedMediaType, "Unsupported image type")
		return nil, "", false
	}
	return data, contentType, true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
