package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

type TaxController struct {
	DB *gorm.DB
}

func NewTaxController(db *gorm.DB) *TaxController {
	return &TaxController{DB: db}
}

// GetAllTaxes -> active tax rules, in application order
func (txc *TaxController) GetAllTaxes(c *gin.Context) {
	var taxes []models.Tax
	if err := txc.DB.Order("id asc").Find(&taxes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of taxes", taxes)
}

// CreateTax
func (txc *TaxController) CreateTax(c *gin.Context) {
	var body struct {
		Name       string  `json:"name" binding:"required"`
		Percentage float64 `json:"percentage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Percentage < 0 {
		utils.RespondAppError(c, utils.ValidationError("percentage must not be negative"))
		return
	}

	tax := models.Tax{Name: body.Name, Percentage: body.Percentage}
	if err := txc.DB.Create(&tax).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Tax created", tax)
}

// UpdateTax
func (txc *TaxController) UpdateTax(c *gin.Context) {
	id, ok := paramID(c, "tax_id")
	if !ok {
		return
	}

	var body struct {
		Name       *string  `json:"name"`
		Percentage *float64 `json:"percentage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var tax models.Tax
	if err := txc.DB.First(&tax, id).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundError("tax %d not found", id))
		return
	}

	if body.Name != nil {
		tax.Name = *body.Name
	}
	if body.Percentage != nil {
		if *body.Percentage < 0 {
			utils.RespondAppError(c, utils.ValidationError("percentage must not be negative"))
			return
		}
		tax.Percentage = *body.Percentage
	}

	if err := txc.DB.Save(&tax).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tax updated", tax)
}

// DeleteTax
func (txc *TaxController) DeleteTax(c *gin.Context) {
	id, ok := paramID(c, "tax_id")
	if !ok {
		return
	}

	var tax models.Tax
	if err := txc.DB.First(&tax, id).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundError("tax %d not found", id))
		return
	}

	if err := txc.DB.Delete(&tax).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tax deleted", gin.H{"id": id})
}
