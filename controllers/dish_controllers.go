package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

type DishController struct {
	DB *gorm.DB
}

func NewDishController(db *gorm.DB) *DishController {
	return &DishController{DB: db}
}

// GetAllDishes -> dishes with their category
func (dc *DishController) GetAllDishes(c *gin.Context) {
	var dishes []models.Dish
	if err := dc.DB.Preload("Category").Find(&dishes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

// GetDishByID
func (dc *DishController) GetDishByID(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	var dish models.Dish
	if err := dc.DB.Preload("Category").First(&dish, id).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundError("dish %d not found", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish detail", dish)
}

// CreateDish
func (dc *DishController) CreateDish(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required"`
		CategoryID  uint    `json:"category_id" binding:"required"`
		Available   *bool   `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price < 0 {
		utils.RespondAppError(c, utils.ValidationError("price must not be negative"))
		return
	}

	dish := models.Dish{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Available:   true,
	}
	if req.Available != nil {
		dish.Available = *req.Available
	}

	if err := dc.DB.Create(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

// UpdateDish
func (dc *DishController) UpdateDish(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundError("dish %d not found", id))
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		CategoryID  *uint    `json:"category_id"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondAppError(c, utils.ValidationError("price must not be negative"))
			return
		}
		dish.Price = *req.Price
	}
	if req.CategoryID != nil {
		dish.CategoryID = *req.CategoryID
	}
	if req.Available != nil {
		dish.Available = *req.Available
	}

	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

// ToggleAvailability -> flip the dish's available flag
func (dc *DishController) ToggleAvailability(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundError("dish %d not found", id))
		return
	}

	dish.Available = !dish.Available
	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish availability toggled", dish)
}

// DeleteDish
func (dc *DishController) DeleteDish(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundError("dish %d not found", id))
		return
	}

	if err := dc.DB.Delete(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish deleted", gin.H{"id": id})
}
