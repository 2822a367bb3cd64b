package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/services"
	"github.com/dragonpos/restaurant-pos/utils"
)

type TableController struct {
	DB     *gorm.DB
	Tables *services.TableService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db, Tables: services.NewTableService(db)}
}

// CreateTable -> add a new table
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number   string `json:"number" binding:"required"`
		Capacity int    `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity <= 0 {
		utils.RespondAppError(c, utils.ValidationError("capacity must be greater than 0"))
		return
	}

	var count int64
	if err := tc.DB.Model(&models.Table{}).Where("number = ?", req.Number).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondAppError(c, utils.ConflictError("table number %s already exists", req.Number))
		return
	}

	table := models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Status:   models.TableAvailable,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.Number, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> list every table
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("number").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> one table
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	table, err := tc.Tables.Get(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> administrative status override
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidTableStatus(body.Status) {
		utils.RespondAppError(c, utils.ValidationError("unknown table status %q", body.Status))
		return
	}

	table, err := tc.Tables.SetStatus(id, body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d status changed to %s", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// DeleteTable -> remove a table unless it is occupied
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	if err := tc.Tables.Delete(id); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}

// ResetTables -> put every table back to available
func (tc *TableController) ResetTables(c *gin.Context) {
	affected, err := tc.Tables.ResetAll()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All tables reset to available", gin.H{
		"affected_rows": affected,
	})
}

// FindTablesByStatus -> e.g. list available tables
func (tc *TableController) FindTablesByStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		status = models.TableAvailable
	}
	var tables []models.Table
	if err := tc.DB.Where("status = ?", status).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables with status: "+status, tables)
}
