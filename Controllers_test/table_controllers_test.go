package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/controllers"
	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

func setupTestDBForTables(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/tables/:table_id", tableCtrl.GetTableByID)
	router.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	router.POST("/tables/reset", tableCtrl.ResetTables)
	return router
}

func TestGetAllTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	db.Create(&models.Table{Number: "A1", Capacity: 2, Status: models.TableAvailable})
	db.Create(&models.Table{Number: "B1", Capacity: 4, Status: models.TableOccupied})

	router := setupTableRouter(db)
	w := doJSON(t, router, "GET", "/tables", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "List of tables", resp["message"])
	data := resp["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestCreateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	router := setupTableRouter(db)

	w := doJSON(t, router, "POST", "/tables", map[string]interface{}{
		"number": "C1", "capacity": 6,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate table number -> 409.
	w = doJSON(t, router, "POST", "/tables", map[string]interface{}{
		"number": "C1", "capacity": 2,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Non-positive capacity -> 400.
	w = doJSON(t, router, "POST", "/tables", map[string]interface{}{
		"number": "C2", "capacity": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTableStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	table := models.Table{Number: "C1", Capacity: 2, Status: models.TableAvailable}
	db.Create(&table)

	router := setupTableRouter(db)
	url := fmt.Sprintf("/tables/%d/status", table.ID)

	w := doJSON(t, router, "PATCH", url, map[string]string{"status": "reserved"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "reserved", data["status"])

	// Unknown status value -> 400.
	w = doJSON(t, router, "PATCH", url, map[string]string{"status": "dirty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown table -> 404.
	w = doJSON(t, router, "PATCH", "/tables/9999/status", map[string]string{"status": "reserved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTableGuardsOccupied(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	occupied := models.Table{Number: "D1", Capacity: 4, Status: models.TableOccupied}
	db.Create(&occupied)

	router := setupTableRouter(db)

	w := doJSON(t, router, "DELETE", fmt.Sprintf("/tables/%d", occupied.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Release it, then deletion is allowed.
	db.Model(&occupied).Update("status", models.TableAvailable)
	w = doJSON(t, router, "DELETE", fmt.Sprintf("/tables/%d", occupied.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	db.Create(&models.Table{Number: "E1", Capacity: 2, Status: models.TableOccupied})
	db.Create(&models.Table{Number: "E2", Capacity: 2, Status: models.TableReserved})

	router := setupTableRouter(db)
	w := doJSON(t, router, "POST", "/tables/reset", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["affected_rows"])
}
