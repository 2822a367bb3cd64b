package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

// TableService owns table occupancy state. Occupy and Release run
// against a caller-provided transaction handle so the order lifecycle
// can flip table state atomically with its own writes.
type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

func (ts *TableService) Get(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := ts.DB.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("table %d not found", tableID)
		}
		return nil, utils.TransactionError("failed to load table", err)
	}
	return &table, nil
}

// SetStatus is a thin mutator; status validity is the caller's contract.
func (ts *TableService) SetStatus(tableID uint, status string) (*models.Table, error) {
	table, err := ts.Get(tableID)
	if err != nil {
		return nil, err
	}

	table.Status = status
	if err := ts.DB.Save(table).Error; err != nil {
		return nil, utils.TransactionError("failed to update table status", err)
	}
	return table, nil
}

// Occupy claims an available table with a conditional update. Checking
// the affected-row count makes the claim race-free: of two concurrent
// orders against the same table, exactly one wins.
func (ts *TableService) Occupy(tx *gorm.DB, tableID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableAvailable).
		Update("status", models.TableOccupied)
	if res.Error != nil {
		return utils.TransactionError("failed to claim table", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Table{}).Where("id = ?", tableID).Count(&count).Error; err != nil {
			return utils.TransactionError("failed to check table", err)
		}
		if count == 0 {
			return utils.NotFoundError("table %d not found", tableID)
		}
		return utils.ConflictError("table %d is not available", tableID)
	}
	return nil
}

// Release puts a table back to available. Releasing a table that is
// already available is a no-op: MySQL reports zero affected rows for an
// update that changes nothing, so a zero count only means a missing
// table after an existence check.
func (ts *TableService) Release(tx *gorm.DB, tableID uint) error {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND status <> ?", tableID, models.TableAvailable).
		Update("status", models.TableAvailable)
	if res.Error != nil {
		return utils.TransactionError("failed to release table", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Table{}).Where("id = ?", tableID).Count(&count).Error; err != nil {
			return utils.TransactionError("failed to check table", err)
		}
		if count == 0 {
			return utils.NotFoundError("table %d not found", tableID)
		}
	}
	return nil
}

// Delete refuses to drop a table that is currently seated.
func (ts *TableService) Delete(tableID uint) error {
	table, err := ts.Get(tableID)
	if err != nil {
		return err
	}
	if table.Status == models.TableOccupied {
		return utils.ConflictError("table %d is occupied and cannot be deleted", tableID)
	}
	if err := ts.DB.Delete(table).Error; err != nil {
		return utils.TransactionError("failed to delete table", err)
	}
	return nil
}

// ResetAll is the administrative escape hatch: every table back to
// available regardless of current state.
func (ts *TableService) ResetAll() (int64, error) {
	res := ts.DB.Model(&models.Table{}).
		Where("status <> ?", models.TableAvailable).
		Update("status", models.TableAvailable)
	if res.Error != nil {
		return 0, utils.TransactionError("failed to reset tables", res.Error)
	}
	return res.RowsAffected, nil
}
