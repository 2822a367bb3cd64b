package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

func setupTableTestDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
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

func TestTableSetStatusAndGet(t *testing.T) {
	db := setupTableTestDB(t)
	ts := NewTableService(db)

	table := models.Table{Number: "A1", Capacity: 2, Status: models.TableAvailable}
	assert.NoError(t, db.Create(&table).Error)

	updated, err := ts.SetStatus(table.ID, models.TableReserved)
	assert.NoError(t, err)
	assert.Equal(t, models.TableReserved, updated.Status)

	got, err := ts.Get(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TableReserved, got.Status)

	_, err = ts.Get(9999)
	assertKind(t, err, utils.KindNotFound)

	_, err = ts.SetStatus(9999, models.TableAvailable)
	assertKind(t, err, utils.KindNotFound)
}

func TestTableOccupyIsConditional(t *testing.T) {
	db := setupTableTestDB(t)
	ts := NewTableService(db)

	table := models.Table{Number: "B2", Capacity: 4, Status: models.TableAvailable}
	assert.NoError(t, db.Create(&table).Error)

	assert.NoError(t, ts.Occupy(db, table.ID))

	// Already occupied: the second claim loses.
	assertKind(t, ts.Occupy(db, table.ID), utils.KindConflict)

	// Reserved tables cannot be claimed either.
	_, err := ts.SetStatus(table.ID, models.TableReserved)
	assert.NoError(t, err)
	assertKind(t, ts.Occupy(db, table.ID), utils.KindConflict)

	assertKind(t, ts.Occupy(db, 9999), utils.KindNotFound)
}

func TestTableRelease(t *testing.T) {
	db := setupTableTestDB(t)
	ts := NewTableService(db)

	table := models.Table{Number: "C3", Capacity: 4, Status: models.TableOccupied}
	assert.NoError(t, db.Create(&table).Error)

	assert.NoError(t, ts.Release(db, table.ID))
	got, err := ts.Get(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TableAvailable, got.Status)

	// Releasing an already-available table is a no-op, not an error: the
	// conditional update touches zero rows, exactly like a production
	// driver that reports zero rows for a value-preserving update.
	assert.NoError(t, ts.Release(db, table.ID))
	got, err = ts.Get(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TableAvailable, got.Status)

	assertKind(t, ts.Release(db, 9999), utils.KindNotFound)
}

func TestTableDeleteGuardsOccupied(t *testing.T) {
	db := setupTableTestDB(t)
	ts := NewTableService(db)

	occupied := models.Table{Number: "D4", Capacity: 4, Status: models.TableOccupied}
	assert.NoError(t, db.Create(&occupied).Error)
	free := models.Table{Number: "D5", Capacity: 2, Status: models.TableAvailable}
	assert.NoError(t, db.Create(&free).Error)

	assertKind(t, ts.Delete(occupied.ID), utils.KindConflict)
	assert.NoError(t, ts.Delete(free.ID))
	assertKind(t, ts.Delete(9999), utils.KindNotFound)
}

func TestTableResetAll(t *testing.T) {
	db := setupTableTestDB(t)
	ts := NewTableService(db)

	assert.NoError(t, db.Create(&models.Table{Number: "E1", Capacity: 2, Status: models.TableOccupied}).Error)
	assert.NoError(t, db.Create(&models.Table{Number: "E2", Capacity: 2, Status: models.TableReserved}).Error)
	assert.NoError(t, db.Create(&models.Table{Number: "E3", Capacity: 2, Status: models.TableAvailable}).Error)

	affected, err := ts.ResetAll()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	var occupied int64
	assert.NoError(t, db.Model(&models.Table{}).
		Where("status <> ?", models.TableAvailable).Count(&occupied).Error)
	assert.Equal(t, int64(0), occupied)
}
