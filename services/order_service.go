package services

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

// OrderService is the transactional core of the POS: it creates orders
// together with their line items, keeps table occupancy in sync with
// order state, and reverses both on deletion. Every mutating operation
// is a single all-or-nothing transaction.
type OrderService struct {
	DB     *gorm.DB
	Tables *TableService
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db, Tables: NewTableService(db)}
}

type OrderItemInput struct {
	DishID   uint    `json:"dish_id" binding:"required"`
	Quantity int     `json:"quantity" binding:"required"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
}

type CreateOrderInput struct {
	TableID      *uint            `json:"table_id"`
	CustomerName string           `json:"customer_name" binding:"required"`
	OrderType    string           `json:"order_type" binding:"required"`
	Items        []OrderItemInput `json:"items"`
	TotalAmount  float64          `json:"total_amount"`
	CreatedBy    uint             `json:"-"`
}

func validateCreateOrder(in CreateOrderInput) error {
	if !models.ValidOrderType(in.OrderType) {
		return utils.ValidationError("order_type must be dine_in or takeaway")
	}
	if len(in.Items) == 0 {
		return utils.ValidationError("order must contain at least one item")
	}
	for i, item := range in.Items {
		if item.Quantity < 1 {
			return utils.ValidationError("item %d: quantity must be at least 1", i)
		}
		if item.Price < 0 {
			return utils.ValidationError("item %d: price must not be negative", i)
		}
	}
	if in.OrderType == models.OrderTypeDineIn && in.TableID == nil {
		return utils.ValidationError("dine_in order requires a table_id")
	}
	if in.OrderType == models.OrderTypeTakeaway && in.TableID != nil {
		return utils.ValidationError("takeaway order must not reference a table")
	}
	return nil
}

// Create validates the request, then inserts the order header and all
// line items and claims the table (dine-in) in one transaction. The
// stored total is recomputed from the items; a declared total that
// drifts from it is rejected before the transaction opens.
func (s *OrderService) Create(in CreateOrderInput) (*models.Order, error) {
	if err := validateCreateOrder(in); err != nil {
		return nil, err
	}

	var total float64
	for _, item := range in.Items {
		total += item.Price * float64(item.Quantity)
	}
	total = round2(total)

	if in.TotalAmount != 0 && math.Abs(in.TotalAmount-total) > 0.009 {
		return nil, utils.ValidationError("total_amount %.2f does not match item sum %.2f", in.TotalAmount, total)
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, utils.TransactionError("failed to begin transaction", tx.Error)
	}

	order := models.Order{
		TableID:      in.TableID,
		CustomerName: in.CustomerName,
		OrderType:    in.OrderType,
		Status:       models.OrderPending,
		TotalAmount:  total,
		CreatedBy:    in.CreatedBy,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, utils.TransactionError("failed to insert order", err)
	}

	// Line items are inserted one by one so input order is preserved.
	for _, item := range in.Items {
		var dish models.Dish
		if err := tx.First(&dish, item.DishID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFoundError("dish %d not found", item.DishID)
			}
			return nil, utils.TransactionError("failed to load dish", err)
		}

		orderItem := models.OrderItem{
			OrderID:  order.ID,
			DishID:   dish.ID,
			Quantity: item.Quantity,
			Price:    item.Price,
			Notes:    item.Notes,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, utils.TransactionError("failed to insert order item", err)
		}
	}

	if in.OrderType == models.OrderTypeDineIn && in.TableID != nil {
		if err := s.Tables.Occupy(tx, *in.TableID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.TransactionError("failed to commit order", err)
	}

	utils.InfoLogger.Printf("Order %d created (%s, %d items, total %.2f)",
		order.ID, order.OrderType, len(in.Items), order.TotalAmount)

	return s.Get(order.ID)
}

// UpdateStatus moves an order through its state machine. Reaching a
// terminal status releases the associated table in the same transaction.
func (s *OrderService) UpdateStatus(orderID uint, newStatus string) (int64, error) {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return 0, utils.TransactionError("failed to begin transaction", tx.Error)
	}

	affected, err := s.UpdateStatusTx(tx, orderID, newStatus)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, utils.TransactionError("failed to commit status update", err)
	}
	return affected, nil
}

// UpdateStatusTx is the transition core of UpdateStatus, running inside
// a caller-provided transaction so settlement can flip an order to
// completed atomically with its own writes.
func (s *OrderService) UpdateStatusTx(tx *gorm.DB, orderID uint, newStatus string) (int64, error) {
	if !models.ValidOrderStatus(newStatus) {
		return 0, utils.ValidationError("unknown order status %q", newStatus)
	}

	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.NotFoundError("order %d not found", orderID)
		}
		return 0, utils.TransactionError("failed to load order", err)
	}

	if !models.CanTransitionOrder(order.Status, newStatus) {
		return 0, utils.ValidationError("cannot transition order from %s to %s", order.Status, newStatus)
	}

	res := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("status", newStatus)
	if res.Error != nil {
		return 0, utils.TransactionError("failed to update order status", res.Error)
	}

	// Both terminal statuses free the table; a cancelled dine-in order
	// must not leave its table stuck occupied.
	if models.TerminalOrderStatus(newStatus) && order.TableID != nil {
		if err := s.Tables.Release(tx, *order.TableID); err != nil {
			return 0, err
		}
	}

	utils.InfoLogger.Printf("Order %d status %s -> %s", orderID, order.Status, newStatus)
	return res.RowsAffected, nil
}

// Delete removes the order and its line items and frees the table it
// referenced, all in one transaction.
func (s *OrderService) Delete(orderID uint) error {
	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundError("order %d not found", orderID)
		}
		return utils.TransactionError("failed to load order", err)
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return utils.TransactionError("failed to begin transaction", tx.Error)
	}

	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		return utils.TransactionError("failed to delete order items", err)
	}
	if err := tx.Where("order_id = ?", orderID).Delete(&models.Payment{}).Error; err != nil {
		tx.Rollback()
		return utils.TransactionError("failed to delete payments", err)
	}
	if err := tx.Delete(&models.Order{}, orderID).Error; err != nil {
		tx.Rollback()
		return utils.TransactionError("failed to delete order", err)
	}

	if order.TableID != nil {
		if err := s.Tables.Release(tx, *order.TableID); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return utils.TransactionError("failed to commit order deletion", err)
	}

	utils.InfoLogger.Printf("Order %d deleted", orderID)
	return nil
}

func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id asc")
	}).Preload("Items.Dish").
		Preload("Table").Preload("Creator").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("order %d not found", orderID)
		}
		return nil, utils.TransactionError("failed to load order", err)
	}
	return &order, nil
}

func (s *OrderService) List() ([]models.Order, error) {
	return s.list(s.DB)
}

// ListByTable returns the orders placed against one table, newest first.
func (s *OrderService) ListByTable(tableID uint) ([]models.Order, error) {
	if _, err := s.Tables.Get(tableID); err != nil {
		return nil, err
	}
	return s.list(s.DB.Where("table_id = ?", tableID))
}

func (s *OrderService) list(q *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	if err := q.Preload("Items").Preload("Items.Dish").
		Preload("Table").Preload("Creator").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, utils.TransactionError("failed to list orders", err)
	}
	return orders, nil
}
