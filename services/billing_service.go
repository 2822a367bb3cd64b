package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

type TaxLine struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

type BillSummary struct {
	Subtotal float64   `json:"subtotal"`
	TaxLines []TaxLine `json:"taxes"`
	Total    float64   `json:"total"`
}

type BillItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
	Notes    string  `json:"notes"`
}

// Bill is the derived, print-ready view of an order. It is rebuilt on
// every request and never persisted.
type Bill struct {
	OrderID      uint       `json:"orderId"`
	OrderType    string     `json:"orderType"`
	CustomerName string     `json:"customerName"`
	TableNumber  string     `json:"tableNumber"`
	Date         time.Time  `json:"date"`
	Items        []BillItem `json:"items"`
	Subtotal     float64    `json:"subtotal"`
	TaxLines     []TaxLine  `json:"taxes"`
	Total        float64    `json:"total"`
}

// round2 rounds to currency precision, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeBill applies every tax rule independently against the original
// subtotal (no compounding) and returns the per-tax breakdown plus the
// grand total. Pure; safe for concurrent use.
func ComputeBill(subtotal float64, taxes []models.Tax) (BillSummary, error) {
	if math.IsNaN(subtotal) || math.IsInf(subtotal, 0) || subtotal < 0 {
		return BillSummary{}, utils.ValidationError("subtotal must be a non-negative amount")
	}

	summary := BillSummary{
		Subtotal: round2(subtotal),
		TaxLines: make([]TaxLine, 0, len(taxes)),
	}

	total := summary.Subtotal
	for _, tax := range taxes {
		// subtotal*percentage is the amount in cents; rounding there
		// avoids losing the half-cent to an intermediate division.
		amount := math.Round(subtotal*tax.Percentage) / 100
		summary.TaxLines = append(summary.TaxLines, TaxLine{
			Name:       tax.Name,
			Percentage: tax.Percentage,
			Amount:     amount,
		})
		total += amount
	}
	summary.Total = round2(total)

	return summary, nil
}

type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db}
}

// FormatBill builds the bill for a persisted order from its line items
// and the currently active tax rules. The subtotal is recomputed from
// the items; a stored total that drifted from it is logged and the
// recomputed value wins.
func (bs *BillingService) FormatBill(orderID uint) (*Bill, error) {
	var order models.Order
	if err := bs.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id asc")
	}).Preload("Items.Dish").Preload("Table").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("order %d not found", orderID)
		}
		return nil, utils.TransactionError("failed to load order", err)
	}

	if len(order.Items) == 0 {
		return nil, utils.NotFoundError("order %d has no items", orderID)
	}

	var subtotal float64
	items := make([]BillItem, 0, len(order.Items))
	for _, item := range order.Items {
		lineSubtotal := round2(item.Price * float64(item.Quantity))
		subtotal += lineSubtotal
		items = append(items, BillItem{
			Name:     item.Dish.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: lineSubtotal,
			Notes:    item.Notes,
		})
	}
	subtotal = round2(subtotal)

	if math.Abs(subtotal-order.TotalAmount) > 0.009 {
		utils.ErrorLogger.Printf("order %d stored total %.2f drifted from item sum %.2f, using item sum",
			order.ID, order.TotalAmount, subtotal)
	}

	var taxes []models.Tax
	if err := bs.DB.Order("id asc").Find(&taxes).Error; err != nil {
		return nil, utils.TransactionError("failed to load tax rules", err)
	}

	summary, err := ComputeBill(subtotal, taxes)
	if err != nil {
		return nil, err
	}

	tableNumber := "N/A"
	if order.Table != nil {
		tableNumber = order.Table.Number
	}

	return &Bill{
		OrderID:      order.ID,
		OrderType:    order.OrderType,
		CustomerName: order.CustomerName,
		TableNumber:  tableNumber,
		Date:         order.CreatedAt,
		Items:        items,
		Subtotal:     summary.Subtotal,
		TaxLines:     summary.TaxLines,
		Total:        summary.Total,
	}, nil
}
