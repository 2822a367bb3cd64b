package services

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

// PaymentService records settlements. Recording a payment completes the
// order through its state machine, so the status flip and the table
// release share the payment's transaction.
type PaymentService struct {
	DB     *gorm.DB
	Orders *OrderService
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db, Orders: NewOrderService(db)}
}

type RecordPaymentInput struct {
	OrderID       uint    `json:"order_id" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

// Record validates the settlement against the order, then inserts the
// payment row and completes the order in one transaction. A zero amount
// defaults to the order total; a non-zero amount must match it.
func (ps *PaymentService) Record(in RecordPaymentInput) (*models.Payment, error) {
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, utils.ValidationError("unknown payment method %q", in.PaymentMethod)
	}

	var order models.Order
	if err := ps.DB.First(&order, in.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("order %d not found", in.OrderID)
		}
		return nil, utils.TransactionError("failed to load order", err)
	}

	switch order.Status {
	case models.OrderCancelled:
		return nil, utils.ConflictError("order %d is cancelled", in.OrderID)
	case models.OrderCompleted:
		return nil, utils.ConflictError("order %d is already settled", in.OrderID)
	case models.OrderServed:
	default:
		return nil, utils.ConflictError("order %d must be served before settlement", in.OrderID)
	}

	amount := in.Amount
	if amount == 0 {
		amount = order.TotalAmount
	}
	if math.Abs(amount-order.TotalAmount) > 0.009 {
		return nil, utils.ValidationError("amount %.2f does not match order total %.2f", amount, order.TotalAmount)
	}

	tx := ps.DB.Begin()
	if tx.Error != nil {
		return nil, utils.TransactionError("failed to begin transaction", tx.Error)
	}

	payment := models.Payment{
		OrderID:       order.ID,
		PaymentMethod: in.PaymentMethod,
		Amount:        amount,
		TransactionID: in.TransactionID,
		Status:        models.PaymentCompleted,
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, utils.TransactionError("failed to insert payment", err)
	}

	if _, err := ps.Orders.UpdateStatusTx(tx, order.ID, models.OrderCompleted); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.TransactionError("failed to commit payment", err)
	}

	utils.InfoLogger.Printf("Payment %d recorded for order %d (%s, %.2f)",
		payment.ID, order.ID, payment.PaymentMethod, payment.Amount)

	return &payment, nil
}

type PaymentStatus struct {
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Amount        float64    `json:"amount,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Status returns the latest settlement recorded for an order, or a
// pending placeholder when none exists yet.
func (ps *PaymentService) Status(orderID uint) (*PaymentStatus, error) {
	var order models.Order
	if err := ps.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("order %d not found", orderID)
		}
		return nil, utils.TransactionError("failed to load order", err)
	}

	var payment models.Payment
	err := ps.DB.Where("order_id = ?", orderID).Order("id desc").First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &PaymentStatus{Status: models.PaymentPending}, nil
	}
	if err != nil {
		return nil, utils.TransactionError("failed to load payment", err)
	}

	return &PaymentStatus{
		Status:        payment.Status,
		PaymentMethod: payment.PaymentMethod,
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
		CreatedAt:     &payment.CreatedAt,
	}, nil
}

// UPILink builds the upi:// deep link the frontend renders as a QR
// code. The payee address and display name come from the environment so
// deployments are not tied to one account.
func (ps *PaymentService) UPILink(orderID uint) (string, error) {
	var order models.Order
	if err := ps.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", utils.NotFoundError("order %d not found", orderID)
		}
		return "", utils.TransactionError("failed to load order", err)
	}

	vpa := os.Getenv("UPI_VPA")
	if vpa == "" {
		vpa = "restaurant@upi"
	}
	payee := os.Getenv("UPI_PAYEE_NAME")
	if payee == "" {
		payee = "Restaurant POS"
	}

	note := fmt.Sprintf("Order %d", order.ID)
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&tn=%s&cu=INR",
		vpa, url.QueryEscape(payee), order.TotalAmount, url.QueryEscape(note)), nil
}
