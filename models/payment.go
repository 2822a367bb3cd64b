package models

import "time"

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	Order         Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	PaymentMethod string    `gorm:"type:varchar(20);not null" json:"payment_method"`
	Amount        float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	TransactionID string    `gorm:"type:varchar(255)" json:"transaction_id"`
	Status        string    `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

// ValidPaymentMethod reports whether m is an accepted settlement method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodCard || m == PaymentMethodUPI
}
