package models

import "time"

const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
)

const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderServed    = "served"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	TableID      *uint       `gorm:"index" json:"table_id,omitempty"`
	Table        *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	CustomerName string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	OrderType    string      `gorm:"type:varchar(20);not null" json:"order_type"`
	Status       string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount  float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	CreatedBy    uint        `gorm:"not null" json:"created_by"`
	Creator      *User       `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// orderTransitions is the allowed status state machine. Non-terminal
// statuses advance one step at a time; cancelled is reachable from any
// non-terminal status; completed and cancelled are absorbing.
var orderTransitions = map[string][]string{
	OrderPending:   {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed, OrderCancelled},
	OrderServed:    {OrderCompleted, OrderCancelled},
	OrderCompleted: {},
	OrderCancelled: {},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionOrder reports whether an order may move from one status
// to another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TerminalOrderStatus reports whether s is an absorbing status.
func TerminalOrderStatus(s string) bool {
	return s == OrderCompleted || s == OrderCancelled
}

// ValidOrderType reports whether t is dine_in or takeaway.
func ValidOrderType(t string) bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeaway
}
