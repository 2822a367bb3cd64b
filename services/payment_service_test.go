package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dragonpos/restaurant-pos/models"
	"github.com/dragonpos/restaurant-pos/utils"
)

func servedOrder(t *testing.T, f *orderFixture) *models.Order {
	t.Helper()
	order, err := f.svc.Create(f.dineInInput())
	assert.NoError(t, err)
	advance(t, f.svc, order.ID, models.OrderPreparing, models.OrderReady, models.OrderServed)
	return order
}

func TestRecordPaymentCompletesOrderAndReleasesTable(t *testing.T) {
	f := setupOrderFixture(t)
	ps := NewPaymentService(f.db)

	order := servedOrder(t, f)
	assert.Equal(t, models.TableOccupied, f.tableStatus(t))

	payment, err := ps.Record(RecordPaymentInput{
		OrderID:       order.ID,
		PaymentMethod: models.PaymentMethodCash,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, 20.00, payment.Amount)

	settled, err := f.svc.Get(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, settled.Status)
	assert.Equal(t, models.TableAvailable, f.tableStatus(t))
}

func TestRecordPaymentGuards(t *testing.T) {
	f := setupOrderFixture(t)
	ps := NewPaymentService(f.db)

	order, err := f.svc.Create(f.dineInInput())
	assert.NoError(t, err)

	// Settlement only applies to served orders.
	_, err = ps.Record(RecordPaymentInput{OrderID: order.ID, PaymentMethod: models.PaymentMethodCash})
	assertKind(t, err, utils.KindConflict)

	advance(t, f.svc, order.ID, models.OrderPreparing, models.OrderReady, models.OrderServed)

	// The amount must match the order total.
	_, err = ps.Record(RecordPaymentInput{
		OrderID:       order.ID,
		PaymentMethod: models.PaymentMethodCard,
		Amount:        19.00,
	})
	assertKind(t, err, utils.KindValidation)

	_, err = ps.Record(RecordPaymentInput{OrderID: order.ID, PaymentMethod: "cheque"})
	assertKind(t, err, utils.KindValidation)

	_, err = ps.Record(RecordPaymentInput{OrderID: 9999, PaymentMethod: models.PaymentMethodCash})
	assertKind(t, err, utils.KindNotFound)

	// No guard failure may have left a payment row behind.
	var payments int64
	assert.NoError(t, f.db.Model(&models.Payment{}).Count(&payments).Error)
	assert.Equal(t, int64(0), payments)

	// Paying twice conflicts.
	_, err = ps.Record(RecordPaymentInput{OrderID: order.ID, PaymentMethod: models.PaymentMethodCash})
	assert.NoError(t, err)
	_, err = ps.Record(RecordPaymentInput{OrderID: order.ID, PaymentMethod: models.PaymentMethodCash})
	assertKind(t, err, utils.KindConflict)

	// Cancelled orders cannot be settled.
	cancelled, err := f.svc.Create(CreateOrderInput{
		CustomerName: "To go",
		OrderType:    models.OrderTypeTakeaway,
		Items:        []OrderItemInput{{DishID: f.pizzaID, Quantity: 1, Price: 12.50}},
		CreatedBy:    1,
	})
	assert.NoError(t, err)
	advance(t, f.svc, cancelled.ID, models.OrderCancelled)
	_, err = ps.Record(RecordPaymentInput{OrderID: cancelled.ID, PaymentMethod: models.PaymentMethodCash})
	assertKind(t, err, utils.KindConflict)
}

func TestDeleteSettledOrderRemovesPayment(t *testing.T) {
	f := setupOrderFixture(t)
	ps := NewPaymentService(f.db)

	order := servedOrder(t, f)
	_, err := ps.Record(RecordPaymentInput{OrderID: order.ID, PaymentMethod: models.PaymentMethodCash})
	assert.NoError(t, err)

	assert.NoError(t, f.svc.Delete(order.ID))

	var payments int64
	assert.NoError(t, f.db.Model(&models.Payment{}).Count(&payments).Error)
	assert.Equal(t, int64(0), payments)
	assert.Equal(t, models.TableAvailable, f.tableStatus(t))
}

func TestPaymentStatus(t *testing.T) {
	f := setupOrderFixture(t)
	ps := NewPaymentService(f.db)

	order := servedOrder(t, f)

	status, err := ps.Status(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPending, status.Status)

	_, err = ps.Record(RecordPaymentInput{
		OrderID:       order.ID,
		PaymentMethod: models.PaymentMethodUPI,
		TransactionID: "txn-42",
	})
	assert.NoError(t, err)

	status, err = ps.Status(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, status.Status)
	assert.Equal(t, models.PaymentMethodUPI, status.PaymentMethod)
	assert.Equal(t, 20.00, status.Amount)
	assert.Equal(t, "txn-42", status.TransactionID)

	_, err = ps.Status(9999)
	assertKind(t, err, utils.KindNotFound)
}

func TestUPILink(t *testing.T) {
	f := setupOrderFixture(t)
	ps := NewPaymentService(f.db)

	t.Setenv("UPI_VPA", "dragon@ybl")
	t.Setenv("UPI_PAYEE_NAME", "Dragon Restaurant")

	order, err := f.svc.Create(f.dineInInput())
	assert.NoError(t, err)

	link, err := ps.UPILink(order.ID)
	assert.NoError(t, err)
	assert.Contains(t, link, "upi://pay?pa=dragon@ybl")
	assert.Contains(t, link, "pn=Dragon+Restaurant")
	assert.Contains(t, link, "am=20.00")
	assert.Contains(t, link, "cu=INR")

	_, err = ps.UPILink(9999)
	assertKind(t, err, utils.KindNotFound)
}
