package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/services"
	"github.com/dragonpos/restaurant-pos/utils"
)

type OrderController struct {
	Orders  *services.OrderService
	Billing *services.BillingService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		Orders:  services.NewOrderService(db),
		Billing: services.NewBillingService(db),
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// GetAllOrders -> list orders with items
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrdersByTable -> orders placed against one table, newest first
func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}

	orders, err := oc.Orders.ListByTable(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders for table", orders)
}

// CreateOrder -> create an order together with its line items
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var in services.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(uint); ok {
			in.CreatedBy = id
		}
	}

	order, err := oc.Orders.Create(in)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> one order with items and dish names
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	order, err := oc.Orders.Get(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> advance the order state machine
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "order_id")
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

	affected, err := oc.Orders.UpdateStatus(id, body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", gin.H{
		"order_id":      id,
		"status":        body.Status,
		"affected_rows": affected,
	})
}

// DeleteOrder -> remove the order and its items, freeing the table
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	if err := oc.Orders.Delete(id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

// GetOrderBill -> derived bill view for a persisted order
func (oc *OrderController) GetOrderBill(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	bill, err := oc.Billing.FormatBill(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order bill", bill)
}
