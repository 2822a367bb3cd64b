package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dragonpos/restaurant-pos/services"
	"github.com/dragonpos/restaurant-pos/utils"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{Payments: services.NewPaymentService(db)}
}

// RecordPayment -> settle an order; completion frees its table
func (pc *PaymentController) RecordPayment(c *gin.Context) {
	var in services.RecordPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.Payments.Record(in)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment recorded", payment)
}

// GetPaymentStatus -> latest settlement state for an order
func (pc *PaymentController) GetPaymentStatus(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	status, err := pc.Payments.Status(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment status", status)
}

// GenerateUPILink -> deep link the frontend renders as a QR code
func (pc *PaymentController) GenerateUPILink(c *gin.Context) {
	var body struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	link, err := pc.Payments.UPILink(body.OrderID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "UPI link generated", gin.H{
		"upi_link": link,
		"qr_code":  link,
	})
}
