package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

// PaymentHandler handles payment routes
type PaymentHandler struct {
	Store store.Store
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(st store.Store) *PaymentHandler {
	return &PaymentHandler{Store: st}
}

// CreatePayment records a tenant's payment against their own approved
// reservation and notifies the landlord that it awaits verification.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	tenantID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	method, err := models.ParsePaymentMethod(req.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		return
	}

	reservation, err := h.Store.GetReservationByID(req.ReservationID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reservation"})
		return
	}
	if reservation.TenantID != tenantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your reservation"})
		return
	}
	if reservation.Status != models.ReservationApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reservation is not approved"})
		return
	}

	payment, err := h.Store.CreatePayment(&req, method)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	property, err := h.Store.GetPropertyByID(reservation.PropertyID)
	if err == nil {
		notifyUser(h.Store, property.LandlordID, models.NotificationPayment,
			"Payment Submitted",
			fmt.Sprintf("A payment of %.2f for %s awaits verification", payment.Amount, property.Title),
			"/dashboard/landlord")
	}

	c.JSON(http.StatusCreated, payment)
}

// ListPayments returns the caller's payments, by role.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	role, _ := c.Get("role")

	var (
		payments []*models.Payment
		err      error
	)
	if role == models.RoleLandlord {
		payments, err = h.Store.ListPaymentsForLandlord(userID)
	} else {
		payments, err = h.Store.ListPaymentsByTenant(userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	if payments == nil {
		payments = []*models.Payment{}
	}
	c.JSON(http.StatusOK, payments)
}

// VerifyPayment is the landlord's verification decision. Records who
// verified and when, and tells the tenant.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	landlordID, ok := currentUserID(c)
	if !ok {
		return
	}

	paymentID, err := uuid.Parse(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var req models.PaymentVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.Store.GetPaymentByID(paymentID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment"})
		return
	}

	reservation, err := h.Store.GetReservationByID(payment.ReservationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reservation"})
		return
	}

	property, err := h.Store.GetPropertyByID(reservation.PropertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load property"})
		return
	}
	if property.LandlordID != landlordID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your property"})
		return
	}

	if err := h.Store.VerifyPayment(paymentID, req.Verified, landlordID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	outcome := "verified"
	if !req.Verified {
		outcome = "declined"
	}
	notifyUser(h.Store, reservation.TenantID, models.NotificationPayment,
		"Payment "+outcome,
		fmt.Sprintf("Your payment for %s was %s", property.Title, outcome),
		"/dashboard/tenant")

	c.JSON(http.StatusOK, gin.H{"message": "Payment " + outcome})
}
