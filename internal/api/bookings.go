package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

// BookingHandler handles reservation routes
type BookingHandler struct {
	Store store.Store
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(st store.Store) *BookingHandler {
	return &BookingHandler{Store: st}
}

// CreateReservation submits a tenant's booking request and notifies the
// property's landlord.
func (h *BookingHandler) CreateReservation(c *gin.Context) {
	tenantID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.Store.GetPropertyByID(req.PropertyID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load property"})
		return
	}

	reservation, err := h.Store.CreateReservation(tenantID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	notifyUser(h.Store, property.LandlordID, models.NotificationBooking,
		"New Booking Request",
		fmt.Sprintf("You have a new booking request for %s", property.Title),
		"/dashboard/landlord")

	c.JSON(http.StatusCreated, reservation)
}

// ListReservations returns the caller's reservations: the ones they
// made as a tenant, or the ones against their properties as a landlord.
func (h *BookingHandler) ListReservations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	role, _ := c.Get("role")

	var (
		reservations []*models.Reservation
		err          error
	)
	if role == models.RoleLandlord {
		reservations, err = h.Store.ListReservationsForLandlord(userID)
	} else {
		reservations, err = h.Store.ListReservationsByTenant(userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reservations"})
		return
	}

	if reservations == nil {
		reservations = []*models.Reservation{}
	}
	c.JSON(http.StatusOK, reservations)
}

// SetReservationStatus is the landlord's approve/decline decision. Only
// the landlord who owns the property may decide, and only approved or
// declined are acceptable outcomes here.
func (h *BookingHandler) SetReservationStatus(c *gin.Context) {
	landlordID, ok := currentUserID(c)
	if !ok {
		return
	}

	reservationID, err := uuid.Parse(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	var req models.ReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := models.ParseReservationStatus(req.Status)
	if err != nil || (status != models.ReservationApproved && status != models.ReservationDeclined) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be approved or declined"})
		return
	}

	reservation, err := h.Store.GetReservationByID(reservationID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}
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

	if err := h.Store.SetReservationStatus(reservationID, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reservation"})
		return
	}

	notifyUser(h.Store, reservation.TenantID, models.NotificationBooking,
		"Booking "+string(status),
		fmt.Sprintf("Your booking request for %s was %s", property.Title, status),
		"/dashboard/tenant")

	c.JSON(http.StatusOK, gin.H{"message": "Reservation " + string(status)})
}
