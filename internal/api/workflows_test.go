package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

func TestCreateReservation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Booking notifies the landlord", func(t *testing.T) {
		mockStore := new(MockStore)
		handler := NewBookingHandler(mockStore)

		tenantID := uuid.New()
		landlordID := uuid.New()
		propertyID := uuid.New()

		property := &models.Property{ID: propertyID, LandlordID: landlordID, Title: "Sampaloc Boarding House"}
		reservation := &models.Reservation{
			ID:         uuid.New(),
			PropertyID: propertyID,
			TenantID:   tenantID,
			Status:     models.ReservationPending,
		}
		notification := &models.Notification{ID: uuid.New(), UserID: landlordID, Type: models.NotificationBooking}

		mockStore.On("GetPropertyByID", propertyID).Return(property, nil).Once()
		mockStore.On("CreateReservation", tenantID, mock.AnythingOfType("*models.ReservationRequest")).
			Return(reservation, nil).Once()
		mockStore.On("CreateNotification", landlordID, models.NotificationBooking,
			"New Booking Request", mock.AnythingOfType("string"), "/dashboard/landlord").
			Return(notification, nil).Once()

		router := gin.New()
		router.POST("/api/reservations", authAs(tenantID, models.RoleTenant), handler.CreateReservation)

		body, _ := json.Marshal(map[string]interface{}{
			"property_id": propertyID.String(),
			"check_in":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		})
		req, _ := http.NewRequest("POST", "/api/reservations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Unknown property", func(t *testing.T) {
		mockStore := new(MockStore)
		handler := NewBookingHandler(mockStore)

		tenantID := uuid.New()
		propertyID := uuid.New()
		mockStore.On("GetPropertyByID", propertyID).Return(nil, store.ErrNotFound).Once()

		router := gin.New()
		router.POST("/api/reservations", authAs(tenantID, models.RoleTenant), handler.CreateReservation)

		body, _ := json.Marshal(map[string]interface{}{
			"property_id": propertyID.String(),
			"check_in":    time.Now().Format(time.RFC3339),
		})
		req, _ := http.NewRequest("POST", "/api/reservations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockStore.AssertNotCalled(t, "CreateReservation")
	})
}

func TestSetReservationStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	landlordID := uuid.New()
	tenantID := uuid.New()
	propertyID := uuid.New()
	reservationID := uuid.New()

	property := &models.Property{ID: propertyID, LandlordID: landlordID, Title: "Sampaloc Boarding House"}
	reservation := &models.Reservation{
		ID:         reservationID,
		PropertyID: propertyID,
		TenantID:   tenantID,
		Status:     models.ReservationPending,
	}

	newRouter := func(mockStore *MockStore, asUser uuid.UUID) *gin.Engine {
		handler := NewBookingHandler(mockStore)
		router := gin.New()
		router.PUT("/api/reservations/:reservationID/status", authAs(asUser, models.RoleLandlord), handler.SetReservationStatus)
		return router
	}

	decide := func(router *gin.Engine, status string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{"status": status})
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/reservations/%s/status", reservationID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Approval notifies the tenant", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("GetReservationByID", reservationID).Return(reservation, nil).Once()
		mockStore.On("GetPropertyByID", propertyID).Return(property, nil).Once()
		mockStore.On("SetReservationStatus", reservationID, models.ReservationApproved).Return(nil).Once()
		mockStore.On("CreateNotification", tenantID, models.NotificationBooking,
			"Booking approved", mock.AnythingOfType("string"), "/dashboard/tenant").
			Return(&models.Notification{ID: uuid.New()}, nil).Once()

		w := decide(newRouter(mockStore, landlordID), "approved")

		assert.Equal(t, http.StatusOK, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Another landlord may not decide", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("GetReservationByID", reservationID).Return(reservation, nil).Once()
		mockStore.On("GetPropertyByID", propertyID).Return(property, nil).Once()

		w := decide(newRouter(mockStore, uuid.New()), "declined")

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockStore.AssertNotCalled(t, "SetReservationStatus")
	})

	t.Run("Only approved or declined are acceptable", func(t *testing.T) {
		mockStore := new(MockStore)

		for _, status := range []string{"pending", "completed", "cancelled", "banana"} {
			w := decide(newRouter(mockStore, landlordID), status)
			assert.Equal(t, http.StatusBadRequest, w.Code, "status %q", status)
		}
		mockStore.AssertNotCalled(t, "SetReservationStatus")
	})
}

func TestCreatePayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tenantID := uuid.New()
	landlordID := uuid.New()
	propertyID := uuid.New()
	reservationID := uuid.New()

	property := &models.Property{ID: propertyID, LandlordID: landlordID, Title: "Sampaloc Boarding House"}

	newRouter := func(mockStore *MockStore) *gin.Engine {
		handler := NewPaymentHandler(mockStore)
		router := gin.New()
		router.POST("/api/payments", authAs(tenantID, models.RoleTenant), handler.CreatePayment)
		return router
	}

	submit := func(router *gin.Engine) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{
			"reservation_id": reservationID.String(),
			"amount":         4500.0,
			"method":         "gcash",
			"reference_number": "GC-123456",
		})
		req, _ := http.NewRequest("POST", "/api/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Payment against own approved reservation", func(t *testing.T) {
		mockStore := new(MockStore)

		approved := &models.Reservation{ID: reservationID, PropertyID: propertyID, TenantID: tenantID, Status: models.ReservationApproved}
		payment := &models.Payment{ID: uuid.New(), ReservationID: reservationID, Amount: 4500, Method: models.PaymentGcash, Status: models.PaymentPending}

		mockStore.On("GetReservationByID", reservationID).Return(approved, nil).Once()
		mockStore.On("CreatePayment", mock.AnythingOfType("*models.PaymentRequest"), models.PaymentGcash).
			Return(payment, nil).Once()
		mockStore.On("GetPropertyByID", propertyID).Return(property, nil).Once()
		mockStore.On("CreateNotification", landlordID, models.NotificationPayment,
			"Payment Submitted", mock.AnythingOfType("string"), "/dashboard/landlord").
			Return(&models.Notification{ID: uuid.New()}, nil).Once()

		w := submit(newRouter(mockStore))

		assert.Equal(t, http.StatusCreated, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Pending reservation cannot be paid", func(t *testing.T) {
		mockStore := new(MockStore)

		pending := &models.Reservation{ID: reservationID, PropertyID: propertyID, TenantID: tenantID, Status: models.ReservationPending}
		mockStore.On("GetReservationByID", reservationID).Return(pending, nil).Once()

		w := submit(newRouter(mockStore))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockStore.AssertNotCalled(t, "CreatePayment")
	})

	t.Run("Someone else's reservation is forbidden", func(t *testing.T) {
		mockStore := new(MockStore)

		other := &models.Reservation{ID: reservationID, PropertyID: propertyID, TenantID: uuid.New(), Status: models.ReservationApproved}
		mockStore.On("GetReservationByID", reservationID).Return(other, nil).Once()

		w := submit(newRouter(mockStore))

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockStore.AssertNotCalled(t, "CreatePayment")
	})
}

func TestVerifyPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	landlordID := uuid.New()
	tenantID := uuid.New()
	propertyID := uuid.New()
	reservationID := uuid.New()
	paymentID := uuid.New()

	payment := &models.Payment{ID: paymentID, ReservationID: reservationID, Amount: 4500, Status: models.PaymentPending}
	reservation := &models.Reservation{ID: reservationID, PropertyID: propertyID, TenantID: tenantID, Status: models.ReservationApproved}
	property := &models.Property{ID: propertyID, LandlordID: landlordID, Title: "Sampaloc Boarding House"}

	newRouter := func(mockStore *MockStore, asUser uuid.UUID) *gin.Engine {
		handler := NewPaymentHandler(mockStore)
		router := gin.New()
		router.PUT("/api/payments/:paymentID/verify", authAs(asUser, models.RoleLandlord), handler.VerifyPayment)
		return router
	}

	decide := func(router *gin.Engine, verified bool) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{"verified": verified})
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/payments/%s/verify", paymentID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Verification notifies the tenant", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("GetPaymentByID", paymentID).Return(payment, nil).Once()
		mockStore.On("GetReservationByID", reservationID).Return(reservation, nil).Once()
		mockStore.On("GetPropertyByID", propertyID).Return(property, nil).Once()
		mockStore.On("VerifyPayment", paymentID, true, landlordID).Return(nil).Once()
		mockStore.On("CreateNotification", tenantID, models.NotificationPayment,
			"Payment verified", mock.AnythingOfType("string"), "/dashboard/tenant").
			Return(&models.Notification{ID: uuid.New()}, nil).Once()

		w := decide(newRouter(mockStore, landlordID), true)

		assert.Equal(t, http.StatusOK, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Only the property's landlord may verify", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("GetPaymentByID", paymentID).Return(payment, nil).Once()
		mockStore.On("GetReservationByID", reservationID).Return(reservation, nil).Once()
		mockStore.On("GetPropertyByID", propertyID).Return(property, nil).Once()

		w := decide(newRouter(mockStore, uuid.New()), true)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockStore.AssertNotCalled(t, "VerifyPayment")
	})
}

func TestNotificationRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Mark read returns the refreshed list", func(t *testing.T) {
		mockStore := new(MockStore)
		handler := NewNotificationHandler(mockStore)

		userID := uuid.New()
		notificationID := uuid.New()
		refreshed := []*models.Notification{
			{ID: notificationID, UserID: userID, Type: models.NotificationBooking, IsRead: true},
			{ID: uuid.New(), UserID: userID, Type: models.NotificationPayment, IsRead: false},
		}

		mockStore.On("MarkNotificationRead", notificationID).Return(nil).Once()
		mockStore.On("ListNotifications", userID, notificationLimit).Return(refreshed, nil).Once()

		router := gin.New()
		router.PUT("/api/notifications/:notificationID/read", authAs(userID, models.RoleTenant), handler.MarkNotificationRead)

		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/notifications/%s/read", notificationID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response, 2)
		mockStore.AssertExpectations(t)
	})

	t.Run("Unknown notification", func(t *testing.T) {
		mockStore := new(MockStore)
		handler := NewNotificationHandler(mockStore)

		userID := uuid.New()
		notificationID := uuid.New()
		mockStore.On("MarkNotificationRead", notificationID).Return(store.ErrNotFound).Once()

		router := gin.New()
		router.PUT("/api/notifications/:notificationID/read", authAs(userID, models.RoleTenant), handler.MarkNotificationRead)

		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/notifications/%s/read", notificationID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockStore.AssertNotCalled(t, "ListNotifications")
	})
}

func TestNotifyUserPushesOverWebsocket(t *testing.T) {
	mockStore := new(MockStore)
	pusher := new(MockPusher)

	originalWSManager := WSManager
	WSManager = pusher
	defer func() { WSManager = originalWSManager }()

	userID := uuid.New()
	notification := &models.Notification{ID: uuid.New(), UserID: userID, Type: models.NotificationSystem, Title: "Welcome"}

	mockStore.On("CreateNotification", userID, models.NotificationSystem, "Welcome", "Hello there", "").
		Return(notification, nil).Once()
	pusher.On("SendToUser", userID, mock.AnythingOfType("[]uint8")).Once()

	notifyUser(mockStore, userID, models.NotificationSystem, "Welcome", "Hello there", "")

	mockStore.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestNotifyUserStoreFailureSkipsPush(t *testing.T) {
	mockStore := new(MockStore)
	pusher := new(MockPusher)

	originalWSManager := WSManager
	WSManager = pusher
	defer func() { WSManager = originalWSManager }()

	userID := uuid.New()
	mockStore.On("CreateNotification", userID, models.NotificationSystem, "Welcome", "Hello there", "").
		Return(nil, fmt.Errorf("insert failed")).Once()

	notifyUser(mockStore, userID, models.NotificationSystem, "Welcome", "Hello there", "")

	mockStore.AssertExpectations(t)
	pusher.AssertNotCalled(t, "SendToUser")
}

func TestReviewModeration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reviewID := uuid.New()
	tenantID := uuid.New()
	review := &models.Review{ID: reviewID, PropertyID: uuid.New(), TenantID: tenantID, Rating: 4}

	decide := func(mockStore *MockStore, approved bool) *httptest.ResponseRecorder {
		handler := NewReviewHandler(mockStore)
		router := gin.New()
		router.PUT("/api/reviews/:reviewID/approve", authAs(uuid.New(), models.RoleAdmin), handler.ApproveReview)

		body, _ := json.Marshal(map[string]interface{}{"approved": approved})
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/reviews/%s/approve", reviewID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Approval notifies the author", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("GetReviewByID", reviewID).Return(review, nil).Once()
		mockStore.On("SetReviewApproval", reviewID, true).Return(nil).Once()
		mockStore.On("CreateNotification", tenantID, models.NotificationReview,
			"Review approved", mock.AnythingOfType("string"), "/dashboard/tenant").
			Return(&models.Notification{ID: uuid.New()}, nil).Once()

		w := decide(mockStore, true)

		assert.Equal(t, http.StatusOK, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Rejection notifies the author", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("GetReviewByID", reviewID).Return(review, nil).Once()
		mockStore.On("SetReviewApproval", reviewID, false).Return(nil).Once()
		mockStore.On("CreateNotification", tenantID, models.NotificationReview,
			"Review rejected", mock.AnythingOfType("string"), "/dashboard/tenant").
			Return(&models.Notification{ID: uuid.New()}, nil).Once()

		w := decide(mockStore, false)

		assert.Equal(t, http.StatusOK, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Unknown review", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("GetReviewByID", reviewID).Return(nil, store.ErrNotFound).Once()

		w := decide(mockStore, true)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockStore.AssertNotCalled(t, "SetReviewApproval")
		mockStore.AssertNotCalled(t, "CreateNotification")
	})

	t.Run("Review against unknown property", func(t *testing.T) {
		mockStore := new(MockStore)
		handler := NewReviewHandler(mockStore)

		tenantID := uuid.New()
		propertyID := uuid.New()
		mockStore.On("GetPropertyByID", propertyID).Return(nil, store.ErrNotFound).Once()

		router := gin.New()
		router.POST("/api/reviews", authAs(tenantID, models.RoleTenant), handler.CreateReview)

		body, _ := json.Marshal(map[string]interface{}{
			"property_id": propertyID.String(),
			"rating":      5,
			"comment":     "Clean and quiet",
		})
		req, _ := http.NewRequest("POST", "/api/reviews", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockStore.AssertNotCalled(t, "CreateReview")
	})
}

func TestListPropertiesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("City and status filters pass through", func(t *testing.T) {
		mockStore := new(MockStore)
		handler := NewPropertyHandler(mockStore)

		expected := models.PropertyFilter{City: "Manila", Status: models.PropertyAvailable}
		mockStore.On("ListProperties", expected).Return([]*models.Property{}, nil).Once()

		router := gin.New()
		router.GET("/api/properties", handler.ListProperties)

		req, _ := http.NewRequest("GET", "/api/properties?city=Manila&status=available", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Unrecognized status filter is rejected", func(t *testing.T) {
		mockStore := new(MockStore)
		handler := NewPropertyHandler(mockStore)

		router := gin.New()
		router.GET("/api/properties", handler.ListProperties)

		req, _ := http.NewRequest("GET", "/api/properties?status=haunted", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockStore.AssertNotCalled(t, "ListProperties")
	})
}

func TestGetOverview(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockStore := new(MockStore)
	handler := NewAdminHandler(mockStore)

	overview := &store.Overview{TotalUsers: 12, TotalProperties: 4, TotalReservations: 9, TotalPayments: 7, PendingReviews: 2}
	mockStore.On("CountOverview").Return(overview, nil).Once()

	router := gin.New()
	router.GET("/api/admin/overview", authAs(uuid.New(), models.RoleAdmin), handler.GetOverview)

	req, _ := http.NewRequest("GET", "/api/admin/overview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(12), response["total_users"])
	mockStore.AssertExpectations(t)
}
