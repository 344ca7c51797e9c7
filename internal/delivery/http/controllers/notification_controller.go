package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"activitycheckin/internal/domain"
)

// SendNotificationRequest is the body of POST /api/send-notification. seatNumber is the
// legacy form, used only when message is empty.
type SendNotificationRequest struct {
	UserID     string `json:"userId"`
	Message    string `json:"message"`
	SeatNumber string `json:"seatNumber"`
}

// GatewayResponse is the gateway's own wire format; it does not use the API envelope.
type GatewayResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NotificationController is the push notification gateway.
type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// Send godoc
// @Summary Push a message to a visitor
// @Description Sends a text message through the LINE Messaging API. Nothing is retried.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendNotificationRequest true "Recipient and message"
// @Success 200 {object} controllers.GatewayResponse
// @Failure 400 {object} controllers.GatewayResponse "missing userId, message or channel credential"
// @Failure 500 {object} controllers.GatewayResponse "push failed"
// @Router /api/send-notification [post]
func (c *NotificationController) Send(w http.ResponseWriter, r *http.Request) {
	var req SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGateway(w, http.StatusBadRequest, GatewayResponse{Message: "Missing required parameters", Error: err.Error()})
		return
	}
	err := c.Service.Send(r.Context(), domain.NotificationRequest{
		UserID:     req.UserID,
		Message:    req.Message,
		SeatNumber: req.SeatNumber,
	})
	switch {
	case err == nil:
		writeGateway(w, http.StatusOK, GatewayResponse{Message: "Notification sent successfully!"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrPushNotConfigured):
		writeGateway(w, http.StatusBadRequest, GatewayResponse{Message: "Missing required parameters", Error: inputMessage(err)})
	default:
		c.Logger.ErrorContext(r.Context(), "push notification failed", "path", r.URL.Path, "visitor_id", req.UserID, "err", err)
		writeGateway(w, http.StatusInternalServerError, GatewayResponse{Message: "Internal Server Error", Error: err.Error()})
	}
}

func writeGateway(w http.ResponseWriter, status int, body GatewayResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
