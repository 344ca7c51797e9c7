package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/delivery/http/middleware"
	"activitycheckin/internal/domain"

	"github.com/gorilla/websocket"
)

// Websocket keepalive timings for the registration stream.
const (
	streamWriteWait    = 10 * time.Second
	streamPongWait     = 60 * time.Second
	streamPingInterval = 50 * time.Second
)

// QREncoder renders a registration token as a PNG.
type QREncoder interface {
	PNG(token string) ([]byte, error)
}

// RegisterRequest is the request body for POST /api/visitor/registrations.
// Empty identifying fields are filled from the visitor's stored profile.
type RegisterRequest struct {
	ActivityID string `json:"activityId"`
	FullName   string `json:"fullName"`
	StudentID  string `json:"studentId"`
	NationalID string `json:"nationalId"`
}

// Validate implements Validator.
func (req RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.ActivityID) == "" {
		errs = append(errs, "activityId is required")
	}
	return errs
}

// RegisterSuccessResponse is the success envelope for POST /api/visitor/registrations.
type RegisterSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *h.APIError          `json:"error"`
}

// StreamMessage is one frame on the registration stream.
type StreamMessage struct {
	Event string                             `json:"event"`
	Data  []*domain.RegistrationWithActivity `json:"data"`
}

type RegistrationController struct {
	Logger   *slog.Logger
	Service  domain.RegistrationService
	QR       QREncoder
	Upgrader websocket.Upgrader
}

// NewRegistrationController builds the visitor registration controller. An empty
// allowedOrigins accepts websocket upgrades from any origin.
func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService, qr QREncoder, allowedOrigins []string) *RegistrationController {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimSuffix(o, "/")] = struct{}{}
	}
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
		QR:      qr,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowed) == 0 || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Register godoc
// @Summary Register for an activity
// @Description Registers the visitor. Returns 201 with the new registration, or 200 with the existing one when the visitor is already registered. The registration id is the check-in token.
// @Tags visitor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterRequest true "Registration form"
// @Success 201 {object} controllers.RegisterSuccessResponse "created"
// @Success 200 {object} controllers.RegisterSuccessResponse "already registered"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/visitor/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, created, err := c.Service.Register(r.Context(), sess, domain.RegistrationInput{
		ActivityID: req.ActivityID,
		FullName:   req.FullName,
		StudentID:  req.StudentID,
		NationalID: req.NationalID,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSONSuccess(w, status, reg)
}

// ListMine godoc
// @Summary List my registrations
// @Tags visitor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of {registration, activity}"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/visitor/registrations [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	items, err := c.listMine(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}

// QRCode godoc
// @Summary QR code of a registration
// @Description PNG image encoding the registration id, to be scanned at the check-in desk.
// @Tags visitor
// @Produce png
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Success 200 {file} file
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/visitor/registrations/{registrationID}/qr [get]
func (c *RegistrationController) QRCode(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing registrationID")
		return
	}
	reg, err := c.Service.GetMine(r.Context(), sess, registrationID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	png, err := c.QR.PNG(reg.ID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WritePNG(w, png)
}

// Stream godoc
// @Summary Live registrations
// @Description Websocket. Sends {"event":"registrations","data":[...]} on connect and after every change to the visitor's registrations. Browsers pass the access token as the access_token query parameter.
// @Tags visitor
// @Security BearerAuth
// @Param access_token query string false "Platform access token"
// @Success 101 {string} string "switching protocols"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/visitor/registrations/stream [get]
func (c *RegistrationController) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sub, err := c.Service.Subscribe(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	defer sub.Close()

	conn, err := c.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.Logger.WarnContext(r.Context(), "websocket upgrade failed", "visitor_id", sess.VisitorID(), "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go readUntilClosed(conn, cancel)

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	if err := c.pushSnapshot(ctx, conn, sess); err != nil {
		c.Logger.DebugContext(ctx, "registration stream closed", "visitor_id", sess.VisitorID(), "err", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.Changes():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(streamWriteWait))
				return
			}
			if err := c.pushSnapshot(ctx, conn, sess); err != nil {
				c.Logger.DebugContext(ctx, "registration stream closed", "visitor_id", sess.VisitorID(), "err", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (c *RegistrationController) pushSnapshot(ctx context.Context, conn *websocket.Conn, sess *domain.Session) error {
	items, err := c.listMine(ctx, sess)
	if err != nil {
		c.Logger.WarnContext(ctx, "registration snapshot failed", "visitor_id", sess.VisitorID(), "err", err)
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(StreamMessage{Event: "registrations", Data: items})
}

func (c *RegistrationController) listMine(ctx context.Context, sess *domain.Session) ([]*domain.RegistrationWithActivity, error) {
	items, err := c.Service.ListMine(ctx, sess)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.RegistrationWithActivity{}
	}
	return items, nil
}

// readUntilClosed drains client frames so pongs and close frames are processed, and
// cancels once the peer goes away.
func readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
