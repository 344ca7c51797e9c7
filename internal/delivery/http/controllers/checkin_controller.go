package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"activitycheckin/internal/checkin"
	h "activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/delivery/http/middleware"
)

// ScanRequest is the request body for POST /api/admin/checkin/scan.
type ScanRequest struct {
	Token string `json:"token"`
}

// Validate implements Validator.
func (s ScanRequest) Validate() []string {
	if strings.TrimSpace(s.Token) == "" {
		return []string{"token is required"}
	}
	return nil
}

// SearchRequest is the request body for POST /api/admin/checkin/search.
type SearchRequest struct {
	ActivityID string `json:"activityId"`
	NationalID string `json:"nationalId"`
}

// ConfirmRequest is the request body for POST /api/admin/checkin/confirm.
type ConfirmRequest struct {
	SeatNumber string `json:"seatNumber"`
}

// DeskSuccessResponse is the success envelope of every check-in desk endpoint.
type DeskSuccessResponse struct {
	Data  checkin.Snapshot `json:"data"`
	Error *h.APIError      `json:"error"`
}

// CheckInController exposes the calling operator's check-in desk. Workflow outcomes such
// as "not found" are part of the returned state, not HTTP errors.
type CheckInController struct {
	Logger *slog.Logger
	Desks  *checkin.Desks
}

func NewCheckInController(logger *slog.Logger, desks *checkin.Desks) *CheckInController {
	return &CheckInController{
		Logger: logger,
		Desks:  desks,
	}
}

// State godoc
// @Summary Current desk state
// @Tags checkin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DeskSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/admin/checkin [get]
func (c *CheckInController) State(w http.ResponseWriter, r *http.Request) {
	desk, ok := c.desk(w, r)
	if !ok {
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, checkin.SnapshotOf(desk.State()))
}

// Scan godoc
// @Summary Resolve a scanned token
// @Description Accepted while the desk is idle or showing a resolved registration. A failed lookup moves the desk to failed, which returns to idle after the error display time.
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScanRequest true "Token read from the QR code"
// @Success 200 {object} controllers.DeskSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: busy"
// @Router /api/admin/checkin/scan [post]
func (c *CheckInController) Scan(w http.ResponseWriter, r *http.Request) {
	desk, ok := c.desk(w, r)
	if !ok {
		return
	}
	var req ScanRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := desk.Scan(r.Context(), req.Token)
	c.writeState(w, r, state, err)
}

// Search godoc
// @Summary Manual lookup
// @Description Finds the registration by activity and national id. A failed search returns the desk to idle with a message.
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SearchRequest true "Activity and national id"
// @Success 200 {object} controllers.DeskSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: busy"
// @Router /api/admin/checkin/search [post]
func (c *CheckInController) Search(w http.ResponseWriter, r *http.Request) {
	desk, ok := c.desk(w, r)
	if !ok {
		return
	}
	var req SearchRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := desk.Search(r.Context(), req.ActivityID, req.NationalID)
	c.writeState(w, r, state, err)
}

// Confirm godoc
// @Summary Confirm check-in
// @Description Checks the resolved registration in with the given seat number.
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ConfirmRequest true "Seat"
// @Success 200 {object} controllers.DeskSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: busy or conflict"
// @Router /api/admin/checkin/confirm [post]
func (c *CheckInController) Confirm(w http.ResponseWriter, r *http.Request) {
	desk, ok := c.desk(w, r)
	if !ok {
		return
	}
	var req ConfirmRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := desk.Confirm(r.Context(), req.SeatNumber)
	c.writeState(w, r, state, err)
}

// Reset godoc
// @Summary Reset the desk
// @Tags checkin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DeskSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: busy"
// @Router /api/admin/checkin/reset [post]
func (c *CheckInController) Reset(w http.ResponseWriter, r *http.Request) {
	desk, ok := c.desk(w, r)
	if !ok {
		return
	}
	state, err := desk.Reset()
	c.writeState(w, r, state, err)
}

func (c *CheckInController) desk(w http.ResponseWriter, r *http.Request) (*checkin.Desk, bool) {
	operatorID, ok := middleware.OperatorIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	return c.Desks.For(operatorID), true
}

func (c *CheckInController) writeState(w http.ResponseWriter, r *http.Request, state checkin.State, err error) {
	if errors.Is(err, checkin.ErrNothingResolved) {
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, checkin.SnapshotOf(state))
}
