package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/delivery/http/middleware"
	"activitycheckin/internal/domain"
)

// SetupProfileRequest is the request body for PUT /api/visitor/profile.
type SetupProfileRequest struct {
	FullName   string `json:"fullName"`
	StudentID  string `json:"studentId"`
	NationalID string `json:"nationalId"`
}

// Validate implements Validator. Format rules are checked by the service.
func (s SetupProfileRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.FullName) == "" {
		errs = append(errs, "fullName is required")
	}
	return errs
}

// ProfileResponse is the visitor's identity plus the stored profile, which is null until setup.
type ProfileResponse struct {
	Identity domain.Identity        `json:"identity"`
	Profile  *domain.VisitorProfile `json:"profile"`
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// GetProfile godoc
// @Summary Get my profile
// @Description Returns the platform identity and the stored student profile. profile is null when one-time setup has not been done.
// @Tags visitor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/visitor/profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	profile, err := c.Service.Get(r.Context(), sess)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ProfileResponse{Identity: sess.Identity, Profile: profile})
}

// SetupProfile godoc
// @Summary Set up my profile
// @Description Stores full name, student id and 13-digit national id for the visitor. Calling again overwrites.
// @Tags visitor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetupProfileRequest true "Profile"
// @Success 200 {object} controllers.ProfileResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/visitor/profile [put]
func (c *ProfileController) SetupProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SetupProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.Setup(r.Context(), sess, domain.ProfileInput{
		FullName:   req.FullName,
		StudentID:  req.StudentID,
		NationalID: req.NationalID,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ProfileResponse{Identity: sess.Identity, Profile: profile})
}
