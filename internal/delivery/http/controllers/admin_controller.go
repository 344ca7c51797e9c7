package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/delivery/http/middleware"
	"activitycheckin/internal/domain"
)

// CreateCourseRequest is the request body for POST /api/admin/courses.
type CreateCourseRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (c CreateCourseRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// CreateActivityRequest is the request body for POST /api/admin/activities.
type CreateActivityRequest struct {
	Name         string    `json:"name"`
	CourseID     string    `json:"courseId"`
	ActivityDate time.Time `json:"activityDate"`
	Location     string    `json:"location"`
	Capacity     int       `json:"capacity"`
}

// Validate implements Validator.
func (c CreateActivityRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.ActivityDate.IsZero() {
		errs = append(errs, "activityDate is required")
	}
	if c.Capacity < 0 {
		errs = append(errs, "capacity must not be negative")
	}
	return errs
}

// AssignSeatRequest is the request body for PATCH /api/admin/registrations/{registrationID}/seat.
// An empty seatNumber clears the seat.
type AssignSeatRequest struct {
	SeatNumber string `json:"seatNumber"`
}

// RegisterOnBehalfRequest is the request body for POST /api/admin/registrations.
type RegisterOnBehalfRequest struct {
	ActivityID string `json:"activityId"`
	FullName   string `json:"fullName"`
	StudentID  string `json:"studentId"`
	NationalID string `json:"nationalId"`
}

// Validate implements Validator.
func (req RegisterOnBehalfRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.ActivityID) == "" {
		errs = append(errs, "activityId is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		errs = append(errs, "fullName is required")
	}
	return errs
}

// RosterResponse is the body of GET /api/admin/activities/{activityID}/registrations.
type RosterResponse struct {
	Activity      *domain.Activity       `json:"activity"`
	Registrations []*domain.Registration `json:"registrations"`
}

// AdminController backs the operator dashboard and seat roster.
type AdminController struct {
	Logger        *slog.Logger
	Roster        domain.RosterService
	Registrations domain.RegistrationService
}

func NewAdminController(logger *slog.Logger, roster domain.RosterService, registrations domain.RegistrationService) *AdminController {
	return &AdminController{
		Logger:        logger,
		Roster:        roster,
		Registrations: registrations,
	}
}

// ListActivities godoc
// @Summary Dashboard activities
// @Description Every activity, newest first, with course name, headcount, isFull and schedule status.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of ActivityHeadcount"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/activities [get]
func (c *AdminController) ListActivities(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Roster.ListActivities(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if rows == nil {
		rows = []*domain.ActivityHeadcount{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, rows)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCourseRequest true "Course"
// @Success 201 {object} helpers.APIResponse "data contains the created course"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/courses [post]
func (c *AdminController) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	course, err := c.Roster.CreateCourse(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, course)
}

// CreateActivity godoc
// @Summary Create an activity
// @Description courseId is optional; when given the course must exist. capacity 0 means nobody fits.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateActivityRequest true "Activity"
// @Success 201 {object} helpers.APIResponse "data contains the created activity"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/activities [post]
func (c *AdminController) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	activity, err := c.Roster.CreateActivity(r.Context(), domain.NewActivityInput{
		Name:         req.Name,
		CourseID:     req.CourseID,
		ActivityDate: req.ActivityDate,
		Location:     req.Location,
		Capacity:     req.Capacity,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, activity)
}

// GetRoster godoc
// @Summary Seat roster of an activity
// @Description The activity and its registrations, earliest first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param activityID path string true "Activity ID"
// @Success 200 {object} controllers.RosterResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/activities/{activityID}/registrations [get]
func (c *AdminController) GetRoster(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("activityID")
	if activityID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing activityID")
		return
	}
	activity, regs, err := c.Roster.GetRoster(r.Context(), activityID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, RosterResponse{Activity: activity, Registrations: regs})
}

// AssignSeat godoc
// @Summary Set or clear a seat
// @Description Writes the seat number of one registration directly. An empty seatNumber clears it.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Param body body AssignSeatRequest true "Seat"
// @Success 200 {object} helpers.APIResponse "data contains the updated registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/registrations/{registrationID}/seat [patch]
func (c *AdminController) AssignSeat(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing registrationID")
		return
	}
	var req AssignSeatRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Roster.AssignSeat(r.Context(), registrationID, req.SeatNumber)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

// RegisterOnBehalf godoc
// @Summary Register a student
// @Description Creates a registration entered by an operator. It has no visitor id, so no notification is sent.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterOnBehalfRequest true "Student"
// @Success 201 {object} controllers.RegisterSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/registrations [post]
func (c *AdminController) RegisterOnBehalf(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := middleware.OperatorIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req RegisterOnBehalfRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Registrations.RegisterOnBehalf(r.Context(), operatorID, domain.RegistrationInput{
		ActivityID: req.ActivityID,
		FullName:   req.FullName,
		StudentID:  req.StudentID,
		NationalID: req.NationalID,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}
