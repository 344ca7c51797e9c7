package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/domain"
)

// CatalogController serves the visitor's course and activity browsing.
type CatalogController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewCatalogController(logger *slog.Logger, svc domain.RegistrationService) *CatalogController {
	return &CatalogController{
		Logger:  logger,
		Service: svc,
	}
}

// ListCourses godoc
// @Summary List courses
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of courses"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/courses [get]
func (c *CatalogController) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := c.Service.ListCourses(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if courses == nil {
		courses = []*domain.Course{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, courses)
}

// ListActivities godoc
// @Summary List upcoming activities
// @Description Activities that have not started yet, soonest first. Optionally narrowed to one course.
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param courseId query string false "Course ID"
// @Success 200 {object} helpers.APIResponse "data is an array of activities with courseName"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/activities [get]
func (c *CatalogController) ListActivities(w http.ResponseWriter, r *http.Request) {
	courseID := strings.TrimSpace(r.URL.Query().Get("courseId"))
	activities, err := c.Service.ListUpcomingActivities(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if activities == nil {
		activities = []*domain.ActivityWithCourse{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, activities)
}
