package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"activitycheckin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogController_ListActivities(t *testing.T) {
	svc := &fakeRegistrationService{activities: []*domain.ActivityWithCourse{
		{Activity: &domain.Activity{ID: "A1", Name: "Orientation"}, CourseName: "CS"},
	}}
	c := NewCatalogController(testLogger, svc)
	rr := httptest.NewRecorder()

	c.ListActivities(rr, httptest.NewRequest(http.MethodGet, "/api/activities?courseId=C1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "C1", svc.lastCourse)
	var got []map[string]any
	require.Nil(t, decodeEnvelope(t, rr, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Orientation", got[0]["name"])
	assert.Equal(t, "CS", got[0]["courseName"])
}

func TestCatalogController_ListCourses(t *testing.T) {
	t.Run("empty list is an array", func(t *testing.T) {
		c := NewCatalogController(testLogger, &fakeRegistrationService{})
		rr := httptest.NewRecorder()
		c.ListCourses(rr, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		c := NewCatalogController(testLogger, &fakeRegistrationService{listErr: errors.New("boom")})
		rr := httptest.NewRecorder()
		c.ListCourses(rr, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHealthController(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthController(testLogger, fakePinger{}).Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	NewHealthController(testLogger, fakePinger{err: errors.New("down")}).Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
