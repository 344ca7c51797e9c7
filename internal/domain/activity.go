package domain

import (
	"context"
	"time"
)

// OngoingWindow is how long after its start an activity is reported as ongoing.
const OngoingWindow = 3 * time.Hour

// ActivityStatus is the schedule state of an activity relative to now.
type ActivityStatus string

const (
	ActivityUpcoming ActivityStatus = "upcoming"
	ActivityOngoing  ActivityStatus = "ongoing"
	ActivityFinished ActivityStatus = "finished"
)

// Activity is a scheduled session visitors register for.
// swagger:model Activity
type Activity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CourseID     *string   `json:"courseId"`
	ActivityDate time.Time `json:"activityDate"`
	Location     string    `json:"location"`
	Capacity     int       `json:"capacity"`
}

// StatusAt reports whether the activity is upcoming, ongoing or finished at now.
func (a *Activity) StatusAt(now time.Time) ActivityStatus {
	switch {
	case now.Before(a.ActivityDate):
		return ActivityUpcoming
	case now.After(a.ActivityDate.Add(OngoingWindow)):
		return ActivityFinished
	default:
		return ActivityOngoing
	}
}

// CapacityPolicy decides whether a full activity still accepts registrations.
type CapacityPolicy string

const (
	// CapacityAdvisory reports fullness but keeps accepting registrations.
	CapacityAdvisory CapacityPolicy = "advisory"
	// CapacityEnforce rejects registrations once the headcount reaches capacity.
	CapacityEnforce CapacityPolicy = "enforce"
)

// ActivityFilter narrows activity listings. Zero values match everything.
type ActivityFilter struct {
	CourseID string
	From     *time.Time
}

// ActivityRepository defines storage operations for activities.
type ActivityRepository interface {
	Create(ctx context.Context, activity *Activity) error
	GetByID(ctx context.Context, id string) (*Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Activity, error)
}

// ActivityWithCourse is an activity plus the display name of its course.
type ActivityWithCourse struct {
	*Activity
	CourseName string `json:"courseName"`
}

// ActivityHeadcount is one row of the admin dashboard.
// swagger:model ActivityHeadcount
type ActivityHeadcount struct {
	*Activity
	CourseName string         `json:"courseName"`
	Registered int            `json:"registered"`
	IsFull     bool           `json:"isFull"`
	Status     ActivityStatus `json:"status"`
}

// NewActivityInput is the admin input for creating an activity.
type NewActivityInput struct {
	Name         string
	CourseID     string
	ActivityDate time.Time
	Location     string
	Capacity     int
}
