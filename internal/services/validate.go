package services

import (
	"fmt"
	"regexp"
	"strings"

	"activitycheckin/internal/domain"
)

var nationalIDPattern = regexp.MustCompile(`^[0-9]{13}$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validateStudent checks the identifying fields shared by registration and profile setup.
func validateStudent(studentID, nationalID string) error {
	if studentID == "" {
		return invalid("studentId is required")
	}
	if !nationalIDPattern.MatchString(nationalID) {
		return invalid("nationalId must be 13 digits")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
