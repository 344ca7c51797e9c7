package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitycheckin/internal/domain"
)

func TestTemplateRenderer_Render(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	tests := []struct {
		name     string
		template string
		data     any
		contains []string
		wantErr  bool
	}{
		{
			name:     "check-in names activity and seat",
			template: domain.TemplateCheckInConfirmed,
			data:     domain.MessageData{ActivityName: "Orientation", SeatNumber: "B7"},
			contains: []string{"Orientation", "B7"},
		},
		{
			name:     "registration",
			template: domain.TemplateRegistrationConfirmed,
			data:     map[string]string{"ActivityName": "Orientation"},
			contains: []string{"Registration confirmed for Orientation."},
		},
		{
			name:     "legacy seat message",
			template: domain.TemplateSeatAssigned,
			data:     map[string]string{"SeatNumber": "A1"},
			contains: []string{"Your seat number is A1."},
		},
		{
			name:     "unknown template",
			template: "nope",
			data:     nil,
			wantErr:  true,
		},
		{
			name:     "missing key",
			template: domain.TemplateSeatAssigned,
			data:     map[string]string{},
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.template, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, got, c)
			}
			assert.Equal(t, strings.TrimSpace(got), got)
		})
	}
}
