package line

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"activitycheckin/internal/domain"
)

type profileResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

type profileProvider struct {
	client  *http.Client
	baseURL string
}

// NewProfileProvider returns an IdentityProvider that resolves LIFF access tokens
// through the LINE profile endpoint.
func NewProfileProvider(client *http.Client, baseURL string) domain.IdentityProvider {
	if client == nil {
		client = NewHTTPClient()
	}
	return &profileProvider{client: client, baseURL: normalizeBaseURL(baseURL)}
}

func (p *profileProvider) Identify(ctx context.Context, accessToken string) (*domain.Identity, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", domain.ErrUnauthorized)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v2/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch LINE profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: line profile returned status %d", domain.ErrUnauthorized, resp.StatusCode)
	}

	var data profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode LINE profile: %w", err)
	}
	if data.UserID == "" {
		return nil, fmt.Errorf("%w: line profile has no user id", domain.ErrUnauthorized)
	}
	return &domain.Identity{UserID: data.UserID, DisplayName: data.DisplayName, PictureURL: data.PictureURL}, nil
}

// Fixed identity returned in mock mode.
const (
	MockUserID      = "U_TEST_1234567890ABCDEF"
	MockDisplayName = "คุณทดสอบ"
	MockPictureURL  = "https://lh5.googleusercontent.com/d/10mcLZP15XqebnVb1IaODQLhZ93EWT7h7"
)

type mockProvider struct{}

// NewMockProvider returns an IdentityProvider that ignores the token and always yields the test visitor.
func NewMockProvider() domain.IdentityProvider {
	return mockProvider{}
}

func (mockProvider) Identify(context.Context, string) (*domain.Identity, error) {
	return &domain.Identity{UserID: MockUserID, DisplayName: MockDisplayName, PictureURL: MockPictureURL}, nil
}
