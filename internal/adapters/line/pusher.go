package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"activitycheckin/internal/domain"
)

// ErrMissingCredential is returned when no channel access token is configured.
var ErrMissingCredential = fmt.Errorf("%w: LINE channel access token is not set", domain.ErrPushNotConfigured)

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type apiError struct {
	Message string `json:"message"`
}

type httpPusher struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewPusher returns a Pusher that calls the LINE Messaging API push endpoint.
// An empty token is allowed; every Push then fails with ErrMissingCredential.
func NewPusher(client *http.Client, baseURL, channelAccessToken string) domain.Pusher {
	if client == nil {
		client = NewHTTPClient()
	}
	return &httpPusher{client: client, baseURL: normalizeBaseURL(baseURL), token: channelAccessToken}
}

func (p *httpPusher) Push(ctx context.Context, to, text string) error {
	if p.token == "" {
		return ErrMissingCredential
	}
	body, err := json.Marshal(pushRequest{To: to, Messages: []textMessage{{Type: "text", Text: text}}})
	if err != nil {
		return fmt.Errorf("failed to encode push request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/bot/message/push", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push LINE message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("line push returned status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("line push returned status %d", resp.StatusCode)
	}
	return nil
}
