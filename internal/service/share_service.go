package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrMastodonNotConfigured = errors.New("mastodon sharing is not configured")
	ErrBlueskyNotConfigured  = errors.New("bluesky sharing is not configured")
)

// httpDoer abstracts the HTTP client so tests can stub network calls.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ShareService posts announcement messages for a published post to
// Mastodon and Bluesky. Sharing is best effort: failures are reported to
// the caller but never touch post state.
type ShareService struct {
	http httpDoer

	mastodonBaseURL string
	mastodonToken   string

	blueskyPDSURL      string
	blueskyHandle      string
	blueskyAppPassword string
}

// NewShareService builds a ShareService from the configured credentials.
// Empty credentials leave the matching network disabled.
func NewShareService(mastodonBaseURL, mastodonToken, blueskyPDSURL, blueskyHandle, blueskyAppPassword string) *ShareService {
	return &ShareService{
		http:               &http.Client{Timeout: 20 * time.Second},
		mastodonBaseURL:    strings.TrimRight(strings.TrimSpace(mastodonBaseURL), "/"),
		mastodonToken:      strings.TrimSpace(mastodonToken),
		blueskyPDSURL:      strings.TrimRight(strings.TrimSpace(blueskyPDSURL), "/"),
		blueskyHandle:      strings.TrimSpace(blueskyHandle),
		blueskyAppPassword: strings.TrimSpace(blueskyAppPassword),
	}
}

// SetHTTPClient overrides the HTTP client, primarily for tests.
func (s *ShareService) SetHTTPClient(client httpDoer) {
	if client == nil {
		s.http = &http.Client{Timeout: 20 * time.Second}
		return
	}
	s.http = client
}

func shareMessage(title, postURL string) string {
	return fmt.Sprintf("New blog post: %s\n\nRead more here: %s", title, postURL)
}

// ShareToMastodon posts a status with the post title and canonical URL.
func (s *ShareService) ShareToMastodon(ctx context.Context, title, postURL string) error {
	if s.mastodonBaseURL == "" || s.mastodonToken == "" {
		return ErrMastodonNotConfigured
	}

	payload := map[string]string{"status": shareMessage(title, postURL)}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.mastodonBaseURL+"/api/v1/statuses", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.mastodonToken)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("mastodon request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mastodon returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	return nil
}

// ShareToBluesky logs in with the app password and creates a feed post
// record carrying the announcement text.
func (s *ShareService) ShareToBluesky(ctx context.Context, title, postURL string) error {
	if s.blueskyPDSURL == "" || s.blueskyHandle == "" || s.blueskyAppPassword == "" {
		return ErrBlueskyNotConfigured
	}

	session, err := s.blueskyCreateSession(ctx)
	if err != nil {
		return err
	}

	record := map[string]interface{}{
		"repo":       session.DID,
		"collection": "app.bsky.feed.post",
		"record": map[string]interface{}{
			"$type":     "app.bsky.feed.post",
			"text":      shareMessage(title, postURL),
			"createdAt": time.Now().UTC().Format(time.RFC3339),
		},
	}
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.blueskyPDSURL+"/xrpc/com.atproto.repo.createRecord", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+session.AccessJWT)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("bluesky request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bluesky returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	return nil
}

type blueskySession struct {
	AccessJWT string `json:"accessJwt"`
	DID       string `json:"did"`
}

func (s *ShareService) blueskyCreateSession(ctx context.Context) (*blueskySession, error) {
	payload := map[string]string{
		"identifier": s.blueskyHandle,
		"password":   s.blueskyAppPassword,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.blueskyPDSURL+"/xrpc/com.atproto.server.createSession", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bluesky login failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bluesky login returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	var session blueskySession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	if session.AccessJWT == "" || session.DID == "" {
		return nil, errors.New("bluesky login returned an incomplete session")
	}

	return &session, nil
}

func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
