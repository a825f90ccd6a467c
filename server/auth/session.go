package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const sessionServerBaseURL = "https://sessionserver.mojang.com"

// ErrSessionLookupFailed reports that the Mojang session service did not
// confirm the join attempt: wrong serverId, expired client session, or an
// offline/unauthenticated player.
var ErrSessionLookupFailed = errors.New("auth: session lookup failed")

// Property is one signed profile property (e.g. "textures") as returned by
// the Mojang session service.
type Property struct {
	Name      string
	Value     string
	Signature string
}

// Profile is the authenticated Mojang profile returned by HasJoined.
type Profile struct {
	ID         uuid.UUID
	Name       string
	Properties []Property
}

// Client is a process-wide, stateless HTTPS client for the Mojang session
// API. A single Client is safe for concurrent use by every connection's
// login handler.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a Client against the production Mojang session server.
func NewClient() *Client {
	return NewClientWithBaseURL(sessionServerBaseURL)
}

// NewClientWithBaseURL returns a Client against a custom session-service
// base URL, for tests that stand in a local server for the Mojang one.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

type hasJoinedResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties []struct {
		Name      string `json:"name"`
		Value     string `json:"value"`
		Signature string `json:"signature"`
	} `json:"properties"`
}

// HasJoined asks the session service whether username recently started a
// login whose serverId (from ServerIDHash) matches. A non-OK response, or
// one the service answers with an empty body, is reported as
// ErrSessionLookupFailed.
func (c *Client) HasJoined(ctx context.Context, username, serverID string) (Profile, error) {
	q := url.Values{"username": {username}, "serverId": {serverID}}
	reqURL := c.baseURL + "/session/minecraft/hasJoined?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("auth: build hasJoined request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrSessionLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, ErrSessionLookupFailed
	}

	var body hasJoinedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, fmt.Errorf("%w: decode response: %v", ErrSessionLookupFailed, err)
	}
	if body.ID == "" {
		return Profile{}, ErrSessionLookupFailed
	}

	id, err := uuid.Parse(body.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: malformed profile id: %v", ErrSessionLookupFailed, err)
	}

	profile := Profile{ID: id, Name: body.Name, Properties: make([]Property, len(body.Properties))}
	for i, p := range body.Properties {
		profile.Properties[i] = Property{Name: p.Name, Value: p.Value, Signature: p.Signature}
	}
	return profile, nil
}
