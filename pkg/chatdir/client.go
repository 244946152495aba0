// Package chatdir talks to the external chat provider's user directory.
// Accounts created here are mirrored there so the chat frontend can resolve
// them; the directory is keyed by our user id and upserts are idempotent.
package chatdir

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotConfigured = errors.New("chat directory not configured")

// Client is a thin REST client for the directory. Requests authenticate with
// a server-side HS256 token signed with the API secret, the way Stream-style
// providers expect.
type Client struct {
	APIKey  string
	secret  []byte
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey, apiSecret, baseURL string) *Client {
	return &Client{
		APIKey:  apiKey,
		secret:  []byte(apiSecret),
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the client has enough config to make calls.
func (c *Client) Configured() bool {
	return c != nil && c.APIKey != "" && len(c.secret) > 0 && c.BaseURL != ""
}

// DirectoryUser is the upsert payload: id, display name, avatar.
type DirectoryUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// UpsertUser creates or updates the user in the provider directory.
func (c *Client) UpsertUser(ctx context.Context, u DirectoryUser) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	tok, err := c.serverToken()
	if err != nil {
		return err
	}
	body, err := json.Marshal(map[string]any{
		"users": map[string]DirectoryUser{u.ID: u},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/users?api_key="+c.APIKey, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tok)
	req.Header.Set("Stream-Auth-Type", "jwt")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode >= 300 {
		// keep a little of the body for the log line, never for the client
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return fmt.Errorf("chat directory upsert: status %d: %s", res.StatusCode, snippet)
	}
	return nil
}

// serverToken signs a claim identifying this backend as the server side of
// the API key pair.
func (c *Client) serverToken() (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"server": true})
	return t.SignedString(c.secret)
}
