// Package gateway implements the Messaging & Membership Service adapter:
// a small JSON/HTTP client for the connector that fronts the chat platform.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hexcorp/hive-ai/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for reaching the gateway connector.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the gateway connector's REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a gateway client. A default timeout is applied when none
// is provided.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Members lists all members of the community.
func (c *Client) Members(ctx context.Context) ([]domain.Member, error) {
	var members []domain.Member
	if err := c.get(ctx, "/guild/members", &members); err != nil {
		return nil, fmt.Errorf("gateway members: %w", err)
	}
	return members, nil
}

// RoleNames lists the names of all roles defined in the community.
func (c *Client) RoleNames(ctx context.Context) ([]string, error) {
	var roles []struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/guild/roles", &roles); err != nil {
		return nil, fmt.Errorf("gateway roles: %w", err)
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names, nil
}

// Send posts a text message to the named channel.
func (c *Client) Send(ctx context.Context, channel, content string) error {
	path := "/channels/" + url.PathEscape(channel) + "/messages"
	body := map[string]string{"content": content}
	if err := c.post(ctx, path, body); err != nil {
		return fmt.Errorf("gateway send to %s: %w", channel, err)
	}
	return nil
}

// AddRoles grants the named roles to a member.
func (c *Client) AddRoles(ctx context.Context, memberID string, roleNames []string) error {
	if len(roleNames) == 0 {
		return nil
	}
	path := "/guild/members/" + url.PathEscape(memberID) + "/roles/add"
	if err := c.post(ctx, path, map[string][]string{"roles": roleNames}); err != nil {
		return fmt.Errorf("gateway add roles: %w", err)
	}
	return nil
}

// RemoveRoles revokes the named roles from a member.
func (c *Client) RemoveRoles(ctx context.Context, memberID string, roleNames []string) error {
	if len(roleNames) == 0 {
		return nil
	}
	path := "/guild/members/" + url.PathEscape(memberID) + "/roles/remove"
	if err := c.post(ctx, path, map[string][]string{"roles": roleNames}); err != nil {
		return fmt.Errorf("gateway remove roles: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, b)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
