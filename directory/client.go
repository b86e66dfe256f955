// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is an HTTP implementation of Directory. Cancellation and timeouts
// are the transport's responsibility: there is no internal retry or backoff.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

var _ Directory = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
// Default has a 10 second timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a directory client for the given base URL.
//
// Returns Directory interface to enforce abstraction.
func NewClient(baseURL string, opts ...ClientOption) Directory {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default().With("component", "directory-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetEntities lists entities, optionally filtered by domain and substring.
func (c *Client) GetEntities(ctx context.Context, domain, search string, limit int) ([]*EntityRecord, error) {
	params := url.Values{}
	if domain != "" {
		params.Set("domain", domain)
	}
	if search != "" {
		params.Set("search", search)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/entities"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var entities []*EntityRecord
	if err := c.getJSON(ctx, path, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// GetEntityState retrieves the live state of a single entity.
func (c *Client) GetEntityState(ctx context.Context, entityId string) (*EntityRecord, error) {
	var entity EntityRecord
	err := c.getJSON(ctx, "/api/entities/"+url.PathEscape(entityId), &entity)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entityId)
		}
		return nil, err
	}
	return &entity, nil
}

// GetAreas lists all areas.
func (c *Client) GetAreas(ctx context.Context) ([]*Area, error) {
	var areas []*Area
	if err := c.getJSON(ctx, "/api/areas", &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// GetDevices lists all devices.
func (c *Client) GetDevices(ctx context.Context) ([]*Device, error) {
	var devices []*Device
	if err := c.getJSON(ctx, "/api/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetDeviceDetails retrieves a single device.
func (c *Client) GetDeviceDetails(ctx context.Context, id string) (*Device, error) {
	var device Device
	err := c.getJSON(ctx, "/api/devices/"+url.PathEscape(id), &device)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
		}
		return nil, err
	}
	return &device, nil
}

// GetAutomations lists all automation rules.
func (c *Client) GetAutomations(ctx context.Context) ([]*Automation, error) {
	var automations []*Automation
	if err := c.getJSON(ctx, "/api/automations", &automations); err != nil {
		return nil, err
	}
	return automations, nil
}

// statusError carries a non-2xx HTTP status.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("directory returned status %d", e.status)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("directory request failed", "path", path, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
