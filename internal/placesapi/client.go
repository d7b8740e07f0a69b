// Package placesapi is a client for an upstream places REST service. It
// satisfies the same store contract as the local backends, so the cache and
// service layers run unchanged against a remote API.
package placesapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"satwatch/internal/domain"
	"satwatch/internal/geo"
)

// place is the upstream wire shape. Server-assigned integer ids are carried
// into the domain as their decimal strings.
type place struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Geometry    json.RawMessage `json:"geometry"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   *string         `json:"updated_at"`
}

type createRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Geometry    geo.Feature `json:"geometry"`
}

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

type Option func(*Client)

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches every place of the authenticated user.
func (c *Client) List(ctx context.Context) ([]domain.Location, error) {
	body, err := c.do(ctx, http.MethodGet, "/places/", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("placesapi: decode list response: %w", err)
	}
	locations := make([]domain.Location, 0, len(places))
	for _, p := range places {
		loc, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// Save creates the place upstream. The server assigns the authoritative id,
// so the id of loc is not preserved in this posture.
func (c *Client) Save(ctx context.Context, loc domain.Location) error {
	payload, err := json.Marshal(createRequest{
		Name:        loc.Name,
		Description: loc.Description,
		Geometry:    loc.Geometry,
	})
	if err != nil {
		return fmt.Errorf("placesapi: encode create request: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/places/", payload, http.StatusOK, http.StatusCreated)
	return err
}

// Delete removes a place by id. A 404 is treated as a no-op to match the
// local stores' delete idempotence.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/places/"+id, nil,
		http.StatusOK, http.StatusNoContent, http.StatusNotFound)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, okStatuses ...int) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("placesapi: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("placesapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("placesapi: read response: %w", err)
	}
	for _, status := range okStatuses {
		if resp.StatusCode == status {
			return data, nil
		}
	}
	return nil, fmt.Errorf("placesapi: %s %s: unexpected status %d", method, path, resp.StatusCode)
}

func (p place) toDomain() (domain.Location, error) {
	feature, err := geo.Decode(p.Geometry)
	if err != nil {
		return domain.Location{}, fmt.Errorf("placesapi: place %d: %w", p.ID, err)
	}
	return domain.Location{
		ID:          strconv.FormatInt(p.ID, 10),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		Geometry:    feature,
	}, nil
}
