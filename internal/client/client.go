package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gamecafe-pos/internal/config"
	"gamecafe-pos/internal/models"
)

// APIError is a domain failure reported by the POS server: a well-formed
// response whose body carries an "error" string instead of the expected
// payload. Its message is meant to be shown to the user verbatim.
// Anything else (network, timeout, bad JSON) surfaces as an ordinary
// wrapped error.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is a typed HTTP client for the POS API.
type Client struct {
	baseURL    string
	adminToken string
	http       *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		adminToken: cfg.AdminToken,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := c.getJSON(ctx, "/api/games", &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) ListStations(ctx context.Context) (map[string]models.StationStatus, error) {
	var stations map[string]models.StationStatus
	if err := c.getJSON(ctx, "/api/stations", &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := c.getJSON(ctx, "/api/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) GetUser(ctx context.Context, mobile string) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/api/users/"+url.PathEscape(mobile), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) StartSession(ctx context.Context, req models.StartSessionRequest) error {
	return c.postJSON(ctx, "/api/start_session", req, nil, "")
}

func (c *Client) EndSession(ctx context.Context, req models.EndSessionRequest) (*models.EndSessionResult, error) {
	var result models.EndSessionResult
	if err := c.postJSON(ctx, "/api/end_session", req, &result, ""); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateGamePrice(ctx context.Context, name string, pricePerHour float64) error {
	req := models.UpdatePriceRequest{Name: name, PricePerHour: pricePerHour}
	return c.postJSON(ctx, "/api/games/update_price", req, nil, c.adminToken)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}, token string) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// A 2xx transport result can still carry a domain failure; the
	// error field has to be checked before trusting the payload.
	var domainErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &domainErr) == nil && domainErr.Error != "" {
		return &APIError{Message: domainErr.Error}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
