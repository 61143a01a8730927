package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fitchat-backend/internal/models"
)

// Client is the HTTP client the session talks to the backend through. It
// keeps the bearer token for the lifetime of the session, like the browser's
// session storage, and attaches it to auth-aware requests.
//
// The chat request is deliberately sent without the token. The relay endpoint
// is unauthenticated today; see DESIGN.md before changing that.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// Ask relays a composed prompt and returns the normalized reply text.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	var resp models.ChatResponse
	if err := c.post(ctx, "/api/gemini", models.ChatRequest{Prompt: prompt}, &resp, false); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Signup creates an account and stores the issued token.
func (c *Client) Signup(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.authRequest(ctx, "/api/auth/signup", email, password)
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.authRequest(ctx, "/api/auth/login", email, password)
}

// Logout tells the server (a no-op there) and discards the local token,
// which is what actually ends the session.
func (c *Client) Logout(ctx context.Context) error {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.post(ctx, "/api/auth/logout", struct{}{}, &resp, true)
	c.ClearToken()
	return err
}

func (c *Client) authRequest(ctx context.Context, path, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, path, models.LoginRequest{Email: email, Password: password}, &resp, false); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}, withToken bool) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("client: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if withToken {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
			Text  string `json:"text"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil {
			if apiErr.Error != "" {
				return fmt.Errorf("client: %s: %s", path, apiErr.Error)
			}
			if apiErr.Text != "" {
				return fmt.Errorf("client: %s: %s", path, apiErr.Text)
			}
		}
		return fmt.Errorf("client: %s: status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
