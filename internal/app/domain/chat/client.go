// Package chat talks to the Trip Mate API: it opens assistant response
// streams and consumes them into the session transcript.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/models"
)

// Client is the HTTP client for the remote collaborator endpoints. The
// session token is an opaque capability handed in per call; the client
// attaches it as a bearer credential and never inspects it.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		// No client-side timeout: a chat stream stays open for as long
		// as the assistant keeps talking. Callers cancel via context.
		http:   &http.Client{},
		logger: logger,
	}
}

// OpenStream starts an assistant response stream. The caller owns the
// returned body and must close it; fragments arrive as chunked UTF-8
// text with no sentinel beyond stream close.
func (c *Client) OpenStream(ctx context.Context, token string, req models.ChatStreamRequest) (io.ReadCloser, error) {
	httpReq, err := c.newJSONRequest(ctx, http.MethodPost, "/api/chat/stream", token, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("opening chat stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("chat stream rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("chat stream returned status %d: %w", resp.StatusCode, models.ErrAssistantUpstream)
	}
	return resp.Body, nil
}

// SaveItinerary persists the current plan to the user's profile.
// Success or failure is communicated by response status alone.
func (c *Client) SaveItinerary(ctx context.Context, token string, req models.SaveItineraryRequest) error {
	if token == "" {
		return models.ErrSaveRequiresAuth
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/itinerary", token, req, &out); err != nil {
		return fmt.Errorf("saving itinerary: %w", err)
	}
	c.logger.Info("itinerary saved", zap.String("id", out.ID), zap.String("destination", req.Destination))
	return nil
}

// GenerateItinerary asks for a structured plan directly, outside the
// chat flow. The raw payload is returned for the normalizer.
func (c *Client) GenerateItinerary(ctx context.Context, token string, req models.GenerateItineraryRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/itinerary/generate", token, req, &out); err != nil {
		return nil, fmt.Errorf("generating itinerary: %w", err)
	}
	return out, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out models.TokenResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", req, &out); err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	return out.AccessToken, nil
}

// Register creates an account. The caller logs in afterwards.
func (c *Client) Register(ctx context.Context, email, password string) error {
	req := models.RegisterRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", req, nil); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := c.newJSONRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return models.ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
