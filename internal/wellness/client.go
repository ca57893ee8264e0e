// Package wellness talks to the external wellness backend.
package wellness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"wellness/internal/domain"
)

// Client is a wellness backend API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client for baseURL. When tokenSource is non-nil every request
// carries its bearer token.
func NewClient(baseURL string, tokenSource oauth2.TokenSource, timeout time.Duration, perMinute int) *Client {
	var httpClient *http.Client
	if tokenSource != nil {
		httpClient = oauth2.NewClient(context.Background(), tokenSource)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = timeout

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		rateLimiter: NewRateLimiter(perMinute),
	}
}

// StaticToken returns a token source for a fixed API token, or nil when token is empty.
func StaticToken(token string) oauth2.TokenSource {
	if token == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// GetUser fetches a profile by id. A missing user yields ErrNotFound.
func (c *Client) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := c.do(ctx, "get user", http.MethodGet, "/user/"+url.PathEscape(userID), nil, &p); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// UpdateUser persists the full profile.
func (c *Client) UpdateUser(ctx context.Context, p domain.UserProfile) error {
	var resp statusResponse
	return c.do(ctx, "update user", http.MethodPost, "/user/update", p, &resp)
}

// Login checks credentials and returns the stored profile.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	req := loginRequest{Email: strings.ToLower(strings.TrimSpace(email)), Password: password}
	var p domain.UserProfile
	if err := c.do(ctx, "login", http.MethodPost, "/login", req, &p); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// Signup creates an account from a fresh profile.
func (c *Client) Signup(ctx context.Context, p domain.UserProfile, password string) (*domain.UserProfile, error) {
	var resp signupResponse
	if err := c.do(ctx, "signup", http.MethodPost, "/signup", signupRequest{UserProfile: p, Password: password}, &resp); err != nil {
		return nil, err
	}
	user := resp.User
	if user.UserID == "" {
		user = p
	}
	user.Normalize()
	return &user, nil
}

// Recommendation asks for a proactive suggestion.
func (c *Client) Recommendation(ctx context.Context, p domain.UserProfile) (*Recommendation, error) {
	var rec Recommendation
	if err := c.do(ctx, "recommendation", http.MethodPost, "/recommendation", p, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Chat sends a message with the profile as context.
func (c *Client) Chat(ctx context.Context, p domain.UserProfile, message string) (*ChatReply, error) {
	var reply ChatReply
	req := chatRequest{UserID: p.UserID, Message: message, Context: p}
	if err := c.do(ctx, "chat", http.MethodPost, "/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// WellnessPlan asks for today's plan.
func (c *Client) WellnessPlan(ctx context.Context, p domain.UserProfile) (*WellnessPlan, error) {
	var plan WellnessPlan
	if err := c.do(ctx, "wellness plan", http.MethodPost, "/wellness-plan", p, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ClarifyDoubt asks a free-form question.
func (c *Client) ClarifyDoubt(ctx context.Context, p domain.UserProfile, question string) (string, error) {
	var resp doubtResponse
	req := doubtRequest{UserID: p.UserID, Question: question, Context: p}
	if err := c.do(ctx, "clarify doubt", http.MethodPost, "/clarify-doubt", req, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// AnalyzeMeal sends a meal photo as a data URL.
func (c *Client) AnalyzeMeal(ctx context.Context, p domain.UserProfile, imageData string) (string, error) {
	var resp mealResponse
	req := imageRequest{UserID: p.UserID, ImageData: imageData, Context: p}
	if err := c.do(ctx, "analyze meal", http.MethodPost, "/analyze-meal", req, &resp); err != nil {
		return "", err
	}
	return resp.Insight, nil
}

// AnalyzePrescription sends a prescription photo as a data URL.
func (c *Client) AnalyzePrescription(ctx context.Context, p domain.UserProfile, imageData string) (string, error) {
	var resp prescriptionResponse
	req := imageRequest{UserID: p.UserID, ImageData: imageData, Context: p}
	if err := c.do(ctx, "analyze prescription", http.MethodPost, "/analyze-prescription", req, &resp); err != nil {
		return "", err
	}
	return resp.Analysis, nil
}

// RateLimitStatus returns the requests left in the current window, -1 when unlimited.
func (c *Client) RateLimitStatus() int {
	return c.rateLimiter.Status()
}

// do sends body as JSON and decodes the response into out.
// Every failure comes back as a *NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		ne := &NetworkError{Op: op, Status: resp.StatusCode, Detail: errorDetail(raw)}
		if resp.StatusCode == http.StatusNotFound {
			ne.Err = ErrNotFound
		} else {
			ne.Err = errors.New(http.StatusText(resp.StatusCode))
		}
		return ne
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// errorDetail pulls the "detail" message out of an error body, falling back to the raw text.
func errorDetail(raw []byte) string {
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Detail != "" {
		return er.Detail
	}
	return strings.TrimSpace(string(raw))
}
