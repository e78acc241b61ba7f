// Package api is a small GraphQL client for the auth API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dtroode/roleauth/internal/client/session"
)

const defaultTimeout = 10 * time.Second

// Error is a GraphQL error returned by the server.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrEmptyResponse is returned when the server answers without data or errors.
var ErrEmptyResponse = errors.New("empty response from server")

// AuthPayload is the result of register and login.
type AuthPayload struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

// ProfileInput lists profile fields to change. Nil fields are not sent.
type ProfileInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// Client sends GraphQL operations over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	token      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// New creates a client for endpoint. token is called before every request
// and its result, when non-empty, is sent as a bearer token.
func New(endpoint string, token func() string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const userFields = `id name email role`

// Register creates an account.
func (c *Client) Register(ctx context.Context, name, email, password, role string) (AuthPayload, error) {
	const query = `mutation Register($name: String!, $email: String!, $password: String!, $role: String!) {
	register(name: $name, email: $email, password: $password, role: $role) { token user { ` + userFields + ` } }
}`
	var out struct {
		Register *AuthPayload `json:"register"`
	}
	err := c.do(ctx, query, map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	}, &out)
	if err != nil {
		return AuthPayload{}, err
	}
	if out.Register == nil {
		return AuthPayload{}, ErrEmptyResponse
	}
	return *out.Register, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthPayload, error) {
	const query = `mutation Login($email: String!, $password: String!) {
	login(email: $email, password: $password) { token user { ` + userFields + ` } }
}`
	var out struct {
		Login *AuthPayload `json:"login"`
	}
	err := c.do(ctx, query, map[string]any{"email": email, "password": password}, &out)
	if err != nil {
		return AuthPayload{}, err
	}
	if out.Login == nil {
		return AuthPayload{}, ErrEmptyResponse
	}
	return *out.Login, nil
}

// Me returns the user the current token belongs to, or nil.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	const query = `query Me { me { ` + userFields + ` } }`
	var out struct {
		Me *session.User `json:"me"`
	}
	if err := c.do(ctx, query, nil, &out); err != nil {
		return nil, err
	}
	return out.Me, nil
}

// UpdateProfile changes the supplied profile fields.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (session.User, error) {
	const query = `mutation UpdateProfile($name: String, $email: String, $password: String, $role: String) {
	updateProfile(name: $name, email: $email, password: $password, role: $role) { ` + userFields + ` }
}`
	vars := map[string]any{}
	for k, v := range map[string]*string{"name": in.Name, "email": in.Email, "password": in.Password, "role": in.Role} {
		if v != nil {
			vars[k] = *v
		}
	}

	var out struct {
		UpdateProfile *session.User `json:"updateProfile"`
	}
	if err := c.do(ctx, query, vars, &out); err != nil {
		return session.User{}, err
	}
	if out.UpdateProfile == nil {
		return session.User{}, ErrEmptyResponse
	}
	return *out.UpdateProfile, nil
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

func (r response) firstError() *Error {
	first := r.Errors[0]
	return &Error{Message: first.Message, Code: first.Extensions.Code}
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded response
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && len(decoded.Errors) > 0 {
			return decoded.firstError()
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if len(decoded.Errors) > 0 {
		return decoded.firstError()
	}
	if len(decoded.Data) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
