package mgmt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Errors mapped from management service responses.
var (
	ErrAuthFailure = errors.New("management: authentication rejected")
	ErrNotFound    = errors.New("management: resource not found")
)

// HTTPDoer abstracts HTTP clients used by the management client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials authenticate against the management service, either as a
// ready bearer token or as a username/password pair exchanged via Login.
type Credentials struct {
	Token    string
	Username string
	Password string
}

// CredentialsFromEnv builds credentials from environment configuration.
func CredentialsFromEnv() (Credentials, error) {
	token := strings.TrimSpace(os.Getenv("APPAUDIT_MGMT_TOKEN"))
	if token != "" {
		return Credentials{Token: token}, nil
	}
	user := strings.TrimSpace(os.Getenv("APPAUDIT_MGMT_USER"))
	password := os.Getenv("APPAUDIT_MGMT_PASSWORD")
	if user == "" {
		return Credentials{}, fmt.Errorf("credentials are required: set APPAUDIT_MGMT_TOKEN or APPAUDIT_MGMT_USER and APPAUDIT_MGMT_PASSWORD")
	}
	return Credentials{Username: user, Password: password}, nil
}

// Client talks to the management service REST API.
type Client struct {
	BaseURL     string
	Client      HTTPDoer
	credentials Credentials
	token       string
}

// NewClient constructs a management client with explicit settings.
func NewClient(baseURL string, credentials Credentials, client HTTPDoer) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("management base URL is required")
	}
	if credentials.Token == "" && credentials.Username == "" {
		return nil, fmt.Errorf("management credentials are required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Client:      client,
		credentials: credentials,
		token:       credentials.Token,
	}, nil
}

// loginResponse is the token envelope returned by the login endpoint.
type loginResponse struct {
	Token string `json:"token"`
}

// Login establishes a session. With a ready bearer token it is a no-op;
// otherwise it exchanges the username/password pair for a token. A
// rejected exchange fails with ErrAuthFailure.
func (c *Client) Login(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/user/login", nil)
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.SetBasicAuth(c.credentials.Username, c.credentials.Password)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	var payload loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return fmt.Errorf("%w: login returned an empty token", ErrAuthFailure)
	}
	c.token = payload.Token
	return nil
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

// putJSON issues an authenticated PUT with a JSON body and decodes the
// response into out.
func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+path, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an error response to the client's error taxonomy.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (status %d): %s", ErrAuthFailure, resp.StatusCode, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w (status %d): %s", ErrNotFound, resp.StatusCode, detail)
	default:
		return fmt.Errorf("management: unexpected status %d: %s", resp.StatusCode, detail)
	}
}
