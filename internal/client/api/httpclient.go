package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/brokergate/client/internal/logging"
)

const (
	statusSuccess = "SUCCESS"

	clientIDHeader  = "X-Client-ID"
	requestIDHeader = "X-Request-ID"
)

// envelope is the backend's uniform response body.
type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	NeedOTP bool              `json:"needOTP"`
	Client  *ClientRecord     `json:"client"`
	Errors  map[string]string `json:"errors"`
}

// HTTPClient implements Client over the backend's HTTP/JSON surface.
// Session continuation is cookie-based; the current client identifier is
// additionally attached as a header on every request and as a query
// parameter on GETs, to tolerate backends relying on either channel.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client

	// clientID supplies the current session identifier, "" when none.
	clientID func() string

	// onAuthExpired fires once per 401/403 response, before the error is
	// returned to the caller.
	onAuthExpired func()

	log logging.Logger

	// now is a test seam for the GET cache-buster.
	now func() time.Time
}

// NewHTTPClient builds a client for baseURL. clientID and onAuthExpired may
// be nil.
func NewHTTPClient(baseURL string, clientID func() string, onAuthExpired func(), log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if clientID == nil {
		clientID = func() string { return "" }
	}
	if log == nil {
		log = logging.NewNop()
	}

	return &HTTPClient{
		baseURL:       u,
		http:          &http.Client{Jar: jar},
		clientID:      clientID,
		onAuthExpired: onAuthExpired,
		log:           log,
		now:           time.Now,
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, clientID, password string) (LoginResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"client_id": clientID,
		"password":  password,
	})
	if err != nil {
		return LoginResult{}, err
	}
	if env.Status != statusSuccess {
		return LoginResult{}, rejection(env, "Authentication failed")
	}
	return LoginResult{NeedOTP: env.NeedOTP}, nil
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, clientID, otp string) error {
	env, err := c.do(ctx, http.MethodPost, "/api/verify-otp", map[string]string{
		"client_id": clientID,
		"otp":       otp,
	})
	if err != nil {
		return err
	}
	if env.Status != statusSuccess {
		return rejection(env, "OTP verification failed")
	}
	return nil
}

func (c *HTTPClient) ResendOTP(ctx context.Context, clientID string) error {
	env, err := c.do(ctx, http.MethodPost, "/api/resend-otp", map[string]string{
		"client_id": clientID,
	})
	if err != nil {
		return err
	}
	if env.Status != statusSuccess {
		return rejection(env, "Failed to resend OTP")
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, creds Credentials) error {
	env, err := c.do(ctx, http.MethodPost, "/api/register", creds)
	if err != nil {
		return err
	}
	if env.Status != statusSuccess {
		return rejection(env, "Registration failed")
	}
	return nil
}

func (c *HTTPClient) UpdateClient(ctx context.Context, patch map[string]string) error {
	env, err := c.do(ctx, http.MethodPut, "/api/update-client", patch)
	if err != nil {
		return err
	}
	if env.Status != statusSuccess {
		return rejection(env, "Failed to update credentials")
	}
	return nil
}

func (c *HTTPClient) ClientInfo(ctx context.Context) (*ClientRecord, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/client-info", nil)
	if err != nil {
		return nil, err
	}
	if env.Status != statusSuccess || env.Client == nil {
		return nil, rejection(env, "Failed to load client information")
	}
	return env.Client, nil
}

// Logout notifies the backend. The response body is not inspected: callers
// clear local state regardless of the outcome.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/logout", nil)
	return err
}

func (c *HTTPClient) TestAuth(ctx context.Context) error {
	env, err := c.do(ctx, http.MethodGet, "/api/test-auth", nil)
	if err != nil {
		return err
	}
	if env.Status != statusSuccess {
		return rejection(env, "Session check failed")
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs a single request and decodes the envelope. No retries.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	u := *c.baseURL
	u.Path = path

	if method == http.MethodGet {
		q := u.Query()
		// Cache-buster, mirrored from the web client.
		q.Set("_t", strconv.FormatInt(c.now().UnixMilli(), 10))
		if id := c.clientID(); id != "" {
			q.Set("client_id", id)
		}
		u.RawQuery = q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if id := c.clientID(); id != "" {
		req.Header.Set(clientIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
	}

	var env envelope
	// A non-JSON body is tolerated: the envelope stays zero and status-code
	// handling below decides the outcome.
	_ = json.Unmarshal(data, &env)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.log.Warn(ctx, "authorization lapsed", "method", method, "path", path, "status", resp.StatusCode)
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message, FieldErrors: env.Errors}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message, FieldErrors: env.Errors}
	}

	return &env, nil
}

// rejection converts a 2xx response with a non-success status into the same
// error shape as an HTTP-level rejection.
func rejection(env *envelope, fallback string) error {
	msg := env.Message
	if msg == "" {
		msg = fallback
	}
	return &APIError{StatusCode: 200, Message: msg, FieldErrors: env.Errors}
}
