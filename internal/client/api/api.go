// Package api wraps the brokerage backend's HTTP/JSON interface: one method
// per backend operation, a shared response envelope, and error mapping to
// sentinel values the flow layer can branch on.
package api

import "context"

// ClientRecord is the profile the backend returns for an authenticated
// client.
type ClientRecord struct {
	ClientID   string `json:"client_id"`
	UserID     string `json:"userid"`
	APIKey     string `json:"api_key"`
	TwoFA      string `json:"two_fa"`
	VendorInfo string `json:"vendor_info"`
	ClientCode string `json:"client_code"`
}

// Credentials is the registration payload. VendorInfo is overwritten with
// UserID by the credential service before submission.
type Credentials struct {
	ClientID   string `json:"client_id"`
	APIKey     string `json:"api_key"`
	UserID     string `json:"userid"`
	Password   string `json:"password"`
	TwoFA      string `json:"two_fa"`
	VendorInfo string `json:"vendor_info"`
	ClientCode string `json:"client_code,omitempty"`
}

// LoginResult reports the outcome of a successful login request. When
// NeedOTP is set the session is not yet established and the caller must
// follow up with VerifyOTP.
type LoginResult struct {
	NeedOTP bool
}

// Client defines the backend operations used by the flow services.
//
// Contract: each call is a single request with no retry. Failures are
// returned as errors; server-rejected requests carry the backend's message
// (see APIError), authorization lapses match ErrUnauthorized via errors.Is,
// and transport failures match ErrUnavailable.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	Login(ctx context.Context, clientID, password string) (LoginResult, error)
	VerifyOTP(ctx context.Context, clientID, otp string) error
	ResendOTP(ctx context.Context, clientID string) error
	Register(ctx context.Context, creds Credentials) error
	UpdateClient(ctx context.Context, patch map[string]string) error
	ClientInfo(ctx context.Context) (*ClientRecord, error)
	Logout(ctx context.Context) error
	TestAuth(ctx context.Context) error
	Close() error
}
