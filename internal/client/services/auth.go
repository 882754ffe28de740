// Package services contains the application services of the client: the
// authentication flow (login, OTP verification, session restore, logout)
// and credential management (registration, sparse-patch updates).
package services

import (
	"context"
	"strings"
	"time"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/client/repositories/markers"
	"github.com/brokergate/client/internal/client/session"
	"github.com/brokergate/client/internal/logging"
)

// LoginOutcome reports what a successful Login call led to. When NeedOTP is
// set the flow is parked in AwaitingOTP and no session exists yet.
type LoginOutcome struct {
	NeedOTP bool
}

// AuthService drives the authentication flow.
//
// Contract:
//   - Login: password step; may park the flow awaiting an OTP.
//   - VerifyOTP: completes an OTP-gated login.
//   - ResendOTP: re-triggers OTP dispatch, no state change.
//   - Logout: best-effort server notification, unconditional local clear.
//   - Restore: startup session recovery from the durable markers.
//   - Check: probes the backend for a live session.
//   - Close: release the underlying API client.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, clientID, password string) (LoginOutcome, error)
	VerifyOTP(ctx context.Context, clientID, otp string) error
	ResendOTP(ctx context.Context, clientID string) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	Check(ctx context.Context) error
	Close() error
}

type authService struct {
	client  api.Client
	store   *session.Store
	markers markers.Repository
	log     logging.Logger

	// settleDelay tolerates server-side session-write latency between a
	// successful OTP verification and the first authenticated read.
	// Tests zero it.
	settleDelay time.Duration
}

// NewAuthService constructs an AuthService bound to the given API client,
// session store, and marker repository. settleDelay is the wait applied
// after a successful OTP verification; zero disables it.
func NewAuthService(client api.Client, store *session.Store, repo markers.Repository, settleDelay time.Duration, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	return &authService{
		client:      client,
		store:       store,
		markers:     repo,
		log:         log,
		settleDelay: settleDelay,
	}
}

// NormalizeClientID applies the canonical client-identifier form used on
// every submission: trimmed and upper-cased.
func NormalizeClientID(clientID string) string {
	return strings.ToUpper(strings.TrimSpace(clientID))
}

// Login performs the password step. Three outcomes:
//   - OTP required: the flow moves to AwaitingOTP, the client-id marker is
//     written, and no session is established;
//   - immediate success: the profile is fetched and the session established;
//   - failure: the state is unchanged and the error carries the server's
//     message.
func (a *authService) Login(ctx context.Context, clientID, password string) (LoginOutcome, error) {
	id := NormalizeClientID(clientID)

	res, err := a.client.Login(ctx, id, password)
	if err != nil {
		return LoginOutcome{}, err
	}

	if res.NeedOTP {
		a.store.SetAwaitingOTP(id)
		if err := a.markers.Set(ctx, markers.KeyClientID, id); err != nil {
			a.log.Warn(ctx, "failed to persist client-id marker", "error", err)
		}
		return LoginOutcome{NeedOTP: true}, nil
	}

	a.establish(ctx, id)
	return LoginOutcome{}, nil
}

// VerifyOTP completes an OTP-gated login. On failure the flow stays in
// AwaitingOTP so the user can retry or resend.
func (a *authService) VerifyOTP(ctx context.Context, clientID, otp string) error {
	id := NormalizeClientID(clientID)

	if err := a.client.VerifyOTP(ctx, id, otp); err != nil {
		return err
	}

	// The backend writes the session asynchronously after accepting the
	// OTP; read too early and the profile fetch sees a stale session.
	if a.settleDelay > 0 {
		select {
		case <-time.After(a.settleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	a.establish(ctx, id)
	return nil
}

func (a *authService) ResendOTP(ctx context.Context, clientID string) error {
	return a.client.ResendOTP(ctx, NormalizeClientID(clientID))
}

// establish fetches the profile and moves the flow to LoggedIn. A failed
// profile fetch degrades to a minimal profile rather than failing the
// login: the session cookie is already valid at this point.
func (a *authService) establish(ctx context.Context, clientID string) {
	profile, err := a.client.ClientInfo(ctx)
	if err != nil {
		a.log.Warn(ctx, "profile fetch failed, using minimal profile", "client_id", clientID, "error", err)
		profile = &api.ClientRecord{ClientID: clientID}
	}

	a.store.SetLoggedIn(profile)

	if err := a.markers.SetSession(ctx, clientID); err != nil {
		a.log.Warn(ctx, "failed to persist session markers", "error", err)
	}
}

// Logout notifies the backend and clears local state. The network call is
// best-effort: the local session must clear regardless of its outcome, so
// failures are logged and swallowed.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout request failed", "error", err)
	}

	if err := a.markers.Clear(ctx); err != nil {
		a.log.Warn(ctx, "failed to clear markers", "error", err)
	}
	a.store.Clear()
	return nil
}

// Restore recovers a previous session on startup. When both markers are
// present it attempts a profile fetch; on success the session is
// established, on any failure (including 401) the markers are cleared and
// the flow stays LoggedOut. The returned bool reports whether a session was
// restored; the error is reserved for marker-store failures.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	clientID, err := a.markers.Get(ctx, markers.KeyClientID)
	if err != nil {
		return false, err
	}
	active, err := a.markers.Get(ctx, markers.KeyAuthActive)
	if err != nil {
		return false, err
	}

	if clientID == "" || active != markers.ActiveValue {
		return false, nil
	}

	profile, err := a.client.ClientInfo(ctx)
	if err != nil {
		a.log.Info(ctx, "stored session no longer valid", "client_id", clientID, "error", err)
		if cerr := a.markers.Clear(ctx); cerr != nil {
			a.log.Warn(ctx, "failed to clear markers", "error", cerr)
		}
		a.store.Clear()
		return false, nil
	}

	a.store.SetLoggedIn(profile)
	return true, nil
}

// Check probes the backend's session-check endpoint. An authorization lapse
// surfaces as api.ErrUnauthorized; the HTTP client's expiry hook has already
// cleared local state by the time that error is returned.
func (a *authService) Check(ctx context.Context) error {
	return a.client.TestAuth(ctx)
}

func (a *authService) Close() error {
	return a.client.Close()
}
