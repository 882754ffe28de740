package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/client/repositories/markers"
	"github.com/brokergate/client/internal/client/session"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE markers (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

type fixture struct {
	client  *fakeAPI
	store   *session.Store
	markers markers.Repository
	auth    *authService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		client:  &fakeAPI{},
		store:   session.NewStore(),
		markers: markers.NewSQLiteRepository(setupDB(t)),
	}
	f.auth = NewAuthService(f.client, f.store, f.markers, 0, nil).(*authService)
	return f
}

func (f *fixture) marker(t *testing.T, key string) string {
	t.Helper()
	v, err := f.markers.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

// ---- fake API client ----

type fakeAPI struct {
	LoginRes api.LoginResult
	LoginErr error

	VerifyErr error
	ResendErr error

	InfoRet *api.ClientRecord
	InfoErr error

	RegisterErr error
	UpdateErr   error
	LogoutErr   error
	TestAuthErr error

	LastLoginID   string
	LastLoginPass string
	LastVerifyID  string
	LastVerifyOTP string
	LastResendID  string
	LastRegister  api.Credentials
	LastPatch     map[string]string

	InfoCalls   int
	LogoutCalls int
}

func (f *fakeAPI) Login(_ context.Context, clientID, password string) (api.LoginResult, error) {
	f.LastLoginID, f.LastLoginPass = clientID, password
	return f.LoginRes, f.LoginErr
}

func (f *fakeAPI) VerifyOTP(_ context.Context, clientID, otp string) error {
	f.LastVerifyID, f.LastVerifyOTP = clientID, otp
	return f.VerifyErr
}

func (f *fakeAPI) ResendOTP(_ context.Context, clientID string) error {
	f.LastResendID = clientID
	return f.ResendErr
}

func (f *fakeAPI) Register(_ context.Context, creds api.Credentials) error {
	f.LastRegister = creds
	return f.RegisterErr
}

func (f *fakeAPI) UpdateClient(_ context.Context, patch map[string]string) error {
	f.LastPatch = patch
	return f.UpdateErr
}

func (f *fakeAPI) ClientInfo(_ context.Context) (*api.ClientRecord, error) {
	f.InfoCalls++
	return f.InfoRet, f.InfoErr
}

func (f *fakeAPI) Logout(_ context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeAPI) TestAuth(_ context.Context) error { return f.TestAuthErr }
func (f *fakeAPI) Close() error                     { return nil }

// ---- tests ----

func TestNormalizeClientID(t *testing.T) {
	assert.Equal(t, "AB1234", NormalizeClientID("  ab1234 "))
	assert.Equal(t, "AB1234", NormalizeClientID("AB1234"))
}

func TestLogin_ImmediateSuccess(t *testing.T) {
	f := setup(t)
	f.client.InfoRet = &api.ClientRecord{ClientID: "AB1234", UserID: "U100"}

	out, err := f.auth.Login(context.Background(), " ab1234 ", "secret")
	require.NoError(t, err)
	assert.False(t, out.NeedOTP)

	assert.Equal(t, "AB1234", f.client.LastLoginID)
	assert.Equal(t, "secret", f.client.LastLoginPass)

	require.Equal(t, session.LoggedIn, f.store.State())
	assert.Equal(t, "U100", f.store.Current().Profile.UserID)

	assert.Equal(t, "AB1234", f.marker(t, markers.KeyClientID))
	assert.Equal(t, markers.ActiveValue, f.marker(t, markers.KeyAuthActive))
}

func TestLogin_NeedOTP_NoSessionYet(t *testing.T) {
	f := setup(t)
	f.client.LoginRes = api.LoginResult{NeedOTP: true}

	out, err := f.auth.Login(context.Background(), "AB1234", "secret")
	require.NoError(t, err)
	assert.True(t, out.NeedOTP)

	assert.Equal(t, session.AwaitingOTP, f.store.State())
	assert.Equal(t, "AB1234", f.store.PendingClientID())
	assert.False(t, f.store.IsAuthenticated())
	assert.Zero(t, f.client.InfoCalls)

	assert.Equal(t, "AB1234", f.marker(t, markers.KeyClientID))
	assert.Empty(t, f.marker(t, markers.KeyAuthActive))
}

func TestLogin_Failure_StaysLoggedOut(t *testing.T) {
	f := setup(t)
	f.client.LoginErr = &api.APIError{StatusCode: 200, Message: "Invalid credentials"}

	_, err := f.auth.Login(context.Background(), "AB1234", "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", api.UserMessage(err, "x"))
	assert.Equal(t, session.LoggedOut, f.store.State())
	assert.Empty(t, f.marker(t, markers.KeyAuthActive))
}

func TestLogin_ProfileFetchFails_MinimalProfile(t *testing.T) {
	f := setup(t)
	f.client.InfoErr = errors.New("boom")

	_, err := f.auth.Login(context.Background(), "AB1234", "secret")
	require.NoError(t, err)

	require.Equal(t, session.LoggedIn, f.store.State())
	require.NotNil(t, f.store.Current().Profile)
	assert.Equal(t, "AB1234", f.store.Current().Profile.ClientID)
	assert.Empty(t, f.store.Current().Profile.UserID)
}

func TestVerifyOTP_Success(t *testing.T) {
	f := setup(t)
	f.client.LoginRes = api.LoginResult{NeedOTP: true}
	f.client.InfoRet = &api.ClientRecord{ClientID: "AB1234"}

	_, err := f.auth.Login(context.Background(), "AB1234", "secret")
	require.NoError(t, err)

	require.NoError(t, f.auth.VerifyOTP(context.Background(), "ab1234", "123456"))
	assert.Equal(t, "AB1234", f.client.LastVerifyID)
	assert.Equal(t, "123456", f.client.LastVerifyOTP)

	assert.Equal(t, session.LoggedIn, f.store.State())
	assert.Equal(t, markers.ActiveValue, f.marker(t, markers.KeyAuthActive))
}

func TestVerifyOTP_Failure_StaysAwaiting(t *testing.T) {
	f := setup(t)
	f.client.LoginRes = api.LoginResult{NeedOTP: true}

	_, err := f.auth.Login(context.Background(), "AB1234", "secret")
	require.NoError(t, err)

	f.client.VerifyErr = &api.APIError{StatusCode: 200, Message: "Incorrect OTP"}
	err = f.auth.VerifyOTP(context.Background(), "AB1234", "000000")
	require.Error(t, err)
	assert.Equal(t, "Incorrect OTP", api.UserMessage(err, "x"))

	assert.Equal(t, session.AwaitingOTP, f.store.State())
	assert.Equal(t, "AB1234", f.store.PendingClientID())
}

func TestResendOTP_NormalizesAndPassesThrough(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.auth.ResendOTP(context.Background(), " ab1234"))
	assert.Equal(t, "AB1234", f.client.LastResendID)

	f.client.ResendErr = errors.New("nope")
	require.Error(t, f.auth.ResendOTP(context.Background(), "AB1234"))
	assert.Equal(t, session.LoggedOut, f.store.State())
}

func TestLogout_ClearsLocalStateEvenWhenBackendFails(t *testing.T) {
	f := setup(t)
	f.client.InfoRet = &api.ClientRecord{ClientID: "AB1234"}
	_, err := f.auth.Login(context.Background(), "AB1234", "secret")
	require.NoError(t, err)

	f.client.LogoutErr = errors.New("network down")
	require.NoError(t, f.auth.Logout(context.Background()))

	assert.Equal(t, 1, f.client.LogoutCalls)
	assert.Equal(t, session.LoggedOut, f.store.State())
	assert.Empty(t, f.marker(t, markers.KeyClientID))
	assert.Empty(t, f.marker(t, markers.KeyAuthActive))
}

func TestRestore_NoMarkers_NoNetworkCall(t *testing.T) {
	f := setup(t)

	restored, err := f.auth.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Zero(t, f.client.InfoCalls)
}

func TestRestore_MarkersPresent_ProfileOK(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.markers.Set(ctx, markers.KeyClientID, "AB1234"))
	require.NoError(t, f.markers.Set(ctx, markers.KeyAuthActive, markers.ActiveValue))
	f.client.InfoRet = &api.ClientRecord{ClientID: "AB1234", UserID: "U100"}

	restored, err := f.auth.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, session.LoggedIn, f.store.State())
}

func TestRestore_ProfileRejected_ClearsMarkers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.markers.Set(ctx, markers.KeyClientID, "AB1234"))
	require.NoError(t, f.markers.Set(ctx, markers.KeyAuthActive, markers.ActiveValue))
	f.client.InfoErr = &api.APIError{StatusCode: 401}

	restored, err := f.auth.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, session.LoggedOut, f.store.State())
	assert.Empty(t, f.marker(t, markers.KeyClientID))
}

func TestRestore_MarkerWithoutActiveFlag_Ignored(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.markers.Set(ctx, markers.KeyClientID, "AB1234"))

	restored, err := f.auth.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Zero(t, f.client.InfoCalls)
}

func TestCheck_PassesThrough(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.auth.Check(ctx))

	f.client.TestAuthErr = &api.APIError{StatusCode: 401, Message: "unauthorized"}
	err := f.auth.Check(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}
