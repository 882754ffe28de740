package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/client/session"
)

func setupCred(t *testing.T) (*fakeAPI, *session.Store, CredentialService) {
	t.Helper()
	client := &fakeAPI{}
	store := session.NewStore()
	return client, store, NewCredentialService(client, store, nil)
}

func validCreds() api.Credentials {
	return api.Credentials{
		ClientID: "AB1234",
		APIKey:   "0123456789abcdef",
		UserID:   "U100",
		Password: "Secret1!",
		TwoFA:    "ABCDE1234F",
	}
}

func TestRegister_MirrorsVendorInfo(t *testing.T) {
	client, _, svc := setupCred(t)

	creds := validCreds()
	creds.VendorInfo = "something else"

	require.NoError(t, svc.Register(context.Background(), creds))
	assert.Equal(t, "U100", client.LastRegister.VendorInfo)
	assert.Equal(t, "AB1234", client.LastRegister.ClientID)
}

func TestRegister_NormalizesClientID(t *testing.T) {
	client, _, svc := setupCred(t)

	creds := validCreds()
	creds.ClientID = " ab1234 "

	require.NoError(t, svc.Register(context.Background(), creds))
	assert.Equal(t, "AB1234", client.LastRegister.ClientID)
}

func TestRegister_MissingRequiredFields(t *testing.T) {
	client, _, svc := setupCred(t)

	creds := validCreds()
	creds.Password = ""
	creds.APIKey = ""

	err := svc.Register(context.Background(), creds)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "api_key")
	assert.Empty(t, client.LastRegister.ClientID, "no network call expected")
}

func TestRegister_InvalidPAN(t *testing.T) {
	_, _, svc := setupCred(t)

	creds := validCreds()
	creds.TwoFA = "abcde1234f"

	err := svc.Register(context.Background(), creds)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["two_fa"], "PAN")
}

func TestRegister_ServerRejection(t *testing.T) {
	client, _, svc := setupCred(t)
	client.RegisterErr = &api.APIError{StatusCode: 409, Message: "Client already exists"}

	err := svc.Register(context.Background(), validCreds())
	require.Error(t, err)
	assert.Equal(t, "Client already exists", api.UserMessage(err, "x"))
}

func TestUpdate_NoChanges_NoNetworkCall(t *testing.T) {
	client, _, svc := setupCred(t)
	current := &api.ClientRecord{ClientID: "AB1234", UserID: "U100", APIKey: "key"}

	err := svc.Update(context.Background(), current, CredentialChanges{})
	require.ErrorIs(t, err, ErrNoChanges)
	assert.Nil(t, client.LastPatch)
}

func TestUpdate_UnchangedValuesCountAsNoChanges(t *testing.T) {
	client, _, svc := setupCred(t)
	current := &api.ClientRecord{
		ClientID: "AB1234", UserID: "U100",
		APIKey: "key", TwoFA: "ABCDE1234F", ClientCode: "CC1",
	}

	// Same values the record already has: nothing actually changed.
	err := svc.Update(context.Background(), current, CredentialChanges{
		APIKey: "key", TwoFA: "ABCDE1234F", ClientCode: "CC1",
	})
	require.ErrorIs(t, err, ErrNoChanges)
	assert.Nil(t, client.LastPatch)
}

func TestUpdate_SparsePatchWithVendorInfo(t *testing.T) {
	client, _, svc := setupCred(t)
	client.InfoRet = &api.ClientRecord{ClientID: "AB1234", UserID: "U100", APIKey: "new-key"}
	current := &api.ClientRecord{ClientID: "AB1234", UserID: "U100", APIKey: "old-key", TwoFA: "ABCDE1234F"}

	err := svc.Update(context.Background(), current, CredentialChanges{APIKey: "new-key"})
	require.NoError(t, err)

	require.NotNil(t, client.LastPatch)
	assert.Equal(t, "new-key", client.LastPatch["api_key"])
	assert.Equal(t, "U100", client.LastPatch["vendor_info"])
	assert.NotContains(t, client.LastPatch, "two_fa")
	assert.NotContains(t, client.LastPatch, "password")
}

func TestUpdate_PasswordAlwaysCountsAsChange(t *testing.T) {
	client, _, svc := setupCred(t)
	current := &api.ClientRecord{ClientID: "AB1234", UserID: "U100"}

	err := svc.Update(context.Background(), current, CredentialChanges{Password: "NewSecret1!"})
	require.NoError(t, err)
	assert.Equal(t, "NewSecret1!", client.LastPatch["password"])
}

func TestUpdate_InvalidPAN_NoNetworkCall(t *testing.T) {
	client, _, svc := setupCred(t)
	current := &api.ClientRecord{ClientID: "AB1234", UserID: "U100"}

	err := svc.Update(context.Background(), current, CredentialChanges{TwoFA: "bad"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "two_fa")
	assert.Nil(t, client.LastPatch)
}

func TestUpdate_RefreshesProfileInStore(t *testing.T) {
	client, store, svc := setupCred(t)
	store.SetLoggedIn(&api.ClientRecord{ClientID: "AB1234", UserID: "U100", APIKey: "old"})
	client.InfoRet = &api.ClientRecord{ClientID: "AB1234", UserID: "U100", APIKey: "new"}
	current := store.Current().Profile

	require.NoError(t, svc.Update(context.Background(), current, CredentialChanges{APIKey: "new"}))
	assert.Equal(t, "new", store.Current().Profile.APIKey)
}

func TestUpdate_RefreshFailureDoesNotFailUpdate(t *testing.T) {
	client, store, svc := setupCred(t)
	store.SetLoggedIn(&api.ClientRecord{ClientID: "AB1234", UserID: "U100"})
	client.InfoErr = errors.New("transient")

	err := svc.Update(context.Background(), store.Current().Profile, CredentialChanges{Password: "NewSecret1!"})
	require.NoError(t, err)
}

func TestProfile_UpdatesStore(t *testing.T) {
	client, store, svc := setupCred(t)
	store.SetLoggedIn(&api.ClientRecord{ClientID: "AB1234"})
	client.InfoRet = &api.ClientRecord{ClientID: "AB1234", UserID: "U200"}

	profile, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "U200", profile.UserID)
	assert.Equal(t, "U200", store.Current().Profile.UserID)
}

func TestProfile_Error(t *testing.T) {
	client, _, svc := setupCred(t)
	client.InfoErr = &api.APIError{StatusCode: 401}

	_, err := svc.Profile(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestUpdate_RefusesPatchWithoutUserID(t *testing.T) {
	client, _, svc := setupCred(t)
	// A minimal record, as left behind when the profile fetch failed at
	// login time.
	current := &api.ClientRecord{ClientID: "ABCD1"}

	err := svc.Update(context.Background(), current, CredentialChanges{APIKey: "new-key"})
	require.ErrorIs(t, err, ErrProfileIncomplete)
	assert.Nil(t, client.LastPatch)
}

func TestUpdate_RefusesNilCurrent(t *testing.T) {
	client, _, svc := setupCred(t)

	err := svc.Update(context.Background(), nil, CredentialChanges{Password: "NewSecret1!"})
	require.ErrorIs(t, err, ErrProfileIncomplete)
	assert.Nil(t, client.LastPatch)
}
