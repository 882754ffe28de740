package services

import (
	"context"
	"errors"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/client/session"
	"github.com/brokergate/client/internal/logging"
	"github.com/brokergate/client/internal/validate"
)

// ErrNoChanges is returned when an update submission contains no changed
// field. It is raised client-side, before any network call.
var ErrNoChanges = errors.New("no changes were made")

// ErrProfileIncomplete is returned when an update is attempted against a
// profile whose user id is unknown. Every patch must carry the vendor-info
// mirror, and the mirror cannot be built without the user id.
var ErrProfileIncomplete = errors.New("client profile is incomplete")

// ValidationError carries field-scoped messages for input rejected before
// any network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// CredentialChanges is the editable subset of an update submission. A blank
// field means "unchanged". Password is never pre-filled, so any non-blank
// value counts as a change.
type CredentialChanges struct {
	APIKey     string
	Password   string
	TwoFA      string
	ClientCode string
}

// CredentialService handles registration and credential maintenance.
type CredentialService interface {
	// Register creates a client record. VendorInfo is overwritten with
	// UserID before submission.
	Register(ctx context.Context, creds api.Credentials) error

	// Update submits a sparse patch of the fields changed relative to
	// current. Zero changes yield ErrNoChanges without a network call;
	// a current record lacking the user id yields ErrProfileIncomplete,
	// since the vendor-info mirror cannot be built from it.
	Update(ctx context.Context, current *api.ClientRecord, changes CredentialChanges) error

	// Profile fetches the current record and refreshes the session store.
	Profile(ctx context.Context) (*api.ClientRecord, error)
}

type credentialService struct {
	client api.Client
	store  *session.Store
	log    logging.Logger
}

func NewCredentialService(client api.Client, store *session.Store, log logging.Logger) CredentialService {
	if log == nil {
		log = logging.NewNop()
	}
	return &credentialService{client: client, store: store, log: log}
}

var registrationRules = map[string]validate.Rule{
	"client_id":   {Required: true, ClientID: true},
	"api_key":     {Required: true},
	"userid":      {Required: true},
	"password":    {Required: true},
	"two_fa":      {Required: true, PAN: true},
	"client_code": {},
}

func (c *credentialService) Register(ctx context.Context, creds api.Credentials) error {
	creds.ClientID = NormalizeClientID(creds.ClientID)
	// The backend requires vendor_info to mirror userid; the user never
	// supplies it directly.
	creds.VendorInfo = creds.UserID

	fields := map[string]string{
		"client_id":   creds.ClientID,
		"api_key":     creds.APIKey,
		"userid":      creds.UserID,
		"password":    creds.Password,
		"two_fa":      creds.TwoFA,
		"client_code": creds.ClientCode,
	}
	if errs := validate.ValidateForm(fields, registrationRules); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	return c.client.Register(ctx, creds)
}

func (c *credentialService) Update(ctx context.Context, current *api.ClientRecord, changes CredentialChanges) error {
	if current == nil || current.UserID == "" {
		return ErrProfileIncomplete
	}

	if changes.TwoFA != "" && !validate.IsValidPAN(changes.TwoFA) {
		return &ValidationError{Fields: map[string]string{
			"two_fa": "Please enter a valid PAN card number (AAAAA0000A)",
		}}
	}

	patch := map[string]string{}
	if changes.APIKey != "" && changes.APIKey != current.APIKey {
		patch["api_key"] = changes.APIKey
	}
	if changes.Password != "" {
		patch["password"] = changes.Password
	}
	if changes.TwoFA != "" && changes.TwoFA != current.TwoFA {
		patch["two_fa"] = changes.TwoFA
	}
	if changes.ClientCode != "" && changes.ClientCode != current.ClientCode {
		patch["client_code"] = changes.ClientCode
	}

	if len(patch) == 0 {
		return ErrNoChanges
	}

	// Re-attach the mirror field on every patch.
	patch["vendor_info"] = current.UserID

	if err := c.client.UpdateClient(ctx, patch); err != nil {
		return err
	}

	// Refresh the cached profile; failure here does not fail the update.
	if profile, err := c.client.ClientInfo(ctx); err == nil {
		c.store.SetProfile(profile)
	} else {
		c.log.Warn(ctx, "profile refresh after update failed", "error", err)
	}
	return nil
}

func (c *credentialService) Profile(ctx context.Context) (*api.ClientRecord, error) {
	profile, err := c.client.ClientInfo(ctx)
	if err != nil {
		return nil, err
	}
	c.store.SetProfile(profile)
	return profile, nil
}
