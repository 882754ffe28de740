package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/client/services"
	"github.com/brokergate/client/internal/format"
	"github.com/brokergate/client/internal/shared"
)

// Update walks the user through a credential update. Each field may be left
// blank to keep its current value; only changed fields are submitted. When
// nothing changed the submission is rejected locally without a network call.
//
// The current record is always fetched fresh before prompting: the cached
// profile can be a minimal one (profile fetch failed at login) and the
// submission must diff against — and mirror the user id of — what the
// backend actually holds.
func (a *App) Update(ctx context.Context) error {
	current, err := a.creds.Profile(ctx)
	if err != nil {
		printlnFn(api.UserMessage(err, "Failed to load client information"))
		return err
	}

	printlnFn(fmt.Sprintf("Updating credentials for %s. Leave a field blank to keep its current value.", current.ClientID))

	apiKey, err := getSimpleText(a.reader, fmt.Sprintf("API key [%s]", current.APIKey), os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "New password (blank to keep)")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	pan, err := getSimpleText(a.reader, fmt.Sprintf("PAN card number [%s]", format.MaskPAN(current.TwoFA)), os.Stdout)
	if err != nil {
		return err
	}
	clientCode, err := getSimpleText(a.reader, fmt.Sprintf("Client code [%s]", current.ClientCode), os.Stdout)
	if err != nil {
		return err
	}

	changes := services.CredentialChanges{
		APIKey:     apiKey,
		Password:   string(password),
		TwoFA:      pan,
		ClientCode: clientCode,
	}

	if err := a.creds.Update(ctx, current, changes); err != nil {
		if errors.Is(err, services.ErrNoChanges) {
			printlnFn("No changes were made")
			return nil
		}
		if errors.Is(err, services.ErrProfileIncomplete) {
			printlnFn("Client information is incomplete. Please login again and retry.")
			return err
		}
		printValidation(err, "Failed to update credentials")
		return err
	}

	printlnFn("Credentials updated successfully!")
	return nil
}
