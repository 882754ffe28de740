package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/client/services"
	"github.com/brokergate/client/internal/shared"
)

// Register collects the fields of a new client record and submits them.
//
// Field-level validation failures are printed one per line; a server
// rejection is printed with the backend's message. The password byte slice
// is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	clientID, err := getSimpleText(a.reader, "Enter Client ID", os.Stdout)
	if err != nil {
		return err
	}
	userID, err := getSimpleText(a.reader, "Enter User ID", os.Stdout)
	if err != nil {
		return err
	}
	apiKey, err := getSimpleText(a.reader, "Enter API key", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	pan, err := getSimpleText(a.reader, "Enter PAN card number", os.Stdout)
	if err != nil {
		return err
	}
	clientCode, err := getSimpleText(a.reader, "Enter client code (optional)", os.Stdout)
	if err != nil {
		return err
	}

	creds := api.Credentials{
		ClientID:   clientID,
		UserID:     userID,
		APIKey:     apiKey,
		Password:   string(password),
		TwoFA:      pan,
		ClientCode: clientCode,
	}

	if err := a.creds.Register(ctx, creds); err != nil {
		printValidation(err, "Registration failed")
		return err
	}

	printlnFn("Registration successful! You can now login.")
	return nil
}

// printValidation renders an error for the user: field-scoped messages when
// the error is a *services.ValidationError (or an APIError carrying field
// errors), otherwise a single line with the server's message or fallback.
func printValidation(err error, fallback string) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		printFields(ve.Fields)
		return
	}

	var ae *api.APIError
	if errors.As(err, &ae) && len(ae.FieldErrors) > 0 {
		printFields(ae.FieldErrors)
		return
	}

	printlnFn(api.UserMessage(err, fallback))
}

func printFields(fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printlnFn(fmt.Sprintf("%s: %s", name, fields[name]))
	}
}
