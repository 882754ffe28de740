package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/shared"
	"github.com/brokergate/client/internal/validate"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for a client ID and password and runs the password step.
//
// Three outcomes:
//   - immediate success: the session is established and a greeting printed;
//   - OTP required: control moves to the OTP sub-loop (see verifyOTPLoop);
//   - rejection: the server's message is printed and the state is unchanged.
//
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	clientID, err := getSimpleText(a.reader, "Enter Client ID", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	outcome, err := a.auth.Login(ctx, clientID, string(password))
	if err != nil {
		printlnFn(api.UserMessage(err, "Authentication failed"))
		return err
	}

	if outcome.NeedOTP {
		return a.verifyOTPLoop(ctx, clientID)
	}

	printlnFn("Login successful!")
	return nil
}

// verifyOTPLoop drives the OTP step of an OTP-gated login. The user can
// retry a rejected code, type "resend" to request a new one, or enter a
// blank line to abandon the attempt (the flow then stays parked awaiting an
// OTP, matching the password step already accepted by the server).
func (a *App) verifyOTPLoop(ctx context.Context, clientID string) error {
	printlnFn("An OTP has been sent to your registered mobile number.")

	for {
		otp, err := getSimpleText(a.reader, "Enter OTP (blank to cancel, 'resend' for a new code)", os.Stdout)
		if err != nil {
			return err
		}

		switch otp {
		case "":
			printlnFn("OTP entry cancelled.")
			return nil
		case "resend":
			if err := a.auth.ResendOTP(ctx, clientID); err != nil {
				printlnFn(api.UserMessage(err, "Failed to resend OTP"))
			} else {
				printlnFn("A new OTP has been sent.")
			}
			continue
		}

		if err := a.auth.VerifyOTP(ctx, clientID, otp); err != nil {
			printlnFn(api.UserMessage(err, "OTP verification failed"))
			continue
		}

		printlnFn("Login successful!")
		return nil
	}
}

// Logout ends the session. Local state always clears; a failed backend
// notification is not surfaced to the user.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// Check verifies the session against the backend.
func (a *App) Check(ctx context.Context) error {
	if err := a.auth.Check(ctx); err != nil {
		printlnFn(api.UserMessage(err, "Session check failed"))
		return err
	}
	printlnFn("Session is active.")
	return nil
}

// Forgot prompts for an email address and prints reset instructions. No
// backend call is made; the acknowledgement is deliberately the same whether
// or not an account exists.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter your registered email address", os.Stdout)
	if err != nil {
		return err
	}

	if !validate.IsValidEmail(email) {
		printlnFn("Please enter a valid email address")
		return nil
	}

	printlnFn(fmt.Sprintf("If an account exists for %s, password reset instructions will be sent to it.", email))
	return nil
}
