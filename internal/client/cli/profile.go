package cli

import (
	"context"
	"fmt"

	"github.com/brokergate/client/internal/client/api"
	"github.com/brokergate/client/internal/format"
)

// Profile fetches the current client record and prints it. The PAN is shown
// masked; only its last characters stay readable.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.creds.Profile(ctx)
	if err != nil {
		printlnFn(api.UserMessage(err, "Failed to load client information"))
		return err
	}

	printlnFn(fmt.Sprintf("Client ID   : %s", p.ClientID))
	printlnFn(fmt.Sprintf("User ID     : %s", p.UserID))
	printlnFn(fmt.Sprintf("API key     : %s", p.APIKey))
	printlnFn(fmt.Sprintf("PAN         : %s", format.MaskPAN(p.TwoFA)))
	printlnFn(fmt.Sprintf("Vendor info : %s", p.VendorInfo))
	if p.ClientCode != "" {
		printlnFn(fmt.Sprintf("Client code : %s", p.ClientCode))
	}
	return nil
}
