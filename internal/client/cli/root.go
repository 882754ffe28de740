package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = fmt.Sprintf(" (%s)", a.store.Current().ClientID)
	}
	return s
}

// Root restores a previous session from the durable markers and then runs
// the interactive loop until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("brokergate client (type 'help' for commands)")

	restored, err := a.auth.Restore(ctx)
	if err != nil {
		a.log.Error(ctx, "session restore failed", "error", err)
	}
	if restored {
		printlnFn(fmt.Sprintf("Welcome back, %s!", a.store.Current().ClientID))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
