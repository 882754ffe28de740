package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Profile(ctx context.Context) error
	Update(ctx context.Context) error
	Check(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the brokergate CLI.
//
// It reads a line from the provided reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF or when the user types "exit" or
// "quit". The reader is the same one command handlers prompt from, so a
// piped script can interleave commands and prompt answers freely.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create a client record
//	  - login          — authenticate (with OTP step when required)
//	  - forgot         — password reset instructions
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - profile        — show the client profile
//	  - update         — update credentials
//	  - check          — verify the session with the backend
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Commands that need an authenticated session are rejected with a short
// notice when no session exists. Any errors returned by command handlers
// are ignored here; handlers report their own errors. This keeps the REPL
// loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bg%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, update, check, logout, exit")
			} else {
				printlnFn("Available commands: register, login, forgot, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "profile":
			if !a.isLoggedIn() {
				printlnFn("Please login first.")
				continue
			}
			_ = a.Profile(ctx)

		case "update":
			if !a.isLoggedIn() {
				printlnFn("Please login first.")
				continue
			}
			_ = a.Update(ctx)

		case "check":
			if !a.isLoggedIn() {
				printlnFn("Please login first.")
				continue
			}
			_ = a.Check(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
