// Package cli provides the interactive brokergate command-line client.
//
// It wires configuration, the local state database, the backend API client,
// and an interactive REPL driving the authentication and credential flows.
// Typical flow: restore a previous session from the durable markers, then
// execute user commands.
//
// Key features:
//   - Login with an optional OTP step (including resend)
//   - Register a new client record
//   - View the client profile
//   - Update credentials with a sparse patch
//   - Session check against the backend
//   - Logout
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
