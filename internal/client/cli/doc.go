// Package cli provides the interactive FOSYS command-line client.
//
// It wires configuration, local storage, API services, and an interactive REPL
// that follows live task changes. Typical flow: restore or prompt for
// credentials, start a background connectivity watcher, and execute user
// commands.
//
// Key features:
//   - Login / Signup / Logout
//   - Task list with status updates and creation
//   - Meeting summaries with pending-item conversion and transcript upload
//   - Projects and calendar events
//   - Realtime watch mode fed by the hosted service's change feed
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
