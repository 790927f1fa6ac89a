package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Tasks(ctx context.Context) error
	NewTask(ctx context.Context) error
	MarkDone(ctx context.Context, id string) error
	MarkInProgress(ctx context.Context, id string) error
	Meetings(ctx context.Context) error
	Convert(ctx context.Context) error
	Transcript(ctx context.Context) error
	Transcripts(ctx context.Context) error
	Projects(ctx context.Context) error
	NewProject(ctx context.Context) error
	Events(ctx context.Context) error
	NewEvent(ctx context.Context) error
	Watch(ctx context.Context) error
	Unwatch(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the FOSYS CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - signup         — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - tasks          — list your tasks
//	  - newtask        — create a task
//	  - done <id>      — mark a task completed
//	  - progress <id>  — mark a task in progress
//	  - meetings       — list meeting summaries
//	  - convert        — turn a pending meeting item into a task
//	  - transcript     — upload a meeting transcript
//	  - transcripts    — list stored transcripts
//	  - projects       — list your projects
//	  - newproject     — create a project
//	  - events         — list your calendar events
//	  - newevent       — create a calendar event
//	  - watch          — follow live task changes
//	  - unwatch        — stop following
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fosys> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (t)asks, newtask, done <id>, progress <id>, meetings, convert, transcript, transcripts, projects, newproject, events, newevent, watch, unwatch, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "t", "tasks":
			_ = a.Tasks(ctx)

		case "newtask":
			_ = a.NewTask(ctx)

		case "done":
			if len(args) == 0 {
				printlnFn("Usage: done <id>")
				continue
			}
			_ = a.MarkDone(ctx, args[0])

		case "progress":
			if len(args) == 0 {
				printlnFn("Usage: progress <id>")
				continue
			}
			_ = a.MarkInProgress(ctx, args[0])

		case "meetings":
			_ = a.Meetings(ctx)

		case "convert":
			_ = a.Convert(ctx)

		case "transcript":
			_ = a.Transcript(ctx)

		case "transcripts":
			_ = a.Transcripts(ctx)

		case "projects":
			_ = a.Projects(ctx)

		case "newproject":
			_ = a.NewProject(ctx)

		case "events":
			_ = a.Events(ctx)

		case "newevent":
			_ = a.NewEvent(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "unwatch":
			_ = a.Unwatch(ctx)

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
