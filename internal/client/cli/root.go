package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.user != nil && a.user.Name != "" {
		s = a.user.Name + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to FOSYS CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.restoreSession(ctx)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, scanner)
}

// restoreSession picks up the persisted user record from the previous run,
// if any. The backend session itself is not restored; commands that need it
// will fail until the user logs in again.
func (a *App) restoreSession(ctx context.Context) {
	user, err := a.authService.LastUser(ctx)
	if err != nil {
		return
	}
	a.buildSession(user)
	log.Printf("Restored session for %s", user.Email)
}
