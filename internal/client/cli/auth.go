package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/fosys/fosys-client/internal/client/api"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for the new account's fields and attempts to create it via
// the AuthService.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is wiped before returning. Any I/O or service error is returned unchanged.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getSimpleText(a.reader, "Enter role (ADMIN/MANAGER/EMPLOYEE, empty for EMPLOYEE)", os.Stdout)
	if err != nil {
		return err
	}
	if role != "" && !models.Role(role).Valid() {
		log.Printf("Unknown role: %s", role)
		return fmt.Errorf("unknown role %q", role)
	}
	department, err := getSimpleText(a.reader, "Enter department (optional)", os.Stdout)
	if err != nil {
		return err
	}

	req := api.SignupRequest{
		Name:       name,
		Email:      email,
		Password:   string(password),
		Role:       role,
		Department: department,
	}
	if _, err := a.authService.Signup(ctx, req); err != nil {
		log.Printf("Signup unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// On success it builds the per-session services and switches to ModeOnline.
// If the backend is unreachable (errors.Is(err, api.ErrUnavailable)), the
// previously persisted user record is restored instead and the app enters
// ModeOffline; commands then work against cached state until connectivity
// returns. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			log.Printf("Server unavailable, trying saved session...")
			saved, restoreErr := a.authService.LastUser(ctx)
			if restoreErr != nil {
				log.Printf("No saved session: %s", restoreErr.Error())
				return err
			}
			a.buildSession(saved)
			a.setMode(ModeOffline)
			return nil
		}
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	}

	log.Printf("Login successfull")
	a.buildSession(user)
	a.setMode(ModeOnline)
	return nil
}

// Logout drops both sessions, wipes persisted state, and tears down the
// per-session services.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.teardownSession()
	return nil
}
