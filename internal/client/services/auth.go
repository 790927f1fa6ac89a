// Package services contains the application services behind the CLI. This
// file defines the authentication service: backend login/signup, the
// best-effort parallel BaaS session, liveness probe, and housekeeping of the
// locally persisted session state.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fosys/fosys-client/internal/client/api"
	"github.com/fosys/fosys-client/internal/client/baas"
	"github.com/fosys/fosys-client/internal/client/identity"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/client/repositories/state"
	"github.com/fosys/fosys-client/internal/dbx"
	"github.com/fosys/fosys-client/internal/logging"
)

// ErrNoSavedUser is returned by LastUser when no session has been persisted.
var ErrNoSavedUser = errors.New("no saved user")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the backend, open the parallel BaaS
//     session on a best-effort basis, and persist the user locally.
//   - Signup: create a new account on the backend.
//   - LastUser: restore the locally persisted user record.
//   - Logout: drop both sessions and wipe persisted state.
//   - Ping: check backend liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Signup(ctx context.Context, req api.SignupRequest) (*models.User, error)
	LastUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by the backend API client,
// the BaaS session, and a local SQL database for persisted session state.
type authService struct {
	api      api.Client
	session  baas.Session
	resolver *identity.Resolver
	db       *sql.DB
	log      logging.Logger
}

// NewAuthService constructs an AuthService. session and resolver may be nil
// when the BaaS side is not configured.
func NewAuthService(apiClient api.Client, session baas.Session, resolver *identity.Resolver, db *sql.DB, log logging.Logger) AuthService {
	return &authService{api: apiClient, session: session, resolver: resolver, db: db, log: log}
}

func (a *authService) getStateRepo() state.Repository {
	return state.NewSQLiteRepository(a.db)
}

// Login authenticates against the backend and returns the user record. The
// BaaS session is opened with the same credentials; when that fails the
// login still succeeds and identity resolution falls back to the record's
// own fields. The returned user is persisted so the next start can restore
// the session context.
func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	if a.session != nil {
		if err := a.session.SignIn(ctx, email, password); err != nil {
			a.log.Warn(ctx, "baas sign-in failed, continuing without session", "err", err)
		}
	}

	if err := a.saveLastUser(ctx, user); err != nil {
		a.log.Warn(ctx, "persisting session state failed", "err", err)
	}
	return user, nil
}

// Signup creates a new account on the backend.
func (a *authService) Signup(ctx context.Context, req api.SignupRequest) (*models.User, error) {
	user, err := a.api.Signup(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("signup error: %w", err)
	}
	return user, nil
}

// saveLastUser persists the user record in one transaction.
func (a *authService) saveLastUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		return repo.Set(ctx, state.KeyLastUser, data)
	})
}

// LastUser restores the persisted user record, or ErrNoSavedUser when the
// slot is empty or holds something undecodable.
func (a *authService) LastUser(ctx context.Context) (*models.User, error) {
	data, err := a.getStateRepo().Get(ctx, state.KeyLastUser)
	if err != nil {
		return nil, fmt.Errorf("reading session state: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoSavedUser
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		a.log.Warn(ctx, "persisted user record is not decodable, dropping it", "err", err)
		return nil, ErrNoSavedUser
	}
	return &user, nil
}

// Logout drops both sessions and wipes persisted client state.
func (a *authService) Logout(ctx context.Context) error {
	if a.session != nil {
		a.session.SignOut()
	}
	if a.resolver != nil {
		a.resolver.Forget()
	}
	if err := a.getStateRepo().Clear(ctx); err != nil {
		return fmt.Errorf("clearing session state: %w", err)
	}
	return nil
}

// Ping proxies a liveness check to the backend client.
func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.api.Close()
}
