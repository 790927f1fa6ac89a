package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"github.com/fosys/fosys-client/internal/client/api"
	"github.com/fosys/fosys-client/internal/client/baas"
	"github.com/fosys/fosys-client/internal/client/broadcast"
	"github.com/fosys/fosys-client/internal/client/config"
	"github.com/fosys/fosys-client/internal/client/identity"
	"github.com/fosys/fosys-client/internal/client/meetings"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/client/records"
	"github.com/fosys/fosys-client/internal/client/repositories/state"
	"github.com/fosys/fosys-client/internal/client/services"
	"github.com/fosys/fosys-client/internal/client/tasks"
	"github.com/fosys/fosys-client/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	apiClient   api.Client
	store       baas.Store
	session     baas.Session
	subscriber  baas.Subscriber
	resolver    *identity.Resolver
	caster      broadcast.Broadcaster
	log         logging.Logger

	user        *models.User
	taskSvc     *tasks.Service
	meetingSvc  *meetings.Service
	recordSvc   *records.Service
	listener    *tasks.Listener
	unsubscribe broadcast.Unsubscribe

	Mode   Mode
	reader *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	ctx := context.Background()

	db, err := state.Open(ctx, c.DBPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL)

	var (
		store      baas.Store
		session    baas.Session
		subscriber baas.Subscriber
	)
	if c.BaaSURL != "" {
		authSession := baas.NewAuthSession(c.BaaSURL, c.BaaSKey)
		session = authSession
		store = baas.NewRESTStore(c.BaaSURL, c.BaaSKey, authSession)
		subscriber = baas.NewWebsocketSubscriber(c.BaaSRealtimeURL, c.BaaSKey, c.RealtimeSchema, logger)
	}

	resolver := identity.NewResolver(store, session, logger)
	caster := broadcast.New(c.NATSURL, state.NewSQLiteRepository(db), logger)
	as := services.NewAuthService(apiClient, session, resolver, db, logger)

	return &App{
		config:      c,
		authService: as,
		apiClient:   apiClient,
		store:       store,
		session:     session,
		subscriber:  subscriber,
		resolver:    resolver,
		caster:      caster,
		log:         logger,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.caster.Close()
	defer a.authService.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// buildSession wires the per-session services once a user record is known.
func (a *App) buildSession(user *models.User) {
	a.user = user
	a.taskSvc = tasks.NewService(a.apiClient, a.resolver, a.caster, a.log, user)
	a.meetingSvc = meetings.NewService(a.apiClient, a.taskSvc, a.log)
	a.recordSvc = records.NewService(a.store, a.resolver, a.log, user)
}

// teardownSession drops the per-session services and stops the realtime
// listener if one is running.
func (a *App) teardownSession() {
	if a.listener != nil {
		a.listener.Stop()
		a.listener = nil
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.user = nil
	a.taskSvc = nil
	a.meetingSvc = nil
	a.recordSvc = nil
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.authService.Ping(ctx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
