// Package records creates and lists projects and calendar events. These rows
// go straight to the BaaS store rather than through the backend API, with the
// owner column filled in from the resolved identity.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fosys/fosys-client/internal/client/baas"
	"github.com/fosys/fosys-client/internal/client/identity"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/common"
	"github.com/fosys/fosys-client/internal/logging"
)

const (
	projectTable = "projects"
	eventTable   = "events"
)

type Service struct {
	store    baas.Store
	resolver *identity.Resolver
	log      logging.Logger
	user     *models.User
}

func NewService(store baas.Store, resolver *identity.Resolver, log logging.Logger, user *models.User) *Service {
	return &Service{store: store, resolver: resolver, log: log, user: user}
}

func (s *Service) owner(ctx context.Context) (string, error) {
	return s.resolver.Resolve(ctx, s.user)
}

// CreateProject inserts a project owned by the signed-in user. Status
// defaults to Planned when empty.
func (s *Service) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("project name is required: %w", common.ErrorValidation)
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusPlanned
	}
	if !p.Status.Valid() {
		return nil, fmt.Errorf("unknown project status %q: %w", p.Status, common.ErrorValidation)
	}

	owner, err := s.owner(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving project owner: %w", err)
	}
	p.UserID = owner

	if err := s.store.Insert(ctx, projectTable, p); err != nil {
		return nil, fmt.Errorf("inserting project: %w", err)
	}
	return &p, nil
}

// CreateEvent inserts a calendar event owned by the signed-in user.
func (s *Service) CreateEvent(ctx context.Context, e models.Event) (*models.Event, error) {
	if e.Title == "" || e.Date == "" {
		return nil, fmt.Errorf("event title and date are required: %w", common.ErrorValidation)
	}
	if !e.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q: %w", e.Type, common.ErrorValidation)
	}

	owner, err := s.owner(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving event owner: %w", err)
	}
	e.UserID = owner

	if err := s.store.Insert(ctx, eventTable, e); err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}
	return &e, nil
}

// ListProjects returns the user's projects. No identity means no projects,
// mirroring the task list.
func (s *Service) ListProjects(ctx context.Context) ([]models.Project, error) {
	owner, err := s.owner(ctx)
	if err != nil {
		s.log.Warn(ctx, "project list without external identity", "err", err)
		return []models.Project{}, nil
	}

	rows, err := s.store.SelectEq(ctx, projectTable, "user_id", owner)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}

	out := make([]models.Project, 0, len(rows))
	for _, row := range rows {
		var p models.Project
		if err := decodeRow(row, &p); err != nil {
			s.log.Warn(ctx, "skipping undecodable project row", "err", err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ListEvents returns the user's calendar events.
func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	owner, err := s.owner(ctx)
	if err != nil {
		s.log.Warn(ctx, "event list without external identity", "err", err)
		return []models.Event{}, nil
	}

	rows, err := s.store.SelectEq(ctx, eventTable, "user_id", owner)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	out := make([]models.Event, 0, len(rows))
	for _, row := range rows {
		var e models.Event
		if err := decodeRow(row, &e); err != nil {
			s.log.Warn(ctx, "skipping undecodable event row", "err", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeRow(row baas.Row, dst any) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
