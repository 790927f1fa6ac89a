// Package tasks implements the user-scoped task store: listing with
// ownership filtering, status updates, creation, and a realtime listener
// that reconciles pushed row changes with the in-memory list.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fosys/fosys-client/internal/client/api"
	"github.com/fosys/fosys-client/internal/client/broadcast"
	"github.com/fosys/fosys-client/internal/client/identity"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/common"
	"github.com/fosys/fosys-client/internal/logging"
)

// Table is the BaaS table carrying task rows.
const Table = "tasks"

// Service exposes task operations for one signed-in user. It is
// session-scoped: construct it after login, drop it on logout.
type Service struct {
	api      api.Client
	resolver *identity.Resolver
	caster   broadcast.Broadcaster
	log      logging.Logger
	user     *models.User
}

// NewService builds a task service for user.
func NewService(apiClient api.Client, resolver *identity.Resolver, caster broadcast.Broadcaster, log logging.Logger, user *models.User) *Service {
	return &Service{api: apiClient, resolver: resolver, caster: caster, log: log, user: user}
}

// Owner resolves the signed-in user's external identity.
func (s *Service) Owner(ctx context.Context) (string, error) {
	return s.resolver.Resolve(ctx, s.user)
}

// List returns the user's tasks. When identity resolution fails the result
// is an empty list and a nil error: "no identity" renders as "no tasks",
// not as a failure. A fetch failure, by contrast, is returned as an error
// so callers can tell the two apart.
func (s *Service) List(ctx context.Context) ([]models.Task, error) {
	owner, err := s.Owner(ctx)
	if err != nil {
		if errors.Is(err, identity.ErrNoExternalIdentity) {
			s.log.Warn(ctx, "no external identity, rendering empty task list", "user", s.user.Email)
			return []models.Task{}, nil
		}
		return nil, err
	}

	all, err := s.api.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	return FilterByOwner(all, owner), nil
}

// FilterByOwner keeps exactly the rows whose owner field, compared as a
// string, equals owner.
func FilterByOwner(all []models.Task, owner string) []models.Task {
	filtered := make([]models.Task, 0, len(all))
	for _, t := range all {
		if t.UserID.Equals(owner) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// UpdateStatus issues a partial update for one task. Whatever the outcome,
// it then broadcasts the change and re-fetches the list; there is no
// optimistic update to roll back. The update error, if any, is returned
// alongside the refreshed list.
func (s *Service) UpdateStatus(ctx context.Context, taskID string, status models.TaskStatus) ([]models.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q: %w", status, common.ErrorValidation)
	}

	updateErr := s.api.UpdateTaskStatus(ctx, taskID, status)
	if updateErr != nil {
		s.log.Error(ctx, "task status update failed", "task", taskID, "err", updateErr)
	}

	s.publish(ctx, taskID, "update")

	list, listErr := s.List(ctx)
	if listErr != nil {
		s.log.Error(ctx, "task refresh after update failed", "err", listErr)
		list = []models.Task{}
	}
	return list, updateErr
}

// Create posts a new task assigned to the signed-in user, then broadcasts
// the change and re-fetches the list, same as UpdateStatus. Used both for
// direct creation and for converting a meeting's pending item. A failed
// refresh is logged and yields an empty list next to the created row.
func (s *Service) Create(ctx context.Context, title, description, dueDate string) (*models.Task, []models.Task, error) {
	owner, err := s.Owner(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving task owner: %w", err)
	}

	created, err := s.api.CreateTask(ctx, models.NewTask{
		AssignedTo:  owner,
		Title:       title,
		Description: description,
		Status:      models.TaskStatusPending,
		DueDate:     dueDate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating task: %w", err)
	}

	id := ""
	if created != nil {
		id = created.ID.String()
	}
	s.publish(ctx, id, "insert")

	list, listErr := s.List(ctx)
	if listErr != nil {
		s.log.Error(ctx, "task refresh after create failed", "err", listErr)
		list = []models.Task{}
	}
	return created, list, nil
}

func (s *Service) publish(ctx context.Context, taskID, op string) {
	if s.caster == nil {
		return
	}
	env := broadcast.Envelope{Entity: "task", ID: taskID, Op: op, At: time.Now().UTC()}
	if err := s.caster.Publish(ctx, env); err != nil {
		s.log.Warn(ctx, "task change broadcast failed", "err", err)
	}
}
