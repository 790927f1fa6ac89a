package records

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fosys/fosys-client/internal/client/baas"
	"github.com/fosys/fosys-client/internal/client/identity"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/logging"
)

const ownerUUID = "5f0b2a52-9c1e-4a8d-b1c2-3d4e5f607182"

type insertCall struct {
	table string
	row   any
}

type fakeStore struct {
	rows      map[string][]baas.Row
	selectErr error
	insertErr error
	inserts   []insertCall
}

func (f *fakeStore) SelectEq(ctx context.Context, table, column, value string) ([]baas.Row, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.rows[table], nil
}

func (f *fakeStore) Insert(ctx context.Context, table string, row any) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserts = append(f.inserts, insertCall{table: table, row: row})
	return nil
}

func (f *fakeStore) UpdateEq(ctx context.Context, table, column, value string, patch any) error {
	return nil
}

func newService(store *fakeStore) *Service {
	log := logging.NewDiscard()
	user := &models.User{ID: "42", SupabaseUserID: ownerUUID}
	return NewService(store, identity.NewResolver(store, nil, log), log, user)
}

func TestCreateProject_AssignsOwnerAndDefaultStatus(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	created, err := svc.CreateProject(context.Background(), models.Project{Name: "Migration"})
	require.NoError(t, err)
	require.Equal(t, ownerUUID, created.UserID)
	require.Equal(t, models.ProjectStatusPlanned, created.Status)

	require.Len(t, store.inserts, 1)
	require.Equal(t, "projects", store.inserts[0].table)
	inserted, ok := store.inserts[0].row.(models.Project)
	require.True(t, ok)
	require.Equal(t, ownerUUID, inserted.UserID)
}

func TestCreateProject_Validation(t *testing.T) {
	svc := newService(&fakeStore{})

	_, err := svc.CreateProject(context.Background(), models.Project{})
	require.Error(t, err)

	_, err = svc.CreateProject(context.Background(), models.Project{Name: "X", Status: "Paused"})
	require.Error(t, err)
}

func TestCreateProject_NoIdentity(t *testing.T) {
	store := &fakeStore{}
	log := logging.NewDiscard()
	svc := NewService(store, identity.NewResolver(store, nil, log), log, &models.User{ID: "42"})

	_, err := svc.CreateProject(context.Background(), models.Project{Name: "Migration"})
	require.ErrorIs(t, err, identity.ErrNoExternalIdentity)
	require.Empty(t, store.inserts)
}

func TestCreateEvent(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	created, err := svc.CreateEvent(context.Background(), models.Event{
		Title: "Quarterly review",
		Type:  models.EventTypeMeeting,
		Date:  "2026-09-15",
	})
	require.NoError(t, err)
	require.Equal(t, ownerUUID, created.UserID)
	require.Len(t, store.inserts, 1)
	require.Equal(t, "events", store.inserts[0].table)
}

func TestCreateEvent_Validation(t *testing.T) {
	svc := newService(&fakeStore{})

	_, err := svc.CreateEvent(context.Background(), models.Event{Type: models.EventTypeMeeting, Date: "2026-09-15"})
	require.Error(t, err)

	_, err = svc.CreateEvent(context.Background(), models.Event{Title: "X", Type: "Party", Date: "2026-09-15"})
	require.Error(t, err)
}

func TestListProjects(t *testing.T) {
	store := &fakeStore{rows: map[string][]baas.Row{
		"projects": {
			{"id": float64(1), "user_id": ownerUUID, "name": "Migration", "status": "Active"},
			{"id": float64(2), "user_id": ownerUUID, "name": "Cleanup", "status": "Planned"},
		},
	}}
	svc := newService(store)

	got, err := svc.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Migration", got[0].Name)
	require.Equal(t, models.ProjectStatusActive, got[0].Status)
	require.Equal(t, models.FlexID("1"), got[0].ID)
}

func TestListProjects_NoIdentityMeansEmpty(t *testing.T) {
	store := &fakeStore{selectErr: errors.New("should not be called")}
	log := logging.NewDiscard()
	svc := NewService(store, identity.NewResolver(nil, nil, log), log, &models.User{ID: "42"})

	got, err := svc.ListProjects(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestListEvents_FetchError(t *testing.T) {
	store := &fakeStore{selectErr: errors.New("boom")}
	svc := newService(store)

	_, err := svc.ListEvents(context.Background())
	require.Error(t, err)
}
