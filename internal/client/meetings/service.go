// Package meetings exposes the meeting-summary feed: listing summaries with
// their extracted action items, converting a pending item into a real task,
// exporting items, and uploading or browsing transcripts. Summaries are read-only
// except for a per-session "reviewed" flag that is never persisted.
package meetings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fosys/fosys-client/internal/client/api"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/client/tasks"
	"github.com/fosys/fosys-client/internal/common"
	"github.com/fosys/fosys-client/internal/logging"
)

type Service struct {
	api   api.Client
	tasks *tasks.Service
	log   logging.Logger

	mu       sync.Mutex
	reviewed map[models.FlexID]bool
}

// NewService builds a meeting service. taskSvc is used for pending-item
// conversion and may be nil when the caller only reads the feed.
func NewService(apiClient api.Client, taskSvc *tasks.Service, log logging.Logger) *Service {
	return &Service{
		api:      apiClient,
		tasks:    taskSvc,
		log:      log,
		reviewed: make(map[models.FlexID]bool),
	}
}

// List fetches the recent meeting summaries. Item fields arrive already
// parsed; see models.TaskItemList for the tolerated encodings.
func (s *Service) List(ctx context.Context) ([]models.MeetingSummary, error) {
	summaries, err := s.api.MeetingSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching meeting summaries: %w", err)
	}
	return summaries, nil
}

// Transcripts fetches the stored transcripts with their full text.
func (s *Service) Transcripts(ctx context.Context) ([]models.Transcript, error) {
	rows, err := s.api.Transcripts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching transcripts: %w", err)
	}
	return rows, nil
}

// ConvertPending creates a task from one of a meeting's pending items,
// assigned to the signed-in user.
func (s *Service) ConvertPending(ctx context.Context, item models.TaskItem) (*models.Task, error) {
	if item.Text == "" {
		return nil, fmt.Errorf("pending item has no text: %w", common.ErrorValidation)
	}
	created, _, err := s.tasks.Create(ctx, item.Text, "Converted from meeting pending item", "")
	if err != nil {
		return nil, fmt.Errorf("converting pending item: %w", err)
	}
	return created, nil
}

// MarkReviewed flags a summary as reviewed for this session only.
func (s *Service) MarkReviewed(id models.FlexID) {
	s.mu.Lock()
	s.reviewed[id] = true
	s.mu.Unlock()
}

// IsReviewed reports the session-local reviewed flag.
func (s *Service) IsReviewed(id models.FlexID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviewed[id]
}

// ExportItems serializes a list of action items to the clipboard/export
// form: a JSON array of the item texts.
func ExportItems(items models.TaskItemList) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UploadTranscript stores a transcript together with its summary and
// extracted items.
func (s *Service) UploadTranscript(ctx context.Context, tr models.NewTranscript) error {
	if tr.MeetingName == "" || tr.Transcript == "" {
		return fmt.Errorf("meeting name and transcript are required: %w", common.ErrorValidation)
	}
	if err := s.api.UploadTranscript(ctx, tr); err != nil {
		return fmt.Errorf("uploading transcript: %w", err)
	}
	return nil
}
