package api

import (
	"context"

	"github.com/fosys/fosys-client/internal/client/models"
)

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

// Client is the FOSYS backend API surface consumed by the services layer.
type Client interface {
	Close() error
	Login(ctx context.Context, email, password string) (*models.User, error)
	Signup(ctx context.Context, req SignupRequest) (*models.User, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.NewTask) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error
	MeetingSummaries(ctx context.Context) ([]models.MeetingSummary, error)
	Transcripts(ctx context.Context) ([]models.Transcript, error)
	UploadTranscript(ctx context.Context, tr models.NewTranscript) error
	Ping(ctx context.Context) error
}
