package models

// ProjectStatus is the project workflow state.
type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "Planned"
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusActive, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project is a project row, persisted directly through the BaaS store with
// the owner's external identity in user_id.
type Project struct {
	ID          FlexID        `json:"id,omitempty"`
	UserID      string        `json:"user_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Deadline    string        `json:"deadline,omitempty"`
	CreatedAt   string        `json:"created_at,omitempty"`
}

// EventType classifies a calendar event.
type EventType string

const (
	EventTypeMeeting  EventType = "Meeting"
	EventTypeReminder EventType = "Reminder"
	EventTypeDeadline EventType = "Deadline"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeMeeting, EventTypeReminder, EventTypeDeadline:
		return true
	}
	return false
}

// Event is a calendar event row, persisted through the BaaS store like
// Project.
type Event struct {
	ID        FlexID    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Type      EventType `json:"type"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
}
