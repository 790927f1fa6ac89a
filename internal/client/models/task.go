package models

// TaskStatus is the task workflow state.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is a task row as the backend returns it. UserID is the owner field:
// the external identity of the user the task is assigned to.
type Task struct {
	ID          FlexID     `json:"id"`
	UserID      FlexID     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     string     `json:"due_date,omitempty"`
	CreatedAt   string     `json:"created_at,omitempty"`
}

// NewTask is the payload for task creation. AssignedTo carries the owner's
// external identity; the backend stores it in the user_id column.
type NewTask struct {
	AssignedTo  string     `json:"assigned_to"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     string     `json:"due_date,omitempty"`
}
