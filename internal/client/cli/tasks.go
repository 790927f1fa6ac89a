package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fosys/fosys-client/internal/client/models"
)

var errNotLoggedIn = fmt.Errorf("not logged in")

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		log.Println("Please log in first")
		return errNotLoggedIn
	}
	return nil
}

// Tasks prints the signed-in user's tasks. When the realtime watcher is
// active the listener's snapshot is used, otherwise a fresh fetch is made.
func (a *App) Tasks(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var (
		list []models.Task
		err  error
	)
	if a.listener != nil {
		list = a.listener.Tasks()
	} else {
		list, err = a.taskSvc.List(ctx)
		if err != nil {
			log.Println(err.Error())
			return err
		}
	}

	if len(list) == 0 {
		fmt.Println("No tasks")
		return nil
	}
	for _, task := range list {
		fmt.Println(formatTask(task))
	}
	return nil
}

func formatTask(t models.Task) string {
	s := fmt.Sprintf("[%s] %s (%s)", t.ID, t.Title, t.Status)
	if t.DueDate != "" {
		s += " due " + t.DueDate
	}
	return s
}

// NewTask prompts for the task fields and creates it assigned to the
// signed-in user.
func (a *App) NewTask(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		log.Println("Title is required")
		return fmt.Errorf("title is required")
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		return err
	}
	dueDate, err := getSimpleText(a.reader, "Enter due date YYYY-MM-DD (optional)", os.Stdout)
	if err != nil {
		return err
	}

	created, list, err := a.taskSvc.Create(ctx, title, description, dueDate)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Println("Created:", formatTask(*created))
	for _, task := range list {
		fmt.Println(formatTask(task))
	}
	return nil
}

// MarkDone moves a task to Completed.
func (a *App) MarkDone(ctx context.Context, id string) error {
	return a.setStatus(ctx, id, models.TaskStatusCompleted)
}

// MarkInProgress moves a task to In Progress.
func (a *App) MarkInProgress(ctx context.Context, id string) error {
	return a.setStatus(ctx, id, models.TaskStatusInProgress)
}

func (a *App) setStatus(ctx context.Context, id string, status models.TaskStatus) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.taskSvc.UpdateStatus(ctx, id, status)
	if err != nil {
		log.Println(err.Error())
	}
	for _, task := range list {
		fmt.Println(formatTask(task))
	}
	return err
}
