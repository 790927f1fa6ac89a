package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fosys/fosys-client/internal/client/models"
)

// Projects prints the signed-in user's projects.
func (a *App) Projects(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.recordSvc.ListProjects(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(list) == 0 {
		fmt.Println("No projects")
		return nil
	}
	for _, p := range list {
		s := fmt.Sprintf("[%s] %s (%s)", p.ID, p.Name, p.Status)
		if p.Deadline != "" {
			s += " deadline " + p.Deadline
		}
		fmt.Println(s)
	}
	return nil
}

// NewProject prompts for the project fields and creates it.
func (a *App) NewProject(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter project name", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "Enter status (Planned/Active/Completed, empty for Planned)", os.Stdout)
	if err != nil {
		return err
	}
	deadline, err := getSimpleText(a.reader, "Enter deadline YYYY-MM-DD (optional)", os.Stdout)
	if err != nil {
		return err
	}

	project, err := a.recordSvc.CreateProject(ctx, models.Project{
		Name:        name,
		Description: description,
		Status:      models.ProjectStatus(status),
		Deadline:    deadline,
	})
	if err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Printf("Created project %s (%s)\n", project.Name, project.Status)
	return nil
}

// Events prints the signed-in user's calendar events.
func (a *App) Events(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.recordSvc.ListEvents(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(list) == 0 {
		fmt.Println("No events")
		return nil
	}
	for _, e := range list {
		fmt.Printf("[%s] %s %s (%s)\n", e.ID, e.Date, e.Title, e.Type)
	}
	return nil
}

// NewEvent prompts for the event fields and creates it.
func (a *App) NewEvent(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Enter event title", os.Stdout)
	if err != nil {
		return err
	}
	eventType, err := getSimpleText(a.reader, "Enter type (Meeting/Reminder/Deadline)", os.Stdout)
	if err != nil {
		return err
	}
	date, err := getSimpleText(a.reader, "Enter date YYYY-MM-DD", os.Stdout)
	if err != nil {
		return err
	}
	notes, err := getSimpleText(a.reader, "Enter notes (optional)", os.Stdout)
	if err != nil {
		return err
	}

	event, err := a.recordSvc.CreateEvent(ctx, models.Event{
		Title: title,
		Type:  models.EventType(eventType),
		Date:  date,
		Notes: notes,
	})
	if err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Printf("Created event %s on %s\n", event.Title, event.Date)
	return nil
}
