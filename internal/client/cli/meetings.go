package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/common"
)

// Meetings prints the meeting summaries with their extracted and pending
// action items. Summaries already reviewed this session are marked.
func (a *App) Meetings(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	summaries, err := a.meetingSvc.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No meeting summaries")
		return nil
	}

	for _, s := range summaries {
		mark := ""
		if a.meetingSvc.IsReviewed(s.ID) {
			mark = " (reviewed)"
		}
		fmt.Printf("[%s] %s%s\n", s.ID, s.MeetingName, mark)
		if s.Summary != "" {
			fmt.Println("  " + s.Summary)
		}
		for _, item := range s.Tasks {
			fmt.Println("  task: " + item.Text)
		}
		for i, item := range s.PendingTasks {
			fmt.Printf("  pending %d: %s\n", i+1, item.Text)
		}
		a.meetingSvc.MarkReviewed(s.ID)
	}
	return nil
}

// Convert prompts for a meeting and one of its pending items and creates a
// task from it.
func (a *App) Convert(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	meetingID, err := getSimpleText(a.reader, "Enter meeting id", os.Stdout)
	if err != nil {
		return err
	}

	summaries, err := a.meetingSvc.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	var summary *models.MeetingSummary
	for i := range summaries {
		if summaries[i].ID.Equals(meetingID) {
			summary = &summaries[i]
			break
		}
	}
	if summary == nil {
		log.Printf("No meeting with id %s", meetingID)
		return fmt.Errorf("meeting %s: %w", meetingID, common.ErrorNotFound)
	}
	if len(summary.PendingTasks) == 0 {
		fmt.Println("No pending items in this meeting")
		return nil
	}

	for i, item := range summary.PendingTasks {
		fmt.Printf("%d: %s\n", i+1, item.Text)
	}
	numText, err := getSimpleText(a.reader, "Enter item number", os.Stdout)
	if err != nil {
		return err
	}
	num, err := strconv.Atoi(numText)
	if err != nil || num < 1 || num > len(summary.PendingTasks) {
		log.Printf("Invalid item number: %s", numText)
		return fmt.Errorf("invalid item number %q", numText)
	}

	created, err := a.meetingSvc.ConvertPending(ctx, summary.PendingTasks[num-1])
	if err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Println("Created:", formatTask(*created))
	return nil
}

// Transcripts prints the stored transcripts with their full text.
func (a *App) Transcripts(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	rows, err := a.meetingSvc.Transcripts(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No transcripts")
		return nil
	}

	for _, tr := range rows {
		fmt.Printf("[%s] %s\n", tr.ID, tr.MeetingName)
		if tr.Summary != "" {
			fmt.Println("  summary: " + tr.Summary)
		}
		if tr.Transcript != "" {
			fmt.Println("  " + tr.Transcript)
		}
	}
	return nil
}

// Transcript uploads a meeting transcript together with a summary.
func (a *App) Transcript(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter meeting name", os.Stdout)
	if err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Enter transcript (double Enter to finish):", os.Stdout)
	if err != nil {
		return err
	}
	summary, err := GetMultiline(a.reader, "Enter summary (double Enter to finish):", os.Stdout)
	if err != nil {
		return err
	}

	tr := models.NewTranscript{MeetingName: name, Transcript: text, Summary: summary}
	if err := a.meetingSvc.UploadTranscript(ctx, tr); err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Println("Uploaded!")
	return nil
}
