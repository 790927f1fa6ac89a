package models

import (
	"bytes"
	"encoding/json"
)

// TaskItem is one action item extracted from a meeting transcript.
type TaskItem struct {
	Text string `json:"task"`
}

// TaskItemList is a list of meeting action items. Depending on which
// pipeline wrote the row, the column holds either a literal JSON array or a
// JSON-encoded string containing one. Parse happens on read; a string that
// does not decode as an array degrades to a single-element list holding the
// raw text rather than an error.
type TaskItemList []TaskItem

func (l *TaskItemList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
			return nil
		}
		items, err := decodeItemArray([]byte(s))
		if err != nil {
			// Single-element fallback: treat the whole string as one item.
			*l = TaskItemList{{Text: s}}
			return nil
		}
		*l = items
		return nil
	}

	items, err := decodeItemArray(data)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// MarshalJSON renders the list as a plain array of item texts, the form used
// for clipboard export. A parse/serialize round trip preserves the set of
// texts regardless of which stored encoding they came from.
func (l TaskItemList) MarshalJSON() ([]byte, error) {
	texts := make([]string, len(l))
	for i, item := range l {
		texts[i] = item.Text
	}
	return json.Marshal(texts)
}

// Texts returns the item texts in order.
func (l TaskItemList) Texts() []string {
	texts := make([]string, len(l))
	for i, item := range l {
		texts[i] = item.Text
	}
	return texts
}

// decodeItemArray decodes a JSON array whose elements are either bare
// strings or objects carrying the text under "task", "text", or "title".
func decodeItemArray(data []byte) (TaskItemList, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make(TaskItemList, 0, len(raw))
	for _, el := range raw {
		el = bytes.TrimSpace(el)
		if len(el) > 0 && el[0] == '"' {
			var s string
			if err := json.Unmarshal(el, &s); err != nil {
				return nil, err
			}
			items = append(items, TaskItem{Text: s})
			continue
		}
		var obj struct {
			Task  string `json:"task"`
			Text  string `json:"text"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal(el, &obj); err != nil {
			return nil, err
		}
		text := obj.Task
		if text == "" {
			text = obj.Text
		}
		if text == "" {
			text = obj.Title
		}
		items = append(items, TaskItem{Text: text})
	}
	return items, nil
}

// MeetingSummary is one row of the meeting-summary feed. Read-only from the
// client's perspective.
type MeetingSummary struct {
	ID           FlexID       `json:"id"`
	MeetingName  string       `json:"meeting_name"`
	Summary      string       `json:"summary"`
	Tasks        TaskItemList `json:"tasks"`
	PendingTasks TaskItemList `json:"pending_tasks"`
	CreatedAt    string       `json:"created_at,omitempty"`
}

// Transcript is one stored transcript row, including the full text the
// summary feed omits. The feed returns rows newest first.
type Transcript struct {
	ID           FlexID       `json:"id"`
	MeetingName  string       `json:"meeting_name"`
	Transcript   string       `json:"transcript"`
	Summary      string       `json:"summary"`
	Tasks        TaskItemList `json:"tasks"`
	PendingTasks TaskItemList `json:"pending_tasks"`
	CreatedAt    string       `json:"created_at,omitempty"`
}

// NewTranscript is the payload for uploading a meeting transcript.
type NewTranscript struct {
	MeetingName  string `json:"meeting_name"`
	Transcript   string `json:"transcript"`
	Summary      string `json:"summary"`
	Tasks        string `json:"tasks"`
	PendingTasks string `json:"pending_tasks"`
}
