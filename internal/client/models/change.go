package models

import "encoding/json"

// ChangeOp tags a realtime row-change event.
type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// ChangeEvent is one pushed notification from a per-table subscription.
// New holds the after image for inserts and updates; Old holds the before
// image for updates and deletes. Images are kept raw so each consumer
// decodes only the row type it cares about.
type ChangeEvent struct {
	Op    ChangeOp        `json:"type"`
	Table string          `json:"table"`
	New   json.RawMessage `json:"record,omitempty"`
	Old   json.RawMessage `json:"old_record,omitempty"`
}

// DecodeNew unmarshals the after image into v.
func (e *ChangeEvent) DecodeNew(v any) error { return json.Unmarshal(e.New, v) }

// DecodeOld unmarshals the before image into v.
func (e *ChangeEvent) DecodeOld(v any) error { return json.Unmarshal(e.Old, v) }
