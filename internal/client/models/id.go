// Package models defines the domain types the FOSYS client exchanges with
// the backend API and the BaaS: users, tasks, meeting summaries, projects,
// calendar events, and realtime change events.
package models

import (
	"bytes"
	"encoding/json"
)

// FlexID is an identifier that the backend may emit either as a JSON string
// or as a JSON number. It normalizes both to a string so that ownership
// comparisons are type-loose: numeric 99 and "99" are the same identifier.
type FlexID string

// UnmarshalJSON accepts a string, a number, or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// MarshalJSON always renders the string form.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexID) String() string { return string(f) }

// IsZero reports whether the identifier is absent.
func (f FlexID) IsZero() bool { return f == "" }

// Equals compares two identifiers as strings.
func (f FlexID) Equals(other string) bool { return string(f) == other }
