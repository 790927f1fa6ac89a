// Package broadcast propagates "data changed" signals between FOSYS client
// processes, the desktop equivalent of a browser's cross-tab channel. The
// primary transport is NATS pub/sub; when the broker is unreachable, a
// timestamp written to the shared local state table acts as the fallback
// trigger, polled by subscribers. Subscribers listen on both channels.
package broadcast

import (
	"context"
	"encoding/json"
	"time"
)

// SubjectTasksChanged is the single fixed channel used for task-change
// notifications.
const SubjectTasksChanged = "fosys.tasks.changed"

// Envelope is the typed signal payload: entity kind, row id, and operation,
// so subscribers can apply targeted updates instead of a blanket re-fetch.
// Origin identifies the publishing process; subscribers skip their own
// signals.
type Envelope struct {
	Entity string    `json:"entity"`
	ID     string    `json:"id,omitempty"`
	Op     string    `json:"op"`
	Origin string    `json:"origin,omitempty"`
	At     time.Time `json:"at"`
}

func (e Envelope) encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// Unsubscribe stops a subscription started with Subscribe.
type Unsubscribe func()

// Broadcaster publishes and receives change signals.
type Broadcaster interface {
	Publish(ctx context.Context, env Envelope) error
	Subscribe(ctx context.Context, fn func(Envelope)) (Unsubscribe, error)
	Close()
}
