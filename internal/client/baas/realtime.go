package baas

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/logging"
	"github.com/gorilla/websocket"
)

const (
	defaultHeartbeat = 25 * time.Second
	joinTimeout      = 10 * time.Second
)

// phxMessage is the channel protocol envelope used by the realtime feed.
type phxMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the body of a row-change push.
type changePayload struct {
	Type      string          `json:"type"`
	Table     string          `json:"table"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record"`
}

// WebsocketSubscriber implements Subscriber over the service's websocket
// endpoint using phoenix-style channels: join "realtime:{schema}:{table}",
// keep the socket alive with heartbeats, and push tagged row-change events
// to the handler.
type WebsocketSubscriber struct {
	wsURL     string
	apiKey    string
	schema    string
	heartbeat time.Duration
	log       logging.Logger
}

// NewWebsocketSubscriber builds a subscriber for the realtime endpoint at
// wsURL (ws:// or wss://). Tables are addressed within schema, normally
// "public".
func NewWebsocketSubscriber(wsURL, apiKey, schema string, log logging.Logger) *WebsocketSubscriber {
	return &WebsocketSubscriber{
		wsURL:     strings.TrimRight(wsURL, "/"),
		apiKey:    apiKey,
		schema:    schema,
		heartbeat: defaultHeartbeat,
		log:       log,
	}
}

type wsSubscription struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func (s *wsSubscription) send(msg phxMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *wsSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

// Subscribe dials the feed, joins the table's channel, and starts the read
// and heartbeat loops. The returned Subscription must be closed before a
// second one is opened for the same view.
func (w *WebsocketSubscriber) Subscribe(ctx context.Context, table string, fn func(models.ChangeEvent)) (Subscription, error) {
	dialURL := fmt.Sprintf("%s/websocket?apikey=%s&vsn=1.0.0", w.wsURL, w.apiKey)

	dialer := websocket.Dialer{HandshakeTimeout: joinTimeout}
	conn, _, err := dialer.DialContext(ctx, dialURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sub := &wsSubscription{conn: conn, done: make(chan struct{})}
	topic := fmt.Sprintf("realtime:%s:%s", w.schema, table)

	join := phxMessage{Topic: topic, Event: "phx_join", Payload: json.RawMessage(`{}`), Ref: "1"}
	if err := sub.send(join); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("joining %s: %w", topic, err)
	}

	go w.heartbeatLoop(sub)
	go w.readLoop(sub, topic, table, fn)

	return sub, nil
}

func (w *WebsocketSubscriber) heartbeatLoop(sub *wsSubscription) {
	ticker := time.NewTicker(w.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-sub.done:
			return
		case <-ticker.C:
			hb := phxMessage{Topic: "phoenix", Event: "heartbeat", Payload: json.RawMessage(`{}`)}
			if err := sub.send(hb); err != nil {
				w.log.Warn(context.Background(), "realtime heartbeat failed", "err", err)
				return
			}
		}
	}
}

// readLoop dispatches row-change pushes to fn. A payload that fails to
// decode is delivered with a zero Op so the consumer can fall back to a
// full re-fetch rather than silently dropping the change.
func (w *WebsocketSubscriber) readLoop(sub *wsSubscription, topic, table string, fn func(models.ChangeEvent)) {
	for {
		var msg phxMessage
		if err := sub.conn.ReadJSON(&msg); err != nil {
			select {
			case <-sub.done:
			default:
				w.log.Warn(context.Background(), "realtime feed closed", "topic", topic, "err", err)
			}
			return
		}
		if msg.Topic != topic {
			continue
		}

		switch msg.Event {
		case "INSERT", "UPDATE", "DELETE":
			event, err := decodeChange(msg)
			if err != nil {
				w.log.Warn(context.Background(), "undecodable realtime event", "topic", topic, "err", err)
				fn(models.ChangeEvent{Table: table})
				continue
			}
			fn(event)
		case "phx_reply", "phx_close", "phx_error":
			// Channel lifecycle traffic; nothing to apply.
		}
	}
}

// decodeChange converts a row-change push into a ChangeEvent.
func decodeChange(msg phxMessage) (models.ChangeEvent, error) {
	var p changePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return models.ChangeEvent{}, err
	}

	op := models.ChangeOp(msg.Event)
	switch op {
	case models.ChangeInsert, models.ChangeUpdate, models.ChangeDelete:
	default:
		return models.ChangeEvent{}, fmt.Errorf("unknown event kind %q", msg.Event)
	}

	return models.ChangeEvent{
		Op:    op,
		Table: p.Table,
		New:   p.Record,
		Old:   p.OldRecord,
	}, nil
}
