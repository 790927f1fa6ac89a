package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fosys/fosys-client/internal/client/repositories/state"
	"github.com/fosys/fosys-client/internal/common"
	"github.com/fosys/fosys-client/internal/logging"
	"github.com/nats-io/nats.go"
)

const defaultPollInterval = 2 * time.Second

// NATSBroadcaster is the production Broadcaster. It degrades gracefully:
// with no reachable broker it runs fallback-only, and every publish also
// bumps the fallback slot so subscribers on either channel see the signal.
type NATSBroadcaster struct {
	conn         *nats.Conn
	states       state.Repository
	log          logging.Logger
	origin       string
	pollInterval time.Duration

	mu   sync.Mutex
	subs []*nats.Subscription
}

// New connects to the broker at natsURL and returns a broadcaster backed by
// it, with states as the fallback slot. A connection failure is logged and
// tolerated; the broadcaster then works through the fallback alone.
func New(natsURL string, states state.Repository, log logging.Logger) *NATSBroadcaster {
	origin, err := common.MakeRandHexString(8)
	if err != nil {
		origin = ""
	}

	b := &NATSBroadcaster{
		states:       states,
		log:          log,
		origin:       origin,
		pollInterval: defaultPollInterval,
	}

	if natsURL == "" {
		return b
	}
	conn, err := nats.Connect(natsURL, nats.Name("fosys-client"), nats.Timeout(3*time.Second))
	if err != nil {
		log.Warn(context.Background(), "broadcast broker unreachable, using fallback slot", "url", natsURL, "err", err)
		return b
	}
	b.conn = conn
	return b
}

// Publish sends the envelope over the broker when connected and always
// bumps the fallback timestamp slot.
func (b *NATSBroadcaster) Publish(ctx context.Context, env Envelope) error {
	if env.At.IsZero() {
		env.At = time.Now().UTC()
	}
	env.Origin = b.origin

	var pubErr error
	if b.conn != nil && b.conn.IsConnected() {
		if err := b.conn.Publish(SubjectTasksChanged, env.encode()); err != nil {
			pubErr = err
			b.log.Warn(ctx, "broadcast publish failed", "err", err)
		}
	}

	if err := b.states.Set(ctx, state.KeyTasksChangedAt, env.encode()); err != nil {
		b.log.Warn(ctx, "broadcast fallback write failed", "err", err)
		if pubErr == nil {
			return err
		}
	}
	return pubErr
}

// Subscribe invokes fn for every foreign signal, whether it arrived over
// the broker or through the fallback slot. The returned Unsubscribe tears
// both listeners down.
func (b *NATSBroadcaster) Subscribe(ctx context.Context, fn func(Envelope)) (Unsubscribe, error) {
	var natsSub *nats.Subscription

	if b.conn != nil && b.conn.IsConnected() {
		sub, err := b.conn.Subscribe(SubjectTasksChanged, func(msg *nats.Msg) {
			var env Envelope
			if err := json.Unmarshal(msg.Data, &env); err != nil {
				// Coarse signal: presence alone is enough to act on.
				env = Envelope{Entity: "task", Op: "changed"}
			}
			if env.Origin != "" && env.Origin == b.origin {
				return
			}
			fn(env)
		})
		if err != nil {
			b.log.Warn(ctx, "broadcast subscribe failed, fallback only", "err", err)
		} else {
			natsSub = sub
			b.mu.Lock()
			b.subs = append(b.subs, sub)
			b.mu.Unlock()
		}
	}

	stop := make(chan struct{})
	// Snapshot the slot before the goroutine starts so writes that land
	// between Subscribe returning and the first poll are still detected.
	last, _ := b.states.Get(ctx, state.KeyTasksChangedAt)
	go b.pollFallback(ctx, stop, last, fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			if natsSub != nil {
				_ = natsSub.Unsubscribe()
			}
		})
	}, nil
}

// pollFallback watches the fallback slot for writes from other processes.
func (b *NATSBroadcaster) pollFallback(ctx context.Context, stop <-chan struct{}, last []byte, fn func(Envelope)) {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			current, err := b.states.Get(ctx, state.KeyTasksChangedAt)
			if err != nil || current == nil {
				continue
			}
			if string(current) == string(last) {
				continue
			}
			last = current

			var env Envelope
			if err := json.Unmarshal(current, &env); err != nil {
				env = Envelope{Entity: "task", Op: "changed"}
			}
			if env.Origin != "" && env.Origin == b.origin {
				continue
			}
			fn(env)
		}
	}
}

// Close drains broker subscriptions and the connection.
func (b *NATSBroadcaster) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Unsubscribe()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
