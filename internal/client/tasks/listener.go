package tasks

import (
	"context"
	"sync"

	"github.com/fosys/fosys-client/internal/client/baas"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/logging"
)

// ListenerState names the subscription lifecycle phases.
type ListenerState string

const (
	StateUnsubscribed ListenerState = "unsubscribed"
	StateSubscribing  ListenerState = "subscribing"
	StateActive       ListenerState = "active"
)

// Listener maintains a live, owner-filtered task list by applying realtime
// row changes to an in-memory snapshot. One subscription per listener:
// starting an already-started listener tears the previous subscription down
// first. Subscription errors are not retried here; a stopped feed stays
// stopped until Start is called again.
type Listener struct {
	svc        *Service
	subscriber baas.Subscriber
	log        logging.Logger

	mu           sync.Mutex
	state        ListenerState
	subscription baas.Subscription
	owner        string
	items        []models.Task
	generation   uint64
	alive        bool
	onChange     func([]models.Task)
}

// NewListener builds a listener over svc's task list. onChange, if non-nil,
// is invoked with a snapshot after every applied mutation.
func NewListener(svc *Service, subscriber baas.Subscriber, log logging.Logger, onChange func([]models.Task)) *Listener {
	return &Listener{
		svc:        svc,
		subscriber: subscriber,
		log:        log,
		state:      StateUnsubscribed,
		onChange:   onChange,
	}
}

// State returns the current lifecycle phase.
func (l *Listener) State() ListenerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Tasks returns a snapshot of the current list.
func (l *Listener) Tasks() []models.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Task, len(l.items))
	copy(out, l.items)
	return out
}

// Start resolves the owner, loads the initial list, and opens the realtime
// subscription. A previously active subscription is closed before the new
// one is created.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.subscription != nil {
		_ = l.subscription.Close()
		l.subscription = nil
	}
	l.state = StateSubscribing
	l.alive = true
	l.mu.Unlock()

	owner, err := l.svc.Owner(ctx)
	if err != nil {
		l.setState(StateUnsubscribed)
		return err
	}

	initial, err := l.svc.List(ctx)
	if err != nil {
		l.setState(StateUnsubscribed)
		return err
	}

	sub, err := l.subscriber.Subscribe(ctx, Table, l.handle)
	if err != nil {
		l.setState(StateUnsubscribed)
		return err
	}

	l.mu.Lock()
	l.owner = owner
	l.items = initial
	l.generation++
	l.subscription = sub
	l.state = StateActive
	l.mu.Unlock()

	l.notify()
	return nil
}

// Stop tears the subscription down. Late events and in-flight refreshes are
// discarded once the liveness flag drops.
func (l *Listener) Stop() {
	l.mu.Lock()
	l.alive = false
	l.state = StateUnsubscribed
	sub := l.subscription
	l.subscription = nil
	l.mu.Unlock()

	if sub != nil {
		_ = sub.Close()
	}
}

// Refresh schedules a full re-fetch of the snapshot. Callers use it when a
// sibling instance signals a change this listener's own feed may have missed.
// A stopped listener ignores the call.
func (l *Listener) Refresh() {
	l.refetch()
}

// handle applies one pushed event. Rows owned by someone else, and events
// the feed could not decode, trigger a full re-fetch instead of a targeted
// mutation.
func (l *Listener) handle(event models.ChangeEvent) {
	l.mu.Lock()
	if !l.alive {
		l.mu.Unlock()
		return
	}
	owner := l.owner
	l.mu.Unlock()

	switch event.Op {
	case models.ChangeInsert:
		var task models.Task
		if err := event.DecodeNew(&task); err != nil {
			l.refetch()
			return
		}
		if !task.UserID.Equals(owner) {
			l.refetch()
			return
		}
		l.applyInsert(task)

	case models.ChangeUpdate:
		var task models.Task
		if err := event.DecodeNew(&task); err != nil {
			l.refetch()
			return
		}
		if !task.UserID.Equals(owner) {
			l.refetch()
			return
		}
		l.applyUpdate(task)

	case models.ChangeDelete:
		var old models.Task
		if err := event.DecodeOld(&old); err != nil || old.ID.IsZero() {
			l.refetch()
			return
		}
		l.applyDelete(old.ID)

	default:
		// Unrecognized shape: the event carries nothing we can apply.
		l.refetch()
	}
}

// applyInsert prepends unless a row with the same id is already present.
func (l *Listener) applyInsert(task models.Task) {
	l.mu.Lock()
	if !l.alive {
		l.mu.Unlock()
		return
	}
	for _, existing := range l.items {
		if existing.ID == task.ID {
			l.mu.Unlock()
			return
		}
	}
	l.items = append([]models.Task{task}, l.items...)
	l.mu.Unlock()
	l.notify()
}

// applyUpdate replaces the row with a matching id; an unknown id is left
// alone.
func (l *Listener) applyUpdate(task models.Task) {
	l.mu.Lock()
	if !l.alive {
		l.mu.Unlock()
		return
	}
	changed := false
	for i := range l.items {
		if l.items[i].ID == task.ID {
			l.items[i] = task
			changed = true
			break
		}
	}
	l.mu.Unlock()
	if changed {
		l.notify()
	}
}

// applyDelete removes the row with a matching id; an absent id is a no-op.
func (l *Listener) applyDelete(id models.FlexID) {
	l.mu.Lock()
	if !l.alive {
		l.mu.Unlock()
		return
	}
	kept := l.items[:0]
	changed := false
	for _, item := range l.items {
		if item.ID == id {
			changed = true
			continue
		}
		kept = append(kept, item)
	}
	l.items = kept
	l.mu.Unlock()
	if changed {
		l.notify()
	}
}

// refetch replaces the snapshot with a fresh full fetch. Each refetch takes
// a generation number before the network call; a result whose generation is
// no longer current is dropped, so a slow refresh cannot clobber state that
// a later one already replaced.
func (l *Listener) refetch() {
	l.mu.Lock()
	if !l.alive {
		l.mu.Unlock()
		return
	}
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	go func() {
		list, err := l.svc.List(context.Background())
		if err != nil {
			l.log.Error(context.Background(), "fallback task refresh failed", "err", err)
			return
		}

		l.mu.Lock()
		if !l.alive || gen != l.generation {
			l.mu.Unlock()
			return
		}
		l.items = list
		l.mu.Unlock()
		l.notify()
	}()
}

func (l *Listener) setState(s ListenerState) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

func (l *Listener) notify() {
	if l.onChange == nil {
		return
	}
	l.onChange(l.Tasks())
}
