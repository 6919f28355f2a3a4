package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	guestChangesChannel = "guest_changes"
	reconnectDelay      = 2 * time.Second
)

type refreshFunc func(ctx context.Context) error

// ChangeHub holds one LISTEN connection on guest_changes and fans each
// notification out to the subscribers of the event named in its payload.
type ChangeHub struct {
	pool *pgxpool.Pool
	log  zerolog.Logger

	mu   sync.Mutex
	subs map[string]map[int]refreshFunc
	next int
}

func NewChangeHub(pool *pgxpool.Pool, log zerolog.Logger) *ChangeHub {
	return &ChangeHub{
		pool: pool,
		log:  log,
		subs: make(map[string]map[int]refreshFunc),
	}
}

// Run listens until ctx is done, reconnecting after connection failures.
// After a reconnect every subscriber is refreshed since notifications sent
// while disconnected are lost.
func (h *ChangeHub) Run(ctx context.Context) error {
	first := true
	for {
		err := h.listen(ctx, !first)
		if ctx.Err() != nil {
			return nil
		}
		first = false
		h.log.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("guest change listener dropped")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

func (h *ChangeHub) listen(ctx context.Context, resync bool) error {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{guestChangesChannel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", guestChangesChannel, err)
	}
	h.log.Debug().Str("channel", guestChangesChannel).Msg("listening for guest changes")
	if resync {
		h.refreshAll(ctx)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		h.refresh(ctx, n.Payload)
	}
}

func (h *ChangeHub) add(eventID string, fn refreshFunc) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	if h.subs[eventID] == nil {
		h.subs[eventID] = make(map[int]refreshFunc)
	}
	h.subs[eventID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[eventID], id)
			if len(h.subs[eventID]) == 0 {
				delete(h.subs, eventID)
			}
		})
	}
}

func (h *ChangeHub) refresh(ctx context.Context, eventID string) {
	h.mu.Lock()
	fns := make([]refreshFunc, 0, len(h.subs[eventID]))
	for _, fn := range h.subs[eventID] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			h.log.Error().Err(err).Str("event_id", eventID).Msg("refresh guest subscriber")
		}
	}
}

func (h *ChangeHub) refreshAll(ctx context.Context) {
	h.mu.Lock()
	ids := make([]string, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	for _, id := range ids {
		h.refresh(ctx, id)
	}
}
