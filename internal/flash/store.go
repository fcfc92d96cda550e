/**
 * @description
 * Session-scoped flash message store. A Store keeps the ordered list of
 * transient notifications shown to one browser session and removes each one
 * when its display duration elapses.
 *
 * @notes
 * - Ids are strictly increasing within a store and never reused, so a stale
 *   timer can never remove a newer notification.
 * - All mutations take the store mutex; timer callbacks re-check that their
 *   entry is still pending before removing it, which makes expiry at-most-once.
 * - Subscribers receive a full snapshot after every mutation. A slow
 *   subscriber only ever sees the latest snapshot.
 */
package flash

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tradex/exchange-service/internal/metrics"
)

// DefaultDuration applies when Push is called without WithDuration.
const DefaultDuration = 5000 * time.Millisecond

// Kind is the visual category of a flash notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// ParseKind validates a client supplied kind.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindSuccess, KindError, KindInfo, KindWarning:
		return k, nil
	default:
		return "", fmt.Errorf("invalid flash kind %q", raw)
	}
}

// Notification is one active flash message.
type Notification struct {
	ID          int64  `json:"id"`
	Kind        Kind   `json:"kind"`
	Message     string `json:"message"`
	Title       string `json:"title,omitempty"`
	DurationMS  int64  `json:"duration"`
	Dismissible bool   `json:"dismissible"`
}

// Option customises a pushed notification.
type Option func(*Notification)

func WithTitle(title string) Option {
	return func(n *Notification) { n.Title = title }
}

// MaxDuration caps the display time of a single notification.
const MaxDuration = 24 * time.Hour

// WithDuration sets the display time. Zero or negative disables auto-removal.
// Positive values are rounded up to whole milliseconds and capped at
// MaxDuration, so a positive duration always schedules removal.
func WithDuration(d time.Duration) Option {
	return func(n *Notification) {
		n.DurationMS = durationMS(d)
	}
}

func durationMS(d time.Duration) int64 {
	switch {
	case d <= 0:
		return 0
	case d > MaxDuration:
		d = MaxDuration
	}
	return int64((d + time.Millisecond - 1) / time.Millisecond)
}

func WithDismissible(dismissible bool) Option {
	return func(n *Notification) { n.Dismissible = dismissible }
}

// Store holds the active notifications for one session.
type Store struct {
	mu              sync.Mutex
	clock           Clock
	defaultDuration time.Duration
	nextID          int64
	items           []Notification
	timers          map[int64]Timer
	subscribers     map[int]chan []Notification
	nextSub         int
	lastUsed        time.Time
	closed          bool
}

// NewStore creates an empty store. A zero defaultDuration means
// DefaultDuration; a negative one keeps notifications until they are removed.
func NewStore(clock Clock, defaultDuration time.Duration) *Store {
	if clock == nil {
		clock = SystemClock
	}
	if defaultDuration == 0 {
		defaultDuration = DefaultDuration
	}
	return &Store{
		clock:           clock,
		defaultDuration: defaultDuration,
		timers:          make(map[int64]Timer),
		subscribers:     make(map[int]chan []Notification),
		lastUsed:        clock.Now(),
	}
}

// Push appends a notification and returns its id. When the duration is
// positive the notification is removed automatically once it elapses.
// Push on a closed store is ignored and returns 0.
func (s *Store) Push(kind Kind, message string, opts ...Option) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}

	s.nextID++
	n := Notification{
		ID:          s.nextID,
		Kind:        kind,
		Message:     message,
		DurationMS:  s.defaultDuration.Milliseconds(),
		Dismissible: true,
	}
	for _, opt := range opts {
		opt(&n)
	}

	s.items = append(s.items, n)
	if n.DurationMS > 0 {
		id := n.ID
		s.timers[id] = s.clock.AfterFunc(time.Duration(n.DurationMS)*time.Millisecond, func() {
			s.expire(id)
		})
	}
	s.touchLocked()
	s.publishLocked()
	metrics.FlashPushedTotal.WithLabelValues(string(kind)).Inc()
	return n.ID
}

// Remove deletes the notification and cancels its timer. Unknown ids are ignored.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeLocked(id) {
		s.touchLocked()
		s.publishLocked()
	}
}

// Clear cancels every pending timer and empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.touchLocked()
	s.publishLocked()
}

// Notifications returns a copy of the active sequence in push order.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Pending reports how many expiry timers are still scheduled.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Subscribe returns a channel that receives the current snapshot immediately
// and again after every change, plus a func that ends the subscription.
func (s *Store) Subscribe() (<-chan []Notification, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []Notification, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	ch <- s.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close clears the store and closes every subscriber channel.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.clearLocked()
	s.publishLocked()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
	s.closed = true
}

// touch marks the store as used and reports whether it can still accept pushes.
func (s *Store) touch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.touchLocked()
	return true
}

func (s *Store) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed, len(s.items) == 0 && len(s.subscribers) == 0
}

func (s *Store) expire(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, pending := s.timers[id]; !pending {
		return
	}
	if s.removeLocked(id) {
		metrics.FlashExpiredTotal.Inc()
		s.publishLocked()
	}
}

func (s *Store) removeLocked(id int64) bool {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) clearLocked() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.items = nil
}

func (s *Store) touchLocked() {
	s.lastUsed = s.clock.Now()
}

func (s *Store) snapshotLocked() []Notification {
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Replace the unread snapshot with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
