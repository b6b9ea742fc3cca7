package app

import "time"

// ToastKind is the severity of a notification.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast is one transient notification.
type Toast struct {
	ID        uint64
	Message   string
	Kind      ToastKind
	ExpiresAt time.Time
}

const (
	defaultToastTTL = 3 * time.Second
	maxToasts       = 4
)

// Toasts is a small expiring queue; the oldest toast is dropped once full.
type Toasts struct {
	ttl   time.Duration
	now   func() time.Time
	next  uint64
	items []Toast
}

func NewToasts(ttl time.Duration, now func() time.Time) *Toasts {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Toasts{ttl: ttl, now: now}
}

func (t *Toasts) Push(kind ToastKind, msg string) Toast {
	t.next++
	toast := Toast{ID: t.next, Message: msg, Kind: kind, ExpiresAt: t.now().Add(t.ttl)}
	t.items = append(t.items, toast)
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
	return toast
}

// Dismiss removes a toast before it expires.
func (t *Toasts) Dismiss(id uint64) {
	for i, item := range t.items {
		if item.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Active prunes expired toasts and returns a copy of the rest, oldest first.
func (t *Toasts) Active() []Toast {
	now := t.now()
	kept := t.items[:0]
	for _, item := range t.items {
		if now.Before(item.ExpiresAt) {
			kept = append(kept, item)
		}
	}
	t.items = kept
	return append([]Toast(nil), kept...)
}
