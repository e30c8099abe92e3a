package crud

import "sync"

// Level is the kind of a notification.
type Level int

const (
	Success Level = iota
	Failure
)

// Notification is a transient, dismissible message for the user.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives notifications produced by page operations.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Log is a Notifier that buffers notifications until drained.
type Log struct {
	mu    sync.Mutex
	items []Notification
}

func (l *Log) Notify(n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, n)
}

// Drain returns and forgets every buffered notification.
func (l *Log) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	return out
}

// Last returns the most recent notification without draining.
func (l *Log) Last() (Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items) == 0 {
		return Notification{}, false
	}
	return l.items[len(l.items)-1], true
}
