package gatekeeper

import (
	"context"
	"time"
)

// AuthEventType enumerates supported authentication event categories.
type AuthEventType string

const (
	AuthEventLoginSuccess  AuthEventType = "auth.login.success"
	AuthEventLoginFailure  AuthEventType = "auth.login.failure"
	AuthEventLoginLocked   AuthEventType = "auth.login.locked"
	AuthEventLoginDisabled AuthEventType = "auth.login.disabled"
	AuthEventLoginError    AuthEventType = "auth.login.error"
)

// AuthEvent captures audit-friendly information about an authentication
// outcome.
type AuthEvent struct {
	EventType  AuthEventType
	Username   string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes authentication events. Sinks run synchronously in
// the login code path; there is a single producer, so no event bus is
// involved.
type ActivitySink interface {
	Record(ctx context.Context, event AuthEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event AuthEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event AuthEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type multiSink []ActivitySink

func (m multiSink) Record(ctx context.Context, event AuthEvent) error {
	var firstErr error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// TrackerSink wires an AttemptTracker into the authentication event stream:
// bad-credentials failures increment the counter, successes evict the entry.
// Every other outcome leaves the counter untouched: a locked account must
// not keep extending its own window, and disabled-account or system faults
// are not credential guesses.
func TrackerSink(tracker AttemptTracker) ActivitySink {
	return ActivitySinkFunc(func(_ context.Context, event AuthEvent) error {
		if tracker == nil || event.Username == "" {
			return nil
		}

		switch event.EventType {
		case AuthEventLoginFailure:
			tracker.RecordFailure(event.Username)
		case AuthEventLoginSuccess:
			tracker.ClearUser(event.Username)
		}

		return nil
	})
}
