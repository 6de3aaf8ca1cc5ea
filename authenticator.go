package gatekeeper

import (
	"context"
	"time"
)

// Auther orchestrates credential verification, lockout, auth events, and
// token issuance.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
	sinks        multiSink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	return &Auther{
		provider:     provider,
		tokenService: NewTokenServiceFromConfig(cfg),
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, e.g. to inject a test clock
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithActivitySink appends an ActivitySink for auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	if sink != nil {
		s.sinks = append(s.sinks, sink)
	}
	return s
}

// WithAttemptTracker wires the tracker into the event stream so failures
// increment its counters and successes clear them.
func (s *Auther) WithAttemptTracker(tracker AttemptTracker) *Auther {
	if tracker != nil {
		s.sinks = append(s.sinks, TrackerSink(tracker))
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and returns a signed token carrying the
// identity's username and authority claims.
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify identity error for %s: %v", username, err)
		s.emitAuthEvent(ctx, failureEventType(err), username, map[string]any{
			"error": err.Error(),
		})
		return "", err
	}

	token, err := s.tokenService.Issue(identity.Username(), identity.Authorities())
	if err != nil {
		s.logger.Error("Login token issuance error for %s: %v", username, err)
		s.emitAuthEvent(ctx, AuthEventLoginError, username, map[string]any{
			"error": err.Error(),
		})
		return "", err
	}

	s.emitAuthEvent(ctx, AuthEventLoginSuccess, identity.Username(), map[string]any{
		"role": identity.Role(),
	})

	return token, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType AuthEventType, username string, metadata map[string]any) {
	if len(s.sinks) == 0 {
		return
	}

	event := AuthEvent{
		EventType:  eventType,
		Username:   username,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := s.sinks.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

// failureEventType classifies a rejected login. Only bad credentials map to
// the failure event; lockout, disabled accounts, and system faults get their
// own types so the tracker sink never counts them as guesses.
func failureEventType(err error) AuthEventType {
	switch {
	case IsAccountLockedError(err):
		return AuthEventLoginLocked
	case IsAccountDisabledError(err):
		return AuthEventLoginDisabled
	case IsBadCredentialsError(err):
		return AuthEventLoginFailure
	default:
		return AuthEventLoginError
	}
}

var _ Authenticator = (*Auther)(nil)
