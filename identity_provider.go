package gatekeeper

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// StoreIdentityProvider verifies credentials against an IdentityStore while
// enforcing account flags and the login-attempt limit. The lockout check runs
// during identity lookup, before any password comparison or token issuance.
type StoreIdentityProvider struct {
	store   IdentityStore
	tracker AttemptTracker
	logger  Logger
	now     func() time.Time
}

// NewStoreIdentityProvider will create a new StoreIdentityProvider
func NewStoreIdentityProvider(store IdentityStore, tracker AttemptTracker) *StoreIdentityProvider {
	return &StoreIdentityProvider{
		store:   store,
		tracker: tracker,
		logger:  defLogger{},
		now:     time.Now,
	}
}

func (p *StoreIdentityProvider) WithLogger(logger Logger) *StoreIdentityProvider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// WithClock injects a custom clock (useful for tests)
func (p *StoreIdentityProvider) WithClock(clock func() time.Time) *StoreIdentityProvider {
	if clock != nil {
		p.now = clock
	}
	return p
}

// VerifyIdentity will find the user, validate account state, compare the
// password, and return the identity
func (p *StoreIdentityProvider) VerifyIdentity(ctx context.Context, username, password string) (Identity, error) {
	user, err := p.lookup(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			// unknown usernames collapse into bad credentials, no oracle
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if err := p.validateAccountState(user); err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	p.trackSuccessfulLogin(ctx, user)

	return identityFromUser(user), nil
}

// FindIdentityByUsername loads an identity without credential verification
func (p *StoreIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := p.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := p.validateAccountState(user); err != nil {
		return nil, err
	}

	return identityFromUser(user), nil
}

func (p *StoreIdentityProvider) lookup(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, ErrIdentityNotFound
	}

	user, err := p.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return user, nil
}

// validateAccountState enforces the disabled flag, the persisted lock flag,
// and the attempt-limit lock, in that order.
func (p *StoreIdentityProvider) validateAccountState(user *User) error {
	if !user.Active {
		return ErrAccountDisabled
	}

	if !user.NotLocked {
		// already locked by the collaborator: evict any stale counter so the
		// cache does not accumulate locked-user entries
		if p.tracker != nil {
			p.tracker.ClearUser(user.Username)
		}
		return ErrAccountLocked
	}

	if p.tracker != nil && p.tracker.HasExceededLimit(user.Username) {
		return ErrAccountLocked
	}

	return nil
}

// trackSuccessfulLogin rolls the last-login timestamps forward and persists
// them. Save failures are logged, not fatal: the login already succeeded.
func (p *StoreIdentityProvider) trackSuccessfulLogin(ctx context.Context, user *User) {
	now := p.now()
	user.LastLoginDisplayAt = user.LastLoginAt
	user.LastLoginAt = &now

	if err := p.store.Save(ctx, user); err != nil {
		p.logger.Error("failed to track successful login for %s: %v", user.Username, err)
	}
}

type authIdentity struct {
	id          string
	username    string
	email       string
	role        string
	authorities []string
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Role() string {
	return a.role
}

func (a authIdentity) Authorities() []string {
	return a.authorities
}

var _ Identity = authIdentity{}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:          user.ID,
		username:    user.Username,
		email:       user.Email,
		role:        string(user.Role),
		authorities: user.Role.Authorities(),
	}
}

var _ IdentityProvider = (*StoreIdentityProvider)(nil)
