// Package session holds the signed-in user's token and identity, keeps them
// in durable storage across restarts and notifies subscribers when they
// change.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

// AuthAPI is the subset of the backend used to sign in.
type AuthAPI interface {
	Register(ctx context.Context, req client.RegisterRequest) (*client.RegisterResponse, error)
	Login(ctx context.Context, req client.LoginRequest) (*client.AuthResponse, error)
}

// Session is the result of a successful sign-in.
type Session struct {
	Token string
	User  domain.User
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for storage and sign-in events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithTokenOverride makes tok replace the persisted token at startup.
// An empty tok is ignored.
func WithTokenOverride(tok string) Option {
	return func(m *Manager) { m.override = tok }
}

// Manager is the single source of truth for who is signed in. It is safe
// for concurrent use. It satisfies client.TokenSource.
type Manager struct {
	api      AuthAPI
	store    Store
	logger   *slog.Logger
	override string

	// pub serializes state changes with their notifications so every
	// subscriber observes changes in the order they were applied.
	pub sync.Mutex

	mu       sync.Mutex
	token    string
	identity *domain.User
	subs     map[int]func(*domain.User)
	nextSub  int
}

var _ client.TokenSource = (*Manager)(nil)

// NewManager builds a Manager and restores any session found in store.
// A persisted identity that cannot be decoded is discarded along with the
// token, leaving the Manager signed out.
func NewManager(api AuthAPI, store Store, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		subs:   make(map[int]func(*domain.User)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.restore()
	return m
}

func (m *Manager) restore() {
	token, _, err := m.store.Get(KeyToken)
	if err != nil {
		m.logger.Warn("read stored token", "error", err)
	}
	raw, hasUser, err := m.store.Get(KeyUser)
	if err != nil {
		m.logger.Warn("read stored user", "error", err)
	}

	var identity *domain.User
	if hasUser && raw != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			m.logger.Warn("stored user is corrupt, signing out", "error", err)
			m.clearStore()
			token = ""
		} else {
			identity = &u
		}
	}
	if m.override != "" {
		token = m.override
	}
	m.token = token
	m.identity = identity
}

// Login signs in with the given credentials. role is the role the user
// selected and is sent to the backend as is. On failure the Manager is
// unchanged and the backend error is returned wrapped.
func (m *Manager) Login(ctx context.Context, email, password, role string) (*Session, error) {
	resp, err := m.api.Login(ctx, client.LoginRequest{Email: email, Password: password, Role: role})
	if err != nil {
		return nil, fmt.Errorf("session.Login: %w", err)
	}
	if resp.Token == "" {
		return nil, errors.New("session.Login: backend returned no token")
	}
	m.set(resp.Token, &resp.User)
	m.logger.Info("signed in", "user", resp.User.Email, "role", resp.User.Role)
	return &Session{Token: resp.Token, User: resp.User}, nil
}

// Signup registers a customer account and then signs in with the same
// credentials.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	if _, err := m.api.Register(ctx, client.RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
		return nil, fmt.Errorf("session.Signup: %w", err)
	}
	return m.Login(ctx, email, password, domain.RoleCustomer)
}

// Logout forgets the session locally. The backend is not contacted.
func (m *Manager) Logout() {
	m.set("", nil)
	m.logger.Info("signed out")
}

func (m *Manager) set(token string, identity *domain.User) {
	m.pub.Lock()
	defer m.pub.Unlock()

	var snapshot *domain.User
	if identity != nil {
		u := *identity
		snapshot = &u
	}
	m.mu.Lock()
	m.token = token
	m.identity = snapshot
	subs := make([]func(*domain.User), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	if token == "" {
		m.clearStore()
	} else {
		m.persist(token, snapshot)
	}
	for _, fn := range subs {
		fn(copyUser(snapshot))
	}
}

func (m *Manager) persist(token string, identity *domain.User) {
	if err := m.store.Set(KeyToken, token); err != nil {
		m.logger.Warn("persist token", "error", err)
	}
	if identity == nil {
		return
	}
	data, err := json.Marshal(identity)
	if err != nil {
		m.logger.Warn("encode user", "error", err)
		return
	}
	if err := m.store.Set(KeyUser, string(data)); err != nil {
		m.logger.Warn("persist user", "error", err)
	}
}

func (m *Manager) clearStore() {
	for _, key := range []string{KeyToken, KeyUser} {
		if err := m.store.Delete(key); err != nil {
			m.logger.Warn("clear stored session", "key", key, "error", err)
		}
	}
}

// IsAuthenticated reports whether a token is held.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// Token returns the current token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// CurrentIdentity returns a copy of the signed-in user, or nil.
func (m *Manager) CurrentIdentity() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyUser(m.identity)
}

// Subscribe calls fn with the current identity right away and again after
// every change until the returned function is called. fn may read Token or
// CurrentIdentity but must not call Login, Signup, Logout or Subscribe.
func (m *Manager) Subscribe(fn func(*domain.User)) (unsubscribe func()) {
	m.pub.Lock()
	defer m.pub.Unlock()

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	current := copyUser(m.identity)
	m.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
