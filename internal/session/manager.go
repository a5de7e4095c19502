// Package session owns the authentication lifecycle of the client.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"user_manager/internal/model"
	"user_manager/internal/utils"
	"user_manager/internal/validation"
)

// Status is the authentication status of a session
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusError          Status = "error"
)

// State is a snapshot of the session.
type State struct {
	Status  Status
	Account *model.Account
	Token   string
	Message string
}

// IsAuthenticated reports whether both an account and a token are present.
func (s State) IsAuthenticated() bool {
	return s.Account != nil && s.Token != ""
}

func (s State) clone() State {
	if s.Account != nil {
		acc := *s.Account
		s.Account = &acc
	}
	return s
}

// AccountStore is the account lookup the session needs from the data access layer.
type AccountStore interface {
	FindByCredentials(ctx context.Context, email, password string) (model.Account, bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, req model.SignupRequest) (model.Account, error)
	Get(ctx context.Context, id int64) (model.Account, error)
}

// Manager drives the session state machine. State is guarded by mu, which is
// never held across a call to the account store.
type Manager struct {
	accounts AccountStore
	tokens   TokenStore
	codec    *utils.TokenUtil
	log      *slog.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewManager creates an anonymous session Manager
func NewManager(accounts AccountStore, tokens TokenStore, codec *utils.TokenUtil, log *slog.Logger) *Manager {
	return &Manager{
		accounts: accounts,
		tokens:   tokens,
		codec:    codec,
		log:      log,
		state:    State{Status: StatusAnonymous},
		subs:     make(map[int]func(State)),
	}
}

// State returns a copy of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Token returns the current session token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// Subscribe registers fn for every state change. The returned func unregisters it.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Login authenticates against the stored accounts.
func (m *Manager) Login(ctx context.Context, req model.LoginRequest) (model.Account, error) {
	if err := validation.Struct(req); err != nil {
		return model.Account{}, err
	}
	m.begin()

	acc, found, err := m.accounts.FindByCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return model.Account{}, m.fail(loginMessage(err), err)
	}
	if !found {
		return model.Account{}, m.fail(MsgInvalidCredentials, ErrInvalidCredentials)
	}
	if err := m.establish(acc); err != nil {
		return model.Account{}, m.fail(MsgLoginFailed, err)
	}
	m.log.Info("logged in", "account_id", acc.ID)
	return acc, nil
}

// Signup creates an account for a new email and logs it in.
func (m *Manager) Signup(ctx context.Context, req model.SignupRequest) (model.Account, error) {
	if err := validation.Struct(req); err != nil {
		return model.Account{}, err
	}
	m.begin()

	exists, err := m.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.Account{}, m.fail(MsgSignupFailed, err)
	}
	if exists {
		return model.Account{}, m.fail(MsgDuplicateAccount, ErrDuplicateAccount)
	}

	acc, err := m.accounts.Create(ctx, req)
	if err != nil {
		return model.Account{}, m.fail(signupMessage(err), err)
	}
	if err := m.establish(acc); err != nil {
		return model.Account{}, m.fail(MsgSignupFailed, err)
	}
	m.log.Info("signed up", "account_id", acc.ID)
	return acc, nil
}

// Restore resumes a persisted session. With nothing persisted it is a no-op.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.tokens.Load()
	if err != nil {
		return m.expire(fmt.Errorf("failed to load token: %w", err))
	}
	if token == "" {
		return nil
	}

	claims, err := m.codec.ValidateToken(token)
	if err != nil {
		return m.expire(err)
	}
	m.begin()
	acc, err := m.accounts.Get(ctx, claims.AccountID)
	if err != nil {
		return m.expire(err)
	}

	m.set(State{Status: StatusAuthenticated, Account: &acc, Token: token})
	m.log.Debug("session restored", "account_id", acc.ID)
	return nil
}

// Logout drops the session locally. It always succeeds.
func (m *Manager) Logout() {
	if err := m.tokens.Clear(); err != nil {
		m.log.Warn("failed to clear persisted token", "error", err)
	}
	m.set(State{Status: StatusAnonymous})
}

// ClearError drops the message without changing the status.
func (m *Manager) ClearError() {
	m.update(func(s *State) { s.Message = "" })
}

func (m *Manager) begin() {
	m.update(func(s *State) {
		s.Status = StatusAuthenticating
		s.Message = ""
	})
}

func (m *Manager) establish(acc model.Account) error {
	token, err := m.codec.GenerateToken(acc.ID, acc.Email)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	if err := m.tokens.Save(token); err != nil {
		m.log.Warn("failed to persist token", "error", err)
	}
	m.set(State{Status: StatusAuthenticated, Account: &acc, Token: token})
	return nil
}

func (m *Manager) fail(msg string, err error) error {
	m.log.Debug("authentication failed", "message", msg, "error", err)
	m.set(State{Status: StatusError, Message: msg})
	return err
}

func (m *Manager) expire(cause error) error {
	m.log.Info("discarding persisted session", "error", cause)
	if err := m.tokens.Clear(); err != nil {
		m.log.Warn("failed to clear persisted token", "error", err)
	}
	m.set(State{Status: StatusAnonymous, Message: MsgSessionExpired})
	return restoreError(cause)
}

func (m *Manager) set(next State) {
	m.update(func(s *State) { *s = next })
}

func (m *Manager) update(fn func(*State)) {
	m.mu.Lock()
	fn(&m.state)
	snapshot := m.state.clone()
	subs := make([]func(State), 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	m.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}
