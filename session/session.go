// Package session holds the operator's sign-in state and notifies
// subscribers whenever it changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"invoicepro/models"
	"invoicepro/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotSignedIn        = errors.New("not signed in")
)

// State is a snapshot of the session. User never carries the password hash.
type State struct {
	Ready     bool            `json:"ready"`
	SignedIn  bool            `json:"signed_in"`
	User      *models.AppUser `json:"user,omitempty"`
	Token     string          `json:"-"`
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
}

type Listener func(State)

type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager is the single operator session. Components that depend on
// sign-in receive it explicitly and subscribe to its changes.
type Manager struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     State
	tokenID   string
	listeners map[int]Listener
	nextID    int
}

func NewManager(users repository.UserRepository, secret string, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		users:     users,
		secret:    []byte(secret),
		ttl:       ttl,
		logger:    logger.With("component", "session"),
		now:       time.Now,
		state:     State{Ready: true},
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and calls it right away with the current state.
// The returned function removes the subscription.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	st := m.state
	m.mu.Unlock()

	l(st)
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// setState swaps the state and notifies listeners outside the lock.
func (m *Manager) setState(st State, tokenID string) {
	m.mu.Lock()
	m.state = st
	m.tokenID = tokenID
	ls := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		ls = append(ls, l)
	}
	m.mu.Unlock()

	for _, l := range ls {
		l(st)
	}
}

// SignUp creates an operator account. The password is stored as a bcrypt hash.
func (m *Manager) SignUp(ctx context.Context, name, email, password string) (*models.AppUser, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.AppUser{
		Name:     name,
		Email:    strings.TrimSpace(email),
		Role:     "operator",
		Password: string(hashed),
	}
	if err := m.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	user.Password = ""
	m.logger.Info("account created", "email", user.Email)
	return user, nil
}

// SignIn checks the credentials and starts a new session, replacing any
// previous one.
func (m *Manager) SignIn(ctx context.Context, email, password string) (State, error) {
	user, err := m.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return State{}, fmt.Errorf("look up user: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return State{}, ErrInvalidCredentials
	}
	user.Password = ""

	now := m.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "invoicepro",
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return State{}, fmt.Errorf("failed to sign token: %w", err)
	}

	st := State{Ready: true, SignedIn: true, User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}
	m.setState(st, claims.ID)
	m.logger.Info("signed in", "email", user.Email)
	return st, nil
}

func (m *Manager) SignOut() {
	if !m.Current().SignedIn {
		return
	}
	m.setState(State{Ready: true}, "")
	m.logger.Info("signed out")
}

// Verify accepts only the bearer token of the current session. An expired
// token ends the session.
func (m *Manager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		m.mu.Lock()
		current := m.tokenID == claims.ID
		m.mu.Unlock()
		if current {
			m.SignOut()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSignedIn, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.SignedIn || claims.ID != m.tokenID {
		return nil, ErrNotSignedIn
	}
	return claims, nil
}
