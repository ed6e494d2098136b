package auth

import (
	"context"
	"errors"
	"incordes-client/internal/gateway"
	"incordes-client/internal/jwt"
	"incordes-client/internal/metrics"
	"incordes-client/internal/models"
	"incordes-client/internal/session"
	"sync"
	"time"

	"go.uber.org/zap"
)

type State int

const (
	StateRehydrating State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateRehydrating:
		return "rehydrating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

const (
	NetworkError           = "Network error. Please try again."
	InvalidResponseError   = "Invalid response from server"
	loginFailed            = "Login failed"
	registrationFailed     = "Registration failed"
	loginUnexpected        = "An error occurred during login"
	registrationUnexpected = "An error occurred during registration"
)

var ErrNotAuthenticated = errors.New("no user is logged in")

type Gateway interface {
	Login(ctx context.Context, email string, password string) (gateway.AuthResponse, error)
	Register(ctx context.Context, email string, password string, username string) (gateway.AuthResponse, error)
	UpdateProfile(ctx context.Context, update gateway.ProfileUpdate) (models.User, error)
}

// Result is what login and register hand back to the form. Error is always
// a user-facing sentence.
type Result struct {
	Success bool
	Error   string
	User    *models.User
}

// Pending holds the request-scoped flags of the operations in flight.
type Pending struct {
	LoggingIn   bool
	Registering bool
	Saving      bool
}

// Observer is told about every transition with the new current user, nil
// once nobody is logged in.
type Observer func(ctx context.Context, user *models.User)

type Machine struct {
	mutex       sync.RWMutex
	repo        session.Repository
	gateway     Gateway
	sugar       *zap.SugaredLogger
	metrics     *metrics.Metrics
	now         func() time.Time
	rehydrate   sync.Once
	rehydrating bool
	token       string
	user        *models.User
	pending     Pending
	observers   []Observer
}

func NewMachine(repo session.Repository, gw Gateway, sugar *zap.SugaredLogger, m *metrics.Metrics) *Machine {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Machine{
		repo:        repo,
		gateway:     gw,
		sugar:       sugar,
		metrics:     m,
		now:         time.Now,
		rehydrating: true,
	}
}

func (m *Machine) Observe(fn Observer) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.observers = append(m.observers, fn)
}

func (m *Machine) notify(ctx context.Context) {
	m.mutex.RLock()
	observers := append([]Observer(nil), m.observers...)
	user := m.currentUserLocked()
	m.mutex.RUnlock()

	m.metrics.AuthTransitions.WithLabelValues(m.State().String()).Inc()

	for _, fn := range observers {
		fn(ctx, user)
	}
}

// Rehydrate restores the stored session. Only the first call does anything.
func (m *Machine) Rehydrate(ctx context.Context) {
	m.rehydrate.Do(func() {
		m.mutex.Lock()

		s, err := m.repo.Load(ctx)
		switch {
		case err == nil && jwt.Expired(s.Token, m.now()):
			m.sugar.Infof("Stored session of user ID [%s] has expired, discarding it", s.User.ID)
			if clearErr := m.repo.Clear(ctx); clearErr != nil {
				m.sugar.Error(clearErr)
			}
		case err == nil:
			m.token = s.Token
			user := s.User
			m.user = &user
			m.sugar.Debugf("Rehydrated session of user ID [%s]", user.ID)
		case errors.Is(err, session.ErrNoSession):
			m.sugar.Debug("No stored session")
		case errors.Is(err, session.ErrCorrupt):
			m.sugar.Warnf("Discarding stored session: %v", err)
			if clearErr := m.repo.Clear(ctx); clearErr != nil {
				m.sugar.Error(clearErr)
			}
		default:
			m.sugar.Error(err)
		}

		m.rehydrating = false
		m.mutex.Unlock()

		m.notify(ctx)
	})
}

func (m *Machine) State() State {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	switch {
	case m.rehydrating:
		return StateRehydrating
	case m.user != nil:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

func (m *Machine) IsRehydrating() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.rehydrating
}

// Token implements gateway.TokenSource.
func (m *Machine) Token() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.token
}

func (m *Machine) CurrentUser() *models.User {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.currentUserLocked()
}

func (m *Machine) currentUserLocked() *models.User {
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

func (m *Machine) Pending() Pending {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.pending
}

func (m *Machine) setPending(flag *bool, value bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	*flag = value
}

func (m *Machine) Login(ctx context.Context, email string, password string) Result {
	m.setPending(&m.pending.LoggingIn, true)
	defer m.setPending(&m.pending.LoggingIn, false)

	resp, err := m.gateway.Login(ctx, email, password)
	if err != nil {
		m.sugar.Errorf("Login error: %v", err)
		return Result{Error: NetworkError}
	}

	return m.complete(ctx, resp, loginFailed, loginUnexpected)
}

func (m *Machine) Register(ctx context.Context, email string, password string, username string) Result {
	m.setPending(&m.pending.Registering, true)
	defer m.setPending(&m.pending.Registering, false)

	resp, err := m.gateway.Register(ctx, email, password, username)
	if err != nil {
		m.sugar.Errorf("Register error: %v", err)
		return Result{Error: NetworkError}
	}

	return m.complete(ctx, resp, registrationFailed, registrationUnexpected)
}

// complete turns a login or register response into a transition. State is
// only touched when the body carries both a token and a user.
func (m *Machine) complete(ctx context.Context, resp gateway.AuthResponse, fallback string, unexpected string) Result {
	if resp.Error != "" {
		return Result{Error: resp.Error}
	}

	if resp.Token == "" || resp.User == nil {
		switch {
		case resp.Message != "":
			return Result{Error: resp.Message}
		case resp.Status >= 200 && resp.Status <= 299:
			return Result{Error: InvalidResponseError}
		default:
			return Result{Error: fallback}
		}
	}

	user := *resp.User

	m.mutex.Lock()
	err := m.repo.Save(ctx, session.Session{Token: resp.Token, User: user})
	if err != nil {
		m.mutex.Unlock()
		m.sugar.Errorf("Failed to store session: %v", err)
		return Result{Error: unexpected}
	}
	m.token = resp.Token
	m.user = &user
	m.mutex.Unlock()

	m.sugar.Infof("User ID [%s] logged in", user.ID)
	m.notify(ctx)

	return Result{Success: true, User: &user}
}

// Logout forgets the session. It is safe to call when nobody is logged in.
// When the stored entries cannot be removed the session stays in place so a
// restart does not bring back a user that looked logged out.
func (m *Machine) Logout(ctx context.Context) error {
	m.mutex.Lock()
	if err := m.repo.Clear(ctx); err != nil {
		m.mutex.Unlock()
		m.sugar.Errorf("Failed to clear stored session: %v", err)
		return err
	}
	wasLoggedIn := m.user != nil
	m.token = ""
	m.user = nil
	m.mutex.Unlock()

	if wasLoggedIn {
		m.notify(ctx)
	}
	return nil
}

// UpdateUser replaces the current user record, leaving the token alone.
func (m *Machine) UpdateUser(ctx context.Context, user models.User) error {
	m.mutex.Lock()

	if m.token == "" {
		m.mutex.Unlock()
		return ErrNotAuthenticated
	}

	if err := m.repo.SaveUser(ctx, user); err != nil {
		m.mutex.Unlock()
		return err
	}
	m.user = &user
	m.mutex.Unlock()

	m.notify(ctx)
	return nil
}

// SaveProfile sends the settings form to the gateway and adopts the user
// record it answers with.
func (m *Machine) SaveProfile(ctx context.Context, update gateway.ProfileUpdate) (models.User, error) {
	if m.Token() == "" {
		return models.User{}, ErrNotAuthenticated
	}

	m.setPending(&m.pending.Saving, true)
	defer m.setPending(&m.pending.Saving, false)

	user, err := m.gateway.UpdateProfile(ctx, update)
	if err != nil {
		return models.User{}, err
	}

	if err := m.UpdateUser(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
