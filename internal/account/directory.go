// Package account owns the user records, the single persisted session
// pointer and the selected city preference.
//
// Passwords are stored and compared as given.  There is exactly one
// session per store; signing in replaces it.
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/store"
)

var (
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no user signed in")
	ErrInvalidInput       = errors.New("name, email and password are required")
)

// Directory registers and authenticates users and manages the session.
type Directory struct {
	users *repository.UserRepo
	now   func() time.Time
	log   *slog.Logger

	mu sync.Mutex
}

// Option customises a Directory.
type Option func(*Directory)

// WithClock replaces time.Now for identifier assignment.
func WithClock(now func() time.Time) Option { return func(d *Directory) { d.now = now } }

func WithLogger(l *slog.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}

func NewDirectory(s *store.Store, opts ...Option) *Directory {
	d := &Directory{users: repository.NewUserRepo(s), now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Register stores a new user.  Email comparison is exact and case
// sensitive.  The returned user carries a fresh identifier that is never
// reused.
func (d *Directory) Register(ctx context.Context, email, password, name string) (model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(name) == "" {
		return model.User{}, ErrInvalidInput
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.users.ListAll(ctx)
	if err != nil {
		return model.User{}, err
	}
	var last int64
	for _, u := range users {
		if u.Email == email {
			return model.User{}, ErrDuplicateEmail
		}
		last = max(last, u.ID)
	}
	u := model.User{
		ID:       max(d.now().UnixMilli(), last+1),
		Name:     name,
		Email:    email,
		Password: password,
	}
	if err := d.users.Replace(ctx, append(users, u)); err != nil {
		return model.User{}, err
	}
	d.log.Info("account: user registered", "user_id", u.ID)
	return u, nil
}

// SignUp registers the user and signs them in.
func (d *Directory) SignUp(ctx context.Context, email, password, name string) (model.User, error) {
	u, err := d.Register(ctx, email, password, name)
	if err != nil {
		return model.User{}, err
	}
	if err := d.SetSession(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Authenticate returns the user whose email and password both match
// exactly.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	users, err := d.users.ListAll(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return model.User{}, ErrInvalidCredentials
}

// Login authenticates and replaces the session with the matching user.
func (d *Directory) Login(ctx context.Context, email, password string) (model.User, error) {
	u, err := d.Authenticate(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	if err := d.SetSession(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Logout clears the session.  Logging out without a session is not an
// error.
func (d *Directory) Logout(ctx context.Context) error { return d.ClearSession(ctx) }

func (d *Directory) SetSession(ctx context.Context, u model.User) error {
	return d.users.SetCurrent(ctx, u)
}

// Session returns the signed in user or ErrNoSession.
func (d *Directory) Session(ctx context.Context) (model.User, error) {
	u, ok, err := d.users.Current(ctx)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, ErrNoSession
	}
	return u, nil
}

func (d *Directory) ClearSession(ctx context.Context) error {
	return d.users.ClearCurrent(ctx)
}
