package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinebook/internal/store"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(store.NewMemory())

	u, err := d.Register(ctx, "alice@example.com", "secret", "Alice")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = d.Register(ctx, "alice@example.com", "different", "Alice Again")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// matching is exact, so a different case is a different account
	_, err = d.Register(ctx, "Alice@example.com", "secret", "Alice")
	assert.NoError(t, err)
}

func TestRegister_RequiresFields(t *testing.T) {
	d := NewDirectory(store.NewMemory())
	_, err := d.Register(context.Background(), "", "pw", "Bob")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = d.Register(context.Background(), "bob@example.com", "", "Bob")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = d.Register(context.Background(), "bob@example.com", "pw", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_IdentifiersNeverReused(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(store.NewMemory(), WithClock(fixedClock(time.UnixMilli(5000))))

	a, err := d.Register(ctx, "a@example.com", "pw", "A")
	require.NoError(t, err)
	b, err := d.Register(ctx, "b@example.com", "pw", "B")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), a.ID)
	assert.Equal(t, int64(5001), b.ID)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(store.NewMemory())
	want, err := d.Register(ctx, "alice@example.com", "secret", "Alice")
	require.NoError(t, err)

	got, err := d.Authenticate(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = d.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = d.Authenticate(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(store.NewMemory())

	_, err := d.Session(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	u, err := d.Register(ctx, "alice@example.com", "secret", "Alice")
	require.NoError(t, err)
	_, err = d.Session(ctx)
	assert.ErrorIs(t, err, ErrNoSession, "register alone does not sign in")

	_, err = d.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	cur, err := d.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, cur)

	require.NoError(t, d.Logout(ctx))
	_, err = d.Session(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, d.Logout(ctx))
}

func TestSignUpStartsSession(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(store.NewMemory())

	u, err := d.SignUp(ctx, "bob@example.com", "pw", "Bob")
	require.NoError(t, err)
	cur, err := d.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)

	_, err = d.Login(ctx, "bob@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	cur, err = d.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID, "failed login keeps the session")
}

func TestCityPreference(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	p := NewCityPreference(s)

	city, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, city)

	var seen []string
	unsubscribe := p.Subscribe(func(c string) { seen = append(seen, c) })

	require.NoError(t, p.Set(ctx, "Pune"))
	city, err = NewCityPreference(s).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pune", city)

	require.NoError(t, p.Clear(ctx))
	city, err = p.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, city)

	unsubscribe()
	unsubscribe()
	require.NoError(t, p.Set(ctx, "Delhi"))
	assert.Equal(t, []string{"Pune", ""}, seen)
}
