package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/pkg/helpers"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

func TestRegister_NormalizesAndHashes(t *testing.T) {
	f := newFixture(t)
	u, err := f.auth.Register(context.Background(), RegisterInput{Email: "  Alice@Example.COM ", Password: "password123", Name: " Alice "})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.NotEqual(t, "password123", u.PasswordHash)

	job := f.notifier.last()
	assert.Equal(t, mailtpl.Welcome, job.Template)
	assert.Equal(t, "alice@example.com", job.To)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "short"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")
	assert.Contains(t, ve.Fields, "name")
	assert.Zero(t, f.notifier.count())
}

func TestRegister_MultibytePasswordOverBcryptLimit(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "kanji@example.com", Password: strings.Repeat("密", 30), Name: "Kanji"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")
	assert.Equal(t, KindValidation, MapError(err).Kind)

	_, err = f.auth.Register(context.Background(), RegisterInput{Email: "kanji@example.com", Password: strings.Repeat("密", 24), Name: "Kanji"})
	assert.NoError(t, err)
}

func TestRegister_DuplicateIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "bob@example.com")
	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "BOB@example.com", Password: "password123", Name: "Bob"})
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t)
	const n = 5
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.auth.Register(context.Background(), RegisterInput{Email: "race@example.com", Password: "password123", Name: "Race"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				oks++
			case errors.Is(err, ErrDuplicateIdentifier):
				dups++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, oks)
	assert.Equal(t, n-1, dups)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "carol@example.com")
	ctx := context.Background()

	tok, err := f.auth.Authenticate(ctx, "Carol@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	got, err := f.auth.VerifyToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.auth.Authenticate(ctx, "carol@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueToken_Failures(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.IssueToken(context.Background(), nil)
	assert.ErrorIs(t, err, ErrTokenIssuance)

	u := f.register(t, "dan@example.com")
	f.auth.JWT = helpers.NewJWTManager("", testIssuer, time.Hour)
	_, err = f.auth.IssueToken(context.Background(), u)
	assert.ErrorIs(t, err, ErrTokenIssuance)
}

func TestVerifyToken_Failures(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "erin@example.com")
	ctx := context.Background()

	_, err := f.auth.VerifyToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	past := time.Now().Add(-2 * time.Hour)
	old := f.jwt.WithClock(func() time.Time { return past })
	expired, _, err := old.GenerateAccessToken(u.ID)
	require.NoError(t, err)
	_, err = f.auth.VerifyToken(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyToken_UsesCacheAndForgetsDeletedPrincipal(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "frank@example.com")
	ctx := context.Background()
	tok, err := f.auth.IssueToken(ctx, u)
	require.NoError(t, err)

	_, err = f.auth.VerifyToken(ctx, tok.Token)
	require.NoError(t, err)
	_, err = f.auth.VerifyToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)

	require.NoError(t, f.users.DeleteAccount(ctx, u.ID))
	assert.Contains(t, f.cache.invalidated, u.ID)

	_, err = f.auth.VerifyToken(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
	assert.Equal(t, KindTokenInvalid, MapError(err).Kind)
}
