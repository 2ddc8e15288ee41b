package service

import (
	"sync"
	"testing"
	"time"

	"math_arena_backend/internal/config"
	"math_arena_backend/internal/model"
	"math_arena_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
	seq   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		f.seq++
		user.ID = string(rune('a' + f.seq))
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) FindByID(id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByConfirmToken(token string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ConfirmToken != "" && u.ConfirmToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) Confirm(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Confirmed = true
	u.ConfirmToken = ""
	return nil
}

func (f *fakeUserStore) TouchLastLogin(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLogin = time.Now()
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	urls []string
	done chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{done: make(chan struct{}, 8)}
}

func (f *fakeMailer) SendConfirmation(email, confirmURL string) error {
	f.mu.Lock()
	f.sent = append(f.sent, email)
	f.urls = append(f.urls, confirmURL)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeMailer) waitForMail(t *testing.T) (string, string) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(time.Second):
		t.Fatal("no confirmation mail sent")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1], f.urls[len(f.urls)-1]
}

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeMailer) {
	store := newFakeUserStore()
	mailer := newFakeMailer()
	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.JWT.Secret = "unit-test-secret-key-of-sufficient-len"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(store, mailer, cfg), store, mailer
}

func TestRegisterCreatesUnconfirmedAccount(t *testing.T) {
	svc, store, mailer := newAuthFixture()

	user, err := svc.Register("ada", "ada@example.com", "correct horse battery")
	require.NoError(t, err)

	assert.False(t, user.Confirmed)
	assert.NotEmpty(t, user.ConfirmToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct horse battery")),
		"the stored password must be a bcrypt hash of the original")

	email, confirmURL := mailer.waitForMail(t)
	assert.Equal(t, "ada@example.com", email)
	assert.Equal(t, "http://localhost:8080/api/confirm?token="+user.ConfirmToken, confirmURL)

	stored, err := store.FindByEmail("ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, mailer := newAuthFixture()

	_, err := svc.Register("ada", "ada@example.com", "first password")
	require.NoError(t, err)
	mailer.waitForMail(t)

	_, err = svc.Register("impostor", "ada@example.com", "other password")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestConfirmBurnsToken(t *testing.T) {
	svc, store, mailer := newAuthFixture()

	user, err := svc.Register("ada", "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	mailer.waitForMail(t)

	require.NoError(t, svc.Confirm(user.ConfirmToken))

	confirmed, err := store.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, confirmed.Confirmed)
	assert.Empty(t, confirmed.ConfirmToken)

	// The token is single use.
	assert.ErrorIs(t, svc.Confirm(user.ConfirmToken), util.ErrInvalidToken)
}

func TestConfirmRejectsBadToken(t *testing.T) {
	svc, _, _ := newAuthFixture()
	assert.ErrorIs(t, svc.Confirm(""), util.ErrInvalidToken)
	assert.ErrorIs(t, svc.Confirm("no-such-token"), util.ErrInvalidToken)
}

func TestLoginIssuesTokenForConfirmedAccount(t *testing.T) {
	svc, _, mailer := newAuthFixture()

	user, err := svc.Register("ada", "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	mailer.waitForMail(t)
	require.NoError(t, svc.Confirm(user.ConfirmToken))

	token, err := svc.Login("ada@example.com", "correct horse battery")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "ada", claims.Username)
}

func TestLoginFailures(t *testing.T) {
	svc, _, mailer := newAuthFixture()

	user, err := svc.Register("ada", "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	mailer.waitForMail(t)

	// Unconfirmed accounts cannot log in even with the right password.
	_, err = svc.Login("ada@example.com", "correct horse battery")
	assert.ErrorIs(t, err, util.ErrAccountUnconfirmed)

	require.NoError(t, svc.Confirm(user.ConfirmToken))

	_, err = svc.Login("ada@example.com", "wrong password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "correct horse battery")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
