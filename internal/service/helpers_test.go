package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LeeCh0129/greenie-backend/internal/cache"
	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
	"github.com/LeeCh0129/greenie-backend/internal/worker"
)

const (
	testAccessSecret  = "access-secret-0123456789abcdefghijkl"
	testRefreshSecret = "refresh-secret-0123456789abcdefghijk"
	testPassword      = "SecurePass123"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeQueue records mail instead of delivering it
type fakeQueue struct {
	mu    sync.Mutex
	tasks []worker.EmailTask
}

func (q *fakeQueue) Enqueue(task worker.EmailTask) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

func (q *fakeQueue) Sent() []worker.EmailTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]worker.EmailTask(nil), q.tasks...)
}

type testEnv struct {
	db       *gorm.DB
	clock    *fakeClock
	mails    *fakeQueue
	accounts *repository.AccountRepository
	hasher   *utils.PasswordHasher
	tokens   *TokenService
	otp      *OTPService
	auth     *AuthService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := utils.InitDB(context.Background(), utils.DBOptions{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, domain.AutoMigrate(db))

	t.Cleanup(func() { _ = utils.CloseDB(db) })
	return db
}

func newTestEnv(t *testing.T, throttle cache.OTPThrottle) *testEnv {
	t.Helper()

	db := newTestDB(t)
	clock := newFakeClock()
	mails := &fakeQueue{}

	hasher, err := utils.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	validator := utils.NewValidator()

	accounts := repository.NewAccountRepository(db)
	tokens := NewTokenService(accounts, repository.NewRefreshTokenRepository(db), hasher, TokenServiceConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     time.Hour,
		RefreshTTL:    30 * 24 * time.Hour,
		Now:           clock.Now,
	})
	otp := NewOTPService(accounts, throttle, mails, validator, OTPServiceConfig{Now: clock.Now})
	auth := NewAuthService(accounts, tokens, otp, hasher, validator, AuthServiceConfig{
		RotateBelow: 14 * 24 * time.Hour,
		Now:         clock.Now,
	})

	return &testEnv{
		db:       db,
		clock:    clock,
		mails:    mails,
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		otp:      otp,
		auth:     auth,
	}
}

// register creates an account through the auth service
func (e *testEnv) register(t *testing.T, email, nickname string) int64 {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: testPassword,
		Nickname: nickname,
	})
	require.NoError(t, err)
	return resp.AccountID
}

// registerVerified creates an account and verifies its email
func (e *testEnv) registerVerified(t *testing.T, email, nickname string) int64 {
	t.Helper()

	id := e.register(t, email, nickname)
	require.NoError(t, e.accounts.MarkEmailVerified(context.Background(), email))
	return id
}

// pendingOTP reads the code currently stored for email
func (e *testEnv) pendingOTP(t *testing.T, email string) string {
	t.Helper()

	account, err := e.accounts.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, account.OTP)
	return *account.OTP
}

func bearer(token string) string {
	return "Bearer " + token
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
