package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeCh0129/greenie-backend/internal/cache"
	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/repository/mocks"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

func TestOTPService_EmailRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.register(t, "a@example.com", "alpha")

	require.NoError(t, env.otp.Issue(ctx, "a@example.com", domain.OTPPurposeEmail))
	code := env.pendingOTP(t, "a@example.com")
	assert.Len(t, code, 9)
	assert.Equal(t, "E", code[:1])

	sent := env.mails.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.com", sent[0].Recipient)
	assert.True(t, containsAll(sent[0].Body, code, "5 minutes"))

	_, err := env.otp.Verify(ctx, "a@example.com", "E00000000", domain.OTPPurposeEmail)
	assert.True(t, domain.IsInvalidOTP(err), "wrong code, got %v", err)

	email, err := env.otp.Verify(ctx, "a@example.com", code, domain.OTPPurposeEmail)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", email)

	account, err := env.accounts.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, account.EmailVerified)

	_, err = env.otp.Verify(ctx, "a@example.com", code, domain.OTPPurposeEmail)
	assert.True(t, domain.IsInvalidOTP(err), "replay must fail, got %v", err)
}

func TestOTPService_Windows(t *testing.T) {
	tests := []struct {
		name    string
		purpose domain.OTPPurpose
		elapsed time.Duration
		valid   bool
	}{
		{name: "email at 4 minutes", purpose: domain.OTPPurposeEmail, elapsed: 4 * time.Minute, valid: true},
		{name: "email at exactly 5 minutes", purpose: domain.OTPPurposeEmail, elapsed: 5 * time.Minute, valid: true},
		{name: "email at 6 minutes", purpose: domain.OTPPurposeEmail, elapsed: 6 * time.Minute, valid: false},
		{name: "change password at 6 minutes", purpose: domain.OTPPurposeChangePassword, elapsed: 6 * time.Minute, valid: true},
		{name: "change password at 11 minutes", purpose: domain.OTPPurposeChangePassword, elapsed: 11 * time.Minute, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			ctx := context.Background()
			env.register(t, "a@example.com", "alpha")

			require.NoError(t, env.otp.Issue(ctx, "a@example.com", tt.purpose))
			code := env.pendingOTP(t, "a@example.com")

			env.clock.Advance(tt.elapsed)
			_, err := env.otp.Verify(ctx, "a@example.com", code, tt.purpose)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, domain.IsInvalidOTP(err), "got %v", err)
		})
	}
}

func TestOTPService_ChangePasswordCodeDoesNotVerifyEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.register(t, "a@example.com", "alpha")

	require.NoError(t, env.otp.Issue(ctx, "a@example.com", domain.OTPPurposeChangePassword))
	code := env.pendingOTP(t, "a@example.com")

	_, err := env.otp.Verify(ctx, "a@example.com", code, domain.OTPPurposeEmail)
	assert.True(t, domain.IsInvalidOTP(err), "got %v", err)

	_, err = env.otp.Verify(ctx, "a@example.com", code, domain.OTPPurposeChangePassword)
	require.NoError(t, err)

	account, err := env.accounts.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, account.EmailVerified)
}

func TestOTPService_ReissueReplacesPendingCode(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.register(t, "a@example.com", "alpha")

	require.NoError(t, env.otp.Issue(ctx, "a@example.com", domain.OTPPurposeEmail))
	first := env.pendingOTP(t, "a@example.com")

	require.NoError(t, env.otp.Issue(ctx, "a@example.com", domain.OTPPurposeEmail))
	second := env.pendingOTP(t, "a@example.com")
	if first == second {
		t.Skip("random codes collided")
	}

	_, err := env.otp.Verify(ctx, "a@example.com", first, domain.OTPPurposeEmail)
	assert.True(t, domain.IsInvalidOTP(err), "got %v", err)

	_, err = env.otp.Verify(ctx, "a@example.com", second, domain.OTPPurposeEmail)
	assert.NoError(t, err)
}

func TestOTPService_UnknownAccount(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	assert.True(t, domain.IsNotFound(env.otp.Issue(ctx, "nobody@example.com", domain.OTPPurposeEmail)))

	_, err := env.otp.Verify(ctx, "nobody@example.com", "E00000000", domain.OTPPurposeEmail)
	assert.True(t, domain.IsNotFound(err))

	assert.Empty(t, env.mails.Sent())
}

func TestOTPService_Throttle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := newTestEnv(t, cache.NewRedisOTPThrottle(client, time.Minute))
	ctx := context.Background()
	env.register(t, "a@example.com", "alpha")

	require.NoError(t, env.otp.Issue(ctx, "a@example.com", domain.OTPPurposeEmail))

	err := env.otp.Issue(ctx, "a@example.com", domain.OTPPurposeEmail)
	assert.True(t, domain.IsRateLimited(err), "got %v", err)
	assert.Len(t, env.mails.Sent(), 1)

	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, env.otp.Issue(ctx, "a@example.com", domain.OTPPurposeEmail))
	assert.Len(t, env.mails.Sent(), 2)
}

func TestOTPService_ThrottleReleasedWhenStoreFails(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storeErr := &domain.InternalError{Message: "failed to store otp", Err: errors.New("connection reset")}
	failStore := true
	repo := &mocks.MockAccountRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.Account, error) {
			return &domain.Account{ID: 7, Email: email}, nil
		},
		SetOTPFunc: func(ctx context.Context, accountID int64, code string, issuedAt time.Time) error {
			if failStore {
				return storeErr
			}
			return nil
		},
	}
	mails := &fakeQueue{}
	otp := NewOTPService(repo, cache.NewRedisOTPThrottle(client, time.Minute), mails, utils.NewValidator(), OTPServiceConfig{})
	ctx := context.Background()

	err := otp.Issue(ctx, "a@example.com", domain.OTPPurposeEmail)
	assert.True(t, domain.IsInternal(err), "got %v", err)
	assert.Empty(t, mails.Sent())
	assert.Empty(t, mr.Keys(), "cooldown must not outlive a failed issue")

	failStore = false
	require.NoError(t, otp.Issue(ctx, "a@example.com", domain.OTPPurposeEmail))
	assert.Len(t, mails.Sent(), 1)
	assert.Len(t, mr.Keys(), 1)
}
